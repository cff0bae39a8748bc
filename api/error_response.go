package api

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

type ErrorField struct {
	FieldName    string `json:"field"`
	ErrorMessage string `json:"message"`
}

type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []ErrorField `json:"fields,omitempty"`
}

func NewErrorResponse(err error, fields ...ErrorField) ErrorResponse {
	return ErrorResponse{Error: err.Error(), Fields: fields}
}

// ExtractErrorFields turns the validation errors of the request binding into the
// per-field messages. Any other error gives no fields.
func ExtractErrorFields(err error) []ErrorField {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	fields := make([]ErrorField, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, ErrorField{
			FieldName:    fe.Field(),
			ErrorMessage: validationMessage(fe),
		})
	}

	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "value is too short"
	case "max":
		return "value is too long"
	case "oneof":
		return "must be one of the allowed values"
	default:
		return "invalid value"
	}
}

func extractErrorFromBuffer(buf *bytes.Buffer) (*ErrorResponse, error) {
	var resp ErrorResponse
	if err := json.NewDecoder(buf).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
