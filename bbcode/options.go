package bbcode

// Option is a single "key=value" pair of an opening tag, like `width=32` in "[img width=32]".
// Flag options, written without "=", have an empty Value.
type Option struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Options keeps the tag options in the order they were written.
type Options []Option

// Get returns the value of the first option with the key.
func (o Options) Get(key string) (string, bool) {
	for _, opt := range o {
		if opt.Key == key {
			return opt.Value, true
		}
	}
	return "", false
}

// GetOr returns the value of the option or fallback if the option is absent.
func (o Options) GetOr(key, fallback string) string {
	if v, ok := o.Get(key); ok {
		return v
	}
	return fallback
}

// Has reports whether the option is present.
func (o Options) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

func (o Options) clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	copy(out, o)
	return out
}
