// Package resource loads the external resources referenced by markup tags,
// like fonts for [font] and textures for [img].
//
// The parser never fails because of a missing resource: a failed load leaves the
// item with an empty [Handle].
package resource

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"strings"
)

// Type is the kind of the resource expected by the caller.
type Type int

const (
	TypeFont Type = iota
	TypeTexture
)

func (t Type) String() string {
	switch t {
	case TypeFont:
		return "font"
	case TypeTexture:
		return "texture"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ErrNotFound is returned when the resource does not exist.
var ErrNotFound = errors.New("resource not found")

// ResourcePrefix is the scheme markup authors may put in front of resource paths.
const ResourcePrefix = "res://"

// Handle is a reference to a loaded resource. The zero Handle is the placeholder
// used when a load fails.
type Handle struct {
	Path string `json:"path,omitempty"`
	Type Type   `json:"type"`

	// Size is the byte size of the resource.
	Size int `json:"size,omitempty"`

	// Width and Height are set for textures only.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// IsEmpty reports whether the Handle is a placeholder.
func (h Handle) IsEmpty() bool {
	return h.Path == ""
}

// Loader loads a resource by its path.
type Loader interface {
	Load(path string, typ Type) (Handle, error)
}

// LoaderFunc is an adapter to allow the use of ordinary functions as a [Loader].
type LoaderFunc func(path string, typ Type) (Handle, error)

func (f LoaderFunc) Load(path string, typ Type) (Handle, error) {
	return f(path, typ)
}

// FSLoader loads resources from a file system.
type FSLoader struct {
	fsys fs.FS
}

// NewFSLoader creates a [FSLoader] reading from fsys.
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

// NewDirLoader creates a [FSLoader] rooted at the directory dir.
func NewDirLoader(dir string) *FSLoader {
	return NewFSLoader(os.DirFS(dir))
}

// Load reads the resource at p. Textures are decoded far enough to know their dimensions.
func (l *FSLoader) Load(p string, typ Type) (Handle, error) {
	name, ok := cleanPath(p)
	if !ok {
		return Handle{}, fmt.Errorf("%w: invalid path %q", ErrNotFound, p)
	}

	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Handle{}, fmt.Errorf("%w: %s %q", ErrNotFound, typ, p)
		}
		return Handle{}, fmt.Errorf("failed to read %s %q: %w", typ, p, err)
	}

	h := Handle{
		Path: p,
		Type: typ,
		Size: len(data),
	}

	if typ == TypeTexture {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return Handle{}, fmt.Errorf("failed to decode texture %q: %w", p, err)
		}
		h.Width = cfg.Width
		h.Height = cfg.Height
	}

	return h, nil
}

// cleanPath turns a markup resource path into a valid [fs.FS] name.
func cleanPath(p string) (string, bool) {
	p = strings.TrimSpace(p)
	p = strings.TrimPrefix(p, ResourcePrefix)
	p = strings.TrimPrefix(p, "/")

	if p == "" {
		return "", false
	}

	name := path.Clean(p)
	return name, fs.ValidPath(name)
}
