// Package storage is the file storage service behind document load and
// save: plain text in, plain text out, addressed by path.
package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("tabpad.storage")

// ErrNotFound reports that nothing exists at the requested path.
var ErrNotFound = errors.New("not found")

// Store reads and writes whole text files.
type Store interface {
	// Resolve returns the canonical form of path, used to recognise a file
	// that is already open.
	Resolve(path string) (string, error)
	Read(ctx context.Context, path string) (string, error)
	Write(ctx context.Context, path, content string) error
}

// Router sends s3:// paths to an object store and everything else to the
// local filesystem.
type Router struct {
	Local  Store
	Object Store // nil disables s3:// paths
}

// IsObjectPath reports whether path addresses the object store.
func IsObjectPath(path string) bool {
	return strings.HasPrefix(path, s3Scheme)
}

func (r *Router) pick(path string) (Store, error) {
	if IsObjectPath(path) {
		if r.Object == nil {
			return nil, errors.New("object storage is not configured")
		}
		return r.Object, nil
	}
	return r.Local, nil
}

func (r *Router) Resolve(path string) (string, error) {
	s, err := r.pick(path)
	if err != nil {
		return "", err
	}
	return s.Resolve(path)
}

func (r *Router) Read(ctx context.Context, path string) (string, error) {
	s, err := r.pick(path)
	if err != nil {
		return "", err
	}
	return s.Read(ctx, path)
}

func (r *Router) Write(ctx context.Context, path, content string) error {
	s, err := r.pick(path)
	if err != nil {
		return err
	}
	return s.Write(ctx, path, content)
}
