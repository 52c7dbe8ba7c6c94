// Package apperr defines the sentinel errors shared across zk packages.
package apperr

import "errors"

var (
	ErrIndexAlreadyExists   = errors.New("index already exists")
	ErrIndexNotFound        = errors.New("index not found")
	ErrNoteAlreadyExists    = errors.New("note already exists")
	ErrMalformedFrontmatter = errors.New("malformed frontmatter")
	ErrUnknownZettel        = errors.New("unknown zettel")
)
