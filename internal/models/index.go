// Package models defines the domain types for zk.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/zk/internal/apperr"
)

// Index is the persisted metadata document.
type Index struct {
	Meta    Meta              `json:"meta"`
	Zettels map[string]Record `json:"zettels"`
}

// Meta holds index-level timestamps.
type Meta struct {
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

// Record tracks one zettel. Path is the only field reconciliation changes.
type Record struct {
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Path     string    `json:"path"`
}

// NewIndex returns an empty index created at now.
func NewIndex(now time.Time) *Index {
	return &Index{
		Meta:    Meta{Created: now, Modified: now},
		Zettels: map[string]Record{},
	}
}

// UpsertZettel sets zettels[id] to rec. Callers follow it with Touch.
func (i *Index) UpsertZettel(id string, rec Record) {
	if i.Zettels == nil {
		i.Zettels = map[string]Record{}
	}
	i.Zettels[id] = rec
}

// SetZettelPath moves the record for id to path and stamps it modified at now.
func (i *Index) SetZettelPath(id, path string, now time.Time) error {
	rec, ok := i.Zettels[id]
	if !ok {
		return fmt.Errorf("%w: %s", apperr.ErrUnknownZettel, id)
	}
	rec.Path = path
	rec.Modified = now
	i.Zettels[id] = rec
	return nil
}

// Zettel returns the record for id.
func (i *Index) Zettel(id string) (Record, error) {
	rec, ok := i.Zettels[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", apperr.ErrUnknownZettel, id)
	}
	return rec, nil
}

// Touch bumps meta.modified.
func (i *Index) Touch(now time.Time) {
	i.Meta.Modified = now
}

// Validate validates the index document.
func (i *Index) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Meta),
		validation.Field(&i.Zettels),
	)
}

// Validate validates the index metadata.
func (m Meta) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Created, validation.Required),
		validation.Field(&m.Modified, validation.Required, validation.By(notBefore(m.Created))),
	)
}

// Validate validates a single record.
func (r Record) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Created, validation.Required),
		validation.Field(&r.Path, validation.Required, validation.By(flatName)),
	)
}

func notBefore(ref time.Time) validation.RuleFunc {
	return func(value any) error {
		t, _ := value.(time.Time)
		if t.Before(ref) {
			return errors.New("must not be before created")
		}
		return nil
	}
}

func flatName(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, `/\`) {
		return errors.New("must be a plain file name")
	}
	return nil
}
