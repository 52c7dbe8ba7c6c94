// Package reconcile brings the index's recorded paths back in line with the
// vault after notes have been renamed.
//
// Identity lives in each note's frontmatter uuid, not in its file name, so
// every scan re-reads every file and resolves it against the index by uuid.
package reconcile

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/zk/internal/apperr"
	"github.com/starford/zk/internal/frontmatter"
	"github.com/starford/zk/internal/models"
	"github.com/starford/zk/internal/storage"
)

// Rename is one detected path change.
type Rename struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// String renders the rename as reported to users.
func (r Rename) String() string {
	return r.From + " -> " + r.To
}

// Reconciler scans a vault and corrects index paths.
type Reconciler struct {
	store  storage.Provider
	clock  func() time.Time
	logger *slog.Logger

	// touchOnScan bumps meta.modified once for every tracked file scanned,
	// renamed or not. When false, meta.modified moves only if the run
	// detected at least one rename.
	touchOnScan bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) Option {
	return func(r *Reconciler) { r.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) { r.logger = logger }
}

// WithTouchOnScan selects between touching meta.modified per scanned file
// (true, the default) and only when a rename occurred (false).
func WithTouchOnScan(touch bool) Option {
	return func(r *Reconciler) { r.touchOnScan = touch }
}

// New creates a Reconciler over store.
func New(store storage.Provider, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:       store,
		clock:       time.Now,
		logger:      slog.Default(),
		touchOnScan: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result describes one reconciliation run.
type Result struct {
	// Renames in scan order (lexicographic by new file name).
	Renames []Rename
	// Changed reports whether idx was mutated and needs saving.
	Changed bool
}

// Reconcile walks the vault in name order and updates idx in place:
//   - a tracked note whose recorded path differs gets its new path
//   - untracked notes are skipped
//
// A note without valid frontmatter, or a second note declaring a uuid that
// an earlier file in the scan already declared, aborts the run. The returned
// Result then still carries every change made before the failing file; idx
// is not rolled back.
func (r *Reconciler) Reconcile(idx *models.Index) (Result, error) {
	var res Result

	names, err := r.store.List()
	if err != nil {
		return res, err
	}

	seen := make(map[string]string, len(names))
	for _, name := range names {
		data, err := r.store.Read(name)
		if err != nil {
			return res, err
		}
		fm, err := frontmatter.Parse(data)
		if err != nil {
			return res, fmt.Errorf("reconcile: %s: %w", name, err)
		}
		if first, dup := seen[fm.UUID]; dup {
			return res, fmt.Errorf("reconcile: %s: %w: uuid %s already declared by %s",
				name, apperr.ErrMalformedFrontmatter, fm.UUID, first)
		}
		seen[fm.UUID] = name

		rec, ok := idx.Zettels[fm.UUID]
		if !ok {
			r.logger.Debug("reconcile: untracked note skipped",
				slog.String("path", name), slog.String("uuid", fm.UUID))
			continue
		}

		if rec.Path != name {
			if err := idx.SetZettelPath(fm.UUID, name, r.clock()); err != nil {
				return res, err
			}
			res.Renames = append(res.Renames, Rename{ID: fm.UUID, From: rec.Path, To: name})
			res.Changed = true
			r.logger.Debug("reconcile: path updated",
				slog.String("uuid", fm.UUID), slog.String("from", rec.Path), slog.String("to", name))
			idx.Touch(r.clock())
			continue
		}

		if r.touchOnScan {
			idx.Touch(r.clock())
			res.Changed = true
		}
	}

	return res, nil
}
