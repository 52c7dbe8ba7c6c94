// Package service coordinates the note writer, the index store, the
// reconciler and the catalog. Every operation runs a full
// load → mutate → save cycle; nothing is cached between calls.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/zk/internal/catalog"
	"github.com/starford/zk/internal/frontmatter"
	"github.com/starford/zk/internal/index"
	"github.com/starford/zk/internal/models"
	"github.com/starford/zk/internal/notes"
	"github.com/starford/zk/internal/reconcile"
	"github.com/starford/zk/internal/storage"
)

var (
	// ErrNoCatalog is returned by List when the service has no catalog.
	ErrNoCatalog = errors.New("catalog not configured")
	// ErrUnsupportedSort is returned by List for an unknown sort key.
	ErrUnsupportedSort = errors.New("unsupported sort")
)

// Created is the outcome of Create.
type Created struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// ZettelDetail is one record joined with its note's title.
type ZettelDetail struct {
	ID       string    `json:"id"`
	Path     string    `json:"path"`
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

// Service runs zk operations against one vault. Calls are serialized so the
// long-running front ends can share a Service between goroutines.
type Service struct {
	mu sync.Mutex

	fs          storage.Provider
	index       *index.Store
	writer      *notes.Writer
	reconciler  *reconcile.Reconciler
	catalog     *catalog.DB
	clock       func() time.Time
	newID       func() string
	touchOnScan bool
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithIDGenerator overrides the uuid generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithCatalog enables List.
func WithCatalog(db *catalog.DB) Option {
	return func(s *Service) { s.catalog = db }
}

// WithTouchOnScan is passed through to the reconciler.
func WithTouchOnScan(touch bool) Option {
	return func(s *Service) { s.touchOnScan = touch }
}

// New creates a Service over fs.
func New(fs storage.Provider, opts ...Option) *Service {
	s := &Service{
		fs:          fs,
		index:       index.NewStore(fs),
		writer:      notes.NewWriter(fs),
		clock:       time.Now,
		newID:       uuid.NewString,
		touchOnScan: true,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reconciler = reconcile.New(fs,
		reconcile.WithClock(s.clock),
		reconcile.WithLogger(s.logger),
		reconcile.WithTouchOnScan(s.touchOnScan),
	)
	return s
}

// IndexPath returns the index file name relative to the vault.
func (s *Service) IndexPath() string {
	return s.index.Path()
}

// Ready reports whether the vault has been initialized.
func (s *Service) Ready(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Exists()
}

// Init creates the index.
func (s *Service) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.index.Init(s.clock()); err != nil {
		return err
	}
	s.logger.Debug("index initialized", slog.String("path", s.index.Path()))
	return nil
}

// Create writes a new zettel and records it in the index. An empty title
// becomes notes.DefaultTitle.
func (s *Service) Create(_ context.Context, title string) (*Created, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.index.Load()
	if err != nil {
		return nil, err
	}

	now := s.clock()
	id := s.newID()
	name, err := s.writer.Create(title, now, id)
	if err != nil {
		return nil, err
	}

	idx.UpsertZettel(id, models.Record{Created: now, Modified: now, Path: name})
	idx.Touch(now)
	if err := s.index.Save(idx); err != nil {
		// Untracked, the note would block a retry with the same title.
		if rmErr := s.fs.Remove(name); rmErr != nil {
			s.logger.Warn("orphaned note left behind",
				slog.String("path", name), slog.String("error", rmErr.Error()))
		}
		return nil, fmt.Errorf("record %s: %w", name, err)
	}

	s.logger.Debug("zettel created", slog.String("uuid", id), slog.String("path", name))
	return &Created{ID: id, Path: name}, nil
}

// Sync reconciles the index with the vault and returns the detected renames
// in scan order. When a malformed note aborts the run, the renames found
// before it are returned alongside the error and are already saved.
func (s *Service) Sync(_ context.Context) ([]reconcile.Rename, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.index.Load()
	if err != nil {
		return nil, err
	}

	res, runErr := s.reconciler.Reconcile(idx)
	if res.Changed {
		if err := s.index.Save(idx); err != nil {
			return res.Renames, errors.Join(runErr, err)
		}
	}
	if runErr != nil {
		s.logger.Warn("sync aborted",
			slog.Int("renames_saved", len(res.Renames)),
			slog.String("error", runErr.Error()))
		return res.Renames, runErr
	}
	return res.Renames, nil
}

// Get returns the record for id with the title read from its note. A note
// that is missing or unreadable yields an empty title.
func (s *Service) Get(_ context.Context, id string) (*ZettelDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.index.Load()
	if err != nil {
		return nil, err
	}
	rec, err := idx.Zettel(id)
	if err != nil {
		return nil, err
	}
	return &ZettelDetail{
		ID:       id,
		Path:     rec.Path,
		Title:    s.title(rec.Path),
		Created:  rec.Created,
		Modified: rec.Modified,
	}, nil
}

// List refreshes the catalog from the index and queries it.
func (s *Service) List(_ context.Context, q catalog.Query) ([]catalog.Row, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog == nil {
		return nil, 0, ErrNoCatalog
	}
	if !catalog.ValidSort(q.Sort) {
		return nil, 0, fmt.Errorf("%w %q", ErrUnsupportedSort, q.Sort)
	}

	idx, err := s.index.Load()
	if err != nil {
		return nil, 0, err
	}
	rows := make([]catalog.Row, 0, len(idx.Zettels))
	for id, rec := range idx.Zettels {
		rows = append(rows, catalog.Row{
			ID:       id,
			Path:     rec.Path,
			Title:    s.title(rec.Path),
			Created:  rec.Created,
			Modified: rec.Modified,
		})
	}
	if err := s.catalog.Replace(rows); err != nil {
		return nil, 0, err
	}
	return s.catalog.List(q)
}

func (s *Service) title(path string) string {
	data, err := s.fs.Read(path)
	if err != nil {
		s.logger.Debug("title unavailable", slog.String("path", path), slog.String("error", err.Error()))
		return ""
	}
	fm, err := frontmatter.Parse(data)
	if err != nil {
		s.logger.Debug("title unavailable", slog.String("path", path), slog.String("error", err.Error()))
		return ""
	}
	return fm.Title
}
