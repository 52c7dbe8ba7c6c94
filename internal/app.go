// Package internal wires configuration, logging and the zk service together
// for each command.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/starford/zk/internal/catalog"
	"github.com/starford/zk/internal/reconcile"
	"github.com/starford/zk/internal/service"
	"github.com/starford/zk/internal/storage"
)

// newApplication applies opts and fills in defaults.
func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, errors.New("config is required")
	}
	if app.dir == "" {
		app.dir = "."
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app, nil
}

func (a *application) textLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
}

func (a *application) jsonLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(a.stderr, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
}

// service opens the vault and builds a Service. db may be nil.
func (a *application) service(logger *slog.Logger, db *catalog.DB) (*service.Service, error) {
	store, err := storage.NewFS(a.dir)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	opts := []service.Option{
		service.WithLogger(logger),
		service.WithTouchOnScan(a.config.Index.TouchOnScan),
	}
	if a.clock != nil {
		opts = append(opts, service.WithClock(a.clock))
	}
	if a.newID != nil {
		opts = append(opts, service.WithIDGenerator(a.newID))
	}
	if db != nil {
		opts = append(opts, service.WithCatalog(db))
	}
	return service.New(store, opts...), nil
}

func (a *application) openCatalog() (*catalog.DB, error) {
	db, err := catalog.Open(a.config.Catalog.Resolve(a.dir))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return db, nil
}

// Init creates the index in the vault directory.
func Init(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	svc, err := app.service(app.textLogger(), nil)
	if err != nil {
		return err
	}
	if err := svc.Init(ctx); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "initialized a new zettelkasten at %s\n", svc.IndexPath())
	return nil
}

// New creates a zettel titled title.
func New(ctx context.Context, title string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	svc, err := app.service(app.textLogger(), nil)
	if err != nil {
		return err
	}
	c, err := svc.Create(ctx, title)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "created a new zettel at %s\n", c.Path)
	return nil
}

// Update reconciles the index and prints one line per rename. Renames found
// before a failure are printed too, since they have been saved.
func Update(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	svc, err := app.service(app.textLogger(), nil)
	if err != nil {
		return err
	}
	renames, err := svc.Sync(ctx)
	printRenames(app.stdout, renames)
	return err
}

func printRenames(w io.Writer, renames []reconcile.Rename) {
	for _, r := range renames {
		fmt.Fprintln(w, r.String())
	}
}

// List prints the catalog rows matching q as aligned columns.
func List(ctx context.Context, q catalog.Query, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	db, err := app.openCatalog()
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := app.service(app.textLogger(), db)
	if err != nil {
		return err
	}
	rows, _, err := svc.List(ctx, q)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(app.stdout, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Path, r.Title)
	}
	return tw.Flush()
}

// Show prints one zettel.
func Show(ctx context.Context, id string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	svc, err := app.service(app.textLogger(), nil)
	if err != nil {
		return err
	}
	d, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(app.stdout, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "id:\t%s\n", d.ID)
	fmt.Fprintf(tw, "path:\t%s\n", d.Path)
	fmt.Fprintf(tw, "title:\t%s\n", d.Title)
	fmt.Fprintf(tw, "created:\t%s\n", d.Created.Format(time.RFC3339))
	fmt.Fprintf(tw, "modified:\t%s\n", d.Modified.Format(time.RFC3339))
	return tw.Flush()
}
