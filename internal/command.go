package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/zk/internal/catalog"
	pkgconfig "github.com/starford/zk/pkg/config"
)

// Version is reported by the MCP server and --version.
var Version = "dev"

var errUsage = errors.New("usage")

const usageText = `usage: zk [--dir DIR] [--config FILE] <command> [args]

commands:
  init             create the index in the vault directory
  new [title...]   create a new zettel (title defaults to "my note")
  update, sync     update the index after notes were renamed
  list             list zettels [--sort created|modified|path|title] [--query TEXT]
  show <id>        show one zettel
  watch            update the index whenever notes change
  serve            run the HTTP API and the watcher
  mcp              run the MCP server on stdio
`

// NewCommand builds the zk command tree. extra options are appended to the
// ones derived from flags and config for every command.
func NewCommand(extra ...Option) *cli.Command {
	withOptions := func(run func(context.Context, *cli.Command, []Option) error) cli.ActionFunc {
		return func(ctx context.Context, cmd *cli.Command) error {
			opts, err := commandOptions(cmd)
			if err != nil {
				return err
			}
			return run(ctx, cmd, append(opts, extra...))
		}
	}

	return &cli.Command{
		Name:    "zk",
		Usage:   "Zettelkasten index that keeps track of notes across renames",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Vault directory",
				Value:   ".",
				Sources: cli.EnvVars("ZK_DIR"),
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "<dir>/" + ConfigFileName,
				Sources:     cli.EnvVars("ZK_CONFIG_FILE"),
			},
		},
		Action: usage,
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create the index in the vault directory",
				Action: withOptions(func(ctx context.Context, _ *cli.Command, opts []Option) error {
					return Init(ctx, opts...)
				}),
			},
			{
				Name:      "new",
				Usage:     "Create a new zettel",
				ArgsUsage: "[title...]",
				Action: withOptions(func(ctx context.Context, cmd *cli.Command, opts []Option) error {
					return New(ctx, strings.Join(cmd.Args().Slice(), " "), opts...)
				}),
			},
			{
				Name:    "update",
				Aliases: []string{"sync"},
				Usage:   "Update the index after notes were renamed",
				Action: withOptions(func(ctx context.Context, _ *cli.Command, opts []Option) error {
					return Update(ctx, opts...)
				}),
			},
			{
				Name:  "list",
				Usage: "List zettels",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "sort",
						Aliases: []string{"s"},
						Usage:   "Sort by created, modified, path or title",
						Value:   "created",
					},
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Filter on title or path",
					},
				},
				Action: withOptions(func(ctx context.Context, cmd *cli.Command, opts []Option) error {
					return List(ctx, catalog.Query{
						Sort: cmd.String("sort"),
						Text: cmd.String("query"),
					}, opts...)
				}),
			},
			{
				Name:      "show",
				Usage:     "Show one zettel",
				ArgsUsage: "<id>",
				Action: withOptions(func(ctx context.Context, cmd *cli.Command, opts []Option) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("show: expected exactly one id, got %d", cmd.Args().Len())
					}
					return Show(ctx, cmd.Args().First(), opts...)
				}),
			},
			{
				Name:  "watch",
				Usage: "Update the index whenever notes change",
				Action: withOptions(func(ctx context.Context, _ *cli.Command, opts []Option) error {
					return Watch(ctx, opts...)
				}),
			},
			{
				Name:  "serve",
				Usage: "Run the HTTP API and the watcher",
				Action: withOptions(func(ctx context.Context, _ *cli.Command, opts []Option) error {
					return Serve(ctx, opts...)
				}),
			},
			{
				Name:  "mcp",
				Usage: "Run the MCP server on stdio",
				Action: withOptions(func(ctx context.Context, _ *cli.Command, opts []Option) error {
					return MCP(ctx, opts...)
				}),
			},
		},
	}
}

// usage handles a missing or unknown command.
func usage(_ context.Context, cmd *cli.Command) error {
	fmt.Fprint(errWriter(cmd), usageText)
	if cmd.Args().Present() {
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd.Args().First())
	}
	return fmt.Errorf("%w: no command given", errUsage)
}

// commandOptions loads the config and maps global flags onto Options. An
// explicit --config must exist; the per-vault default file is optional.
func commandOptions(cmd *cli.Command) ([]Option, error) {
	dir := cmd.String("dir")

	cfg := NewDefaultConfig()
	if path := cmd.String("config"); path != "" {
		if err := pkgconfig.Load(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if _, err := pkgconfig.LoadIfExists(filepath.Join(dir, ConfigFileName), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return []Option{
		WithConfig(cfg),
		WithDir(dir),
		WithOutput(outWriter(cmd), errWriter(cmd)),
	}, nil
}

func outWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
