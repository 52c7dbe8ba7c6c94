package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/starford/zk/internal"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := internal.NewCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("zk failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
