// Package commands implements the llsd command line tool.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

type loggerKey struct{}

// NewApp creates the llsd CLI app.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:  "llsd",
		Usage: "Convert, inspect and store structured documents",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log debug information to the standard error.",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := slog.LevelWarn
			if cmd.Bool("verbose") {
				level = slog.LevelDebug
			}

			w := cmd.Root().ErrWriter
			if w == nil {
				w = os.Stderr
			}

			logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
			return context.WithValue(ctx, loggerKey{}, logger), nil
		},
		Commands: []*cli.Command{
			NewConvertCommand(),
			NewGetCommand(),
			NewValidateCommand(),
			NewStoreCommand(),
			NewVersionCommand(),
		},
	}
}

// loggerFrom returns the logger set up by the root command.
func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func stdin(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}

	return os.Stdin
}
