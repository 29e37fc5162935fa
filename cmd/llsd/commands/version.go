package commands

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

// NewVersionCommand returns a cli.Command for "llsd version".
func NewVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Shows the llsd version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info, ok := debug.ReadBuildInfo()
			if !ok {
				_, err := fmt.Fprintln(stdout(cmd), "version not available")
				return err
			}

			version := info.Main.Version
			if version == "" {
				version = "(devel)"
			}

			_, err := fmt.Fprintf(stdout(cmd), "llsd %s %s\n", version, info.GoVersion)
			return err
		},
	}
}
