package commands

import (
	"context"
	"fmt"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/chaisql/llsd/nav"
)

// NewValidateCommand returns a cli.Command for "llsd validate".
func NewValidateCommand() *cli.Command {
	cmd := cli.Command{
		Name:      "validate",
		Usage:     "Check that documents decode and respect size constraints.",
		UsageText: `llsd validate [options] [file...]`,
		Description: `The validate command decodes each document with the given quotas and
reports one line per input:

$ llsd validate --max-depth 8 --require name,id a.xml b.bin
a.xml: ok (12 elements, depth 3)
b.bin: missing field: "id"

The command fails if any document is invalid.`,
		Flags: append([]cli.Flag{
			fromFlag(),
			&cli.IntFlag{
				Name:  "max-total",
				Value: -1,
				Usage: "Largest number of values accepted in a whole document. Negative means no limit.",
			},
			&cli.StringSliceFlag{
				Name:    "require",
				Aliases: []string{"r"},
				Usage:   "Dotted paths that must hold a non empty value.",
			},
		}, quotaFlags()...),
	}

	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		logger := loggerFrom(ctx)
		opts := decodeOptionsFrom(cmd)
		required := cmd.StringSlice("require")
		maxTotal := int(cmd.Int("max-total"))

		paths := cmd.Args().Slice()
		if len(paths) == 0 {
			paths = []string{"-"}
		}

		reports := make([]string, len(paths))
		failed := make([]bool, len(paths))

		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, path := range paths {
			g.Go(func() error {
				data, err := readInput(cmd, path)
				if err != nil {
					return err
				}

				stats, err := validate(data, opts, maxTotal, required)
				if err != nil {
					logger.Debug("invalid document", "path", path, "error", err)
					reports[i] = fmt.Sprintf("%s: %v", path, err)
					failed[i] = true
					return nil
				}

				reports[i] = fmt.Sprintf("%s: ok (%d elements, depth %d)", path, stats.Elements, stats.Depth)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		w := stdout(cmd)
		var invalid int
		for i, r := range reports {
			if _, err := fmt.Fprintln(w, r); err != nil {
				return err
			}
			if failed[i] {
				invalid++
			}
		}

		if invalid > 0 {
			return errors.Newf("%d of %d documents are invalid", invalid, len(paths))
		}

		return nil
	}

	return &cmd
}

func validate(data []byte, opts decodeOptions, maxTotal int, required []string) (nav.Stats, error) {
	doc, _, err := decode(data, opts)
	if err != nil {
		return nav.Stats{}, err
	}

	err = nav.ValidateConstraints(doc.Root(), opts.MaxDepth, maxTotal)
	if err != nil {
		return nav.Stats{}, err
	}

	err = nav.RequireFields(doc.Root(), required...)
	if err != nil {
		return nav.Stats{}, err
	}

	return nav.Measure(doc.Root()), nil
}
