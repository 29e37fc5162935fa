package commands

import (
	"context"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// NewConvertCommand returns a cli.Command for "llsd convert".
func NewConvertCommand() *cli.Command {
	cmd := cli.Command{
		Name:      "convert",
		Usage:     "Convert documents from one encoding to another.",
		UsageText: `llsd convert [options] [file...]`,
		Description: `The convert command reads documents and writes them in another encoding.

By default, the input format is detected and the document is read from the standard input:

$ echo '{"a": 1}' | llsd convert --to notation
{'a':i1}

When several files are given, they are converted concurrently and written
to the standard output in the order of the arguments:

$ llsd convert --to xml --pretty a.json b.json`,
		Flags: append([]cli.Flag{
			fromFlag(),
			toFlag("json"),
			prettyFlag(),
			preserveTypesFlag(),
		}, quotaFlags()...),
	}

	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		logger := loggerFrom(ctx)
		dopts := decodeOptionsFrom(cmd)
		eopts := encodeOptionsFrom(cmd)

		paths := cmd.Args().Slice()
		if len(paths) == 0 {
			paths = []string{"-"}
		}

		outputs := make([][]byte, len(paths))
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, path := range paths {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}

				data, err := readInput(cmd, path)
				if err != nil {
					return err
				}

				doc, f, err := decode(data, dopts)
				if err != nil {
					return errors.Wrapf(err, "%s", path)
				}
				logger.Debug("decoded document", "path", path, "format", f, "size", len(data))

				out, err := encode(doc, eopts)
				if err != nil {
					return errors.Wrapf(err, "%s", path)
				}

				outputs[i] = out
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		w := stdout(cmd)
		for _, out := range outputs {
			if _, err := w.Write(out); err != nil {
				return err
			}
			if len(out) > 0 && out[len(out)-1] != '\n' && eopts.To != "binary" {
				if _, err := w.Write([]byte{'\n'}); err != nil {
					return err
				}
			}
		}

		return nil
	}

	return &cmd
}
