package commands

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/chaisql/llsd/nav"
	"github.com/chaisql/llsd/types"
)

// NewGetCommand returns a cli.Command for "llsd get".
func NewGetCommand() *cli.Command {
	cmd := cli.Command{
		Name:      "get",
		Usage:     "Print the value found at a dotted path.",
		UsageText: `llsd get [options] path [file]`,
		Description: `The get command looks up a value with a dotted path and prints it.
Map keys and array indexes are separated by dots:

$ echo "{'users':[{'name':'alice'}]}" | llsd get users.0.name
'alice'`,
		Flags: append([]cli.Flag{
			fromFlag(),
			toFlag("notation"),
			prettyFlag(),
			preserveTypesFlag(),
		}, quotaFlags()...),
	}

	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() == 0 {
			return errors.New(cmd.UsageText)
		}
		path := cmd.Args().Get(0)

		data, err := readInput(cmd, cmd.Args().Get(1))
		if err != nil {
			return err
		}

		doc, _, err := decode(data, decodeOptionsFrom(cmd))
		if err != nil {
			return err
		}

		v, err := nav.Lookup(doc.Root(), path)
		if err != nil {
			return err
		}
		loggerFrom(ctx).Debug("found value", "path", path, "type", v.Type())

		out, err := encode(types.NewDocument(v), encodeOptionsFrom(cmd))
		if err != nil {
			return err
		}

		w := stdout(cmd)
		if _, err := w.Write(out); err != nil {
			return err
		}
		_, err = w.Write([]byte{'\n'})
		return err
	}

	return &cmd
}
