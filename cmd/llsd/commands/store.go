package commands

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/chaisql/llsd/codec/binary"
	"github.com/chaisql/llsd/store"
)

// NewStoreCommand returns a cli.Command for "llsd store".
func NewStoreCommand() *cli.Command {
	dbFlag := &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path of the database to open or create.",
		Required: true,
	}

	return &cli.Command{
		Name:  "store",
		Usage: "Manage documents persisted in a database.",
		Description: `The store command keeps documents in a Pebble database, encoded in binary:

$ llsd store --db my.db put users/alice alice.json
$ llsd store --db my.db list users/
users/alice
$ llsd store --db my.db get --to xml users/alice`,
		Flags: []cli.Flag{dbFlag},
		Commands: []*cli.Command{
			newStorePutCommand(),
			newStoreGetCommand(),
			newStoreListCommand(),
			newStoreDeleteCommand(),
		},
	}
}

// withStore opens the database named by the --db flag and runs fn with it.
func withStore(ctx context.Context, cmd *cli.Command, fn func(s *store.Store) error) error {
	path := cmd.String("db")
	if path == "" {
		return errors.New("missing --db flag")
	}

	opts := store.DefaultOptions()
	opts.Logger = loggerFrom(ctx)
	opts.Decode = binary.DefaultOptions()
	if cmd.IsSet("max-depth") {
		opts.Decode.MaxDepth = int(cmd.Int("max-depth"))
	}
	if cmd.IsSet("max-elements") {
		opts.Decode.MaxElements = int(cmd.Int("max-elements"))
	}

	s, err := store.Open(path, opts)
	if err != nil {
		return err
	}

	err = fn(s)
	if cerr := s.Close(); err == nil {
		err = cerr
	}

	return err
}

func newStorePutCommand() *cli.Command {
	return &cli.Command{
		Name:      "put",
		Usage:     "Store a document under a key.",
		UsageText: `llsd store --db path put [options] key [file]`,
		Flags:     append([]cli.Flag{fromFlag()}, quotaFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			key := cmd.Args().First()
			if key == "" {
				return errors.New(cmd.UsageText)
			}

			data, err := readInput(cmd, cmd.Args().Get(1))
			if err != nil {
				return err
			}

			doc, _, err := decode(data, decodeOptionsFrom(cmd))
			if err != nil {
				return err
			}

			return withStore(ctx, cmd, func(s *store.Store) error {
				return s.Put(key, doc)
			})
		},
	}
}

func newStoreGetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print the document stored under a key.",
		UsageText: `llsd store --db path get [options] key`,
		Flags: append([]cli.Flag{
			toFlag("notation"),
			prettyFlag(),
			preserveTypesFlag(),
		}, quotaFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			key := cmd.Args().First()
			if key == "" {
				return errors.New(cmd.UsageText)
			}

			return withStore(ctx, cmd, func(s *store.Store) error {
				doc, err := s.Get(key)
				if err != nil {
					return errors.Wrapf(err, "%s", key)
				}

				out, err := encode(doc, encodeOptionsFrom(cmd))
				if err != nil {
					return err
				}

				w := stdout(cmd)
				if _, err := w.Write(out); err != nil {
					return err
				}
				_, err = w.Write([]byte{'\n'})
				return err
			})
		},
	}
}

func newStoreListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List the keys starting with a prefix.",
		UsageText: `llsd store --db path list [prefix]`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withStore(ctx, cmd, func(s *store.Store) error {
				keys, err := s.Keys(cmd.Args().First())
				if err != nil {
					return err
				}

				w := stdout(cmd)
				for _, k := range keys {
					if _, err := fmt.Fprintln(w, k); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}
}

func newStoreDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete the documents stored under the given keys.",
		UsageText: `llsd store --db path delete key...`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			keys := cmd.Args().Slice()
			if len(keys) == 0 {
				return errors.New(cmd.UsageText)
			}

			return withStore(ctx, cmd, func(s *store.Store) error {
				for _, k := range keys {
					if err := s.Delete(k); err != nil {
						return errors.Wrapf(err, "%s", k)
					}
				}

				return nil
			})
		},
	}
}
