package commands

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/chaisql/llsd"
	"github.com/chaisql/llsd/codec/binary"
	"github.com/chaisql/llsd/codec/json"
	"github.com/chaisql/llsd/codec/notation"
	"github.com/chaisql/llsd/codec/xml"
	"github.com/chaisql/llsd/types"
)

const autoFormat = "auto"

// decodeOptions holds the decoding flags shared by commands.
type decodeOptions struct {
	From        string
	MaxDepth    int
	MaxElements int
}

// encodeOptions holds the encoding flags shared by commands.
type encodeOptions struct {
	To            string
	Pretty        bool
	PreserveTypes bool
}

func fromFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "from",
		Aliases: []string{"f"},
		Value:   autoFormat,
		Usage:   "Input format: auto, binary, xml, json or notation.",
	}
}

func toFlag(def string) cli.Flag {
	return &cli.StringFlag{
		Name:    "to",
		Aliases: []string{"t"},
		Value:   def,
		Usage:   "Output format: binary, xml, json or notation.",
	}
}

func prettyFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "pretty",
		Aliases: []string{"p"},
		Usage:   "Indent the output.",
	}
}

func preserveTypesFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "preserve-types",
		Usage: "Write uuids, dates, uris and binary payloads as typed objects in JSON.",
	}
}

func quotaFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "max-depth",
			Value: binary.DefaultMaxDepth,
			Usage: "Deepest nesting level accepted, the root being at depth 0.",
		},
		&cli.IntFlag{
			Name:  "max-elements",
			Value: binary.DefaultMaxElements,
			Usage: "Largest number of elements accepted in a single array or map.",
		},
	}
}

func decodeOptionsFrom(cmd *cli.Command) decodeOptions {
	opts := decodeOptions{
		From:        cmd.String("from"),
		MaxDepth:    binary.DefaultMaxDepth,
		MaxElements: binary.DefaultMaxElements,
	}
	if cmd.IsSet("max-depth") {
		opts.MaxDepth = int(cmd.Int("max-depth"))
	}
	if cmd.IsSet("max-elements") {
		opts.MaxElements = int(cmd.Int("max-elements"))
	}
	if opts.From == "" {
		opts.From = autoFormat
	}

	return opts
}

func encodeOptionsFrom(cmd *cli.Command) encodeOptions {
	return encodeOptions{
		To:            cmd.String("to"),
		Pretty:        cmd.Bool("pretty"),
		PreserveTypes: cmd.Bool("preserve-types"),
	}
}

// readInput reads the file at path, or the standard input if path is empty or "-".
func readInput(cmd *cli.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin(cmd))
		return data, errors.Wrap(err, "failed to read standard input")
	}

	data, err := os.ReadFile(path)
	return data, errors.Wrapf(err, "failed to read %s", path)
}

// decode parses data with the configured quotas. The binary magic is only
// optional when the binary format is requested explicitly.
func decode(data []byte, opts decodeOptions) (*types.Document, llsd.Format, error) {
	var f llsd.Format
	explicit := opts.From != autoFormat
	if explicit {
		var err error
		f, err = llsd.ParseFormatName(opts.From)
		if err != nil {
			return nil, 0, err
		}
	} else {
		f = llsd.DetectFormat(data)
	}

	var doc *types.Document
	var err error
	switch f {
	case llsd.Binary:
		doc, err = binary.NewDecoder().
			WithValidateMagic(!explicit).
			WithMaxDepth(opts.MaxDepth).
			WithMaxElements(opts.MaxElements).
			Decode(data)
	case llsd.XML:
		doc, err = xml.NewDecoder().
			WithMaxDepth(opts.MaxDepth).
			WithMaxElements(opts.MaxElements).
			Decode(data)
	case llsd.JSON:
		doc, err = json.NewDecoder().
			WithMaxDepth(opts.MaxDepth).
			WithMaxElements(opts.MaxElements).
			Decode(data)
	case llsd.Notation:
		doc, err = notation.NewDecoder().
			WithMaxDepth(opts.MaxDepth).
			WithMaxElements(opts.MaxElements).
			Decode(data)
	}

	return doc, f, err
}

// encode serializes doc in the requested format.
func encode(doc *types.Document, opts encodeOptions) ([]byte, error) {
	f, err := llsd.ParseFormatName(opts.To)
	if err != nil {
		return nil, err
	}

	switch f {
	case llsd.Binary:
		return binary.NewEncoder().Encode(doc)
	case llsd.XML:
		return xml.NewEncoder().WithPretty(opts.Pretty).Encode(doc)
	case llsd.JSON:
		return json.NewEncoder().WithPretty(opts.Pretty).WithPreserveTypes(opts.PreserveTypes).Encode(doc)
	}

	return notation.NewEncoder().WithPretty(opts.Pretty).Encode(doc)
}
