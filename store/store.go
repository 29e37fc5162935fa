// Package store persists documents in a Pebble database.
//
// Documents are stored under string keys and encoded with the binary codec.
package store

import (
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/chaisql/llsd/codec/binary"
	"github.com/chaisql/llsd/lib/pebbleutil"
	"github.com/chaisql/llsd/types"
)

const (
	separator      byte = 0x1F
	documentPrefix      = 'd'
)

// ErrKeyNotFound is returned when the targeted key doesn't exist.
var ErrKeyNotFound = errors.New("key not found")

// Options configure a Store.
type Options struct {
	// InMemory keeps the database in memory. The path is ignored.
	InMemory bool
	// Logger receives the store and Pebble logs. Nil disables logging.
	Logger *slog.Logger
	// Decode applies to every document read from the store.
	// The zero value stands for binary.DefaultOptions.
	Decode binary.Options
	// NoSync disables syncing the write ahead log on every write.
	NoSync bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Decode: binary.DefaultOptions(),
	}
}

// Store is safe for concurrent use.
type Store struct {
	db     *pebble.DB
	dec    *binary.Decoder
	enc    *binary.Encoder
	logger *slog.Logger
	wopts  *pebble.WriteOptions
}

// Open opens or creates the database at path.
func Open(path string, opts Options) (*Store, error) {
	popts := pebble.Options{
		Logger: pebbleutil.NewLogger(opts.Logger),
	}
	if opts.InMemory {
		popts.FS = vfs.NewMem()
		path = ""
	}

	db, err := pebble.Open(path, &popts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open store at %q", path)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.Decode == (binary.Options{}) {
		opts.Decode = binary.DefaultOptions()
	}

	s := Store{
		db:     db,
		dec:    binary.NewDecoderWithOptions(opts.Decode),
		enc:    binary.NewEncoder(),
		logger: logger,
		wopts:  pebble.Sync,
	}
	if opts.NoSync {
		s.wopts = pebble.NoSync
	}

	logger.Debug("store opened", "path", path, "in_memory", opts.InMemory)
	return &s, nil
}

// buildKey returns the database key of a document key
// in the form: documentPrefix + <sep> + key.
func buildKey(k string) []byte {
	key := make([]byte, 0, len(k)+2)
	key = append(key, documentPrefix, separator)
	key = append(key, k...)
	return key
}

func trimPrefix(k []byte) string {
	return string(k[2:])
}

func checkKey(k string) error {
	if k == "" {
		return errors.New("cannot store empty key")
	}
	if !utf8.ValidString(k) {
		return errors.Newf("key %q is not valid UTF-8", k)
	}

	return nil
}

// Put stores doc under key. If it already exists, it overrides it.
func (s *Store) Put(key string, doc *types.Document) error {
	if err := checkKey(key); err != nil {
		return err
	}

	v, err := s.enc.Encode(doc)
	if err != nil {
		return errors.Wrapf(err, "failed to encode document %q", key)
	}

	err = s.db.Set(buildKey(key), v, s.wopts)
	if err != nil {
		return errors.Wrapf(err, "failed to store document %q", key)
	}

	s.logger.Debug("document stored", "key", key, "size", len(v))
	return nil
}

// Get returns the document stored under key. If not found, returns ErrKeyNotFound.
func (s *Store) Get(key string) (*types.Document, error) {
	value, closer, err := s.db.Get(buildKey(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errors.WithStack(ErrKeyNotFound)
		}

		return nil, err
	}

	doc, err := s.dec.Decode(value)
	cerr := closer.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode document %q", key)
	}
	if cerr != nil {
		return nil, cerr
	}

	return doc, nil
}

// Exists reports whether a document is stored under key.
func (s *Store) Exists(key string) (bool, error) {
	_, closer, err := s.db.Get(buildKey(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, closer.Close()
}

// Delete a document by key. If not found, returns ErrKeyNotFound.
func (s *Store) Delete(key string) error {
	ok, err := s.Exists(key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.WithStack(ErrKeyNotFound)
	}

	err = s.db.Delete(buildKey(key), s.wopts)
	if err != nil {
		return errors.Wrapf(err, "failed to delete document %q", key)
	}

	s.logger.Debug("document deleted", "key", key)
	return nil
}

// Keys returns the keys starting with prefix, in ascending byte order.
func (s *Store) Keys(prefix string) ([]string, error) {
	lower := buildKey(prefix)
	// keys are valid UTF-8 and never contain 0xff
	upper := append(buildKey(prefix), 0xff)

	it := s.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: upper,
	})
	defer it.Close()

	var keys []string
	for it.First(); it.Valid(); it.Next() {
		keys = append(keys, trimPrefix(it.Key()))
	}

	return keys, errors.WithStack(it.Error())
}

// Close the store and the underlying Pebble database.
func (s *Store) Close() error {
	s.logger.Debug("closing store")
	return s.db.Close()
}
