package commands_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chaisql/llsd/cmd/llsd/commands"
	"github.com/chaisql/llsd/internal/testutil/assert"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := commands.NewApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader(stdin)

	err := app.Run(context.Background(), append([]string{"llsd"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConvert(t *testing.T) {
	out, err := run(t, `{"a": 1, "b": [true, null]}`, "convert", "--to", "notation")
	assert.NoError(t, err)
	require.Equal(t, "{'a':i1,'b':[1,!]}\n", out)

	out, err = run(t, `{'a':i1}`, "convert", "--from", "notation", "--to", "json")
	assert.NoError(t, err)
	require.Equal(t, "{\"a\":1}\n", out)

	out, err = run(t, `[u550e8400-e29b-41d4-a716-446655440000]`, "convert", "--to", "json", "--preserve-types")
	assert.NoError(t, err)
	require.Equal(t, "[{\"__type\":\"uuid\",\"value\":\"550e8400-e29b-41d4-a716-446655440000\"}]\n", out)
}

func TestConvertFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `[1]`)
	b := writeFile(t, dir, "b.txt", `'two'`)

	out, err := run(t, "", "convert", "--to", "xml", a, b)
	assert.NoError(t, err)
	require.Equal(t,
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<llsd><array><integer>1</integer></array></llsd>\n"+
			"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<llsd><string>two</string></llsd>\n",
		out)

	_, err = run(t, "", "convert", "--to", "xml", a, filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestConvertErrors(t *testing.T) {
	_, err := run(t, `{'a':`, "convert")
	assert.Error(t, err)

	_, err = run(t, `[1]`, "convert", "--to", "yaml")
	assert.Error(t, err)

	_, err = run(t, `[[[1]]]`, "convert", "--max-depth", "1")
	require.ErrorContains(t, err, "quota exceeded")
}

func TestGet(t *testing.T) {
	doc := `{'users':[{'name':'alice','age':i30}]}`

	out, err := run(t, doc, "get", "users.0.name")
	assert.NoError(t, err)
	require.Equal(t, "'alice'\n", out)

	out, err = run(t, doc, "get", "--to", "json", "users.0")
	assert.NoError(t, err)
	require.Equal(t, "{\"name\":\"alice\",\"age\":30}\n", out)

	_, err = run(t, doc, "get", "users.0.email")
	require.ErrorContains(t, err, "path not found")

	_, err = run(t, doc, "get")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.json", `{"name": "x", "list": [1, 2]}`)
	deep := writeFile(t, dir, "deep.json", `{"a": {"b": {"c": 1}}}`)

	out, err := run(t, "", "validate", "--max-depth", "2", ok, deep)
	require.ErrorContains(t, err, "1 of 2 documents are invalid")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, ok+": ok (5 elements, depth 2)", lines[0])
	require.Contains(t, lines[1], deep+": ")
	require.Contains(t, lines[1], "quota exceeded")

	out, err = run(t, "", "validate", "--require", "name", "--require", "list.1", ok)
	assert.NoError(t, err)
	require.Equal(t, ok+": ok (5 elements, depth 2)\n", out)

	out, err = run(t, "", "validate", "--require", "email", ok)
	assert.Error(t, err)
	require.Contains(t, out, `missing field: "email"`)

	_, err = run(t, "", "validate", "--max-total", "4", ok)
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "db")

	_, err := run(t, `{'name':'alice'}`, "store", "--db", db, "put", "users/alice")
	assert.NoError(t, err)
	_, err = run(t, `{'name':'bob'}`, "store", "--db", db, "put", "users/bob")
	assert.NoError(t, err)
	_, err = run(t, `i1`, "store", "--db", db, "put", "other")
	assert.NoError(t, err)

	out, err := run(t, "", "store", "--db", db, "list", "users/")
	assert.NoError(t, err)
	require.Equal(t, "users/alice\nusers/bob\n", out)

	out, err = run(t, "", "store", "--db", db, "get", "--to", "json", "users/bob")
	assert.NoError(t, err)
	require.Equal(t, "{\"name\":\"bob\"}\n", out)

	_, err = run(t, "", "store", "--db", db, "delete", "users/bob", "other")
	assert.NoError(t, err)

	out, err = run(t, "", "store", "--db", db, "list")
	assert.NoError(t, err)
	require.Equal(t, "users/alice\n", out)

	_, err = run(t, "", "store", "--db", db, "get", "users/bob")
	require.ErrorContains(t, err, "key not found")
}
