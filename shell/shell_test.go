package shell_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemurr/simple-kv/kv"
	"github.com/stevemurr/simple-kv/shell"
)

func setup() (*shell.Shell, *bytes.Buffer, *kv.DB) {
	db := kv.New()
	var out bytes.Buffer
	return shell.New(db, &out), &out, db
}

func mustExec(t *testing.T, sh *shell.Shell, line string) {
	t.Helper()
	quit, err := sh.Exec(line)
	require.NoError(t, err, line)
	require.False(t, quit, line)
}

func TestCRUD(t *testing.T) {
	sh, out, db := setup()

	mustExec(t, sh, `create User:001 {"name": "Steve", "age": 32, "city": "SF"}`)
	assert.Contains(t, out.String(), `Created record with ID "User:001"`)

	res, err := db.Read("User:001")
	require.NoError(t, err)
	assert.Equal(t, kv.Record{"name": "Steve", "age": float64(32), "city": "SF", "id": "User:001"}, res.Data)

	out.Reset()
	mustExec(t, sh, "read User:001 name")
	assert.Equal(t, "Read record with ID \"User:001\"\n{\n  \"name\": \"Steve\"\n}\n", out.String())

	mustExec(t, sh, `update User:001 {"age": 33}`)
	res, err = db.Read("User:001", kv.WithFields("age"))
	require.NoError(t, err)
	assert.Equal(t, float64(33), res.Data["age"])

	out.Reset()
	mustExec(t, sh, "delete User:001")
	assert.Equal(t, "Deleted record with ID \"User:001\"\n", out.String())

	_, err = sh.Exec("read User:001")
	require.ErrorIs(t, err, kv.ErrRecordNotFound)
}

func TestCreateLenientJSON(t *testing.T) {
	sh, _, db := setup()

	mustExec(t, sh, `create Movie:1 {"title": "Heat", /* 1995 */ "tags": ["crime",],}`)
	res, err := db.Read("Movie:1")
	require.NoError(t, err)
	assert.Equal(t, []any{"crime"}, res.Data["tags"])
}

func TestCreateWithoutBody(t *testing.T) {
	sh, _, db := setup()

	mustExec(t, sh, "create Tag:")
	n, err := db.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDisplayCollectionsCount(t *testing.T) {
	sh, out, _ := setup()

	mustExec(t, sh, `create User:001 {"name": "Steve"}`)
	mustExec(t, sh, `create Order:1 {}`)

	out.Reset()
	mustExec(t, sh, "display")
	assert.Equal(t, "All Records:\n'User:001': {\"id\":\"User:001\",\"name\":\"Steve\"}\n'Order:1': {\"id\":\"Order:1\"}\n", out.String())

	out.Reset()
	mustExec(t, sh, "collections")
	assert.Equal(t, "User\nOrder\n", out.String())

	out.Reset()
	mustExec(t, sh, "count")
	assert.Equal(t, "2\n", out.String())
}

func TestDump(t *testing.T) {
	sh, out, _ := setup()
	path := filepath.Join(t.TempDir(), "dump.json")

	mustExec(t, sh, `create User:001 {}`)
	mustExec(t, sh, "dump "+path)
	assert.Contains(t, out.String(), "Wrote 1 records to "+path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"key": "User:001"`)
}

func TestErrors(t *testing.T) {
	sh, _, _ := setup()

	tests := []struct {
		line string
		want error
	}{
		{"frobnicate", shell.ErrUnknownCommand},
		{"create", shell.ErrUsage},
		{"read", shell.ErrUsage},
		{"update User:1", shell.ErrUsage},
		{"delete", shell.ErrUsage},
		{"dump", shell.ErrUsage},
		{"read Ghost:1", kv.ErrCollectionNotFound},
		{"create nocolon {}", kv.ErrInvalidKey},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			_, err := sh.Exec(tc.line)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := sh.Exec(`create User:1 {"broken"`)
	require.ErrorContains(t, err, "invalid JSON")
	_, err = sh.Exec(`create User:1 null`)
	require.ErrorContains(t, err, "expected an object")
}

func TestQuitAndBlank(t *testing.T) {
	sh, out, _ := setup()

	for _, line := range []string{"exit", "quit", "q", "  QUIT  "} {
		quit, err := sh.Exec(line)
		require.NoError(t, err)
		assert.True(t, quit, line)
	}

	quit, err := sh.Exec("   ")
	require.NoError(t, err)
	assert.False(t, quit)

	mustExec(t, sh, "help")
	assert.Contains(t, out.String(), "Commands:")
}
