package format_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolledback/safediff/internal/format"
	"github.com/rolledback/safediff/internal/format/mock"
	"github.com/rolledback/safediff/internal/models"
)

func touch(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	return path
}

func TestRegistry_Default(t *testing.T) {
	r := format.Default()
	assert.Equal(t, []string{".kdbx", ".psafe3"}, r.Extensions())

	_, err := r.Lookup("vault.KDBX")
	assert.NoError(t, err, "extensions match case-insensitively")
}

func TestRegistry_UnknownFormat(t *testing.T) {
	r := format.Default()
	_, err := r.Open(touch(t, "vault.csv"), format.Credentials{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, format.ErrUnknownFormat))
	assert.Contains(t, errors.FlattenHints(err), ".kdbx, .psafe3")
}

func TestRegistry_MissingFile(t *testing.T) {
	o := mock.NewOpener()
	r := format.NewRegistry()
	r.Register("mock", o.Open)

	_, err := r.Open(filepath.Join(t.TempDir(), "gone.mock"), format.Credentials{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Empty(t, o.Calls, "opener must not run for a missing file")
}

func TestRegistry_MissingKeyFile(t *testing.T) {
	o := mock.NewOpener()
	r := format.NewRegistry()
	r.Register(".mock", o.Open)

	_, err := r.Open(touch(t, "a.mock"), format.Credentials{KeyFile: filepath.Join(t.TempDir(), "nokey")})
	require.Error(t, err)
	assert.Empty(t, o.Calls)
}

func TestRegistry_Open(t *testing.T) {
	path := touch(t, "a.mock")
	tree := &models.Group{ID: "r", Name: "Vault"}

	o := mock.NewOpener()
	o.SetDatabase(path, tree, nil, "")
	r := format.NewRegistry()
	r.Register(".mock", o.Open)

	got, err := r.Open(path, format.Credentials{})
	require.NoError(t, err)
	assert.Equal(t, "Vault", got.Name)
	require.Len(t, o.Calls, 1)
	assert.Equal(t, path, o.Calls[0].Path)
}

func TestRegistry_Check(t *testing.T) {
	r := format.NewRegistry()
	r.Register(".mock", mock.NewOpener().Open)

	assert.NoError(t, r.Check(touch(t, "a.mock"), ""))
	assert.Error(t, r.Check(filepath.Join(t.TempDir(), "a.mock"), ""))
	assert.True(t, errors.Is(r.Check(touch(t, "a.txt"), ""), format.ErrUnknownFormat))
}
