package fileops

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenerCommand(t *testing.T) {
	name, args := OpenerCommand("linux", "/tmp/a.txt")
	assert.Equal(t, "xdg-open", name)
	assert.Equal(t, []string{"/tmp/a.txt"}, args)

	name, args = OpenerCommand("darwin", "/tmp/a.txt")
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{"/tmp/a.txt"}, args)

	name, args = OpenerCommand("windows", `C:\a.txt`)
	assert.Equal(t, "cmd", name)
	assert.Equal(t, []string{"/c", "start", "", `C:\a.txt`}, args)
}

func TestOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/inbox/a.txt", []byte("x"), 0644))

	var launched []string
	ops := &Ops{
		Fs:   fs,
		GOOS: "linux",
		Launch: func(name string, args ...string) error {
			launched = append(append(launched, name), args...)
			return nil
		},
	}

	require.NoError(t, ops.Open("/inbox/a.txt"))
	assert.Equal(t, []string{"xdg-open", "/inbox/a.txt"}, launched)
}

func TestOpen_Failures(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/inbox/a.txt", []byte("x"), 0644))

	ops := &Ops{
		Fs:     fs,
		GOOS:   "linux",
		Launch: func(string, ...string) error { return errors.New("no handler") },
	}

	assert.True(t, errors.Is(ops.Open("/inbox/a.txt"), ErrOpenFailed))
	assert.True(t, errors.Is(ops.Open("/inbox/missing.txt"), ErrOpenFailed))
	assert.True(t, errors.Is(ops.Open("/inbox"), ErrOpenFailed))
}

func TestDelete(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/inbox/a.txt", []byte("x"), 0644))

	ops := New(fs)
	require.NoError(t, ops.Delete("/inbox/a.txt"))

	exists, err := afero.Exists(fs, "/inbox/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.True(t, errors.Is(ops.Delete("/inbox/a.txt"), ErrDeleteFailed))
	assert.True(t, errors.Is(ops.Delete("/inbox"), ErrDeleteFailed))
}
