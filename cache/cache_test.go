package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyIsStableAndContentSensitive(t *testing.T) {
	a := Key([]string{"func foo() {}"})
	b := Key([]string{"func foo() {}"})
	c := Key([]string{"func bar() {}"})
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestStoreLookupExtractRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	packDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(packDir, "data", "demo", "function"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(packDir, "data", "demo", "function", "init.mcfunction"), []byte("scoreboard players add base_index registers 1\n"), 0644))

	key := Key([]string{"source"})
	_, ok := Lookup(key)
	require.False(t, ok)

	require.NoError(t, Store(key, packDir))

	archive, ok := Lookup(key)
	require.True(t, ok)

	out := t.TempDir()
	require.NoError(t, Extract(archive, out))

	data, err := os.ReadFile(filepath.Join(out, "data", "demo", "function", "init.mcfunction"))
	require.NoError(t, err)
	require.Equal(t, "scoreboard players add base_index registers 1\n", string(data))
}
