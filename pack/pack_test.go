package pack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScriptLineSubstitutionMarker(t *testing.T) {
	s := &Script{Name: "foo"}
	s.Line(`scoreboard players set r0 registers 1`)
	s.Line(`data modify storage memory:temp.arguments.%0 set value $(x)`)
	require.Equal(t, "scoreboard players set r0 registers 1", s.Lines[0])
	require.Equal(t, "$data modify storage memory:temp.arguments.%0 set value $(x)", s.Lines[1])
}

func TestScriptLineDoesNotDoublePrefix(t *testing.T) {
	s := &Script{Name: "foo"}
	s.Line("$data modify storage memory:temp.x set value $(y)")
	require.Equal(t, 1, len(s.Lines))
	require.Equal(t, "$data modify storage memory:temp.x set value $(y)", s.Lines[0])
}

func TestNamespaceRejectsDuplicateScriptNames(t *testing.T) {
	p := New("test", "", 48)
	ns := p.Namespace("mcscript")
	ns.NewScript("init")
	require.Panics(t, func() { ns.NewScript("init") })
}

func TestPackNamespaceIsIdempotent(t *testing.T) {
	p := New("test", "", 48)
	a := p.Namespace("main")
	b := p.Namespace("main")
	require.Same(t, a, b)
	require.Len(t, p.Namespaces(), 1)
}

func TestWriteProducesExpectedLayout(t *testing.T) {
	p := New("test", "a test pack", 48)
	ns := p.Namespace("main")
	s := ns.NewScript("hello")
	s.Line("say hi")

	dir := t.TempDir()
	require.NoError(t, Write(p, dir))

	meta, err := os.ReadFile(filepath.Join(dir, "pack.mcmeta"))
	require.NoError(t, err)
	require.Contains(t, string(meta), `"pack_format": 48`)
	require.Contains(t, string(meta), `"description": "a test pack"`)

	fn, err := os.ReadFile(filepath.Join(dir, "data", "main", "function", "hello.mcfunction"))
	require.NoError(t, err)
	require.Equal(t, "say hi\n", string(fn))
}
