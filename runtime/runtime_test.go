package runtime

import (
	"testing"

	"github.com/rubiojr/mcscript/pack"
	"github.com/stretchr/testify/require"
)

func TestInstallWritesEveryHelperScript(t *testing.T) {
	p := pack.New("test", "", 48)
	Install(p)

	ns := p.Namespace(Namespace)
	for _, name := range []string{
		"init", "pop_frame", "mov_m_m", "mov_m_r", "mov_r_m",
		"load_element_path", "load_array_size",
		"array_push", "array_pop", "array_insert", "array_erase",
	} {
		s, ok := ns.Script(name)
		require.True(t, ok, "missing helper script %s", name)
		require.NotEmpty(t, s.Lines)
	}
}

func TestInstallLinesWithMacrosArePrefixed(t *testing.T) {
	p := pack.New("test", "", 48)
	Install(p)
	ns := p.Namespace(Namespace)

	movMM, _ := ns.Script("mov_m_m")
	require.Equal(t, "$data modify storage $(target_path) set from storage $(src_path)", movMM.Lines[0])

	init, _ := ns.Script("init")
	for _, l := range init.Lines {
		require.NotContains(t, l, "$(")
	}
}

func TestInstallDoesNotPanicOnAFreshPack(t *testing.T) {
	p := pack.New("test", "", 48)
	require.NotPanics(t, func() { Install(p) })
}
