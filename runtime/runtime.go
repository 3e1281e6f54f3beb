// Package runtime provides the fixed set of parameterized helper scripts
// every generated pack depends on: frame push/pop, the indirect-move
// trio, and the array primitives. These exist because the host runtime
// can compose a dynamic storage path only through its one-level "with
// storage" parameter substitution — never inside a single literal
// command — so every indirect move or array op goes through one of
// these, driven by operands pre-loaded into memory:temp by the caller.
//
// The templates are embedded from disk (one file per script) and
// assembled into the namespace at Install time.
package runtime

import (
	_ "embed"

	"github.com/rubiojr/mcscript/pack"
)

// Namespace is the name of the fixed helper namespace. Generated code
// refers to it by this literal name.
const Namespace = "mcscript"

//go:embed templates/init.mcfunction
var tmplInit string

//go:embed templates/pop_frame.mcfunction
var tmplPopFrame string

//go:embed templates/mov_m_m.mcfunction
var tmplMovMM string

//go:embed templates/mov_m_r.mcfunction
var tmplMovMR string

//go:embed templates/mov_r_m.mcfunction
var tmplMovRM string

//go:embed templates/load_element_path.mcfunction
var tmplLoadElementPath string

//go:embed templates/load_array_size.mcfunction
var tmplLoadArraySize string

//go:embed templates/array_push.mcfunction
var tmplArrayPush string

//go:embed templates/array_pop.mcfunction
var tmplArrayPop string

//go:embed templates/array_insert.mcfunction
var tmplArrayInsert string

//go:embed templates/array_erase.mcfunction
var tmplArrayErase string

// scripts lists every helper script name paired with its template text,
// in the order they should be written (cosmetic only; scripts only ever
// reference each other by `mcscript:<name>`, never by position).
var scripts = []struct {
	name string
	text string
}{
	{"init", tmplInit},
	{"pop_frame", tmplPopFrame},
	{"mov_m_m", tmplMovMM},
	{"mov_m_r", tmplMovMR},
	{"mov_r_m", tmplMovRM},
	{"load_element_path", tmplLoadElementPath},
	{"load_array_size", tmplLoadArraySize},
	{"array_push", tmplArrayPush},
	{"array_pop", tmplArrayPop},
	{"array_insert", tmplArrayInsert},
	{"array_erase", tmplArrayErase},
}

// Install writes the fixed mcscript helper namespace into p. Called
// exactly once per pack, before any user namespace is emitted.
func Install(p *pack.Pack) {
	ns := p.Namespace(Namespace)
	for _, s := range scripts {
		script := ns.NewScript(s.name)
		for _, line := range splitLines(s.text) {
			script.Line(line)
		}
	}
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			if i > start {
				lines = append(lines, text[start:i])
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
