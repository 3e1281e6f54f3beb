// Package pack is the in-memory model of a compiled output pack: a tree of
// {pack → namespaces → scripts → command lines}, built by append-only
// builders during code generation and later handed to Write for
// serialization.
//
// The builder style (an accumulating struct with small, single-purpose
// append methods and a final String/materialize step) follows the
// teacher's goWriter in compiler/writer.go.
package pack

import (
	"fmt"
	"strings"
)

// Script is a single named command script: a sequence of command lines,
// addressable as `namespace:name` from other scripts.
type Script struct {
	Name  string
	Lines []string
}

// Line appends one command line. If the line contains the substitution
// marker "$(", a "$" is prepended so the host runtime parameter-expands it
// against its "with storage" argument record — this is the one automatic
// transformation the pack model performs on emission.
func (s *Script) Line(line string) {
	if strings.Contains(line, "$(") && !strings.HasPrefix(line, "$") {
		line = "$" + line
	}
	s.Lines = append(s.Lines, line)
}

// Linef appends one formatted command line, applying the same "$("
// transform as Line.
func (s *Script) Linef(format string, args ...any) {
	s.Line(fmt.Sprintf(format, args...))
}

// Text joins the script's lines with newlines, newline-terminated.
func (s *Script) Text() string {
	if len(s.Lines) == 0 {
		return ""
	}
	return strings.Join(s.Lines, "\n") + "\n"
}

// Namespace owns an ordered set of scripts.
type Namespace struct {
	Name    string
	scripts []*Script
	byName  map[string]*Script
}

// NewScript creates and appends a new, empty, active script under this
// namespace. It is an error (panic) to add two scripts with the same name;
// the generator is responsible for unique naming (label counters etc.).
func (n *Namespace) NewScript(name string) *Script {
	if n.byName == nil {
		n.byName = make(map[string]*Script)
	}
	if _, exists := n.byName[name]; exists {
		panic("pack: duplicate script name " + name + " in namespace " + n.Name)
	}
	s := &Script{Name: name}
	n.scripts = append(n.scripts, s)
	n.byName[name] = s
	return s
}

// Scripts returns the namespace's scripts in the order they were created.
func (n *Namespace) Scripts() []*Script { return n.scripts }

// Script looks up a script by name, returning (nil, false) if absent.
func (n *Namespace) Script(name string) (*Script, bool) {
	s, ok := n.byName[name]
	return s, ok
}

// Pack owns an ordered set of namespaces.
type Pack struct {
	Name       string
	Description string
	FormatMajor int
	namespaces  []*Namespace
	byName      map[string]*Namespace
}

// New creates an empty pack.
func New(name, description string, formatMajor int) *Pack {
	return &Pack{Name: name, Description: description, FormatMajor: formatMajor}
}

// Namespace returns the namespace with the given name, creating it (in
// insertion order) if it does not yet exist.
func (p *Pack) Namespace(name string) *Namespace {
	if p.byName == nil {
		p.byName = make(map[string]*Namespace)
	}
	if ns, ok := p.byName[name]; ok {
		return ns
	}
	ns := &Namespace{Name: name}
	p.namespaces = append(p.namespaces, ns)
	p.byName[name] = ns
	return ns
}

// Namespaces returns every namespace in creation order.
func (p *Pack) Namespaces() []*Namespace { return p.namespaces }
