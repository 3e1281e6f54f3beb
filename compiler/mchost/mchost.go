// Package mchost is a test-only interpreter for the subset of Minecraft
// commands the generator in package compiler ever emits: scoreboard
// arithmetic, storage data manipulation, execute/store/if, function
// dispatch, and the one-level "$(name)" macro substitution the host
// runtime performs against a "with storage" argument record.
//
// It is not a general-purpose command interpreter — it recognizes
// exactly the command shapes the generator produces (and the ones the
// mcscript runtime helper templates hard-code) and panics on anything
// else, which is the point: an emitted command this host can't execute
// is itself a signal something in the generator drifted from the
// command grammar it's supposed to emit.
//
// This mirrors the teacher's compiler_test.go, which shells out to `go
// run` on generated source to check real program output; the host here
// is invoked in-process because the real target (a Minecraft server)
// isn't something a test suite can shell out to.
package mchost

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rubiojr/mcscript/pack"
)

// Host is one running instance of the scoreboard + storage state a
// mcscript pack operates on.
type Host struct {
	scores  map[string]int32
	storage map[string]map[string]any
	scripts map[string]map[string][]string // namespace -> script name -> lines
}

// New builds a Host from a compiled pack, with empty scoreboard and
// storage state (the caller must run the mcscript:init function before
// anything else, exactly as a real pack requires).
func New(p *pack.Pack) *Host {
	h := &Host{
		scores: make(map[string]int32),
		storage: map[string]map[string]any{
			"memory:temp":   {},
			"memory:stack":  {},
			"memory:global": {},
		},
		scripts: make(map[string]map[string][]string),
	}
	for _, ns := range p.Namespaces() {
		m := make(map[string][]string)
		for _, s := range ns.Scripts() {
			m[s.Name] = append([]string(nil), s.Lines...)
		}
		h.scripts[ns.Name] = m
	}
	return h
}

// Run invokes namespace:name with the whole memory:temp store as its
// macro argument record, the same way the generator's entry scripts are
// invoked by external host code.
func (h *Host) Run(ns, name string) {
	h.runScript(ns, name, h.storage["memory:temp"])
}

// Score returns the current value of player under objective.
func (h *Host) Score(player, objective string) int32 {
	return h.scores[scoreKey(player, objective)]
}

// Get returns the NBT value at path within store.
func (h *Host) Get(store, path string) any {
	return h.resolveSlot(store, path).get()
}

func scoreKey(player, objective string) string { return objective + "\x00" + player }

func (h *Host) runScript(ns, name string, macro map[string]any) {
	lines, ok := h.scripts[ns][name]
	if !ok {
		panic(fmt.Sprintf("mchost: no such script %s:%s", ns, name))
	}
	for _, raw := range lines {
		line := raw
		if strings.HasPrefix(line, "$") {
			line = substituteMacro(line[1:], macro)
		}
		if h.execLine(line) {
			return
		}
	}
}

// execLine executes one fully-substituted command line and reports
// whether it was a "return" variant, which halts the remaining lines of
// the enclosing script.
func (h *Host) execLine(line string) bool {
	switch {
	case line == "return 0":
		return true

	case reReturnRunFunction.MatchString(line):
		m := reReturnRunFunction.FindStringSubmatch(line)
		h.dispatch(m[1], m[2], m[3], m[4])
		return true

	case reFunction.MatchString(line):
		m := reFunction.FindStringSubmatch(line)
		h.dispatch(m[1], m[2], m[3], m[4])
		return false

	case reExecIf.MatchString(line):
		m := reExecIf.FindStringSubmatch(line)
		player, objective, rng, rest := m[1], m[2], m[3], m[4]
		if matchesRange(h.Score(player, objective), rng) {
			return h.execLine(rest)
		}
		return false

	case reExecStoreScore.MatchString(line):
		m := reExecStoreScore.FindStringSubmatch(line)
		player, objective, store, path := m[1], m[2], m[3], m[4]
		v := h.resolveSlot(store, path).get()
		h.scores[scoreKey(player, objective)] = toInt32(v)
		return false

	case reExecStoreStorage.MatchString(line):
		m := reExecStoreStorage.FindStringSubmatch(line)
		store, path, player, objective := m[1], m[2], m[3], m[4]
		h.resolveSlot(store, path).set(h.Score(player, objective))
		return false

	case reExecStoreStorageFromData.MatchString(line):
		m := reExecStoreStorageFromData.FindStringSubmatch(line)
		destStore, destPath, srcStore, srcPath := m[1], m[2], m[3], m[4]
		h.resolveSlot(destStore, destPath).set(h.resolveSlot(srcStore, srcPath).get())
		return false

	case reObjAdd.MatchString(line):
		return false

	case reScoreSet.MatchString(line):
		m := reScoreSet.FindStringSubmatch(line)
		h.scores[scoreKey(m[1], m[2])] = atoi32(m[3])
		return false

	case reScoreAdd.MatchString(line):
		m := reScoreAdd.FindStringSubmatch(line)
		h.scores[scoreKey(m[1], m[2])] += atoi32(m[3])
		return false

	case reScoreSub.MatchString(line):
		m := reScoreSub.FindStringSubmatch(line)
		h.scores[scoreKey(m[1], m[2])] -= atoi32(m[3])
		return false

	case reScoreOp.MatchString(line):
		m := reScoreOp.FindStringSubmatch(line)
		destP, destO, op, srcP, srcO := m[1], m[2], m[3], m[4], m[5]
		dest := scoreKey(destP, destO)
		src := h.scores[scoreKey(srcP, srcO)]
		switch op {
		case "=":
			h.scores[dest] = src
		case "+=":
			h.scores[dest] += src
		case "-=":
			h.scores[dest] -= src
		case "*=":
			h.scores[dest] *= src
		case "/=":
			h.scores[dest] = divFloor(h.scores[dest], src)
		case "%=":
			h.scores[dest] = modFloor(h.scores[dest], src)
		}
		return false

	case reDataSetValueStr.MatchString(line):
		m := reDataSetValueStr.FindStringSubmatch(line)
		h.resolveSlot(m[1], m[2]).set(unescapeString(m[3]))
		return false

	case reDataSetValueNum.MatchString(line):
		m := reDataSetValueNum.FindStringSubmatch(line)
		h.resolveSlot(m[1], m[2]).set(atoi32(m[3]))
		return false

	case reDataSetValueEmptyList.MatchString(line):
		m := reDataSetValueEmptyList.FindStringSubmatch(line)
		h.resolveSlot(m[1], m[2]).set(&[]any{})
		return false

	case reDataSetValueEmptyMap.MatchString(line):
		m := reDataSetValueEmptyMap.FindStringSubmatch(line)
		h.resolveSlot(m[1], m[2]).set(map[string]any{})
		return false

	case reDataSetFrom.MatchString(line):
		m := reDataSetFrom.FindStringSubmatch(line)
		v := h.resolveSlot(m[3], m[4]).get()
		h.resolveSlot(m[1], m[2]).set(cloneValue(v))
		return false

	case reDataAppendFrom.MatchString(line):
		m := reDataAppendFrom.FindStringSubmatch(line)
		v := h.resolveSlot(m[3], m[4]).get()
		l := h.resolveList(m[1], m[2])
		*l = append(*l, cloneValue(v))
		return false

	case reDataInsertFrom.MatchString(line):
		m := reDataInsertFrom.FindStringSubmatch(line)
		idx, _ := strconv.Atoi(m[3])
		v := h.resolveSlot(m[4], m[5]).get()
		l := h.resolveList(m[1], m[2])
		if idx < 0 {
			idx += len(*l) + 1
		}
		items := append((*l)[:idx:idx], append([]any{cloneValue(v)}, (*l)[idx:]...)...)
		*l = items
		return false

	case reDataRemove.MatchString(line):
		m := reDataRemove.FindStringSubmatch(line)
		h.resolveSlot(m[1], m[2]).remove()
		return false
	}

	panic("mchost: cannot execute line: " + line)
}

func (h *Host) dispatch(ns, name, store, subpath string) {
	macro := h.storage[store]
	if subpath != "" {
		sub := h.resolveSlot(store, subpath).get()
		m, ok := sub.(map[string]any)
		if !ok {
			panic(fmt.Sprintf("mchost: macro source %s %s is not a compound", store, subpath))
		}
		macro = m
	}
	h.runScript(ns, name, macro)
}

var (
	reObjAdd  = regexp.MustCompile(`^scoreboard objectives add (\S+) dummy$`)
	reScoreSet = regexp.MustCompile(`^scoreboard players set (\S+) (\S+) (-?\d+)$`)
	reScoreAdd = regexp.MustCompile(`^scoreboard players add (\S+) (\S+) (-?\d+)$`)
	reScoreSub = regexp.MustCompile(`^scoreboard players remove (\S+) (\S+) (-?\d+)$`)
	reScoreOp  = regexp.MustCompile(`^scoreboard players operation (\S+) (\S+) (=|\+=|-=|\*=|/=|%=) (\S+) (\S+)$`)

	reDataSetValueStr       = regexp.MustCompile(`^data modify storage (\S+) (\S+) set value "((?:[^"\\]|\\.)*)"$`)
	reDataSetValueNum       = regexp.MustCompile(`^data modify storage (\S+) (\S+) set value (-?\d+)$`)
	reDataSetValueEmptyList = regexp.MustCompile(`^data modify storage (\S+) (\S+) set value \[\]$`)
	reDataSetValueEmptyMap  = regexp.MustCompile(`^data modify storage (\S+) (\S+) set value \{\}$`)
	reDataSetFrom           = regexp.MustCompile(`^data modify storage (\S+) (\S+) set from storage (\S+) (\S+)$`)
	reDataAppendFrom        = regexp.MustCompile(`^data modify storage (\S+) (\S+) append from storage (\S+) (\S+)$`)
	reDataInsertFrom        = regexp.MustCompile(`^data modify storage (\S+) (\S+) insert (-?\d+) from storage (\S+) (\S+)$`)
	reDataRemove            = regexp.MustCompile(`^data remove storage (\S+) (\S+)$`)

	reExecStoreScore          = regexp.MustCompile(`^execute store result score (\S+) (\S+) run data get storage (\S+) (\S+)$`)
	reExecStoreStorage        = regexp.MustCompile(`^execute store result storage (\S+) (\S+) int 1 run scoreboard players get (\S+) (\S+)$`)
	reExecStoreStorageFromData = regexp.MustCompile(`^execute store result storage (\S+) (\S+) int 1 run data get storage (\S+) (\S+)$`)
	reExecIf                  = regexp.MustCompile(`^execute if score (\S+) (\S+) matches (\S+) run (.+)$`)

	reFunction           = regexp.MustCompile(`^function (\S+):(\S+) with storage (\S+)(?: (\S+))?$`)
	reReturnRunFunction  = regexp.MustCompile(`^return run function (\S+):(\S+) with storage (\S+)(?: (\S+))?$`)

	reMacroRef = regexp.MustCompile(`\$\(([A-Za-z0-9_%@.\[\]-]+)\)`)
)

// substituteMacro replaces every "$(name)" in line with the textual
// rendering of macro[name] (an int renders as decimal digits, a string
// renders raw — the surrounding quotes, if any, are already literal text
// in the template).
func substituteMacro(line string, macro map[string]any) string {
	return reMacroRef.ReplaceAllStringFunc(line, func(ref string) string {
		name := ref[2 : len(ref)-1]
		v, ok := macro[name]
		if !ok {
			panic("mchost: macro record has no field " + name)
		}
		switch t := v.(type) {
		case int32:
			return strconv.FormatInt(int64(t), 10)
		case string:
			return t
		default:
			panic(fmt.Sprintf("mchost: macro field %s has non-scalar type %T", name, v))
		}
	})
}

func matchesRange(v int32, rng string) bool {
	if !strings.Contains(rng, "..") {
		n, _ := strconv.Atoi(rng)
		return v == int32(n)
	}
	parts := strings.SplitN(rng, "..", 2)
	if parts[0] != "" {
		lo, _ := strconv.Atoi(parts[0])
		if v < int32(lo) {
			return false
		}
	}
	if parts[1] != "" {
		hi, _ := strconv.Atoi(parts[1])
		if v > int32(hi) {
			return false
		}
	}
	return true
}

func divFloor(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func modFloor(a, b int32) int32 {
	r := a % b
	if r != 0 && ((r < 0) != (b < 0)) {
		r += b
	}
	return r
}

func atoi32(s string) int32 {
	n, err := strconv.Atoi(s)
	if err != nil {
		panic("mchost: bad integer literal " + s)
	}
	return int32(n)
}

func toInt32(v any) int32 {
	switch t := v.(type) {
	case int32:
		return t
	default:
		panic(fmt.Sprintf("mchost: expected an int, found %T", v))
	}
}

func unescapeString(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *[]any:
		items := make([]any, len(*t))
		for i, e := range *t {
			items[i] = cloneValue(e)
		}
		return &items
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	default:
		return v
	}
}

// ToGo converts a stored value into plain Go data (int32, string,
// []any, map[string]any) for test assertions.
func ToGo(v any) any {
	switch t := v.(type) {
	case *[]any:
		out := make([]any, len(*t))
		for i, e := range *t {
			out[i] = ToGo(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = ToGo(e)
		}
		return out
	default:
		return v
	}
}
