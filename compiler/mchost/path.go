package mchost

import (
	"fmt"
	"strconv"
	"strings"
)

// slot is a resolved, settable/gettable/removable NBT cell: the result of
// walking a dotted, bracket-indexed storage path down to its last segment.
type slot struct {
	get    func() any
	set    func(v any)
	remove func()
}

type pathStep struct {
	field   string
	indices []int
}

// parsePath splits a storage path such as "frame[2].%r0" or
// "custom_command_arguments.0" into steps of (field, trailing bracket
// indices). Bracket contents are always plain (possibly negative)
// integers; dots never appear inside them.
func parsePath(path string) []pathStep {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	steps := make([]pathStep, 0, len(parts))
	for _, p := range parts {
		field := p
		var indices []int
		if i := strings.IndexByte(p, '['); i >= 0 {
			field = p[:i]
			rest := p[i:]
			for len(rest) > 0 {
				if rest[0] != '[' {
					panic("mchost: malformed path segment " + p)
				}
				end := strings.IndexByte(rest, ']')
				if end < 0 {
					panic("mchost: unterminated bracket in path segment " + p)
				}
				n, err := strconv.Atoi(rest[1:end])
				if err != nil {
					panic("mchost: non-integer index in path segment " + p)
				}
				indices = append(indices, n)
				rest = rest[end+1:]
			}
		}
		steps = append(steps, pathStep{field: field, indices: indices})
	}
	return steps
}

func normalizeIndex(idx, length int) int {
	if idx < 0 {
		idx += length
	}
	return idx
}

func mapSlot(m map[string]any, field string) *slot {
	return &slot{
		get:    func() any { return m[field] },
		set:    func(v any) { m[field] = v },
		remove: func() { delete(m, field) },
	}
}

func listSlot(lp *[]any, idx int) *slot {
	return &slot{
		get: func() any { return (*lp)[idx] },
		set: func(v any) { (*lp)[idx] = v },
		remove: func() {
			*lp = append((*lp)[:idx], (*lp)[idx+1:]...)
		},
	}
}

// resolveSlot walks store's root compound down path, returning the slot
// at its final segment (a map field or a list index).
func (h *Host) resolveSlot(store, path string) *slot {
	root, ok := h.storage[store]
	if !ok {
		panic("mchost: unknown storage store " + store)
	}
	steps := parsePath(path)
	if len(steps) == 0 {
		panic("mchost: empty storage path for store " + store)
	}

	var cur any = root
	for i, st := range steps {
		last := i == len(steps)-1
		if st.field != "" {
			if last && len(st.indices) == 0 {
				m, ok := cur.(map[string]any)
				if !ok {
					panic(fmt.Sprintf("mchost: path %s %s: expected a compound, found %T", store, path, cur))
				}
				return mapSlot(m, st.field)
			}
			m, ok := cur.(map[string]any)
			if !ok {
				panic(fmt.Sprintf("mchost: path %s %s: expected a compound, found %T", store, path, cur))
			}
			child, ok := m[st.field]
			if !ok {
				// Real storage auto-vivifies intermediate compounds for a
				// "set"-class write; do the same rather than requiring
				// every scratch field to be pre-populated.
				child = map[string]any{}
				m[st.field] = child
			}
			cur = child
		}
		for j, idx := range st.indices {
			lastIdx := last && j == len(st.indices)-1
			lp, ok := cur.(*[]any)
			if !ok {
				panic(fmt.Sprintf("mchost: path %s %s: expected a list, found %T", store, path, cur))
			}
			real := normalizeIndex(idx, len(*lp))
			if lastIdx {
				return listSlot(lp, real)
			}
			cur = (*lp)[real]
		}
	}
	panic("mchost: unreachable path resolution for " + store + " " + path)
}

// resolveList resolves path to a field or index that itself holds a list,
// returning the list's backing pointer directly (for append/insert, which
// mutate the list in place rather than replacing the slot's value).
func (h *Host) resolveList(store, path string) *[]any {
	v := h.resolveSlot(store, path).get()
	lp, ok := v.(*[]any)
	if !ok {
		panic(fmt.Sprintf("mchost: path %s %s: expected a list, found %T", store, path, v))
	}
	return lp
}
