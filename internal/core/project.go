package core

import (
	"fmt"
	"strings"
)

// SelectColumns keeps exactly the named columns in the given order. A nil
// selection keeps every column; an empty non-nil one keeps none, leaving an
// empty table. Repeated names count once, at their first position. Any name
// absent from t fails with ErrUnknownColumn.
func SelectColumns(t *Table, names []string) (*Table, error) {
	if names == nil {
		return t, nil
	}

	seen := make(map[string]bool, len(names))
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		i := t.Index(name)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		cols = append(cols, t.columns[i])
	}
	return t.withColumns(cols), nil
}

// Rename applies every mapping at once, so chains like a->b, b->a swap names.
// Columns without a mapping, or mapped to "", keep their name. Keys naming
// no column are ignored. Two columns may end up with the same name; lookups
// by name then resolve to the later one.
func Rename(t *Table, mapping map[string]string) *Table {
	if len(mapping) == 0 {
		return t
	}
	cols := make([]Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c
		if to, ok := mapping[c.Name]; ok && to != "" {
			cols[i].Name = to
		}
	}
	return t.withColumns(cols)
}

// NormalizeRename returns the mapping restricted to names, with identity
// entries for names the mapping omits or maps to "".
func NormalizeRename(names []string, mapping map[string]string) map[string]string {
	out := make(map[string]string, len(names))
	for _, n := range names {
		if to := mapping[n]; to != "" {
			out[n] = to
		} else {
			out[n] = n
		}
	}
	return out
}

// ParseRenamePairs turns "old=new" entries into a rename map. Blank entries
// are skipped; "old=" keeps the original name.
func ParseRenamePairs(pairs []string) (map[string]string, error) {
	var out map[string]string
	for _, p := range pairs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		from, to, ok := strings.Cut(p, "=")
		from = strings.TrimSpace(from)
		if !ok || from == "" {
			return nil, fmt.Errorf("rename %q is not old=new", p)
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[from] = strings.TrimSpace(to)
	}
	return out, nil
}
