// Package aggregate computes the summary tables the report is built from.
// Every function is pure: inputs are never modified.
package aggregate

import (
	"sort"

	"catalogsummary/internal/schema"
	"catalogsummary/internal/table"
)

// Count is one distinct value and how often it occurs.
type Count struct {
	Value table.Value
	N     int
}

// Label renders the value for chart axes.
func (c Count) Label() string { return c.Value.String() }

// group tallies the non-missing cells of vals in first-appearance order.
func group(vals []table.Value) []Count {
	pos := make(map[string]int)
	var out []Count
	var buf []byte
	for _, v := range vals {
		if v.IsNull() {
			continue
		}
		buf = v.AppendKey(buf[:0])
		if i, ok := pos[string(buf)]; ok {
			out[i].N++
			continue
		}
		pos[string(buf)] = len(out)
		out = append(out, Count{Value: v, N: 1})
	}
	return out
}

func column(t *table.Table, col string) ([]table.Value, error) {
	vals, ok := t.Column(col)
	if !ok {
		return nil, &schema.SchemaError{Missing: []string{col}}
	}
	return vals, nil
}

// ValueCounts counts the distinct values of col, most frequent first. Ties
// keep the order in which the values first appear. Missing cells are not
// counted. topN > 0 truncates the result.
func ValueCounts(t *table.Table, col string, topN int) ([]Count, error) {
	vals, err := column(t, col)
	if err != nil {
		return nil, err
	}
	out := group(vals)
	sort.SliceStable(out, func(i, j int) bool { return out[i].N > out[j].N })
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

// CountsByIndex counts the distinct values of col ordered by the value
// itself, ascending.
func CountsByIndex(t *table.Table, col string) ([]Count, error) {
	vals, err := column(t, col)
	if err != nil {
		return nil, err
	}
	out := group(vals)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value.Less(out[j].Value) })
	return out, nil
}

// CrossTab is a two-way count table. Counts[i][j] is the number of rows in
// group Groups[i] with category Categories[j].
type CrossTab struct {
	Groups     []table.Value
	Categories []table.Value
	Counts     [][]int
}

// Get returns the count for the group and category labels, and whether both
// exist.
func (c *CrossTab) Get(group, category string) (int, bool) {
	gi, ci := -1, -1
	for i, g := range c.Groups {
		if g.String() == group {
			gi = i
			break
		}
	}
	for j, cat := range c.Categories {
		if cat.String() == category {
			ci = j
			break
		}
	}
	if gi < 0 || ci < 0 {
		return 0, false
	}
	return c.Counts[gi][ci], true
}

// CrossTabulate counts rows per (group, category) pair. Every group has an
// entry for every category seen anywhere in the table, zero when the pair
// never occurs. Rows missing either value are skipped. Groups and
// categories are sorted ascending.
func CrossTabulate(t *table.Table, groupCol, categoryCol string) (*CrossTab, error) {
	if err := schema.Check(t.Columns(), []string{groupCol, categoryCol}); err != nil {
		return nil, err
	}
	gv, _ := t.Column(groupCol)
	cv, _ := t.Column(categoryCol)

	var gs, cs []table.Value
	for i := range gv {
		if gv[i].IsNull() || cv[i].IsNull() {
			continue
		}
		gs = append(gs, gv[i])
		cs = append(cs, cv[i])
	}

	ct := &CrossTab{Groups: keys(group(gs)), Categories: keys(group(cs))}
	gIdx := index(ct.Groups)
	cIdx := index(ct.Categories)
	ct.Counts = make([][]int, len(ct.Groups))
	for i := range ct.Counts {
		ct.Counts[i] = make([]int, len(ct.Categories))
	}
	var buf []byte
	for i := range gs {
		buf = gs[i].AppendKey(buf[:0])
		g := gIdx[string(buf)]
		buf = cs[i].AppendKey(buf[:0])
		ct.Counts[g][cIdx[string(buf)]]++
	}
	return ct, nil
}

func keys(cs []Count) []table.Value {
	out := make([]table.Value, len(cs))
	for i, c := range cs {
		out[i] = c.Value
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func index(vals []table.Value) map[string]int {
	m := make(map[string]int, len(vals))
	for i, v := range vals {
		m[string(v.AppendKey(nil))] = i
	}
	return m
}
