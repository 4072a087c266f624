package builtin

import (
	"github.com/zeebo/xxh3"

	"catalogsummary/internal/table"
)

// Dedup removes duplicate rows. The first occurrence wins and input order is
// preserved, so applying Dedup twice gives the same table as applying it
// once.
//
// Rows are bucketed by an xxh3 hash of their key encoding and compared cell
// by cell within a bucket, so a hash collision never drops a distinct row.
type Dedup struct {
	// Keys restricts the comparison to these columns. Empty means every
	// column, i.e. exact-row equality.
	Keys []string
}

// Apply returns the de-duplicated table.
func (d Dedup) Apply(t *table.Table) (*table.Table, error) {
	pos := make([]int, 0, len(t.Columns()))
	if len(d.Keys) == 0 {
		for i := range t.Columns() {
			pos = append(pos, i)
		}
	} else {
		if err := requireColumns(t, d.Keys...); err != nil {
			return nil, err
		}
		for _, k := range d.Keys {
			pos = append(pos, t.Index(k))
		}
	}

	buckets := make(map[uint64][]int, t.Len())
	keep := make([]int, 0, t.Len())
	var buf []byte

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		buf = buf[:0]
		for _, p := range pos {
			buf = row[p].AppendKey(buf)
		}
		h := xxh3.Hash(buf)

		dup := false
		for _, j := range buckets[h] {
			if sameAt(row, t.Row(j), pos) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		buckets[h] = append(buckets[h], i)
		keep = append(keep, i)
	}
	return t.Select(keep), nil
}

func sameAt(a, b []table.Value, pos []int) bool {
	for _, p := range pos {
		if !a[p].Equal(b[p]) {
			return false
		}
	}
	return true
}
