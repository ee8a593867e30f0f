package builder

import (
	"maps"

	"github.com/tobsdb/tdbrel/internal/types"
	"github.com/tobsdb/tdbrel/pkg"
	sorted "github.com/tobshub/go-sortedmap"
)

// Maps row field name to its saved data
type Row = pkg.Map[string, types.Value]

func CopyRow(r Row) Row { return maps.Clone(r) }

type TableRow struct {
	Id   int
	Data Row
}

func tableRowsComparisonFunc(a, b *TableRow) bool {
	return a.Id < b.Id
}

// Maps row id to its saved data, iterated in id order.
// Row ids are never reused, so index entries can't alias a newer row.
type TableRows struct {
	Map *sorted.SortedMap[int, *TableRow]
}

func NewTableRows() *TableRows {
	return &TableRows{sorted.New[int, *TableRow](0, tableRowsComparisonFunc)}
}

func (r *TableRows) Get(id int) (Row, bool) {
	v, ok := r.Map.Get(id)
	if !ok {
		return nil, false
	}
	return v.Data, true
}

func (r *TableRows) Insert(id int, value Row) bool {
	return r.Map.Insert(id, &TableRow{id, value})
}

func (r *TableRows) Delete(id int) bool {
	return r.Map.Delete(id)
}

func (r *TableRows) Has(id int) bool {
	return r.Map.Has(id)
}

func (r *TableRows) Len() int {
	return r.Map.Len()
}

// All returns every row in id order.
func (r *TableRows) All() []*TableRow {
	rows := make([]*TableRow, 0, r.Len())
	if r.Len() == 0 {
		return rows
	}
	iterCh, err := r.Map.IterCh()
	if err != nil {
		return rows
	}
	for rec := range iterCh.Records() {
		rows = append(rows, rec.Val)
	}
	return rows
}
