package builder

import (
	"slices"

	"github.com/tobsdb/tdbrel/internal/types"
	"github.com/tobsdb/tdbrel/pkg"
	sorted "github.com/tobshub/go-sortedmap"
)

// Ids of the rows holding an indexed value.
type TableIndexEntry struct {
	Value types.Value
	Ids   pkg.Set[int]
}

func tableIndexComparisonFunc(a, b *TableIndexEntry) bool {
	return a.Value.Less(b.Value)
}

// Ordered index over one column: value -> row ids.
type TableIndex struct {
	Field string
	Type  types.FieldType

	Map *sorted.SortedMap[types.Value, *TableIndexEntry]
}

func NewTableIndex(field *Field) *TableIndex {
	return &TableIndex{
		Field: field.Name,
		Type:  field.BuiltinType,
		Map:   sorted.New[types.Value, *TableIndexEntry](0, tableIndexComparisonFunc),
	}
}

func (idx *TableIndex) Add(value types.Value, id int) {
	if entry, ok := idx.Map.Get(value); ok {
		entry.Ids.Add(id)
		return
	}
	idx.Map.Insert(value, &TableIndexEntry{value, pkg.NewSet(id)})
}

func (idx *TableIndex) Remove(value types.Value, id int) {
	entry, ok := idx.Map.Get(value)
	if !ok {
		return
	}
	entry.Ids.Delete(id)
	if entry.Ids.Len() == 0 {
		idx.Map.Delete(value)
	}
}

func (idx *TableIndex) Has(value types.Value) bool {
	return idx.Map.Has(value)
}

// Get returns the ids of the rows holding value, in ascending order.
func (idx *TableIndex) Get(value types.Value) []int {
	entry, ok := idx.Map.Get(value)
	if !ok {
		return nil
	}
	ids := entry.Ids.Values()
	slices.Sort(ids)
	return ids
}

// Len is the number of distinct indexed values.
func (idx *TableIndex) Len() int { return idx.Map.Len() }

func (idx *TableIndex) Min() (types.Value, bool) {
	keys := idx.Map.Keys()
	if len(keys) == 0 {
		return types.Value{}, false
	}
	return keys[0], true
}

func (idx *TableIndex) Max() (types.Value, bool) {
	keys := idx.Map.Keys()
	if len(keys) == 0 {
		return types.Value{}, false
	}
	return keys[len(keys)-1], true
}

// Values returns the distinct indexed values in ascending order.
func (idx *TableIndex) Values() []types.Value {
	return slices.Clone(idx.Map.Keys())
}
