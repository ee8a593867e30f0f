package builder

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/tobsdb/tdbrel/internal/types"
	"github.com/tobsdb/tdbrel/pkg"
)

type Table struct {
	Name   string
	Fields *pkg.InsertSortMap[string, *Field]
	// key field names, in declaration order
	Keys []string

	IdTracker atomic.Int64  `json:"-"`
	accesses  atomic.Uint64 `json:"-"`

	Schema *Schema `json:"-"`

	rows    *TableRows
	indexes pkg.Map[types.FieldType, *TableIndex]
}

func NewTable(name string, fields []*Field, keys []string) (*Table, error) {
	if len(name) == 0 {
		return nil, fmt.Errorf("%w: table name cannot be empty", ErrSchemaMismatch)
	}

	t := &Table{
		Name:    name,
		Fields:  pkg.NewInsertSortMap[string, *Field](),
		Keys:    []string{},
		rows:    NewTableRows(),
		indexes: pkg.Map[types.FieldType, *TableIndex]{},
	}

	for _, field := range fields {
		if err := CheckFieldRules(field); err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		if t.Fields.Has(field.Name) {
			return nil, fmt.Errorf("%w: field %s is declared twice in table %s", ErrDuplicateColumn, field.Name, name)
		}
		f := *field
		f.Key = false
		f.Table = t
		t.Fields.Push(f.Name, &f)
	}

	key_set := pkg.NewSet(keys...)
	for _, field := range fields {
		if field.Key {
			key_set.Add(field.Name)
		}
	}
	for key := range key_set {
		if !t.Fields.Has(key) {
			return nil, fmt.Errorf("%w: key %s is not a field of table %s", ErrUnknownColumn, key, name)
		}
	}
	for _, field_name := range t.Fields.Sorted {
		if key_set.Has(field_name) {
			t.Fields.Get(field_name).Key = true
			t.Keys = append(t.Keys, field_name)
		}
	}

	return t, nil
}

func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name    string
		Fields  []*Field
		Keys    []string
		Indexes map[types.FieldType]string
	}{t.Name, t.Columns(), t.Keys, t.IndexedFields()})
}

func (t *Table) Field(name string) (*Field, bool) {
	if !t.Fields.Has(name) {
		return nil, false
	}
	return t.Fields.Get(name), true
}

// Columns returns the table's fields in declaration order.
func (t *Table) Columns() []*Field {
	columns := make([]*Field, 0, t.Fields.Len())
	for _, name := range t.Fields.Sorted {
		columns = append(columns, t.Fields.Get(name))
	}
	return columns
}

func (t *Table) IsKey(field_name string) bool {
	f, ok := t.Field(field_name)
	return ok && f.Key
}

func (t *Table) Rows() *TableRows { return t.rows }

func (t *Table) Row(id int) Row {
	v, ok := t.rows.Get(id)
	if !ok {
		return nil
	}
	return v
}

func (t *Table) Len() int { return t.rows.Len() }

func (t *Table) Accesses() uint64 { return t.accesses.Load() }

// Touch counts one read access to the table.
func (t *Table) Touch() { t.accesses.Add(1) }

// Index returns the table's index over a field of type ft, or nil.
func (t *Table) Index(ft types.FieldType) *TableIndex {
	return t.indexes.Get(ft)
}

// IndexOn returns the index built over field_name, or nil.
func (t *Table) IndexOn(field_name string) *TableIndex {
	for _, idx := range t.indexes {
		if idx.Field == field_name {
			return idx
		}
	}
	return nil
}

// IndexedFields maps each existing index type to its field.
func (t *Table) IndexedFields() map[types.FieldType]string {
	res := map[types.FieldType]string{}
	for ft, idx := range t.indexes {
		res[ft] = idx.Field
	}
	return res
}

func (t *Table) CreateIndex(field_name string, ft types.FieldType) (*TableIndex, error) {
	if idx := t.indexes.Get(ft); idx != nil {
		return nil, fmt.Errorf("%w: table %s already has a %s index on %s", ErrDuplicateIndex, t.Name, ft, idx.Field)
	}
	field, ok := t.Field(field_name)
	if !ok {
		return nil, fmt.Errorf("%w: field %s does not exist on table %s", ErrUnknownColumn, field_name, t.Name)
	}
	if field.BuiltinType != ft {
		return nil, fmt.Errorf("%w: field %s is %s, cannot hold a %s index", ErrTypeMismatch, field_name, field.BuiltinType, ft)
	}

	idx := NewTableIndex(field)
	for _, row := range t.rows.All() {
		idx.Add(row.Data.Get(field_name), row.Id)
	}
	t.indexes.Set(ft, idx)
	pkg.DebugLog("created", ft, "index on", t.Name+"."+field_name)
	return idx, nil
}

// InsertRow stores a copy of row and adds it to every index.
// The row must already conform to the table's fields.
func (t *Table) InsertRow(row Row) int {
	id := int(t.IdTracker.Add(1))
	stored := CopyRow(row)
	t.rows.Insert(id, stored)
	for _, idx := range t.indexes {
		idx.Add(stored.Get(idx.Field), id)
	}
	return id
}

// DeleteRow removes a row and every index entry pointing at it.
func (t *Table) DeleteRow(id int) bool {
	row, ok := t.rows.Get(id)
	if !ok {
		return false
	}
	for _, idx := range t.indexes {
		idx.Remove(row.Get(idx.Field), id)
	}
	return t.rows.Delete(id)
}
