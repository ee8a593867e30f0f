package query

import (
	"slices"

	"github.com/tobsdb/tdbrel/internal/builder"
	"github.com/tobsdb/tdbrel/internal/types"
)

// validateRow checks that row holds exactly the table's fields, each with a
// value of the field's type.
func validateRow(table *builder.Table, row builder.Row) error {
	for _, field := range table.Columns() {
		if !row.Has(field.Name) {
			return newQueryError(builder.ErrSchemaMismatch,
				"Row for table %s is missing field %s", table.Name, field.Name)
		}
	}
	for name := range row {
		if _, ok := table.Field(name); !ok {
			return newQueryError(builder.ErrSchemaMismatch,
				"Field %s does not exist on table %s", name, table.Name)
		}
	}
	for _, field := range table.Columns() {
		if err := validateValue(table, field, row.Get(field.Name)); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(table *builder.Table, field *builder.Field, value types.Value) error {
	if !field.Accepts(value) {
		return newQueryError(builder.ErrTypeMismatch,
			"Invalid value for field %s on table %s: expected %s, got %s",
			field.Name, table.Name, field.BuiltinType, value.Type())
	}
	return nil
}

func getField(table *builder.Table, field_name string) (*builder.Field, error) {
	field, ok := table.Field(field_name)
	if !ok {
		return nil, newQueryError(builder.ErrUnknownColumn,
			"Field %s does not exist on table %s", field_name, table.Name)
	}
	return field, nil
}

// validateWhere checks that every constraint names a field of the table and
// holds a value of that field's type.
func validateWhere(table *builder.Table, where builder.Row) error {
	for _, name := range sortedNames(where) {
		field, err := getField(table, name)
		if err != nil {
			return err
		}
		if err := validateValue(table, field, where.Get(name)); err != nil {
			return err
		}
	}
	return nil
}

func compareUtil(row, where builder.Row) bool {
	for name, value := range where {
		if !row.Has(name) || !row.Get(name).Equal(value) {
			return false
		}
	}
	return true
}

// candidateRows returns the rows that may match where, in id order.
// When a constraint is on an indexed field only that index's rows are
// returned, otherwise every row of the table is.
func candidateRows(table *builder.Table, where builder.Row) []*builder.TableRow {
	var best []int
	has_index := false
	for name, value := range where {
		idx := table.IndexOn(name)
		if idx == nil {
			continue
		}
		ids := idx.Get(value)
		if !has_index || len(ids) < len(best) {
			best = ids
			has_index = true
		}
	}

	if !has_index {
		return table.Rows().All()
	}

	rows := make([]*builder.TableRow, 0, len(best))
	for _, id := range best {
		if data, ok := table.Rows().Get(id); ok {
			rows = append(rows, &builder.TableRow{Id: id, Data: data})
		}
	}
	return rows
}

// filterRows returns the ids and rows matching every constraint in where.
func filterRows(table *builder.Table, where builder.Row) []*builder.TableRow {
	found_rows := []*builder.TableRow{}
	for _, row := range candidateRows(table, where) {
		if compareUtil(row.Data, where) {
			found_rows = append(found_rows, row)
		}
	}
	return found_rows
}

// validateUnique fails when an existing row agrees with row on every key
// field. A table without keys holds at most one row.
func validateUnique(table *builder.Table, row builder.Row) error {
	if len(table.Keys) == 0 {
		if table.Len() > 0 {
			return newQueryError(builder.ErrKeyConflict,
				"Table %s has no key fields and already holds a row", table.Name)
		}
		return nil
	}

	key := builder.Row{}
	for _, name := range table.Keys {
		key.Set(name, row.Get(name))
	}
	if len(filterRows(table, key)) > 0 {
		return newQueryError(builder.ErrKeyConflict,
			"Row with key %s already exists in table %s", formatKey(table, key), table.Name)
	}
	return nil
}

func formatKey(table *builder.Table, key builder.Row) string {
	res := "{"
	for i, name := range table.Keys {
		if i > 0 {
			res += ", "
		}
		res += name + ": " + key.Get(name).String()
	}
	return res + "}"
}

func sortedNames(row builder.Row) []string {
	names := row.Keys()
	slices.Sort(names)
	return names
}

func copyRows(rows []*builder.TableRow) []builder.Row {
	res := make([]builder.Row, 0, len(rows))
	for _, row := range rows {
		res = append(res, builder.CopyRow(row.Data))
	}
	return res
}
