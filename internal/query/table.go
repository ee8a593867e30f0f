package query

import (
	"github.com/tobsdb/tdbrel/internal/builder"
	"github.com/tobsdb/tdbrel/internal/types"
	"github.com/tobsdb/tdbrel/pkg"
)

// Insert adds row to table after checking it against the table's fields
// and keys. Inserting doesn't count as an access.
func Insert(table *builder.Table, row builder.Row) error {
	if err := validateRow(table, row); err != nil {
		return err
	}
	if err := validateUnique(table, row); err != nil {
		return err
	}
	table.InsertRow(row)
	return nil
}

// Delete removes every row whose field_name equals value and returns how
// many were removed. Removing nothing is not an error.
func Delete(table *builder.Table, field_name string, value types.Value) (int, error) {
	field, err := getField(table, field_name)
	if err != nil {
		return 0, err
	}
	if err := validateValue(table, field, value); err != nil {
		return 0, err
	}

	found := filterRows(table, builder.Row{field_name: value})
	for _, row := range found {
		table.DeleteRow(row.Id)
	}
	if len(found) > 0 {
		pkg.DebugLog("deleted", len(found), "rows from", table.Name)
	}
	return len(found), nil
}

// Find returns copies of the rows matching every constraint in where.
// An empty where matches every row. Each call counts as one access.
func Find(table *builder.Table, where builder.Row) ([]builder.Row, error) {
	if err := validateWhere(table, where); err != nil {
		return nil, err
	}
	table.Touch()
	return copyRows(filterRows(table, where)), nil
}

// Records returns copies of every row of table in insertion order.
func Records(table *builder.Table) []builder.Row {
	return copyRows(table.Rows().All())
}

func Min(table *builder.Table, field_name string) (types.Value, error) {
	return extreme(table, field_name, false)
}

func Max(table *builder.Table, field_name string) (types.Value, error) {
	return extreme(table, field_name, true)
}

func extreme(table *builder.Table, field_name string, max bool) (types.Value, error) {
	if _, err := getField(table, field_name); err != nil {
		return types.Value{}, err
	}
	if table.Len() == 0 {
		return types.Value{}, newQueryError(builder.ErrEmptyTable, "Table %s has no rows", table.Name)
	}
	table.Touch()

	if idx := table.IndexOn(field_name); idx != nil {
		var v types.Value
		if max {
			v, _ = idx.Max()
		} else {
			v, _ = idx.Min()
		}
		return v, nil
	}

	rows := table.Rows().All()
	res := rows[0].Data.Get(field_name)
	for _, row := range rows[1:] {
		v := row.Data.Get(field_name)
		if (max && res.Less(v)) || (!max && v.Less(res)) {
			res = v
		}
	}
	return res, nil
}

func CreateIndex(table *builder.Table, field_name string, ft types.FieldType) error {
	_, err := table.CreateIndex(field_name, ft)
	return asQueryError(err)
}

// IndexField returns the field the table's index of type ft is built on.
func IndexField(table *builder.Table, ft types.FieldType) (string, error) {
	idx := table.Index(ft)
	if idx == nil {
		return "", newQueryError(builder.ErrMissingIndex, "Table %s has no %s index", table.Name, ft)
	}
	return idx.Field, nil
}
