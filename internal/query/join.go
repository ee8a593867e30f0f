package query

import (
	"github.com/tobsdb/tdbrel/internal/builder"
	"github.com/tobsdb/tdbrel/internal/types"
	"github.com/tobsdb/tdbrel/pkg"
)

func getTable(schema *builder.Schema, name string) (*builder.Table, error) {
	table, ok := schema.Table(name)
	if !ok {
		return nil, newQueryError(builder.ErrUnknownTable, "Table %s does not exist", name)
	}
	return table, nil
}

// validateJoinField checks that field exists with the same type on both
// tables and that it is the only field name they share.
func validateJoinField(t1, t2 *builder.Table, field_name string) error {
	f1, ok1 := t1.Field(field_name)
	f2, ok2 := t2.Field(field_name)
	if !ok1 || !ok2 {
		missing := t1.Name
		if ok1 {
			missing = t2.Name
		}
		return newQueryError(builder.ErrIncompatibleJoinColumn,
			"Cannot join %s and %s on %s: field does not exist on table %s", t1.Name, t2.Name, field_name, missing)
	}
	if f1.BuiltinType != f2.BuiltinType {
		return newQueryError(builder.ErrIncompatibleJoinColumn,
			"Cannot join %s and %s on %s: field types must match (%s, %s)",
			t1.Name, t2.Name, field_name, f1.BuiltinType, f2.BuiltinType)
	}
	for _, name := range t1.Fields.Sorted {
		if name != field_name && t2.Fields.Has(name) {
			return newQueryError(builder.ErrIncompatibleJoinColumn,
				"Cannot join %s and %s on %s: both tables have a field named %s", t1.Name, t2.Name, field_name, name)
		}
	}
	return nil
}

func DefineJoin(schema *builder.Schema, t1_name, t2_name, field_name string) error {
	t1, err := getTable(schema, t1_name)
	if err != nil {
		return err
	}
	t2, err := getTable(schema, t2_name)
	if err != nil {
		return err
	}
	if def, ok := schema.Joins.Get(t1_name, t2_name); ok {
		return newQueryError(builder.ErrDuplicateJoin,
			"Join between %s and %s already exists on field %s", t1_name, t2_name, def.Field)
	}
	if err := validateJoinField(t1, t2, field_name); err != nil {
		return err
	}
	schema.Joins.Set(&builder.JoinDef{Table1: t1_name, Table2: t2_name, Field: field_name})
	pkg.DebugLog("created join", t1_name, "<->", t2_name, "on", field_name)
	return nil
}

func JoinExists(schema *builder.Schema, t1_name, t2_name string) (bool, error) {
	for _, name := range []string{t1_name, t2_name} {
		if _, err := getTable(schema, name); err != nil {
			return false, err
		}
	}
	return schema.Joins.Has(t1_name, t2_name), nil
}

func getJoin(schema *builder.Schema, t1_name, t2_name string) (*builder.JoinDef, error) {
	if _, err := JoinExists(schema, t1_name, t2_name); err != nil {
		return nil, err
	}
	def, ok := schema.Joins.Get(t1_name, t2_name)
	if !ok {
		return nil, newQueryError(builder.ErrMissingJoin, "No join between %s and %s", t1_name, t2_name)
	}
	return def, nil
}

func UndefineJoin(schema *builder.Schema, t1_name, t2_name string) error {
	if _, err := getJoin(schema, t1_name, t2_name); err != nil {
		return err
	}
	schema.Joins.Delete(t1_name, t2_name)
	pkg.DebugLog("removed join", t1_name, "<->", t2_name)
	return nil
}

func JoinField(schema *builder.Schema, t1_name, t2_name string) (string, error) {
	def, err := getJoin(schema, t1_name, t2_name)
	if err != nil {
		return "", err
	}
	return def.Field, nil
}

// JoinView computes the rows of the join between two tables from their
// current contents. Each result row holds every field of both tables, with
// the join field once.
func JoinView(schema *builder.Schema, t1_name, t2_name string) ([]builder.Row, error) {
	def, err := getJoin(schema, t1_name, t2_name)
	if err != nil {
		return nil, err
	}
	outer, err := getTable(schema, t1_name)
	if err != nil {
		return nil, err
	}
	inner, err := getTable(schema, t2_name)
	if err != nil {
		return nil, err
	}

	// probe the side that has an index on the join field
	if inner.IndexOn(def.Field) == nil && outer.IndexOn(def.Field) != nil {
		outer, inner = inner, outer
	}

	var lookup func(types.Value) []*builder.TableRow
	if idx := inner.IndexOn(def.Field); idx != nil {
		lookup = func(v types.Value) []*builder.TableRow {
			rows := []*builder.TableRow{}
			for _, id := range idx.Get(v) {
				if data, ok := inner.Rows().Get(id); ok {
					rows = append(rows, &builder.TableRow{Id: id, Data: data})
				}
			}
			return rows
		}
	} else {
		buckets := pkg.Map[types.Value, []*builder.TableRow]{}
		for _, row := range inner.Rows().All() {
			v := row.Data.Get(def.Field)
			buckets.Set(v, append(buckets.Get(v), row))
		}
		lookup = buckets.Get
	}

	view := []builder.Row{}
	for _, o_row := range outer.Rows().All() {
		for _, i_row := range lookup(o_row.Data.Get(def.Field)) {
			view = append(view, mergeRows(o_row.Data, i_row.Data))
		}
	}
	return view, nil
}

func mergeRows(a, b builder.Row) builder.Row {
	res := builder.CopyRow(a)
	for name, value := range b {
		res.Set(name, value)
	}
	return res
}
