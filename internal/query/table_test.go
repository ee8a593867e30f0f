package query_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/tobsdb/tdbrel/internal/builder"
	. "github.com/tobsdb/tdbrel/internal/query"
	"github.com/tobsdb/tdbrel/internal/types"
	"gotest.tools/assert"
)

func newTable(t *testing.T, schema_data, name string) *builder.Table {
	schema, err := builder.NewSchemaFromString(schema_data)
	assert.NilError(t, err)
	table, ok := schema.Table(name)
	assert.Assert(t, ok, "expected table "+name)
	return table
}

const personasSchema = `
$TABLE personas {
    DNI      Nat    key(primary)
    nombre   String
    apellido String
}
`

func persona(dni uint64, nombre, apellido string) builder.Row {
	return builder.Row{
		"DNI":      types.Nat(dni),
		"nombre":   types.String(nombre),
		"apellido": types.String(apellido),
	}
}

func TestInsert(t *testing.T) {
	t.Run("insert and search", func(t *testing.T) {
		table := newTable(t, personasSchema, "personas")
		juan := persona(1, "Juan", "Perez")
		assert.NilError(t, Insert(table, juan))
		assert.Equal(t, table.Accesses(), uint64(0), "inserting is not an access")

		found, err := Find(table, builder.Row{"DNI": types.Nat(1)})
		assert.NilError(t, err)
		assert.DeepEqual(t, found, []builder.Row{juan})
	})

	t.Run("key conflict", func(t *testing.T) {
		table := newTable(t, personasSchema, "personas")
		assert.NilError(t, Insert(table, persona(1, "Juan", "Perez")))

		err := Insert(table, persona(1, "Ana", "Gomez"))
		assert.ErrorContains(t, err, "Row with key {DNI: 1} already exists in table personas")
		assert.Assert(t, errors.Is(err, builder.ErrKeyConflict))
		assert.Equal(t, err.(*QueryError).Status(), http.StatusConflict)
		assert.Equal(t, table.Len(), 1)
	})

	t.Run("composite key", func(t *testing.T) {
		table := newTable(t, `
$TABLE notas {
    legajo  Nat    key(primary)
    materia String key(primary)
    nota    Nat
}`, "notas")
		row := func(l uint64, m string, n uint64) builder.Row {
			return builder.Row{"legajo": types.Nat(l), "materia": types.String(m), "nota": types.Nat(n)}
		}
		assert.NilError(t, Insert(table, row(1, "algo2", 7)))
		assert.NilError(t, Insert(table, row(1, "algo3", 7)))
		assert.NilError(t, Insert(table, row(2, "algo2", 7)))

		err := Insert(table, row(1, "algo2", 10))
		assert.Assert(t, errors.Is(err, builder.ErrKeyConflict))
		assert.Equal(t, table.Len(), 3)
	})

	t.Run("key conflict detected through index", func(t *testing.T) {
		table := newTable(t, `
$TABLE a {
    id Nat key(primary) index(true)
    x  String
}`, "a")
		assert.NilError(t, Insert(table, builder.Row{"id": types.Nat(1), "x": types.String("a")}))
		err := Insert(table, builder.Row{"id": types.Nat(1), "x": types.String("b")})
		assert.Assert(t, errors.Is(err, builder.ErrKeyConflict))
	})

	t.Run("no keys allows a single row", func(t *testing.T) {
		table := newTable(t, "$TABLE a {\n x Nat\n}", "a")
		assert.NilError(t, Insert(table, builder.Row{"x": types.Nat(1)}))

		err := Insert(table, builder.Row{"x": types.Nat(2)})
		assert.Assert(t, errors.Is(err, builder.ErrKeyConflict))
		assert.ErrorContains(t, err, "Table a has no key fields and already holds a row")
	})

	t.Run("missing field", func(t *testing.T) {
		table := newTable(t, personasSchema, "personas")
		err := Insert(table, builder.Row{"DNI": types.Nat(1), "nombre": types.String("Juan")})
		assert.ErrorContains(t, err, "Row for table personas is missing field apellido")
		assert.Assert(t, errors.Is(err, builder.ErrSchemaMismatch))
		assert.Equal(t, table.Len(), 0)
	})

	t.Run("extra field", func(t *testing.T) {
		table := newTable(t, personasSchema, "personas")
		row := persona(1, "Juan", "Perez")
		row.Set("edad", types.Nat(30))
		err := Insert(table, row)
		assert.ErrorContains(t, err, "Field edad does not exist on table personas")
		assert.Assert(t, errors.Is(err, builder.ErrSchemaMismatch))
	})

	t.Run("wrong type", func(t *testing.T) {
		table := newTable(t, personasSchema, "personas")
		row := persona(1, "Juan", "Perez")
		row.Set("DNI", types.String("1"))
		err := Insert(table, row)
		assert.ErrorContains(t, err, "Invalid value for field DNI on table personas: expected Nat, got String")
		assert.Assert(t, errors.Is(err, builder.ErrTypeMismatch))
		assert.Equal(t, err.(*QueryError).Status(), http.StatusBadRequest)
	})
}

func TestFind(t *testing.T) {
	table := newTable(t, personasSchema, "personas")
	juan := persona(1, "Juan", "Perez")
	ana := persona(2, "Ana", "Perez")
	eva := persona(3, "Eva", "Gomez")
	for _, r := range []builder.Row{juan, ana, eva} {
		assert.NilError(t, Insert(table, r))
	}

	t.Run("partial criteria", func(t *testing.T) {
		found, err := Find(table, builder.Row{"apellido": types.String("Perez")})
		assert.NilError(t, err)
		assert.DeepEqual(t, found, []builder.Row{juan, ana})
	})

	t.Run("full criteria", func(t *testing.T) {
		found, err := Find(table, eva)
		assert.NilError(t, err)
		assert.DeepEqual(t, found, []builder.Row{eva})
	})

	t.Run("no match", func(t *testing.T) {
		found, err := Find(table, builder.Row{"apellido": types.String("Perez"), "nombre": types.String("Eva")})
		assert.NilError(t, err)
		assert.Equal(t, len(found), 0)
	})

	t.Run("empty criteria matches every row", func(t *testing.T) {
		found, err := Find(table, builder.Row{})
		assert.NilError(t, err)
		assert.Equal(t, len(found), 3)
	})

	t.Run("unknown field", func(t *testing.T) {
		before := table.Accesses()
		_, err := Find(table, builder.Row{"edad": types.Nat(1)})
		assert.Assert(t, errors.Is(err, builder.ErrUnknownColumn))
		assert.Equal(t, table.Accesses(), before, "rejected searches are not accesses")
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := Find(table, builder.Row{"DNI": types.String("1")})
		assert.Assert(t, errors.Is(err, builder.ErrTypeMismatch))
	})

	t.Run("results are copies", func(t *testing.T) {
		found, _ := Find(table, builder.Row{"DNI": types.Nat(1)})
		found[0].Set("nombre", types.String("Pedro"))
		again, _ := Find(table, builder.Row{"DNI": types.Nat(1)})
		assert.Equal(t, again[0].Get("nombre"), types.String("Juan"))
	})

	t.Run("counts accesses", func(t *testing.T) {
		before := table.Accesses()
		Find(table, builder.Row{})
		Find(table, builder.Row{})
		assert.Equal(t, table.Accesses(), before+2)
	})

	t.Run("uses index", func(t *testing.T) {
		indexed := newTable(t, `
$TABLE personas {
    DNI      Nat    key(primary)
    nombre   String index(true)
    apellido String
}`, "personas")
		for _, r := range []builder.Row{juan, ana, eva} {
			assert.NilError(t, Insert(indexed, r))
		}
		found, err := Find(indexed, builder.Row{"nombre": types.String("Ana"), "apellido": types.String("Perez")})
		assert.NilError(t, err)
		assert.DeepEqual(t, found, []builder.Row{ana})

		found, err = Find(indexed, builder.Row{"nombre": types.String("Ana"), "apellido": types.String("Gomez")})
		assert.NilError(t, err)
		assert.Equal(t, len(found), 0)
	})
}

func TestDelete(t *testing.T) {
	t.Run("delete every match", func(t *testing.T) {
		table := newTable(t, personasSchema, "personas")
		for _, r := range []builder.Row{persona(1, "Juan", "Perez"), persona(2, "Ana", "Perez"), persona(3, "Eva", "Gomez")} {
			assert.NilError(t, Insert(table, r))
		}

		n, err := Delete(table, "apellido", types.String("Perez"))
		assert.NilError(t, err)
		assert.Equal(t, n, 2)

		found, _ := Find(table, builder.Row{"apellido": types.String("Perez")})
		assert.Equal(t, len(found), 0)
		assert.DeepEqual(t, Records(table), []builder.Row{persona(3, "Eva", "Gomez")})
	})

	t.Run("noop", func(t *testing.T) {
		table := newTable(t, personasSchema, "personas")
		assert.NilError(t, Insert(table, persona(1, "Juan", "Perez")))

		n, err := Delete(table, "nombre", types.String("Pedro"))
		assert.NilError(t, err)
		assert.Equal(t, n, 0)
		assert.Equal(t, table.Len(), 1)
	})

	t.Run("unknown field", func(t *testing.T) {
		table := newTable(t, personasSchema, "personas")
		_, err := Delete(table, "edad", types.Nat(1))
		assert.ErrorContains(t, err, "Field edad does not exist on table personas")
		assert.Assert(t, errors.Is(err, builder.ErrUnknownColumn))
		assert.Equal(t, err.(*QueryError).Status(), http.StatusNotFound)
	})

	t.Run("wrong type", func(t *testing.T) {
		table := newTable(t, personasSchema, "personas")
		assert.NilError(t, Insert(table, persona(1, "Juan", "Perez")))
		_, err := Delete(table, "DNI", types.String("1"))
		assert.Assert(t, errors.Is(err, builder.ErrTypeMismatch))
		assert.Equal(t, table.Len(), 1)
	})

	t.Run("key is free again", func(t *testing.T) {
		table := newTable(t, personasSchema, "personas")
		assert.NilError(t, Insert(table, persona(1, "Juan", "Perez")))
		_, err := Delete(table, "DNI", types.Nat(1))
		assert.NilError(t, err)
		assert.NilError(t, Insert(table, persona(1, "Ana", "Gomez")))
	})
}

const edadSchema = `
$TABLE T {
    id     Nat key(primary)
    edad   Nat
    nombre String
}
`

func edadRow(id, edad uint64, nombre string) builder.Row {
	return builder.Row{"id": types.Nat(id), "edad": types.Nat(edad), "nombre": types.String(nombre)}
}

func TestMinMax(t *testing.T) {
	t.Run("with index", func(t *testing.T) {
		table := newTable(t, edadSchema, "T")
		for i, edad := range []uint64{5, 30, 12} {
			assert.NilError(t, Insert(table, edadRow(uint64(i), edad, "x")))
		}
		assert.NilError(t, CreateIndex(table, "edad", types.FieldTypeNat))

		min, err := Min(table, "edad")
		assert.NilError(t, err)
		assert.Equal(t, min, types.Nat(5))
		max, err := Max(table, "edad")
		assert.NilError(t, err)
		assert.Equal(t, max, types.Nat(30))

		_, err = Delete(table, "edad", types.Nat(30))
		assert.NilError(t, err)
		max, _ = Max(table, "edad")
		assert.Equal(t, max, types.Nat(12))
		assert.Equal(t, table.Accesses(), uint64(3))
	})

	t.Run("index and scan agree", func(t *testing.T) {
		scanned := newTable(t, edadSchema, "T")
		indexed := newTable(t, edadSchema, "T")
		assert.NilError(t, CreateIndex(indexed, "edad", types.FieldTypeNat))
		assert.NilError(t, CreateIndex(indexed, "nombre", types.FieldTypeString))

		rows := []builder.Row{
			edadRow(1, 40, "Juan"), edadRow(2, 7, "ana"), edadRow(3, 40, "Ana"),
			edadRow(4, 19, "Zoe"), edadRow(5, 0, "Eva"),
		}
		for _, r := range rows {
			assert.NilError(t, Insert(scanned, r))
			assert.NilError(t, Insert(indexed, r))
		}

		check := func() {
			for _, field := range []string{"id", "edad", "nombre"} {
				s_min, err := Min(scanned, field)
				assert.NilError(t, err)
				i_min, err := Min(indexed, field)
				assert.NilError(t, err)
				assert.Equal(t, s_min, i_min, "min "+field)

				s_max, _ := Max(scanned, field)
				i_max, _ := Max(indexed, field)
				assert.Equal(t, s_max, i_max, "max "+field)
			}
		}
		check()

		for _, v := range []types.Value{types.Nat(40), types.Nat(0)} {
			Delete(scanned, "edad", v)
			Delete(indexed, "edad", v)
			check()
		}

		min, _ := Min(indexed, "nombre")
		assert.Equal(t, min, types.String("Zoe"), "upper case sorts first")
		max, _ := Max(indexed, "nombre")
		assert.Equal(t, max, types.String("ana"))
	})

	t.Run("empty table", func(t *testing.T) {
		table := newTable(t, edadSchema, "T")
		_, err := Min(table, "edad")
		assert.ErrorContains(t, err, "Table T has no rows")
		assert.Assert(t, errors.Is(err, builder.ErrEmptyTable))
		assert.Equal(t, table.Accesses(), uint64(0))
	})

	t.Run("unknown field", func(t *testing.T) {
		table := newTable(t, edadSchema, "T")
		assert.NilError(t, Insert(table, edadRow(1, 1, "a")))
		_, err := Max(table, "peso")
		assert.Assert(t, errors.Is(err, builder.ErrUnknownColumn))
	})
}

func TestCreateIndex(t *testing.T) {
	t.Run("index stays consistent", func(t *testing.T) {
		table := newTable(t, edadSchema, "T")
		assert.NilError(t, Insert(table, edadRow(1, 10, "a")))
		assert.NilError(t, CreateIndex(table, "edad", types.FieldTypeNat))
		assert.NilError(t, Insert(table, edadRow(2, 20, "b")))
		assert.NilError(t, Insert(table, edadRow(3, 10, "c")))
		Delete(table, "nombre", types.String("a"))

		idx := table.Index(types.FieldTypeNat)
		assert.DeepEqual(t, idx.Values(), []types.Value{types.Nat(10), types.Nat(20)})
		for _, v := range idx.Values() {
			for _, id := range idx.Get(v) {
				assert.Equal(t, table.Row(id).Get("edad"), v)
			}
		}
		assert.Equal(t, len(idx.Get(types.Nat(10)))+len(idx.Get(types.Nat(20))), table.Len())
	})

	t.Run("errors", func(t *testing.T) {
		table := newTable(t, edadSchema, "T")
		assert.NilError(t, CreateIndex(table, "edad", types.FieldTypeNat))

		err := CreateIndex(table, "id", types.FieldTypeNat)
		assert.Assert(t, errors.Is(err, builder.ErrDuplicateIndex))
		assert.Equal(t, err.(*QueryError).Status(), http.StatusConflict)

		err = CreateIndex(table, "id", types.FieldTypeString)
		assert.Assert(t, errors.Is(err, builder.ErrTypeMismatch))

		err = CreateIndex(table, "x", types.FieldTypeString)
		assert.Assert(t, errors.Is(err, builder.ErrUnknownColumn))
	})

	t.Run("index field", func(t *testing.T) {
		table := newTable(t, edadSchema, "T")
		_, err := IndexField(table, types.FieldTypeString)
		assert.Assert(t, errors.Is(err, builder.ErrMissingIndex))

		assert.NilError(t, CreateIndex(table, "nombre", types.FieldTypeString))
		field, err := IndexField(table, types.FieldTypeString)
		assert.NilError(t, err)
		assert.Equal(t, field, "nombre")
	})
}
