package query

import (
	"sync"

	"github.com/tobsdb/tdbrel/internal/builder"
	"github.com/tobsdb/tdbrel/internal/types"
	"github.com/tobsdb/tdbrel/pkg"
)

// DB is the entry point to a database: every operation names its table and
// is checked against the schema before anything is changed.
//
// Calls are serialized by an internal lock, so a DB can be shared between
// goroutines.
type DB struct {
	locker sync.RWMutex
	Schema *builder.Schema
}

func NewDB() *DB {
	return &DB{Schema: builder.NewSchema()}
}

func (db *DB) GetLocker() *sync.RWMutex { return &db.locker }

func (db *DB) table(name string) (*builder.Table, error) {
	return getTable(db.Schema, name)
}

func (db *DB) CreateTable(name string, fields []*builder.Field, keys []string) (err error) {
	pkg.LockWrap(db, func() {
		if db.Schema.Tables.Has(name) {
			err = newQueryError(builder.ErrDuplicateTable, "Table %s already exists", name)
			return
		}
		var t *builder.Table
		t, err = builder.NewTable(name, fields, keys)
		if err != nil {
			err = asQueryError(err)
			return
		}
		err = asQueryError(db.Schema.AddTable(t))
	})
	return
}

// ApplySchema creates every table declared in a schema document and
// returns the created names. No table is created if any of them is
// invalid or already exists.
func (db *DB) ApplySchema(data string) (created []string, err error) {
	parsed, err := builder.ParseSchema(data)
	if err != nil {
		return nil, asQueryError(err)
	}
	pkg.LockWrap(db, func() {
		created, err = db.Schema.Merge(parsed)
		err = asQueryError(err)
	})
	return
}

// Tables returns every table name in ascending order.
func (db *DB) Tables() []string {
	return pkg.RLockGet(db, db.Schema.TableNames)
}

func (db *DB) Columns(table_name string) (columns []*builder.Field, err error) {
	pkg.RLockWrap(db, func() {
		var t *builder.Table
		if t, err = db.table(table_name); err == nil {
			columns = t.Columns()
		}
	})
	return
}

func (db *DB) Keys(table_name string) (keys []string, err error) {
	pkg.RLockWrap(db, func() {
		var t *builder.Table
		if t, err = db.table(table_name); err == nil {
			keys = append([]string{}, t.Keys...)
		}
	})
	return
}

func (db *DB) Insert(table_name string, row builder.Row) (err error) {
	pkg.LockWrap(db, func() {
		var t *builder.Table
		if t, err = db.table(table_name); err == nil {
			err = Insert(t, row)
		}
	})
	return
}

func (db *DB) Delete(table_name, field_name string, value types.Value) (n int, err error) {
	pkg.LockWrap(db, func() {
		var t *builder.Table
		if t, err = db.table(table_name); err == nil {
			n, err = Delete(t, field_name, value)
		}
	})
	return
}

func (db *DB) Search(table_name string, where builder.Row) (rows []builder.Row, err error) {
	pkg.RLockWrap(db, func() {
		var t *builder.Table
		if t, err = db.table(table_name); err == nil {
			rows, err = Find(t, where)
		}
	})
	return
}

func (db *DB) Records(table_name string) (rows []builder.Row, err error) {
	pkg.RLockWrap(db, func() {
		var t *builder.Table
		if t, err = db.table(table_name); err == nil {
			rows = Records(t)
		}
	})
	return
}

func (db *DB) Min(table_name, field_name string) (v types.Value, err error) {
	pkg.RLockWrap(db, func() {
		var t *builder.Table
		if t, err = db.table(table_name); err == nil {
			v, err = Min(t, field_name)
		}
	})
	return
}

func (db *DB) Max(table_name, field_name string) (v types.Value, err error) {
	pkg.RLockWrap(db, func() {
		var t *builder.Table
		if t, err = db.table(table_name); err == nil {
			v, err = Max(t, field_name)
		}
	})
	return
}

func (db *DB) AccessCount(table_name string) (n uint64, err error) {
	pkg.RLockWrap(db, func() {
		var t *builder.Table
		if t, err = db.table(table_name); err == nil {
			n = t.Accesses()
		}
	})
	return
}

// MostAccessedTable returns the table with the most accesses. Ties go to
// the table whose name sorts first.
func (db *DB) MostAccessedTable() (name string, err error) {
	pkg.RLockWrap(db, func() {
		names := db.Schema.TableNames()
		if len(names) == 0 {
			err = newQueryError(builder.ErrNoTables, "Database has no tables")
			return
		}
		name = names[0]
		most := db.Schema.Tables.Get(name).Accesses()
		for _, n := range names[1:] {
			if accesses := db.Schema.Tables.Get(n).Accesses(); accesses > most {
				name, most = n, accesses
			}
		}
	})
	return
}

func (db *DB) HasIndex(table_name string, ft types.FieldType) (has bool, err error) {
	pkg.RLockWrap(db, func() {
		var t *builder.Table
		if t, err = db.table(table_name); err == nil {
			has = t.Index(ft) != nil
		}
	})
	return
}

func (db *DB) HasNatIndex(table_name string) (bool, error) {
	return db.HasIndex(table_name, types.FieldTypeNat)
}

func (db *DB) HasStringIndex(table_name string) (bool, error) {
	return db.HasIndex(table_name, types.FieldTypeString)
}

func (db *DB) IndexField(table_name string, ft types.FieldType) (field string, err error) {
	pkg.RLockWrap(db, func() {
		var t *builder.Table
		if t, err = db.table(table_name); err == nil {
			field, err = IndexField(t, ft)
		}
	})
	return
}

func (db *DB) NatIndexField(table_name string) (string, error) {
	return db.IndexField(table_name, types.FieldTypeNat)
}

func (db *DB) StringIndexField(table_name string) (string, error) {
	return db.IndexField(table_name, types.FieldTypeString)
}

func (db *DB) CreateIndex(table_name, field_name string, ft types.FieldType) (err error) {
	pkg.LockWrap(db, func() {
		var t *builder.Table
		if t, err = db.table(table_name); err == nil {
			err = CreateIndex(t, field_name, ft)
		}
	})
	return
}

func (db *DB) CreateNatIndex(table_name, field_name string) error {
	return db.CreateIndex(table_name, field_name, types.FieldTypeNat)
}

func (db *DB) CreateStringIndex(table_name, field_name string) error {
	return db.CreateIndex(table_name, field_name, types.FieldTypeString)
}

func (db *DB) JoinExists(t1_name, t2_name string) (exists bool, err error) {
	pkg.RLockWrap(db, func() { exists, err = JoinExists(db.Schema, t1_name, t2_name) })
	return
}

func (db *DB) JoinField(t1_name, t2_name string) (field string, err error) {
	pkg.RLockWrap(db, func() { field, err = JoinField(db.Schema, t1_name, t2_name) })
	return
}

func (db *DB) DefineJoin(t1_name, t2_name, field_name string) (err error) {
	pkg.LockWrap(db, func() { err = DefineJoin(db.Schema, t1_name, t2_name, field_name) })
	return
}

func (db *DB) UndefineJoin(t1_name, t2_name string) (err error) {
	pkg.LockWrap(db, func() { err = UndefineJoin(db.Schema, t1_name, t2_name) })
	return
}

func (db *DB) JoinView(t1_name, t2_name string) (rows []builder.Row, err error) {
	pkg.RLockWrap(db, func() { rows, err = JoinView(db.Schema, t1_name, t2_name) })
	return
}
