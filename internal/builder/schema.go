package builder

import (
	"fmt"

	"github.com/tobsdb/tdbrel/pkg"
)

// Schema owns every table of a database and the joins declared between them.
type Schema struct {
	Tables pkg.Map[string, *Table]
	Joins  *Joins
}

func NewSchema() *Schema {
	return &Schema{Tables: pkg.Map[string, *Table]{}, Joins: NewJoins()}
}

func NewSchemaFromString(data string) (*Schema, error) {
	return ParseSchema(data)
}

func (s *Schema) Table(name string) (*Table, bool) {
	t, ok := s.Tables[name]
	return t, ok
}

func (s *Schema) AddTable(t *Table) error {
	if s.Tables.Has(t.Name) {
		return fmt.Errorf("%w: table %s already exists", ErrDuplicateTable, t.Name)
	}
	t.Schema = s
	s.Tables.Set(t.Name, t)
	pkg.DebugLog("created table", t.Name)
	return nil
}

// Merge adds every table of other to s and returns the added names in
// ascending order. Nothing is added if any name clashes.
func (s *Schema) Merge(other *Schema) ([]string, error) {
	names := pkg.SortedKeys(other.Tables)
	for _, name := range names {
		if s.Tables.Has(name) {
			return nil, fmt.Errorf("%w: table %s already exists", ErrDuplicateTable, name)
		}
	}
	for i, name := range names {
		if err := s.AddTable(other.Tables.Get(name)); err != nil {
			return names[:i], err
		}
	}
	return names, nil
}

// TableNames returns every table name in ascending order.
func (s *Schema) TableNames() []string {
	return pkg.SortedKeys(s.Tables)
}
