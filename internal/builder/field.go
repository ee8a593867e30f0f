package builder

import (
	"fmt"

	"github.com/tobsdb/tdbrel/internal/types"
)

// Column of a table.
type Field struct {
	Name        string
	BuiltinType types.FieldType
	Key         bool

	Table *Table `json:"-"`
}

// field local rules:
// - name can't be empty
// - type must be a builtin type
func CheckFieldRules(field *Field) error {
	if len(field.Name) == 0 {
		return fmt.Errorf("%w: field name cannot be empty", ErrSchemaMismatch)
	}
	if !field.BuiltinType.IsValid() {
		return fmt.Errorf("%w: field(%s %s) has an invalid type", ErrTypeMismatch, field.Name, field.BuiltinType)
	}
	return nil
}

// Accepts reports whether v can be stored in the field.
func (f *Field) Accepts(v types.Value) bool {
	return v.Type() == f.BuiltinType
}

func (f *Field) String() string {
	if f.Key {
		return fmt.Sprintf("%s %s key(primary)", f.Name, f.BuiltinType)
	}
	return fmt.Sprintf("%s %s", f.Name, f.BuiltinType)
}
