package builder_test

import (
	"testing"

	. "github.com/tobsdb/tdbrel/internal/builder"
	"github.com/tobsdb/tdbrel/internal/types"
	"gotest.tools/assert"
)

func TestTableIndex(t *testing.T) {
	t.Run("nat order", func(t *testing.T) {
		idx := NewTableIndex(&Field{Name: "edad", BuiltinType: types.FieldTypeNat})
		_, ok := idx.Min()
		assert.Assert(t, !ok, "empty index has no minimum")

		idx.Add(types.Nat(30), 1)
		idx.Add(types.Nat(5), 2)
		idx.Add(types.Nat(12), 3)
		idx.Add(types.Nat(5), 4)

		min, ok := idx.Min()
		assert.Assert(t, ok)
		assert.Equal(t, min, types.Nat(5))
		max, _ := idx.Max()
		assert.Equal(t, max, types.Nat(30))
		assert.DeepEqual(t, idx.Values(), []types.Value{types.Nat(5), types.Nat(12), types.Nat(30)})
		assert.DeepEqual(t, idx.Get(types.Nat(5)), []int{2, 4})

		idx.Remove(types.Nat(30), 1)
		max, _ = idx.Max()
		assert.Equal(t, max, types.Nat(12))

		idx.Remove(types.Nat(5), 2)
		min, _ = idx.Min()
		assert.Equal(t, min, types.Nat(5), "value stays while a row still holds it")
	})

	t.Run("string order", func(t *testing.T) {
		idx := NewTableIndex(&Field{Name: "nombre", BuiltinType: types.FieldTypeString})
		idx.Add(types.String("Juan"), 1)
		idx.Add(types.String("Ana"), 2)
		idx.Add(types.String("Zoe"), 3)

		min, _ := idx.Min()
		max, _ := idx.Max()
		assert.Equal(t, min, types.String("Ana"))
		assert.Equal(t, max, types.String("Zoe"))
	})

	t.Run("remove missing", func(t *testing.T) {
		idx := NewTableIndex(&Field{Name: "edad", BuiltinType: types.FieldTypeNat})
		idx.Add(types.Nat(1), 1)
		idx.Remove(types.Nat(2), 1)
		idx.Remove(types.Nat(1), 7)
		assert.DeepEqual(t, idx.Get(types.Nat(1)), []int{1})
		assert.Assert(t, idx.Get(types.Nat(2)) == nil)
	})
}
