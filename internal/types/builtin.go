package types

import "slices"

var VALID_BUILTIN_TYPES = []FieldType{FieldTypeNat, FieldTypeString}

type FieldType string

const (
	FieldTypeNat    FieldType = "Nat"
	FieldTypeString FieldType = "String"
)

func (t FieldType) IsValid() bool {
	return slices.Contains(VALID_BUILTIN_TYPES, t)
}
