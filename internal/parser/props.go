package parser

import (
	"github.com/tobsdb/tdbrel/internal/props"
)

// IsKey reports whether the parsed field is part of its table's key.
func (d *ParserData) IsKey() bool {
	return d.Properties[props.FieldPropKey] == props.KeyPropPrimary
}

// HasIndex reports whether the parsed field requested an index.
func (d *ParserData) HasIndex() bool {
	index, _ := props.ParseBoolProp(d.Properties[props.FieldPropIndex])
	return index
}
