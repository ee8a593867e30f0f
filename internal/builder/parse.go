package builder

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/tobsdb/tdbrel/internal/parser"
)

type tableDecl struct {
	name    string
	line    int
	fields  []*Field
	indexes []*Field
}

func (d *tableDecl) build() (*Table, error) {
	t, err := NewTable(d.name, d.fields, nil)
	if err != nil {
		return nil, err
	}
	for _, f := range d.indexes {
		if _, err := t.CreateIndex(f.Name, f.BuiltinType); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ParseSchema builds the tables declared in schema_data.
//
//	$TABLE personas {
//	    DNI    Nat    key(primary)
//	    nombre String index(true)
//	}
func ParseSchema(schema_data string) (*Schema, error) {
	schema := NewSchema()

	scanner := bufio.NewScanner(strings.NewReader(schema_data))
	line_idx := 0

	var current *tableDecl

	for scanner.Scan() {
		line_idx++
		line := strings.TrimSpace(scanner.Text())

		// Ignore empty lines & comments
		if len(line) == 0 || strings.HasPrefix(line, "//") {
			continue
		}

		state, data, err := parser.LineParser(line)
		if err != nil {
			return nil, ParseLineError(line_idx, err)
		}

		switch state {
		case parser.ParserStateTableStart:
			if current != nil {
				return nil, ParseLineError(line_idx, fmt.Errorf("Table %s is missing a closing bracket", current.name))
			}
			if schema.Tables.Has(data.Name) {
				return nil, ParseLineError(line_idx, fmt.Errorf("%w: Duplicate table %s", ErrDuplicateTable, data.Name))
			}
			current = &tableDecl{name: data.Name, line: line_idx}
		case parser.ParserStateTableEnd:
			if current == nil {
				return nil, ParseLineError(line_idx, errors.New("Unexpected closing bracket"))
			}
			t, err := current.build()
			if err != nil {
				return nil, ParseLineError(current.line, err)
			}
			if err := schema.AddTable(t); err != nil {
				return nil, ParseLineError(current.line, err)
			}
			current = nil
		case parser.ParserStateNewField:
			if current == nil {
				return nil, ParseLineError(line_idx, fmt.Errorf("Field %s is declared outside of a table", data.Name))
			}
			for _, f := range current.fields {
				if f.Name == data.Name {
					return nil, ParseLineError(line_idx, fmt.Errorf("%w: Duplicate field %s", ErrDuplicateColumn, data.Name))
				}
			}
			new_field := &Field{
				Name:        data.Name,
				BuiltinType: data.Builtin_type,
				Key:         data.IsKey(),
			}
			current.fields = append(current.fields, new_field)
			if data.HasIndex() {
				for _, f := range current.indexes {
					if f.BuiltinType == new_field.BuiltinType {
						return nil, ParseLineError(line_idx, fmt.Errorf(
							"%w: Table %s already has a %s index on %s", ErrDuplicateIndex, current.name, f.BuiltinType, f.Name,
						))
					}
				}
				current.indexes = append(current.indexes, new_field)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if current != nil {
		return nil, ParseLineError(current.line, fmt.Errorf("Table %s is missing a closing bracket", current.name))
	}

	return schema, nil
}

func ParseLineError(line int, err error) error {
	return fmt.Errorf("Error parsing line %d: %w", line, err)
}
