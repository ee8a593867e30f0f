package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tobsdb/tdbrel/internal/props"
	"github.com/tobsdb/tdbrel/internal/types"
	"github.com/tobsdb/tdbrel/pkg"
)

type LineParserState int

const (
	ParserStateTableStart LineParserState = iota
	ParserStateTableEnd
	ParserStateNewField
	ParserStateIdle
)

type ParserData struct {
	Name         string
	Builtin_type types.FieldType
	Properties   map[props.FieldProp]string
}

const (
	table_prefix     = "$TABLE "
	table_prefix_len = len(table_prefix)
)

var (
	name_regexp = regexp.MustCompile(`^\w+$`)
	prop_regexp = regexp.MustCompile(`(?m)(\w+)\(([^)]*)\)`)
)

func LineParser(line string) (LineParserState, *ParserData, error) {
	if strings.HasPrefix(line, table_prefix) {
		line := strings.TrimSpace(line[table_prefix_len:])
		name_end := strings.Index(line, " ")
		if name_end <= 0 {
			return ParserStateIdle, nil, errors.New("Invalid line")
		}

		open_bracket := strings.TrimSpace(line[name_end:])
		if open_bracket != "{" {
			return ParserStateIdle, nil, errors.New("Table name cannot include space")
		}
		name := line[:name_end]
		if !name_regexp.MatchString(name) {
			return ParserStateIdle, nil, errors.New("Table name contains invalid characters")
		}
		return ParserStateTableStart, &ParserData{Name: name}, nil
	}

	if line == "}" {
		return ParserStateTableEnd, nil, nil
	}

	splits := strings.Split(line, " ")
	splits = pkg.Filter(splits, func(s string) bool { return len(s) > 0 })
	if len(splits) == 0 {
		return ParserStateIdle, nil, errors.New("Invalid line")
	}
	if !name_regexp.MatchString(splits[0]) {
		return ParserStateIdle, nil, errors.New("Field name contains invalid characters")
	}
	if len(splits) < 2 {
		return ParserStateIdle, nil, fmt.Errorf("Field %s does not have a type", splits[0])
	}

	builtin_type := types.FieldType(splits[1])
	if !builtin_type.IsValid() {
		return ParserStateIdle, nil, fmt.Errorf("Invalid field type: %s", builtin_type)
	}

	field_props, err := parseRawFieldProps(strings.Join(splits[2:], " "))
	if err != nil {
		return ParserStateIdle, nil, err
	}

	return ParserStateNewField, &ParserData{
		Name:         splits[0],
		Builtin_type: builtin_type,
		Properties:   field_props,
	}, nil
}

func parseRawFieldProps(raw string) (map[props.FieldProp]string, error) {
	field_props := make(map[props.FieldProp]string)

	for _, match := range prop_regexp.FindAllStringSubmatch(raw, -1) {
		prop, value := props.FieldProp(match[1]), strings.TrimSpace(match[2])
		if !prop.IsValid() {
			return nil, fmt.Errorf("Invalid field prop: %s", prop)
		}
		if len(value) == 0 {
			return nil, fmt.Errorf("No value for prop: %s", prop)
		}
		if err := props.ValidateProp(prop, value); err != nil {
			return nil, err
		}
		if _, exists := field_props[prop]; exists {
			return nil, fmt.Errorf("Duplicate field prop: %s", prop)
		}
		field_props[prop] = value
	}

	return field_props, nil
}
