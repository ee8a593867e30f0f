package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tobsdb/tdbrel/internal/builder"
	"github.com/tobsdb/tdbrel/internal/types"
	"github.com/tobsdb/tdbrel/pkg"
)

type (
	ParsedTable struct {
		Name   string        `json:"name"`
		Fields []ParsedField `json:"fields"`
		Keys   []string      `json:"keys"`
	}

	ParsedField struct {
		Name        string          `json:"name"`
		BuiltinType types.FieldType `json:"type"`
		Key         bool            `json:"key,omitempty"`
		Index       bool            `json:"index,omitempty"`
	}
)

// SchemaToLang renders the record types of every table in schema.
func SchemaToLang(schema *builder.Schema, lang string) ([]byte, error) {
	s := schemaDestructure(schema)
	switch lang {
	case "json":
		return json.MarshalIndent(s, "", "  ")
	case "typescript", "ts":
		return SchemaToTypescript(s), nil
	case "rust", "rs":
		return SchemaToRust(s), nil
	case "golang", "go":
		return SchemaToGo(s), nil
	default:
		return nil, fmt.Errorf("Unsupported Language: %s", lang)
	}
}

// tables sorted by name, fields in declaration order
func schemaDestructure(s *builder.Schema) []ParsedTable {
	res := []ParsedTable{}
	for _, name := range pkg.SortedKeys(s.Tables) {
		t := s.Tables.Get(name)
		indexed := pkg.NewSet[string]()
		for _, field := range t.IndexedFields() {
			indexed.Add(field)
		}
		fields := []ParsedField{}
		for _, f := range t.Columns() {
			fields = append(fields, ParsedField{f.Name, f.BuiltinType, f.Key, indexed.Has(f.Name)})
		}
		res = append(res, ParsedTable{t.Name, fields, t.Keys})
	}
	return res
}

func toPascalCase(t string) string {
	res := ""
	for _, v := range strings.Split(t, "_") {
		if v == "" {
			continue
		}
		res += strings.ToUpper(v[0:1]) + v[1:]
	}
	return res
}

func SchemaToTypescript(s []ParsedTable) []byte {
	var res strings.Builder
	res.WriteString("export type Schema = {\n")
	for _, t := range s {
		fmt.Fprintf(&res, "\t%s: {\n", t.Name)
		for _, f := range t.Fields {
			fmt.Fprintf(&res, "\t\t%s: %s;\n", f.Name, tdbTypeToTypescript(f.BuiltinType))
		}
		res.WriteString("\t};\n")
	}
	res.WriteString("};\n")
	return []byte(res.String())
}

func tdbTypeToTypescript(t types.FieldType) string {
	switch t {
	case types.FieldTypeNat:
		return "number"
	case types.FieldTypeString:
		return "string"
	}
	return "unknown"
}

func SchemaToRust(s []ParsedTable) []byte {
	var res strings.Builder
	res.WriteString("use serde::{Deserialize, Serialize};\n")
	for _, t := range s {
		fmt.Fprintf(&res, "\n#[derive(Serialize, Deserialize)]\npub struct %s {\n", toPascalCase(t.Name))
		for _, f := range t.Fields {
			fmt.Fprintf(&res, "\t#[serde(rename = %q)]\n\tpub %s: %s,\n",
				f.Name, strings.ToLower(f.Name), tdbTypeToRust(f.BuiltinType))
		}
		res.WriteString("}\n")
	}
	return []byte(res.String())
}

func tdbTypeToRust(t types.FieldType) string {
	switch t {
	case types.FieldTypeNat:
		return "u64"
	case types.FieldTypeString:
		return "String"
	}
	return "()"
}

func SchemaToGo(s []ParsedTable) []byte {
	var res strings.Builder
	res.WriteString("package schema\n")
	for _, t := range s {
		fmt.Fprintf(&res, "\ntype %s struct {\n", toPascalCase(t.Name))
		for _, f := range t.Fields {
			fmt.Fprintf(&res, "\t%s %s `json:%q`\n",
				toPascalCase(f.Name), tdbTypeToGo(f.BuiltinType), f.Name)
		}
		res.WriteString("}\n")
	}
	return []byte(res.String())
}

func tdbTypeToGo(t types.FieldType) string {
	switch t {
	case types.FieldTypeNat:
		return "uint64"
	case types.FieldTypeString:
		return "string"
	}
	return "any"
}
