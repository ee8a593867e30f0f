package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/tobsdb/tdbrel/internal/builder"
)

func main() {
	quiet := pflag.BoolP("quiet", "q", false, "only report errors")
	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: tdb-validate [-q] [schema files...]")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	paths := pflag.Args()
	if len(paths) == 0 {
		paths = []string{"./schema.tdb"}
	}

	failed := 0
	for _, schema_path := range paths {
		if err := check(schema_path, *quiet); err != nil {
			fmt.Printf("%s: %s\n", schema_path, err.Error())
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func check(schema_path string, quiet bool) error {
	abs, err := filepath.Abs(schema_path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return err
	}

	schema, err := builder.ParseSchema(string(data))
	if err != nil {
		return fmt.Errorf("Invalid schema; %w", err)
	}
	if quiet {
		return nil
	}

	fmt.Printf("%s: schema is valid\n", schema_path)
	for _, name := range schema.TableNames() {
		table, _ := schema.Table(name)
		fmt.Printf("  %s: %d columns, keys %v, indexes %v\n",
			name, len(table.Columns()), table.Keys, table.IndexedFields())
	}
	return nil
}
