package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/tobsdb/tdbrel/internal/builder"
	"github.com/tobsdb/tdbrel/internal/generate"
)

func main() {
	var path, schema, out, lang string

	pflag.StringVar(&path, "path", "", "Path to schema file")
	pflag.StringVar(&schema, "schema", "", "Schema string. Preferred over --path")
	pflag.StringVarP(&out, "out", "o", "", "Output file")
	pflag.StringVarP(&lang, "lang", "l", "json", "Output language. Options: json, typescript, rust, golang")

	pflag.Parse()

	if path == "" && schema == "" {
		fmt.Println("Must specify either --path or --schema")
		os.Exit(1)
	}

	if schema == "" {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		schema = string(data)
	}

	s, err := builder.ParseSchema(schema)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	data, err := generate.SchemaToLang(s, lang)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if out == "" {
		fmt.Println(string(data))
		return
	}

	if err := os.WriteFile(out, data, 0644); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
