package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/anime-notifier/pkg/config"
)

// Opts for schema generator
type Opts struct {
	Args struct {
		Output string `positional-arg-name:"output" description:"schema file to write"`
	} `positional-args:"yes"`
}

func main() {
	var opts Opts
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	output := opts.Args.Output
	if output == "" {
		output = "schema.json"
	}
	if err := write(output); err != nil {
		lgr.Fatalf("[ERROR] %v", err)
	}
	fmt.Printf("schema written to %s\n", output)
}

func write(path string) error {
	schema, err := config.GenerateSchema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	schema.Title = "anime-notifier configuration"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}
	return nil
}
