package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/easeaico/her-line/internal/persona"
	"github.com/easeaico/her-line/internal/types"
)

var personasSchema bool

var personasCmd = &cobra.Command{
	Use:   "personas [dir]",
	Short: "Load and validate persona files (built-ins when no dir is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPersonas,
}

func init() {
	personasCmd.Flags().BoolVar(&personasSchema, "schema", false, "Print the persona file JSON schema and exit")
}

func runPersonas(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if personasSchema {
		data, err := persona.SchemaJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}
	personas, err := loadPersonas(dir)
	if err != nil {
		return err
	}

	for _, p := range personas {
		templates := 0
		for _, bucket := range p.Replies {
			templates += len(bucket)
		}
		fmt.Fprintf(out, "  ✓ %s (%s): %d buckets, %d templates, %d endings\n",
			p.Name, p.DisplayName, len(p.Replies), templates, len(p.Endings))
		for _, in := range types.Intents() {
			if len(p.Bucket(in)) == 0 {
				fmt.Fprintf(out, "      - %s: no templates, falls back to generic\n", in)
			}
		}
	}
	return nil
}

func loadPersonas(dir string) ([]*types.Persona, error) {
	if dir == "" {
		return persona.Builtin()
	}
	personas, err := persona.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load personas from %s: %w", dir, err)
	}
	return personas, nil
}
