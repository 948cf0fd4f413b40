package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
)

func newKindsCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "Print every record kind with its columns and header aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeKinds(cmd.OutOrStdout(), output)
		},
	}
	cmd.Flags().StringVar(&output, "output", "json", "output format: json (one line per kind) or yaml")
	return cmd
}

func writeKinds(w io.Writer, output string) error {
	switch output {
	case "json":
		for _, s := range record.Schemas() {
			if err := writeJSONLine(w, s); err != nil {
				return err
			}
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(record.Schemas()); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	default:
		return withCode(exitUsage, fmt.Errorf("invalid --output %q (expected json|yaml)", output))
	}
}
