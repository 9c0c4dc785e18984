package cmd

import (
	"encoding/json"

	"github.com/clipreel/clipreel/clip"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of clip files",
	Long:  "Print the JSON schema of clip files, for editors that validate YAML and JSON against one.",
	Run: func(cmd *cobra.Command, args []string) {
		schema := jsonschema.Reflect(&clip.File{})
		schema.Title = "clipreel clip file"

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
