package commands

import (
	"github.com/spf13/cobra"

	"github.com/spaghettifunk/animares/engine/resource/codegen"
)

func newGenerateCommand() *cobra.Command {
	var (
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Go code for one schema file",
		Example: `  # Write scene_generated.go next to the schema
  schemagen generate -i engine/scene/scene.toml

  # Explicit output and package
  schemagen generate -i scene.yaml -o ./world/scene.go -p world`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = codegen.OutputPath(input)
			}
			return codegen.GenerateFile(input, output, pkgName)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "schema file (.toml, .yaml, .yml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "generated Go file (default: <schema>_generated.go)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
