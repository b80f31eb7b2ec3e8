package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/animares/engine/core"
	"github.com/spaghettifunk/animares/engine/resource/codegen"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schema>...",
		Short: "Check schema files without writing code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				f, err := codegen.ParseFile(path)
				if err == nil {
					_, err = f.Definitions()
				}
				if err != nil {
					core.LogError("%s: %s", path, err)
					failed++
					continue
				}
				core.LogInfo("%s: %d resources ok", path, len(f.Resources))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d schema files are invalid", failed, len(args))
			}
			return nil
		},
	}
}
