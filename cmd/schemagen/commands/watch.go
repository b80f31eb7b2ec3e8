package commands

import (
	"github.com/spf13/cobra"

	"github.com/spaghettifunk/animares/engine/core"
	"github.com/spaghettifunk/animares/engine/resource/codegen"
)

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]...",
		Short: "Regenerate code whenever a schema file changes",
		Long: `watch generates every schema file found under the given directories and
keeps regenerating them as they are created or written, until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			w, err := codegen.NewWatcher(pkgName)
			if err != nil {
				return err
			}
			go func() {
				for res := range w.Results() {
					if res.Err == nil {
						core.LogDebug("%s -> %s", res.Schema, res.Output)
					}
				}
			}()
			for _, dir := range args {
				if err := w.Add(dir); err != nil {
					return err
				}
			}
			core.LogInfo("Watching %d schema files, press Ctrl+C to stop", len(w.Schemas()))
			return w.Run(cmd.Context())
		},
	}
}
