package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/animares/engine/core"
)

var (
	// Global flags
	pkgName  string
	logLevel string
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit string) error {
	return newRootCommand(version, commit).ExecuteContext(ctx)
}

func newRootCommand(version, commit string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "schemagen",
		Short: "Generate typed resource accessors from schema files",
		Long: `schemagen reads resource schema files (TOML or YAML) and writes Go code
with one typed remote struct, one typed local view and the definitions
for every resource declared in the file.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			core.SetLogLevel(core.ParseLogLevel(logLevel))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&pkgName, "package", "p", "", "override the package name declared in the schema")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newWatchCommand())

	return rootCmd
}
