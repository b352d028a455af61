package cmd

import (
	"github.com/ostafen/chkrecover/internal/env"
	"github.com/spf13/cobra"
)

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   env.AppName,
		Short: env.AppName + " - recover the original type of orphaned CHK fragments",
	}

	rootCmd.AddCommand(
		DefineRecoverCommand(),
		DefineIdentifyCommand(),
		DefineFormatsCommand(),
		DefineMountCommand(),
	)

	return rootCmd.Execute()
}
