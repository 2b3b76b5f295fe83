package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/productdevbook/serial-logger/internal/config"
	"github.com/productdevbook/serial-logger/internal/pipeline"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a Slack settings template",
	Long:  `Write a commented slack_settings.toml into --dir. An existing file is kept unless --force is given.`,
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing settings file")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveBaseDir()
	if err != nil {
		return err
	}

	path := pipeline.SettingsPath(dir, settingsFile)
	if err := config.WriteTemplate(path, forceInit); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
