package cmd

import (
	"fmt"

	"github.com/nikogura/resume-studio/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long: `Create ~/.resume-studio/config.json (or the --config path) with default
settings. Edit it to set your name and Anthropic API key.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	path := getConfigFile()
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	err = config.InitConfig(path)
	if err != nil {
		return err
	}

	fmt.Printf("Config written to %s\n", path)
	fmt.Println("Set your name and anthropic_api_key (or ANTHROPIC_API_KEY) before generating.")
	return err
}
