package cmd

import (
	"fmt"
	"os"

	"github.com/nikogura/resume-studio/pkg/config"
	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var newOutput string

//nolint:gochecknoglobals // Cobra boilerplate
var newLayout string

//nolint:gochecknoglobals // Cobra boilerplate
var newForce bool

//nolint:gochecknoglobals // Cobra boilerplate
var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create an empty resume document",
	Long: `Create an empty resume document for name and save it as JSON.

Example:
  resume-studio new "Jane Doe"
  resume-studio new "Jane Doe" --layout modern --output jane.json`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&newOutput, "output", "o", "", "Output file (default <output_dir>/<name>.json)")
	newCmd.Flags().StringVar(&newLayout, "layout", "", "Layout: classic, modern or compact (default from config)")
	newCmd.Flags().BoolVar(&newForce, "force", false, "Overwrite an existing file")
}

func runNew(cmd *cobra.Command, args []string) (err error) {
	var cfg config.Config
	cfg, err = loadConfig(false)
	if err != nil {
		return err
	}

	doc := resume.New(args[0])
	doc.Theme.Layout = cfg.Defaults.Layout
	if newLayout != "" {
		doc.Theme.Layout = newLayout
	}

	err = doc.Validate()
	if err != nil {
		return err
	}

	path := newOutput
	if path == "" {
		path = defaultOutput(cfg, "", args[0], ".json")
	}

	_, statErr := os.Stat(path)
	if statErr == nil && !newForce {
		err = errors.Errorf("%s already exists (use --force to overwrite)", path)
		return err
	}

	err = resume.Save(doc, path)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", path)
	fmt.Printf("Edit it with: resume-studio edit %s\n", path)
	return err
}
