package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nikogura/resume-studio/pkg/config"
	"github.com/nikogura/resume-studio/pkg/jd"
	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/nikogura/resume-studio/pkg/scorer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var generateJD string

//nolint:gochecknoglobals // Cobra boilerplate
var generateTarget string

//nolint:gochecknoglobals // Cobra boilerplate
var generateLayout string

//nolint:gochecknoglobals // Cobra boilerplate
var generateOutput string

//nolint:gochecknoglobals // Cobra boilerplate
var generatePolish bool

//nolint:gochecknoglobals // Cobra boilerplate
var generateForce bool

//nolint:gochecknoglobals // Cobra boilerplate
var generateCmd = &cobra.Command{
	Use:   "generate <notes-file|resume.json>",
	Short: "Generate a structured resume with Claude",
	Long: `Generate a complete resume document from rough notes, an old resume or an
existing resume.json, optionally tailored to a job description.

The job description can be provided as:
- A file path (e.g., jd.txt)
- A URL (e.g., https://example.com/jobs/123)

The result is saved as JSON; open it with 'resume-studio edit' to refine it.
Weak openers and buzzwords are rewritten with --polish.

Example:
  resume-studio generate notes.txt
  resume-studio generate jane.json --jd jd.txt --target "Staff SRE" --polish`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&generateJD, "jd", "", "Job description file or URL to tailor to")
	generateCmd.Flags().StringVar(&generateTarget, "target", "", "Target role or seniority, e.g. \"staff platform engineer\"")
	generateCmd.Flags().StringVar(&generateLayout, "layout", "", "Layout for the generated document (default from config)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (default <output_dir>/<name>.json)")
	generateCmd.Flags().BoolVar(&generatePolish, "polish", false, "Rewrite weak openers and buzzwords after generation")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "Overwrite an existing output file")
}

func runGenerate(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var cfg config.Config
	var client *llm.Client
	var req llm.GenerateRequest
	cfg, client, req, err = setupGeneration(args[0])
	if err != nil {
		return err
	}

	var doc *resume.Data
	err = withSpinner("Generating resume with Claude API...", func() (fnErr error) {
		doc, fnErr = client.GenerateResume(ctx, req)
		return fnErr
	})
	if err != nil {
		err = errors.Wrap(err, "Claude API generation failed")
		return err
	}
	fmt.Println("✓ Generation complete")

	if generatePolish {
		var fixes []string
		doc, fixes = llm.NewFixer().Apply(doc)
		for _, fix := range fixes {
			fmt.Printf("  Fixed: %s\n", fix)
		}
	}

	path := generateOutput
	if path == "" {
		path = defaultOutput(cfg, "", doc.Personal.Name, ".json")
	}
	_, statErr := os.Stat(path)
	if statErr == nil && !generateForce {
		err = errors.Errorf("%s already exists (use --force to overwrite)", path)
		return err
	}

	err = resume.Save(doc, path)
	if err != nil {
		return err
	}
	fmt.Printf("Resume saved at: %s\n\n", path)

	local := scorer.NewScorer()
	report := local.Check(doc.PlainText())
	printReport(os.Stdout, report, local.Suggestions(report))

	return err
}

// setupGeneration handles initial setup: config loading, source reading and JD fetching.
func setupGeneration(source string) (cfg config.Config, client *llm.Client, req llm.GenerateRequest, err error) {
	cfg, err = loadConfig(true)
	if err != nil {
		return cfg, client, req, err
	}

	client, err = newClient(cfg)
	if err != nil {
		return cfg, client, req, err
	}

	req = llm.GenerateRequest{
		Target: generateTarget,
		Layout: cfg.Defaults.Layout,
	}
	if generateLayout != "" {
		req.Layout = generateLayout
	}

	req.RawText, err = readSource(source)
	if err != nil {
		return cfg, client, req, err
	}

	if generateJD != "" {
		req.JobDescription, err = fetchAndLogJD(generateJD)
		if err != nil {
			return cfg, client, req, err
		}
	}

	return cfg, client, req, err
}

func fetchAndLogJD(input string) (jobDescription string, err error) {
	if getVerbose() {
		fmt.Printf("Fetching job description from: %s\n", input)
	}

	jobDescription, err = jd.Fetch(input)
	if err != nil {
		err = errors.Wrap(err, "failed to fetch job description")
		return jobDescription, err
	}

	if getVerbose() {
		fmt.Printf("Job description: %d characters\n", len(jobDescription))
	}
	return jobDescription, err
}
