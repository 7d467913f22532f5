package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/nikogura/resume-studio/pkg/config"
	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var coverJD string

//nolint:gochecknoglobals // Cobra boilerplate
var coverOutput string

//nolint:gochecknoglobals // Cobra boilerplate
var coverPDF bool

//nolint:gochecknoglobals // Cobra boilerplate
var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter <resume.json|resume.txt>",
	Short: "Draft a cover letter for a job description",
	Long: `Draft a cover letter from a resume and a job description. The letter only
draws on what the resume says.

Example:
  resume-studio cover-letter jane.json --jd jd.txt
  resume-studio cover-letter jane.json --jd https://example.com/jobs/123 -o cover.md --pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runCoverLetter,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(coverLetterCmd)
	coverLetterCmd.Flags().StringVar(&coverJD, "jd", "", "Job description file or URL (required)")
	coverLetterCmd.Flags().StringVarP(&coverOutput, "output", "o", "", "Markdown output file (default stdout)")
	coverLetterCmd.Flags().BoolVar(&coverPDF, "pdf", false, "Also render the output file to PDF")
	_ = coverLetterCmd.MarkFlagRequired("jd")
}

func runCoverLetter(cmd *cobra.Command, args []string) (err error) {
	if coverPDF && coverOutput == "" {
		err = errors.New("--pdf needs --output")
		return err
	}

	var text string
	text, err = readSource(args[0])
	if err != nil {
		return err
	}

	var cfg config.Config
	cfg, err = loadConfig(true)
	if err != nil {
		return err
	}

	var client *llm.Client
	client, err = newClient(cfg)
	if err != nil {
		return err
	}

	var jobDescription string
	jobDescription, err = fetchAndLogJD(coverJD)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	var letter string
	err = withSpinner("Writing cover letter with Claude API...", func() (fnErr error) {
		letter, fnErr = client.CoverLetter(ctx, text, jobDescription)
		return fnErr
	})
	if err != nil {
		err = errors.Wrap(err, "Claude API cover letter failed")
		return err
	}

	err = writeOrPrint(letter, coverOutput)
	if err != nil {
		return err
	}
	if coverOutput == "" {
		return err
	}
	fmt.Printf("Cover letter saved at: %s\n", coverOutput)

	if coverPDF {
		err = renderAndCleanup(coverOutput, replaceExt(coverOutput, ".pdf"), cfg.Pandoc, true)
	}
	return err
}
