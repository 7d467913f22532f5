package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/nikogura/resume-studio/pkg/config"
	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/nikogura/resume-studio/pkg/scorer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var scoreJD string

//nolint:gochecknoglobals // Cobra boilerplate
var scoreAI bool

//nolint:gochecknoglobals // Cobra boilerplate
var scoreCmd = &cobra.Command{
	Use:   "score <resume.json|resume.txt>",
	Short: "Score a resume for ATS readiness",
	Long: `Run the local rule-based ATS check and, with --ai, ask Claude for a score
and feedback. Scoring never changes the document.

The job description can be a file path or a URL.

Example:
  resume-studio score jane.json
  resume-studio score jane.json --ai --jd https://example.com/jobs/123`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreJD, "jd", "", "Job description file or URL to score against (implies --ai)")
	scoreCmd.Flags().BoolVar(&scoreAI, "ai", false, "Also score with Claude")
}

func runScore(cmd *cobra.Command, args []string) (err error) {
	var text string
	text, err = readSource(args[0])
	if err != nil {
		return err
	}

	local := scorer.NewScorer()
	report := local.Check(text)
	printReport(os.Stdout, report, local.Suggestions(report))

	if !scoreAI && scoreJD == "" {
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
	if scoreJD != "" {
		jobDescription, err = fetchAndLogJD(scoreJD)
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	var resp llm.ScoreResponse
	err = withSpinner("Scoring with Claude API...", func() (fnErr error) {
		resp, fnErr = client.Score(ctx, text, jobDescription)
		return fnErr
	})
	if err != nil {
		err = errors.Wrap(err, "Claude API scoring failed")
		return err
	}

	printAIScore(os.Stdout, resp)
	return err
}

func printReport(out io.Writer, report scorer.Report, suggestions []string) {
	fmt.Fprintf(out, "Local ATS score: %d/100 (%d words)\n", report.Score, report.WordCount)

	categories := make([]string, 0, len(report.Categories))
	for name := range report.Categories {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	for _, name := range categories {
		fmt.Fprintf(out, "  %-12s %d\n", name, report.Categories[name])
	}

	if len(report.Violations) > 0 {
		fmt.Fprintf(out, "\nIssues (%d):\n", len(report.Violations))
		for _, v := range report.Violations {
			fmt.Fprintf(out, "  [%s] %s\n", v.Severity, v.Message)
		}
	}

	if len(suggestions) > 0 {
		fmt.Fprintln(out, "\nSuggestions:")
		for _, s := range suggestions {
			fmt.Fprintf(out, "  - %s\n", s)
		}
	}
}

func printAIScore(out io.Writer, resp llm.ScoreResponse) {
	fmt.Fprintf(out, "\nClaude ATS score: %d/100\n", resp.Score)
	if resp.Summary != "" {
		fmt.Fprintf(out, "%s\n", resp.Summary)
	}
	printList(out, "Strengths", resp.Strengths)
	printList(out, "Improvements", resp.Improvements)
	if len(resp.MissingKeywords) > 0 {
		fmt.Fprintf(out, "\nMissing keywords: %s\n", strings.Join(resp.MissingKeywords, ", "))
	}
}

func printList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}
