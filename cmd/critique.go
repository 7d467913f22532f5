package cmd

import (
	"context"
	"slices"
	"time"

	"github.com/nikogura/resume-studio/pkg/config"
	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var roastPersona string

//nolint:gochecknoglobals // Cobra boilerplate
var roadmapGoal string

//nolint:gochecknoglobals // Cobra boilerplate
var roastCmd = &cobra.Command{
	Use:   "roast <resume.json|resume.txt>",
	Short: "Get blunt feedback on a resume",
	Long: `Ask Claude for candid feedback in the voice of a recruiter, a hiring
manager or a comedian.

Example:
  resume-studio roast jane.json --persona hiring-manager`,
	Args: cobra.ExactArgs(1),
	RunE: runRoast,
}

//nolint:gochecknoglobals // Cobra boilerplate
var roadmapCmd = &cobra.Command{
	Use:   "roadmap <resume.json|resume.txt>",
	Short: "Plan the path from this resume to a career goal",
	Long: `Ask Claude for a 0-3, 3-6 and 6-12 month plan that closes the gap between
the resume and a goal.

Example:
  resume-studio roadmap jane.json --goal "principal engineer at a fintech"`,
	Args: cobra.ExactArgs(1),
	RunE: runRoadmap,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(roastCmd)
	rootCmd.AddCommand(roadmapCmd)
	roastCmd.Flags().StringVar(&roastPersona, "persona", string(llm.PersonaRecruiter), "Voice: recruiter, hiring-manager or comedian")
	roadmapCmd.Flags().StringVar(&roadmapGoal, "goal", "", "Career goal (required)")
	_ = roadmapCmd.MarkFlagRequired("goal")
}

func runRoast(cmd *cobra.Command, args []string) (err error) {
	persona := llm.Persona(roastPersona)
	if !slices.Contains(llm.Personas(), persona) {
		err = errors.Errorf("unknown persona %q: use one of %v", roastPersona, llm.Personas())
		return err
	}

	err = runCritique(args[0], "Roasting resume with Claude API...", func(ctx context.Context, client *llm.Client, text string) (string, error) {
		return client.Roast(ctx, text, persona)
	})
	return err
}

func runRoadmap(cmd *cobra.Command, args []string) (err error) {
	err = runCritique(args[0], "Planning roadmap with Claude API...", func(ctx context.Context, client *llm.Client, text string) (string, error) {
		return client.Roadmap(ctx, text, roadmapGoal)
	})
	return err
}

// runCritique reads source, calls ask behind a spinner and prints the answer.
func runCritique(source, message string, ask func(context.Context, *llm.Client, string) (string, error)) (err error) {
	var text string
	text, err = readSource(source)
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

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	var answer string
	err = withSpinner(message, func() (fnErr error) {
		answer, fnErr = ask(ctx, client, text)
		return fnErr
	})
	if err != nil {
		err = errors.Wrap(err, "Claude API request failed")
		return err
	}

	err = writeOrPrint(answer, "")
	return err
}
