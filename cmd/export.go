package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/nikogura/resume-studio/pkg/config"
	"github.com/nikogura/resume-studio/pkg/renderer"
	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Export formats.
const (
	formatMarkdown = "md"
	formatPDF      = "pdf"
)

//nolint:gochecknoglobals // Cobra boilerplate
var exportFormat string

//nolint:gochecknoglobals // Cobra boilerplate
var exportLayout string

//nolint:gochecknoglobals // Cobra boilerplate
var exportOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var exportKeepMarkdown bool

//nolint:gochecknoglobals // Cobra boilerplate
var exportCmd = &cobra.Command{
	Use:   "export <resume.json>",
	Short: "Render a resume to markdown or PDF",
	Long: `Render a resume document with one of the layouts (classic, modern, compact).

PDF export runs pandoc with the LaTeX template and class configured under
"pandoc" in the config file, or pandoc's defaults when none are set.

Example:
  resume-studio export jane.json
  resume-studio export jane.json --format pdf --layout modern --output-dir ~/Documents`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", formatMarkdown, "Output format: md or pdf")
	exportCmd.Flags().StringVar(&exportLayout, "layout", "", "Layout (default from the document, then config)")
	exportCmd.Flags().StringVar(&exportOutputDir, "output-dir", "", "Output directory (default from config)")
	exportCmd.Flags().BoolVar(&exportKeepMarkdown, "keep-markdown", true, "Keep the markdown file after PDF generation")
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	if exportFormat != formatMarkdown && exportFormat != formatPDF {
		err = errors.Errorf("unknown format %q: use md or pdf", exportFormat)
		return err
	}

	var cfg config.Config
	cfg, err = loadConfig(false)
	if err != nil {
		return err
	}

	var doc *resume.Data
	doc, err = resume.Load(args[0])
	if err != nil {
		return err
	}

	layout := exportLayout
	if layout == "" && doc.Theme.Layout == "" {
		layout = cfg.Defaults.Layout
	}

	var content string
	content, err = renderer.RenderMarkdown(doc, layout)
	if err != nil {
		return err
	}

	resumeMD := defaultOutput(cfg, exportOutputDir, doc.Personal.Name, ".md")
	err = renderer.WriteMarkdown(content, resumeMD)
	if err != nil {
		return err
	}

	if exportFormat == formatMarkdown {
		fmt.Printf("Resume markdown saved at: %s\n", resumeMD)
		return err
	}

	resumePDF := replaceExt(resumeMD, ".pdf")
	err = renderAndCleanup(resumeMD, resumePDF, cfg.Pandoc, exportKeepMarkdown)
	return err
}

// renderAndCleanup renders markdown to PDF and removes the markdown unless keepMarkdown.
func renderAndCleanup(markdownPath, pdfPath string, pandoc config.PandocConfig, keepMarkdown bool) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if getVerbose() {
		fmt.Println("Rendering PDF...")
	}

	err = renderer.RenderPDF(ctx, markdownPath, pdfPath, renderer.PDFOptions{
		TemplatePath: pandoc.TemplatePath,
		ClassPath:    pandoc.ClassFile,
		Engine:       pandoc.Engine,
	})
	if err != nil {
		fmt.Printf("Markdown saved at: %s\n", markdownPath)
		err = errors.Wrap(err, "failed to render PDF")
		return err
	}
	fmt.Printf("PDF saved at: %s\n", pdfPath)

	if !keepMarkdown {
		err = renderer.CleanupMarkdown(markdownPath)
		if err != nil {
			fmt.Printf("Warning: Failed to clean up markdown file: %v\n", err)
			err = nil
		}
	}

	return err
}
