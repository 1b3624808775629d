package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"smarthire/internal/common"
	"smarthire/internal/config"
	"smarthire/internal/errors"
	"smarthire/internal/intake"
	"smarthire/internal/types"
	"smarthire/internal/utils"

	"github.com/spf13/cobra"
)

var screenCmd = &cobra.Command{
	Use:   "screen [job-description-file] [resume-files...]",
	Short: "Screen resumes against a job description",
	Long: `Screen one or more resumes against a job description file.
Plain text resumes (.txt, .md) are submitted as text; other formats
(.pdf, .doc, .docx) are uploaded for server-side text extraction.
Candidates scoring at or above the threshold are shortlisted
automatically.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if screenConfig.OutputFormat == "" {
			screenConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(screenConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScreen,
}

var (
	screenConfig    common.CommandConfig
	screenBlind     bool
	screenThreshold int
	screenWatch     bool
)

func init() {
	screenCmd.Flags().StringVarP(&screenConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	screenCmd.Flags().StringVar(&screenConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	screenCmd.Flags().BoolVar(&screenBlind, "blind", false, "Blind screening: mask names and institutions")
	screenCmd.Flags().IntVar(&screenThreshold, "threshold", -1, "Auto-shortlist threshold override (0-100)")
	screenCmd.Flags().BoolVar(&screenWatch, "watch", false, "Also pick up resumes dropped into the watch directory")

	_ = screenCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	fp := common.NewFileProcessor(logger)
	jobDescription, err := fp.ReadFile(args[0])
	if err != nil {
		return err
	}

	collector := intake.NewCollector(cfg.App.MaxFileSize)
	for _, path := range args[1:] {
		if err := collector.AddFile(path); err != nil {
			return err
		}
	}
	if screenWatch && cfg.Watch.Dir != "" {
		if err := collectFromWatchDir(collector, cfg, logger); err != nil {
			return err
		}
	}

	results, err := screenOnce(cmd.Context(), a, collector, jobDescription)
	if err != nil {
		return err
	}

	view, err := a.renderer.Render(results, a.renderOptions(screenBlind, screenThreshold))
	if err != nil {
		return err
	}

	handler := common.NewOutputHandler(logger)
	return handler.HandleOutput(view, screenConfig)
}

// screenOnce validates, submits, and records one screening run
func screenOnce(ctx context.Context, a *app, collector *intake.Collector, jobDescription string) ([]types.CandidateResult, error) {
	submission, attachments, err := collector.Payload(jobDescription)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Submitting screening request",
		"text_resumes", len(submission.Resumes),
		"file_resumes", len(attachments))

	var results []types.CandidateResult
	if len(attachments) > 0 {
		results, err = a.client.ScreenUpload(ctx, submission, attachments)
	} else {
		results, err = a.client.Screen(ctx, submission)
	}
	a.obs.GetMetrics().CountScreening(ctx, len(results), err == nil)
	if err != nil {
		return nil, err
	}

	a.session.SetJobDescription(jobDescription)
	a.session.SetResults(results)
	if err := a.saveSession(); err != nil {
		return nil, err
	}

	a.logger.Info("Screening completed",
		"run_id", a.session.RunID(),
		"candidates", len(results))
	return results, nil
}

// collectFromWatchDir adds any resumes already sitting in the watch
// directory. Continuous watching is only used by the wizard flow.
func collectFromWatchDir(collector *intake.Collector, cfg *config.Config, logger *errors.Logger) error {
	entries, err := os.ReadDir(cfg.Watch.Dir)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("cannot read watch directory %s", cfg.Watch.Dir), err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(cfg.Watch.Dir, entry.Name())
		if !slices.Contains(cfg.Watch.Extensions, utils.GetFileExtension(path)) {
			continue
		}
		if err := collector.AddFile(path); err != nil {
			return err
		}
		logger.Info("picked up resume from watch directory", "path", path)
	}
	return nil
}
