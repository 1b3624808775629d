package cli

import (
	"fmt"

	"smarthire/internal/common"
	"smarthire/internal/contact"
	"smarthire/internal/formatters"

	"github.com/spf13/cobra"
)

var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Manage the persistent candidate shortlist",
}

var shortlistConfig common.CommandConfig

var shortlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shortlisted candidates",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if shortlistConfig.OutputFormat == "" {
			shortlistConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(shortlistConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(getConfigFromContext(cmd.Context()), getLoggerFromContext(cmd.Context()))
		if err != nil {
			return err
		}
		defer a.Close()

		handler := common.NewOutputHandler(a.logger)
		return handler.HandleOutput(
			formatters.ShortlistOutput{Entries: a.shortlist.List()}, shortlistConfig)
	},
}

var shortlistRemoveCmd = &cobra.Command{
	Use:   "remove [candidate-id]",
	Short: "Remove a candidate from the shortlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(getConfigFromContext(cmd.Context()), getLoggerFromContext(cmd.Context()))
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := a.shortlist.Remove(args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("candidate %s is not on the shortlist", args[0])
		}
		a.logger.Info("Candidate removed from shortlist", "id", args[0])
		return nil
	},
}

var shortlistClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all candidates from the shortlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(getConfigFromContext(cmd.Context()), getLoggerFromContext(cmd.Context()))
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.shortlist.Clear(); err != nil {
			return err
		}
		a.logger.Info("Shortlist cleared")
		return nil
	},
}

var shortlistContactsFile string

var shortlistContactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Export shortlist contact details as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(getConfigFromContext(cmd.Context()), getLoggerFromContext(cmd.Context()))
		if err != nil {
			return err
		}
		defer a.Close()

		data, err := contact.ContactsCSV(a.extractor, a.shortlist.List())
		a.obs.GetMetrics().CountExport(cmd.Context(), "contacts", err == nil)
		if err != nil {
			return err
		}

		if shortlistContactsFile == "" {
			fmt.Print(string(data))
			return nil
		}
		handler := common.NewOutputHandler(a.logger)
		return handler.HandleBinaryOutput(data, shortlistContactsFile)
	},
}

func init() {
	shortlistListCmd.Flags().StringVarP(&shortlistConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	shortlistListCmd.Flags().StringVar(&shortlistConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	shortlistContactsCmd.Flags().StringVarP(&shortlistContactsFile, "output", "o", "", "CSV file path (default: stdout)")

	shortlistCmd.AddCommand(shortlistListCmd)
	shortlistCmd.AddCommand(shortlistRemoveCmd)
	shortlistCmd.AddCommand(shortlistClearCmd)
	shortlistCmd.AddCommand(shortlistContactsCmd)
}
