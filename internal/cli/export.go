package cli

import (
	"fmt"

	"smarthire/internal/common"

	"github.com/spf13/cobra"
)

var exportFile string

var exportCmd = &cobra.Command{
	Use:   "export [csv|report]",
	Short: "Export the last screening results",
	Long: `Export the results of the last screening run.

csv produces a flat spreadsheet of scores and skills, report produces
a formatted document generated by the backend.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "csv", "report":
			return nil
		default:
			return fmt.Errorf("invalid export kind %q: must be csv or report", args[0])
		}
	},
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(getConfigFromContext(ctx), getLoggerFromContext(ctx))
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.restoreSession(); err != nil {
		a.logger.Warn("Could not restore previous session", "error", err)
	}
	if !a.session.HasResults() {
		return fmt.Errorf("no screening results to export: run screen first")
	}

	results := a.session.Results()

	var data []byte
	switch args[0] {
	case "csv":
		data, err = a.client.ExportCSV(ctx, results)
	case "report":
		data, err = a.client.ExportReport(ctx, a.session.JobDescription(), results)
	}
	a.obs.GetMetrics().CountExport(ctx, args[0], err == nil)
	if err != nil {
		return err
	}

	out := exportFile
	if out == "" {
		ext := ".pdf"
		if args[0] == "csv" {
			ext = ".csv"
		}
		name := "screening_" + args[0]
		if id := a.session.RunID(); id != "" {
			name += "_" + id[:8]
		}
		out = name + ext
	}
	handler := common.NewOutputHandler(a.logger)
	return handler.HandleBinaryOutput(data, out)
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "output", "o", "", "Output file path")
}
