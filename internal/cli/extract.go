package cli

import (
	"fmt"
	"path/filepath"

	"smarthire/internal/common"
	"smarthire/internal/intake"

	"github.com/spf13/cobra"
)

var extractOutputFile string

var extractCmd = &cobra.Command{
	Use:   "extract [resume-file]",
	Short: "Extract plain text from a resume file",
	Long: `Send a resume file to the backend for text extraction and print
the extracted plain text. Useful for checking what the screening
pipeline will actually see for a PDF or Word document.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(getConfigFromContext(ctx), getLoggerFromContext(ctx))
	if err != nil {
		return err
	}
	defer a.Close()

	fp := common.NewFileProcessor(a.logger)
	data, err := fp.ReadResumeFile(args[0])
	if err != nil {
		return err
	}

	text, err := a.client.ExtractText(ctx, intake.FileAttachment{
		Name: filepath.Base(args[0]),
		Data: data,
	})
	if err != nil {
		return err
	}

	if extractOutputFile != "" {
		return fp.WriteFile(extractOutputFile, text)
	}
	fmt.Println(text)
	return nil
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutputFile, "output", "o", "", "Output file path (default: stdout)")
}
