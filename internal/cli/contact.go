package cli

import (
	"fmt"

	"smarthire/internal/backend"
	"smarthire/internal/common"
	"smarthire/internal/types"

	"github.com/spf13/cobra"
)

var contactConfig common.CommandConfig
var contactKind string

var contactCmd = &cobra.Command{
	Use:   "contact [candidate-id]",
	Short: "Draft an outreach email for a candidate",
	Long: `Draft an outreach email for a screened or shortlisted candidate.

Contact details are pulled from the candidate's resume text. When AI
drafting is enabled the backend generates the message, otherwise a
built-in template is used. The draft includes ready-to-use mailto and
WhatsApp links.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if contactConfig.OutputFormat == "" {
			contactConfig.OutputFormat = cfg.App.DefaultFormat
		}
		if err := common.ValidateOutputFormat(contactConfig.OutputFormat, cfg.App.SupportedFormats); err != nil {
			return err
		}
		switch contactKind {
		case "shortlist", "rejection", "interview":
			return nil
		default:
			return fmt.Errorf("invalid kind %q: must be shortlist, rejection, or interview", contactKind)
		}
	},
	RunE: runContact,
}

func runContact(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(getConfigFromContext(ctx), getLoggerFromContext(ctx))
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.restoreSession(); err != nil {
		a.logger.Warn("Could not restore previous session", "error", err)
	}

	candidate, ok := a.session.Result(args[0])
	if !ok {
		candidate, ok = findShortlisted(a, args[0])
	}
	if !ok {
		return fmt.Errorf("no candidate with id %s in the last screening or the shortlist", args[0])
	}

	kind := map[string]backend.EmailKind{
		"shortlist": backend.EmailShortlist,
		"rejection": backend.EmailRejection,
		"interview": backend.EmailInterview,
	}[contactKind]

	draft, err := a.assembler.Compose(ctx, kind, a.session.JobDescription(), candidate)
	a.obs.GetMetrics().CountAIDraft(ctx, string(kind), err == nil)
	if err != nil {
		return err
	}

	handler := common.NewOutputHandler(a.logger)
	return handler.HandleOutput(draft, contactConfig)
}

func findShortlisted(a *app, id string) (types.CandidateResult, bool) {
	for _, c := range a.shortlist.List() {
		if c.ID == id {
			return c, true
		}
	}
	return types.CandidateResult{}, false
}

func init() {
	contactCmd.Flags().StringVarP(&contactConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	contactCmd.Flags().StringVar(&contactConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	contactCmd.Flags().StringVarP(&contactKind, "kind", "k", "interview", "Email kind: shortlist, rejection, or interview")
}
