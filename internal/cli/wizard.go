package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"smarthire/internal/backend"
	"smarthire/internal/common"
	"smarthire/internal/intake"
	"smarthire/internal/store"
	"smarthire/internal/wizard"

	"github.com/spf13/cobra"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive step-by-step screening flow",
	Long: `Walk through the screening flow interactively: enter a job
description, paste or attach resumes, review ranked results, and manage
the shortlist. Progress is kept when moving back and forth between
steps.`,
	RunE: runWizard,
}

var wizardBlind bool

func init() {
	wizardCmd.Flags().BoolVar(&wizardBlind, "blind", false, "Blind screening: mask names and institutions")
}

// wizardSession holds everything the interactive flow mutates
type wizardSession struct {
	app       *app
	flow      *wizard.Wizard
	collector *intake.Collector
	in        *bufio.Scanner
	out       io.Writer
	jd        string
}

func runWizard(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	a.settings.BlindMode = a.settings.BlindMode || wizardBlind

	ws := &wizardSession{
		app:       a,
		flow:      wizard.New(),
		collector: intake.NewCollector(cfg.App.MaxFileSize),
		in:        bufio.NewScanner(os.Stdin),
		out:       cmd.OutOrStdout(),
	}
	ws.in.Buffer(make([]byte, 1024*1024), 1024*1024)

	// a draft job description from a previous session is offered again
	if saved, ok, _ := a.store.Get(store.KeyLastJobDescription); ok && strings.TrimSpace(saved) != "" {
		ws.jd = saved
	}

	for {
		ws.printHeader()
		var err error
		switch ws.flow.Current() {
		case wizard.StepJobDescription:
			err = ws.stepJobDescription(cmd.Context())
		case wizard.StepCandidates:
			err = ws.stepCandidates(cmd.Context())
		case wizard.StepResults:
			err = ws.stepResults(cmd.Context())
		case wizard.StepShortlist:
			done, shortlistErr := ws.stepShortlist(cmd.Context())
			if done || shortlistErr != nil {
				return shortlistErr
			}
		}
		if err == io.EOF {
			// stdin closed, leave quietly
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (ws *wizardSession) printHeader() {
	indicators := ws.flow.Indicators()
	parts := make([]string, len(indicators))
	for i, state := range indicators {
		step := wizard.Step(i)
		switch state {
		case wizard.IndicatorCompleted:
			parts[i] = fmt.Sprintf("[x] %s", step)
		case wizard.IndicatorActive:
			parts[i] = fmt.Sprintf("[>] %s", step)
		default:
			parts[i] = fmt.Sprintf("[ ] %s", step)
		}
	}
	fmt.Fprintf(ws.out, "\n%s\n\n", strings.Join(parts, "  "))
}

// prompt reads one line, returning false on EOF
func (ws *wizardSession) prompt(label string) (string, bool) {
	fmt.Fprint(ws.out, label)
	if !ws.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(ws.in.Text()), true
}

// readBlock reads lines until a lone "." terminator
func (ws *wizardSession) readBlock(label string) string {
	fmt.Fprintf(ws.out, "%s (finish with a single '.' on its own line):\n", label)
	var lines []string
	for ws.in.Scan() {
		line := ws.in.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (ws *wizardSession) stepJobDescription(ctx context.Context) error {
	if strings.TrimSpace(ws.jd) != "" {
		preview := ws.jd
		if len(preview) > 80 {
			preview = preview[:80] + "..."
		}
		fmt.Fprintf(ws.out, "Saved job description: %q\n", preview)
		answer, ok := ws.prompt("Keep it? [Y/n] ")
		if !ok {
			return io.EOF
		}
		if strings.EqualFold(answer, "n") {
			ws.jd = ""
		}
	}
	if strings.TrimSpace(ws.jd) == "" {
		ws.jd = ws.readBlock("Enter the job description")
	}

	// autosave so an interrupted session can resume
	if err := ws.app.store.Put(store.KeyLastJobDescription, ws.jd); err != nil {
		return err
	}
	ws.flow.SetJobDescriptionReady(strings.TrimSpace(ws.jd) != "")
	if err := ws.flow.Next(); err != nil {
		fmt.Fprintf(ws.out, "%v\n", err)
	}
	return nil
}

func (ws *wizardSession) stepCandidates(ctx context.Context) error {
	for {
		for _, line := range ws.collector.Describe() {
			fmt.Fprintln(ws.out, line)
		}
		answer, ok := ws.prompt("Add [t]ext resume, [f]ile, [w]atch drop dir, [r]emove row, [b]ack, or [c]ontinue: ")
		if !ok {
			return io.EOF
		}
		switch strings.ToLower(answer) {
		case "t":
			text := ws.readBlock("Paste the resume text")
			ws.collector.AddText(text)
		case "f":
			path, ok := ws.prompt("File path: ")
			if !ok {
				return io.EOF
			}
			if err := ws.collector.AddFile(path); err != nil {
				fmt.Fprintf(ws.out, "%v\n", err)
			}
		case "w":
			if err := ws.watchDropDir(ctx); err != nil {
				fmt.Fprintf(ws.out, "%v\n", err)
			}
		case "r":
			row, ok := ws.prompt("Row number: ")
			if !ok {
				return io.EOF
			}
			n, err := strconv.Atoi(row)
			if err != nil || !ws.collector.Remove(n) {
				fmt.Fprintln(ws.out, "no such row")
			}
		case "b":
			ws.flow.Back()
			return nil
		case "c":
			ws.flow.SetCandidatesReady(ws.collector.Count() > 0)
			if err := ws.flow.Next(); err != nil {
				fmt.Fprintf(ws.out, "%v\n", err)
				continue
			}
			return nil
		}
	}
}

// watchDropDir runs the directory watcher until the user presses
// Enter. Files dropped into the configured directory are added to the
// collector as they arrive.
func (ws *wizardSession) watchDropDir(ctx context.Context) error {
	dir := ws.app.cfg.Watch.Dir
	if dir == "" {
		return fmt.Errorf("no watch directory configured: set watch.dir")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher := intake.NewWatcher(ws.collector, dir, ws.app.cfg.Watch.Extensions, ws.app.logger)
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(watchCtx)
	}()

	fmt.Fprintf(ws.out, "Watching %s, press Enter to stop.\n", dir)
	ws.in.Scan()
	cancel()

	if err := <-done; err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func (ws *wizardSession) stepResults(ctx context.Context) error {
	if !ws.app.session.HasResults() {
		fmt.Fprintln(ws.out, "Running screening...")
		if _, err := screenOnce(ctx, ws.app, ws.collector, ws.jd); err != nil {
			fmt.Fprintf(ws.out, "%v\n", err)
			ws.flow.Back()
			return nil
		}
	}

	view, err := ws.app.renderer.Render(ws.app.session.Results(),
		ws.app.renderOptions(wizardBlind, -1))
	if err != nil {
		return err
	}
	handler := common.NewOutputHandler(ws.app.logger)
	if err := handler.HandleOutput(view, common.CommandConfig{OutputFormat: "text"}); err != nil {
		return err
	}

	for {
		answer, ok := ws.prompt("[p]review candidate, [e]xplain fit, [d]rop candidate, [b]ack, [c]ontinue: ")
		if !ok {
			return io.EOF
		}
		switch strings.ToLower(answer) {
		case "p":
			ws.previewCandidate(ctx)
		case "e":
			ws.explainCandidate(ctx)
		case "d":
			id, ok := ws.prompt("Candidate id: ")
			if !ok {
				return io.EOF
			}
			if !ws.app.session.RemoveResult(id) {
				fmt.Fprintln(ws.out, "no such candidate")
			} else if err := ws.app.saveSession(); err != nil {
				return err
			}
		case "b":
			ws.flow.Back()
			return nil
		case "c":
			ws.flow.SetResultsReady(ws.app.session.HasResults())
			if err := ws.flow.Next(); err != nil {
				fmt.Fprintf(ws.out, "%v\n", err)
				continue
			}
			return nil
		}
	}
}

func (ws *wizardSession) previewCandidate(ctx context.Context) {
	id, ok := ws.prompt("Candidate id: ")
	if !ok {
		return
	}
	c, found := ws.app.session.Result(id)
	if !found {
		fmt.Fprintln(ws.out, "no such candidate")
		return
	}
	blind := ws.app.settings.BlindMode || wizardBlind
	preview, err := ws.app.renderer.Preview(ws.app.redactor, c, blind)
	if err != nil {
		fmt.Fprintf(ws.out, "%v\n", err)
		return
	}
	if blind {
		ws.app.obs.GetMetrics().CountRedaction(ctx)
	}
	fmt.Fprintln(ws.out, preview)
}

func (ws *wizardSession) explainCandidate(ctx context.Context) {
	id, ok := ws.prompt("Candidate id: ")
	if !ok {
		return
	}
	c, found := ws.app.session.Result(id)
	if !found {
		fmt.Fprintln(ws.out, "no such candidate")
		return
	}
	explanation, err := ws.app.client.FitExplanation(ctx, ws.jd, c)
	ws.app.obs.GetMetrics().CountAIDraft(ctx, "fit_explanation", err == nil)
	if err != nil {
		fmt.Fprintf(ws.out, "%v\n", err)
		return
	}
	c.Explanation = explanation
	ws.app.session.UpdateResult(c)
	fmt.Fprintln(ws.out, explanation)
}

// stepShortlist returns done=true when the user quits the wizard
func (ws *wizardSession) stepShortlist(ctx context.Context) (bool, error) {
	for {
		entries := ws.app.shortlist.List()
		fmt.Fprintf(ws.out, "Shortlist (%d):\n", len(entries))
		for i, c := range entries {
			fmt.Fprintf(ws.out, "%d. %s (id %s) score %.1f\n", i+1, c.AnonymizedName, c.ID, c.Score)
		}

		answer, ok := ws.prompt("[a]dd by id, [r]emove by id, [m]ail draft, [b]ack, [q]uit: ")
		if !ok {
			return true, nil
		}
		switch strings.ToLower(answer) {
		case "a":
			id, ok := ws.prompt("Candidate id: ")
			if !ok {
				return true, nil
			}
			c, found := ws.app.session.Result(id)
			if !found {
				fmt.Fprintln(ws.out, "no such candidate")
				continue
			}
			added, err := ws.app.shortlist.Add(c)
			if err != nil {
				return false, err
			}
			if added {
				ws.app.obs.GetMetrics().CountShortlistAdd(ctx, false)
			} else {
				fmt.Fprintln(ws.out, "already shortlisted")
			}
		case "r":
			id, ok := ws.prompt("Candidate id: ")
			if !ok {
				return true, nil
			}
			if removed, err := ws.app.shortlist.Remove(id); err != nil {
				return false, err
			} else if !removed {
				fmt.Fprintln(ws.out, "not on the shortlist")
			}
		case "m":
			if err := ws.mailDraft(ctx); err != nil {
				fmt.Fprintf(ws.out, "%v\n", err)
			}
		case "b":
			ws.flow.Back()
			return false, nil
		case "q":
			return true, nil
		}
	}
}

func (ws *wizardSession) mailDraft(ctx context.Context) error {
	id, ok := ws.prompt("Candidate id: ")
	if !ok {
		return nil
	}
	c, found := ws.app.session.Result(id)
	if !found {
		for _, e := range ws.app.shortlist.List() {
			if e.ID == id {
				c, found = e, true
				break
			}
		}
	}
	if !found {
		fmt.Fprintln(ws.out, "no such candidate")
		return nil
	}

	kindAnswer, ok := ws.prompt("Kind ([s]hortlist, [r]ejection, [i]nterview): ")
	if !ok {
		return nil
	}
	kind := backend.EmailShortlist
	switch strings.ToLower(kindAnswer) {
	case "r":
		kind = backend.EmailRejection
	case "i":
		kind = backend.EmailInterview
	}

	draft, err := ws.app.assembler.Compose(ctx, kind, ws.jd, c)
	ws.app.obs.GetMetrics().CountAIDraft(ctx, string(kind), err == nil)
	if err != nil {
		return err
	}
	handler := common.NewOutputHandler(ws.app.logger)
	return handler.HandleOutput(draft, common.CommandConfig{OutputFormat: "text"})
}
