package cli

import (
	"fmt"
	"strconv"

	"smarthire/internal/types"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change persisted preferences",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(getConfigFromContext(cmd.Context()), getLoggerFromContext(cmd.Context()))
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("theme:      %s\n", a.settings.Theme)
		fmt.Printf("threshold:  %d\n", a.settings.ScoreThreshold)
		fmt.Printf("genai:      %t\n", a.settings.GenAIEnabled)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a preference",
	Long: `Set a persisted preference.

Keys:
  theme      dark or light
  threshold  auto-shortlist score threshold, 0 to 100
  genai      true or false, toggles AI-assisted features`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	a, err := newApp(getConfigFromContext(cmd.Context()), getLoggerFromContext(cmd.Context()))
	if err != nil {
		return err
	}
	defer a.Close()

	key, value := args[0], args[1]
	switch key {
	case "theme":
		if value != types.ThemeDark && value != types.ThemeLight {
			return fmt.Errorf("invalid theme %q: must be dark or light", value)
		}
		a.settings.Theme = value
	case "threshold":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 100 {
			return fmt.Errorf("invalid threshold %q: must be an integer between 0 and 100", value)
		}
		a.settings.ScoreThreshold = n
	case "genai":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid genai value %q: must be true or false", value)
		}
		a.settings.GenAIEnabled = b
	default:
		return fmt.Errorf("unknown setting %q: must be theme, threshold, or genai", key)
	}

	if err := a.store.SaveSettings(a.settings); err != nil {
		return err
	}
	a.logger.Info("Setting updated", "key", key, "value", value)
	return nil
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
