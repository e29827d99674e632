package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/sveltedoc/pkg/settings"
)

func newSettingsCmd(a *app) *cobra.Command {
	var settingsPath string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the AI provider settings used by enhance",
	}
	cmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Settings file (default: settings_path from config, else storage/settings.json)")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the settings with secrets masked, creating defaults if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := settings.Load(a.cfg.resolveSettingsPath(settingsPath))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), maskSettings(s))
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.cfg.resolveSettingsPath(settingsPath))
		},
	}

	cmd.AddCommand(show, path)
	return cmd
}

// maskSettings hides credential header values. Placeholders such as
// YOUR_API_KEY are left visible so unconfigured providers stand out.
func maskSettings(s settings.Settings) settings.Settings {
	out := s
	out.AIProviders = make([]settings.AIProvider, len(s.AIProviders))
	for i, p := range s.AIProviders {
		headers := make(map[string]string, len(p.Headers))
		for k, v := range p.Headers {
			if isSecretHeader(k) && !strings.Contains(v, "YOUR_API_KEY") {
				v = maskValue(v)
			}
			headers[k] = v
		}
		p.Headers = headers
		out.AIProviders[i] = p
	}
	return out
}

func isSecretHeader(name string) bool {
	n := strings.ToLower(name)
	return n == "authorization" || strings.Contains(n, "key") || strings.Contains(n, "token")
}

func maskValue(v string) string {
	if scheme, _, ok := strings.Cut(v, " "); ok {
		return scheme + " ****"
	}
	return "****"
}
