package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spiffcs/sonar/config"
)

// NewCmdConfig creates the config command with subcommands.
func NewCmdConfig() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and bootstrap sonar configuration",
		Long: `Inspect and bootstrap sonar configuration.

Without a subcommand the effective configuration is printed. Settings are
read from the built-in defaults, then the global file, then ./.sonar.yaml.
Secrets are never stored in these files; see 'sonar config env'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(format, cmd.OutOrStdout())
		},
	}
	addConfigFormatFlag(cmd, &format)

	cmd.AddCommand(
		newCmdConfigShow(),
		newCmdConfigDefaults(),
		newCmdConfigPath(),
		newCmdConfigInit(),
		newCmdConfigEnv(),
	)
	return cmd
}

func addConfigFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "output", "o", "yaml", "Output format (yaml, json)")
}

func newCmdConfigShow() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(format, cmd.OutOrStdout())
		},
	}
	addConfigFormatFlag(cmd, &format)
	return cmd
}

func newCmdConfigDefaults() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print every setting with its built-in default",
		Example: `  sonar config defaults
  sonar config defaults -o json
  sonar config defaults > .sonar.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeConfig(cmd.OutOrStdout(), config.DefaultConfig(), format)
		},
	}
	addConfigFormatFlag(cmd, &format)
	return cmd
}

func newCmdConfigPath() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "List the config files sonar reads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeConfigPaths(cmd.OutOrStdout(), config.GetConfigPaths())
		},
	}
}

func newCmdConfigInit() *cobra.Command {
	var global, local bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Write a starter config file containing the most common settings.

--global writes the per-user file, --local writes ./.sonar.yaml.
Without either flag you are asked which one to create.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd.InOrStdin(), cmd.OutOrStdout(), global, local)
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "Write the per-user config file")
	cmd.Flags().BoolVar(&local, "local", false, "Write ./.sonar.yaml")
	cmd.MarkFlagsMutuallyExclusive("global", "local")
	return cmd
}

func newCmdConfigEnv() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Report which secrets are present in the environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeEnvStatus(cmd.OutOrStdout(), &config.Config{})
		},
	}
}

// configTarget resolves where init writes. An empty choice means the flags
// did not decide and the user must be asked.
func configTarget(paths config.ConfigPathInfo, global, local bool) (path, scope string) {
	switch {
	case global:
		return paths.GlobalPath, "global"
	case local:
		return paths.LocalPath, "local"
	}
	return "", ""
}

func promptConfigTarget(in io.Reader, out io.Writer, paths config.ConfigPathInfo) (string, string, error) {
	fmt.Fprintf(out, "Create which config file?\n  1) global  %s\n  2) local   %s\n> ", paths.GlobalPath, paths.LocalPath)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && answer != "") {
		return "", "", fmt.Errorf("failed to read choice: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	fmt.Fprintln(out)

	switch answer {
	case "1", "global", "g":
		return paths.GlobalPath, "global", nil
	case "2", "local", "l":
		return paths.LocalPath, "local", nil
	}
	return "", "", fmt.Errorf("unrecognised choice %q", answer)
}

func runConfigInit(in io.Reader, out io.Writer, global, local bool) error {
	paths := config.GetConfigPaths()
	target, scope := configTarget(paths, global, local)
	if target == "" {
		var err error
		if target, scope, err = promptConfigTarget(in, out, paths); err != nil {
			return err
		}
	}

	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("%s already exists; edit it or remove it first", target)
	}
	if err := config.SaveTo(target, config.MinimalConfig()); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %s config: %s\n", scope, target)
	fmt.Fprintln(out, "See 'sonar config defaults' for every tunable, including scoring weights.")
	return nil
}

func writeConfigPaths(w io.Writer, paths config.ConfigPathInfo) error {
	found := func(ok bool) string {
		if ok {
			return "present"
		}
		return "absent"
	}
	_, err := fmt.Fprintf(w, "1. defaults  (built in)\n2. global    %s [%s]\n3. local     %s [%s]\nLater entries override earlier ones.\n",
		paths.GlobalPath, found(paths.GlobalExists),
		paths.LocalPath, found(paths.LocalExists))
	return err
}

func runConfigShow(format string, w io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return writeConfig(w, cfg, format)
}

func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	var out string
	switch format {
	case "yaml":
		s, err := cfg.ToYAML()
		if err != nil {
			return err
		}
		out = s
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode config as JSON: %w", err)
		}
		out = string(data) + "\n"
	default:
		return fmt.Errorf("unknown config format %q (want yaml or json)", format)
	}
	_, err := io.WriteString(w, out)
	return err
}

func writeEnvStatus(w io.Writer, cfg *config.Config) error {
	secrets := []struct {
		name  string
		value string
		note  string
	}{
		{"GITHUB_TOKEN", cfg.GetGitHubToken(), "anonymous GitHub quota"},
		{"SONAR_SEARCH_API_KEY", cfg.GetSearchAPIKey(), "search disabled"},
		{"DATABASE_URL", cfg.GetDatabaseURL(), "only --brief-file searches"},
		{"REDIS_URL", cfg.GetRedisURL(), "in-process rate limiter"},
		{"SONAR_JWT_SECRET", cfg.GetJWTSecret(), "serve disabled"},
	}
	for _, s := range secrets {
		status := "set"
		if s.value == "" {
			status = "not set (" + s.note + ")"
		}
		if _, err := fmt.Fprintf(w, "  %-21s %s\n", s.name, status); err != nil {
			return err
		}
	}
	return nil
}
