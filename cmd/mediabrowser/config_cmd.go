package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newConfigCmd returns the "config" subcommand group for configuration management.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

// newConfigValidateCmd returns the "config validate" subcommand that checks config file validity.
func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleSuccess.Render("✓ Configuration is valid"))
			fmt.Fprintln(out, styleDim.Render(fmt.Sprintf("  tmdb:   %s", sanitizeURL(orDefault(cfg.TMDb.BaseURL, "https://api.themoviedb.org/3")))))
			fmt.Fprintln(out, styleDim.Render(fmt.Sprintf("  stream: %s", sanitizeURL(orDefault(cfg.Stream.BaseURL, "https://getsuperembed.link/")))))
			fmt.Fprintln(out, styleDim.Render(fmt.Sprintf("  port:   %d", cfg.Server.Port)))
			return nil
		},
	}
}
