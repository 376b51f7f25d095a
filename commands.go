package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"ochat/config"
)

func newModelsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models installed on the Ollama server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			defer config.SyncDebugLog()

			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			models, err := client.ListModels(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(models) == 0 {
				fmt.Fprintf(out, "No models installed on %s\n", client.BaseURL())
				return nil
			}

			width := runewidth.StringWidth("NAME")
			for _, m := range models {
				width = max(width, runewidth.StringWidth(m.Name))
			}

			fmt.Fprintf(out, "%s  %-8s  %s\n", runewidth.FillRight("NAME", width), "SIZE", "MODIFIED")
			for _, m := range models {
				marker := ""
				if m.Name == client.GetModel() || m.Name == client.GetModel()+":latest" {
					marker = "  *"
				}
				fmt.Fprintf(out, "%s  %-8s  %s%s\n",
					runewidth.FillRight(m.Name, width),
					humanize.Bytes(uint64(m.Size)),
					humanize.Time(m.ModifiedAt),
					marker,
				)
			}
			return nil
		},
	}
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a commented default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.configPath
			if path == "" {
				path = config.GetConfigFilePath()
			}
			if err := config.WriteConfigTemplate(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	})

	return cmd
}
