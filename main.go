package main

import (
	"os"

	"github.com/ppaass/ppaass/lib/config"
	"github.com/ppaass/ppaass/lib/util/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var log = logger.GetPpaassLogger()

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "ppaass",
		Short:        "Encode and decode ppaass protocol frames",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Debug("parsing ppaass configuration")
			return config.InitConfig()
		},
	}
	root.PersistentFlags().StringVar(&config.CfgFile, "config", "", "config file (default $HOME/.ppaass/config.yaml)")

	root.AddCommand(newAddressCommand(), newMessageCommand(), newMonitorCommand(), newConfigCommand())
	return root
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.CurrentConfig()
			if err := config.Validate(*cfg); err != nil {
				log.WithError(err).Warn("configuration is not valid")
			}
			return writeYAML(cmd, cfg)
		},
	})
	return cmd
}

func writeYAML(cmd *cobra.Command, v interface{}) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
