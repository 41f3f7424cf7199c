package commands

import (
	"os"

	"github.com/spf13/cobra"

	"otrbridge/internal/app"
	"otrbridge/internal/config"
)

var (
	configPath string
	home       string
	passphrase string
	debug      bool

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:           "otrbridge",
		Short:         "Off-the-Record messaging over a chat relay",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if home != "" {
				cfg.Home = home
			}
			if passphrase != "" {
				cfg.Passphrase = passphrase
			}
			if debug {
				cfg.Debug = true
			}
			wire, err = app.NewWire(cfg, os.Stderr)
			return err
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.otrbridge/config.yaml)")
	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/.otrbridge)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting identity keys")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "start with debug mode on")

	root.AddCommand(initCmd(), fingerprintCmd(), trustCmd(), relayCmd(), chatCmd())
	return root.Execute()
}
