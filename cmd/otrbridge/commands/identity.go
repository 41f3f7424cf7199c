package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"otrbridge/internal/domain"
)

func account(nick string) domain.AccountID {
	return domain.AccountID{Nick: nick, Network: wire.Config.RelayURL}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <nick>",
		Short: "Generate identity keys for nick and store them securely",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := wire.Identities()
			if err != nil {
				return err
			}
			_, fp, err := ids.EnsureIdentity(account(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Identity ready for %s.\nFingerprint: %s\n", account(args[0]), fp)
			return nil
		},
	}
}

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <nick>",
		Short: "Print identity fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := wire.Identities()
			if err != nil {
				return err
			}
			fp, ok, err := ids.FingerprintAccount(account(args[0]))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no identity for %s; run init first", account(args[0]))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fingerprint: %s\n", fp)
			return nil
		},
	}
}

func trustCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trust",
		Short: "Inspect verified peer fingerprints",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List verified fingerprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := wire.Trust.ListTrusted()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No trusted fingerprints.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%-40s %s  %s\n", e.Peer.String(), e.Fingerprint, time.Unix(e.CreatedUTC, 0).UTC().Format("2006-01-02"))
			}
			return nil
		},
	})
	return cmd
}
