package cli

import (
	"github.com/spf13/cobra"

	"github.com/ksyq12/certpush/internal/localcert"
	"github.com/ksyq12/certpush/internal/output"
)

var checkCmd = &cobra.Command{
	Use:   "check [USER HOST PORT SSH_KEY DOMAIN]",
	Short: "Verify local files and appliance reachability without changing anything",
	Long:  `Check resolves the configuration, verifies that the certificate and
private key exist and are readable, and probes the appliance over SSH.
No remote state is modified.`,
	Args:          cobra.MaximumNArgs(5),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}

	if err := localcert.VerifyCertificate(cfg.Certificate); err != nil {
		return err
	}
	if err := localcert.VerifyKey(cfg.Key); err != nil {
		return err
	}

	certStatus := "ok"
	if info, err := localcert.Inspect(cfg.Certificate); err != nil {
		certStatus = "unreadable as PEM"
		output.Warn("Certificate %s could not be parsed: %v", cfg.Certificate, err)
	} else if info.Expired() {
		certStatus = "expired"
		output.Warn("Certificate %s expired %s", cfg.Certificate, info.NotAfter.Format("2006-01-02"))
	}

	exec, ros, err := connect(cfg)
	if err != nil {
		return err
	}
	defer exec.Close()

	identity, err := ros.Probe(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(map[string]interface{}{
			"host":        cfg.Host,
			"domain":      cfg.Domain,
			"certificate": cfg.Certificate,
			"key":         cfg.Key,
			"cert_status": certStatus,
			"reachable":   true,
		})
	}

	output.Success("Certificate: %s", cfg.Certificate)
	output.Success("Private key: %s", cfg.Key)
	output.Success("Appliance %s reachable as %s", cfg.Host, cfg.User)
	if identity != "" {
		output.Info("%s", identity)
	}
	return nil
}
