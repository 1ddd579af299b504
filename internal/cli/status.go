package cli

import (
	"github.com/spf13/cobra"

	"github.com/ksyq12/certpush/internal/output"
	"github.com/ksyq12/certpush/internal/routeros"
)

var statusCmd = &cobra.Command{
	Use:           "status [USER HOST PORT SSH_KEY DOMAIN]",
	Short:         "Show which certificate each TLS service is bound to",
	Args:          cobra.MaximumNArgs(5),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}

	exec, ros, err := connect(cfg)
	if err != nil {
		return err
	}
	defer exec.Close()

	if _, err := ros.Probe(cmd.Context()); err != nil {
		return err
	}

	type binding struct {
		Service     string `json:"service"`
		Certificate string `json:"certificate"`
	}
	var bindings []binding
	for _, svc := range routeros.DefaultServices() {
		cert, err := ros.ServiceCertificate(cmd.Context(), svc)
		if err != nil {
			return err
		}
		bindings = append(bindings, binding{Service: string(svc), Certificate: cert})
	}

	if jsonOutput {
		return output.JSON(map[string]interface{}{
			"host":     cfg.Host,
			"bindings": bindings,
		})
	}

	rows := make([][]string, 0, len(bindings))
	for _, b := range bindings {
		cert := b.Certificate
		if cert == "" {
			cert = "(none)"
		}
		rows = append(rows, []string{b.Service, cert})
	}
	output.Table([]string{"SERVICE", "CERTIFICATE"}, rows)
	return nil
}
