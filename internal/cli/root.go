package cli

import (
	"os"

	"github.com/spf13/cobra"

	cperrors "github.com/ksyq12/certpush/internal/errors"
	"github.com/ksyq12/certpush/internal/logger"
	"github.com/ksyq12/certpush/internal/output"
)

var (
	jsonOutput bool
	verbose    bool

	flagUser        string
	flagHost        string
	flagPort        string
	flagSSHKey      string
	flagDomain      string
	flagCertificate string
	flagKey         string
	flagSSHOptions  string
	flagTarget      string
	flagKnownHosts  string
	flagStrictHost  bool
)

// rootCmd represents the base command; running it without a subcommand
// performs the full provisioning workflow.
var rootCmd = &cobra.Command{
	Use:   "certpush [USER HOST PORT SSH_KEY DOMAIN]",
	Short: "Push TLS certificates to a RouterOS appliance",
	Long:  `certpush copies a locally held TLS certificate and private key onto a
RouterOS appliance over SSH, imports them into the certificate store, and
binds the www-ssl and api-ssl services and the SSTP tunnel server to the
imported certificate.

Configuration merges built-in defaults, an optional named target profile,
certpush.conf and certpush.local.conf from the working directory, ROUTEROS_*
environment variables, flags, and finally positional arguments for any
parameter still unset.

Designed to run as a certificate renewal hook; each failure category exits
with a distinct code.`,
	Args:          cobra.MaximumNArgs(5),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPush,
}

// Execute runs the root command
func Execute() {
	// Initialize logger based on verbose flag (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(cperrors.ExitCodeFor(err))
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")

	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "Administrative user on the appliance")
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "Appliance host")
	rootCmd.PersistentFlags().StringVarP(&flagPort, "port", "p", "", "Appliance SSH port")
	rootCmd.PersistentFlags().StringVarP(&flagSSHKey, "ssh-key", "i", "", "SSH identity file for authentication")
	rootCmd.PersistentFlags().StringVarP(&flagDomain, "domain", "d", "", "Domain the certificate covers")
	rootCmd.PersistentFlags().StringVarP(&flagCertificate, "certificate", "c", "", "Local certificate file path")
	rootCmd.PersistentFlags().StringVarP(&flagKey, "key", "k", "", "Local private key file path")
	rootCmd.PersistentFlags().StringVarP(&flagSSHOptions, "ssh-options", "o", "", "Extra transport options, OpenSSH style")
	rootCmd.PersistentFlags().StringVarP(&flagTarget, "target", "t", "", "Named target profile from targets.yaml")
	rootCmd.PersistentFlags().StringVar(&flagKnownHosts, "known-hosts", "", "known_hosts file for host key verification")
	rootCmd.PersistentFlags().BoolVar(&flagStrictHost, "strict-host-key", false, "Fail on unknown host keys")
}

func runPush(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}

	exec, ros, err := connect(cfg)
	if err != nil {
		return err
	}
	defer exec.Close()

	p := newProvisioner(cfg, ros)
	if err := p.Run(cmd.Context()); err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(map[string]interface{}{
			"success":    true,
			"host":       cfg.Host,
			"domain":     cfg.Domain,
			"store_name": p.StoreName(),
		})
	}
	return nil
}
