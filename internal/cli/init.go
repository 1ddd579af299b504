package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ksyq12/certpush/internal/config"
	cperrors "github.com/ksyq12/certpush/internal/errors"
	"github.com/ksyq12/certpush/internal/input"
	"github.com/ksyq12/certpush/internal/output"
	"github.com/ksyq12/certpush/internal/platform"
	"github.com/ksyq12/certpush/internal/template"
)

// stdinReader is swapped out in tests to script the overwrite prompt.
var stdinReader input.Reader = input.NewStdinReader()

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter certpush.conf in the current directory",
	Long:  `Init writes a commented certpush.conf seeded from any flags given on
the command line. Existing files are not overwritten without confirmation.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing settings file without asking")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(config.SettingsFile); err == nil && !initForce {
		output.Print("%s already exists. Overwrite? [y/N]: ", config.SettingsFile)
		answer, _ := stdinReader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			output.Info("Init cancelled")
			return nil
		}
	}

	sshKey := flagSSHKey
	if sshKey == "" {
		sshKey = platform.DefaultIdentity()
	}

	content, err := template.RenderSettings(template.SettingsData{
		User:        flagUser,
		Host:        flagHost,
		Port:        flagPort,
		SSHKey:      sshKey,
		Domain:      flagDomain,
		Certificate: flagCertificate,
		Key:         flagKey,
	})
	if err != nil {
		return cperrors.Wrap(cperrors.ErrCodeConfig, "failed to render settings", err)
	}

	if err := os.WriteFile(config.SettingsFile, []byte(content), 0o644); err != nil {
		return cperrors.Wrap(cperrors.ErrCodeConfig, "failed to write settings", err)
	}

	output.Success("Wrote %s", config.SettingsFile)
	output.Info("Edit it and run 'certpush' to push a certificate")
	return nil
}
