package cli

import (
	"fmt"

	"github.com/ksyq12/certpush/internal/config"
	cperrors "github.com/ksyq12/certpush/internal/errors"
	"github.com/ksyq12/certpush/internal/executor"
	"github.com/ksyq12/certpush/internal/input"
	"github.com/ksyq12/certpush/internal/logger"
	"github.com/ksyq12/certpush/internal/provision"
	"github.com/ksyq12/certpush/internal/routeros"
)

// dialFunc is swapped out in tests to substitute a mock executor.
var dialFunc = func(opts executor.Options) (executor.Executor, error) {
	return executor.Dial(opts)
}

// newProvisioner is swapped out in tests to shorten the settle delay.
var newProvisioner = provision.New

// resolveConfig merges all configuration sources for the current invocation.
func resolveConfig(positional []string) (*config.Config, error) {
	return config.Resolve(config.Flags{
		User:        flagUser,
		Host:        flagHost,
		Port:        flagPort,
		SSHKey:      flagSSHKey,
		Domain:      flagDomain,
		Certificate: flagCertificate,
		Key:         flagKey,
		SSHOptions:  flagSSHOptions,

		Target:        flagTarget,
		KnownHosts:    flagKnownHosts,
		StrictHostKey: flagStrictHost,
	}, positional)
}

// connect opens the SSH transport to the appliance and wraps it in a
// RouterOS client. A failure to establish the session maps to the setup
// failure category, distinct from the in-workflow probe.
func connect(cfg *config.Config) (executor.Executor, *routeros.Client, error) {
	opts := executor.Options{
		Host:           cfg.Host,
		Port:           cfg.Port,
		User:           cfg.User,
		KeyPath:        cfg.SSHKey,
		KnownHostsPath: cfg.KnownHosts,
		StrictHostKey:  cfg.StrictHostKey,
		Passphrase: func(keyPath string) (string, error) {
			return input.ReadPassphrase(fmt.Sprintf("Enter passphrase for %s: ", keyPath))
		},
	}
	if err := executor.ApplyTransportOptions(&opts, cfg.SSHOptions); err != nil {
		return nil, nil, cperrors.Config(fmt.Sprintf("invalid transport options: %v", err))
	}

	logger.DebugFields("connecting", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"user": cfg.User,
	})

	exec, err := dialFunc(opts)
	if err != nil {
		return nil, nil, cperrors.SetupFailed(cfg.Host, err)
	}
	return exec, routeros.NewClient(exec), nil
}
