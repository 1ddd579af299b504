package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksyq12/certpush/internal/config"
	cperrors "github.com/ksyq12/certpush/internal/errors"
	"github.com/ksyq12/certpush/internal/executor"
	"github.com/ksyq12/certpush/internal/input"
	"github.com/ksyq12/certpush/internal/provision"
	"github.com/ksyq12/certpush/internal/routeros"
)

// setupCLI isolates a test from the ambient environment: empty working
// directory, no ROUTEROS_* variables, reset flag state, and restored
// package hooks on cleanup.
func setupCLI(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())

	for _, env := range []string{
		config.EnvUser, config.EnvHost, config.EnvPort, config.EnvSSHKey,
		config.EnvDomain, config.EnvCertificate, config.EnvKey, config.EnvSSHOptions,
	} {
		t.Setenv(env, "")
	}

	origDial := dialFunc
	origProvisioner := newProvisioner
	origReader := stdinReader
	t.Cleanup(func() {
		dialFunc = origDial
		newProvisioner = origProvisioner
		stdinReader = origReader
		resetFlags()
	})
	resetFlags()
}

func resetFlags() {
	jsonOutput = false
	flagUser = ""
	flagHost = ""
	flagPort = ""
	flagSSHKey = ""
	flagDomain = ""
	flagCertificate = ""
	flagKey = ""
	flagSSHOptions = ""
	flagTarget = ""
	flagKnownHosts = ""
	flagStrictHost = false
	initForce = false
}

func newTestCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.SetContext(t.Context())
	return cmd
}

// writeLocalPair creates readable certificate and key files and points the
// corresponding flags at them.
func writeLocalPair(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	certPath := filepath.Join(dir, "fullchain.pem")
	keyPath := filepath.Join(dir, "privkey.pem")
	if err := os.WriteFile(certPath, []byte("cert material"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyPath, []byte("key material"), 0o600); err != nil {
		t.Fatal(err)
	}
	flagCertificate = certPath
	flagKey = keyPath
}

func setConnectionFlags() {
	flagUser = "admin"
	flagHost = "203.0.113.5"
	flagPort = "22"
	flagSSHKey = "/home/certbot/.ssh/id_ed25519"
	flagDomain = "example.com"
}

// installMock wires a scripted executor into the dial hook and a provisioner
// factory with the settle delay removed.
func installMock(mock *executor.MockExecutor) {
	dialFunc = func(opts executor.Options) (executor.Executor, error) {
		return mock, nil
	}
	newProvisioner = func(cfg *config.Config, ros *routeros.Client) *provision.Provisioner {
		p := provision.New(cfg, ros)
		p.SetSleep(func(time.Duration) {})
		return p
	}
}

func TestRunPush(t *testing.T) {
	t.Run("full workflow against healthy appliance", func(t *testing.T) {
		setupCLI(t)
		setConnectionFlags()
		writeLocalPair(t)

		mock := &executor.MockExecutor{}
		installMock(mock)

		if err := runPush(newTestCmd(t), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(mock.RunCalls) == 0 || mock.RunCalls[0] != "/system resource print" {
			t.Errorf("expected probe as first command, got %v", mock.RunCalls)
		}
		if len(mock.UploadCalls) != 2 {
			t.Errorf("expected 2 uploads, got %d", len(mock.UploadCalls))
		}
		want := `/interface sstp-server server set certificate="example.com.pem_0"`
		if mock.RunCalls[len(mock.RunCalls)-3] != want {
			t.Errorf("expected SSTP binding before post-cleanup, got %v", mock.RunCalls)
		}
		if mock.CloseCalls != 1 {
			t.Errorf("expected connection closed once, got %d", mock.CloseCalls)
		}
	})

	t.Run("unreachable appliance maps to setup failure", func(t *testing.T) {
		setupCLI(t)
		setConnectionFlags()
		writeLocalPair(t)

		dialFunc = func(opts executor.Options) (executor.Executor, error) {
			return nil, errors.New("connection refused")
		}

		err := runPush(newTestCmd(t), nil)
		if err == nil {
			t.Fatal("expected error")
		}
		if got := cperrors.ExitCodeFor(err); got != cperrors.ExitSetup {
			t.Errorf("expected exit code %d, got %d", cperrors.ExitSetup, got)
		}
	})

	t.Run("missing configuration never dials", func(t *testing.T) {
		setupCLI(t)

		dialed := false
		dialFunc = func(opts executor.Options) (executor.Executor, error) {
			dialed = true
			return &executor.MockExecutor{}, nil
		}

		err := runPush(newTestCmd(t), nil)
		if err == nil {
			t.Fatal("expected error")
		}
		if got := cperrors.ExitCodeFor(err); got != cperrors.ExitConfig {
			t.Errorf("expected exit code %d, got %d", cperrors.ExitConfig, got)
		}
		if dialed {
			t.Error("dial attempted with incomplete configuration")
		}
	})

	t.Run("positional arguments fill unset parameters", func(t *testing.T) {
		setupCLI(t)
		writeLocalPair(t)

		mock := &executor.MockExecutor{}
		var dialedOpts executor.Options
		dialFunc = func(opts executor.Options) (executor.Executor, error) {
			dialedOpts = opts
			return mock, nil
		}
		newProvisioner = func(cfg *config.Config, ros *routeros.Client) *provision.Provisioner {
			p := provision.New(cfg, ros)
			p.SetSleep(func(time.Duration) {})
			return p
		}

		args := []string{"admin", "192.0.2.10", "2222", "/root/.ssh/id_ed25519", "example.com"}
		if err := runPush(newTestCmd(t), args); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dialedOpts.Host != "192.0.2.10" || dialedOpts.Port != "2222" || dialedOpts.User != "admin" {
			t.Errorf("positional arguments not applied: %+v", dialedOpts)
		}
	})

	t.Run("malformed transport options are a configuration error", func(t *testing.T) {
		setupCLI(t)
		setConnectionFlags()
		writeLocalPair(t)
		flagSSHOptions = "-o StrictHostKeyChecking"

		err := runPush(newTestCmd(t), nil)
		if err == nil {
			t.Fatal("expected error")
		}
		if got := cperrors.ExitCodeFor(err); got != cperrors.ExitConfig {
			t.Errorf("expected exit code %d, got %d", cperrors.ExitConfig, got)
		}
	})
}

func TestRunCheck(t *testing.T) {
	t.Run("verifies without modifying the appliance", func(t *testing.T) {
		setupCLI(t)
		setConnectionFlags()
		writeLocalPair(t)

		mock := &executor.MockExecutor{}
		installMock(mock)

		if err := runCheck(newTestCmd(t), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(mock.RunCalls) != 1 || mock.RunCalls[0] != "/system resource print" {
			t.Errorf("expected only the probe command, got %v", mock.RunCalls)
		}
		if len(mock.UploadCalls) != 0 {
			t.Errorf("check must not upload, got %v", mock.UploadCalls)
		}
	})

	t.Run("missing certificate fails before connecting", func(t *testing.T) {
		setupCLI(t)
		setConnectionFlags()
		writeLocalPair(t)
		flagCertificate = filepath.Join(t.TempDir(), "missing.pem")

		dialed := false
		dialFunc = func(opts executor.Options) (executor.Executor, error) {
			dialed = true
			return &executor.MockExecutor{}, nil
		}

		err := runCheck(newTestCmd(t), nil)
		if got := cperrors.ExitCodeFor(err); got != cperrors.ExitCertNotFound {
			t.Errorf("expected exit code %d, got %d (err=%v)", cperrors.ExitCertNotFound, got, err)
		}
		if dialed {
			t.Error("dial attempted despite missing certificate")
		}
	})
}

func TestRunStatus(t *testing.T) {
	setupCLI(t)
	setConnectionFlags()
	writeLocalPair(t)

	mock := &executor.MockExecutor{
		RunFunc: func(_ context.Context, command string) ([]byte, error) {
			if strings.HasPrefix(command, ":put ") {
				return []byte("example.com.pem_0\n"), nil
			}
			return []byte(""), nil
		},
	}
	installMock(mock)

	if err := runStatus(newTestCmd(t), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Probe plus one query per service.
	if len(mock.RunCalls) != 1+len(routeros.DefaultServices()) {
		t.Errorf("unexpected command count: %v", mock.RunCalls)
	}
	for _, cmd := range mock.RunCalls[1:] {
		if !strings.HasPrefix(cmd, ":put ") {
			t.Errorf("status issued a mutating command: %q", cmd)
		}
	}
}

func TestRunInit(t *testing.T) {
	t.Run("writes starter settings", func(t *testing.T) {
		setupCLI(t)
		flagHost = "203.0.113.5"
		flagDomain = "example.com"

		if err := runInit(newTestCmd(t), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		f, err := os.Open(config.SettingsFile)
		if err != nil {
			t.Fatalf("settings file not written: %v", err)
		}
		defer f.Close()
		settings, err := config.ParseSettings(f)
		if err != nil {
			t.Fatalf("generated settings do not parse: %v", err)
		}
		if settings[config.EnvHost] != "203.0.113.5" {
			t.Errorf("host not seeded: %v", settings)
		}
		if settings[config.EnvDomain] != "example.com" {
			t.Errorf("domain not seeded: %v", settings)
		}
	})

	t.Run("declining the prompt keeps the existing file", func(t *testing.T) {
		setupCLI(t)
		if err := os.WriteFile(config.SettingsFile, []byte("# mine\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		stdinReader = input.NewStringReader("n\n")

		if err := runInit(newTestCmd(t), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(config.SettingsFile)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "# mine\n" {
			t.Error("existing file was overwritten")
		}
	})

	t.Run("force overwrites without prompting", func(t *testing.T) {
		setupCLI(t)
		if err := os.WriteFile(config.SettingsFile, []byte("# mine\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		initForce = true
		// No reader input configured; a prompt would fail with EOF.
		stdinReader = input.NewStringReader()

		if err := runInit(newTestCmd(t), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(config.SettingsFile)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) == "# mine\n" {
			t.Error("force did not overwrite")
		}
	})
}
