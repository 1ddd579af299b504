package template

import (
	"strings"
	"testing"

	"github.com/ksyq12/certpush/internal/config"
)

func TestRenderSettings(t *testing.T) {
	t.Run("full data", func(t *testing.T) {
		out, err := RenderSettings(SettingsData{
			User:        "provisioner",
			Host:        "203.0.113.5",
			Port:        "2022",
			SSHKey:      "/root/.ssh/id_ed25519",
			Domain:      "example.com",
			Certificate: "/certs/fullchain.pem",
			Key:         "/certs/privkey.pem",
		})
		if err != nil {
			t.Fatalf("RenderSettings failed: %v", err)
		}
		for _, want := range []string{
			`ROUTEROS_USER="provisioner"`,
			`ROUTEROS_HOST="203.0.113.5"`,
			`ROUTEROS_SSH_PORT="2022"`,
			`ROUTEROS_CERTIFICATE="/certs/fullchain.pem"`,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("rendered settings missing %q", want)
			}
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		out, err := RenderSettings(SettingsData{Host: "203.0.113.5"})
		if err != nil {
			t.Fatalf("RenderSettings failed: %v", err)
		}
		if !strings.Contains(out, `ROUTEROS_USER="admin"`) {
			t.Error("expected default user admin")
		}
		if !strings.Contains(out, `ROUTEROS_SSH_PORT="22"`) {
			t.Error("expected default port 22")
		}
		if !strings.Contains(out, `#ROUTEROS_CERTIFICATE=`) {
			t.Error("expected commented certificate placeholder")
		}
	})

	t.Run("rendered output parses as settings", func(t *testing.T) {
		out, err := RenderSettings(SettingsData{
			Host:   "203.0.113.5",
			SSHKey: "/root/.ssh/id_ed25519",
			Domain: "example.com",
		})
		if err != nil {
			t.Fatalf("RenderSettings failed: %v", err)
		}
		settings, err := config.ParseSettings(strings.NewReader(out))
		if err != nil {
			t.Fatalf("rendered settings do not parse: %v", err)
		}
		if settings[config.EnvHost] != "203.0.113.5" {
			t.Errorf("unexpected host: %q", settings[config.EnvHost])
		}
		if settings[config.EnvDomain] != "example.com" {
			t.Errorf("unexpected domain: %q", settings[config.EnvDomain])
		}
	})
}
