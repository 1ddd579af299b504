// Package template renders the starter settings file for `certpush init`
// from an embedded Go template.
package template

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed settings/*.tmpl
var settingsTemplates embed.FS

// SettingsData contains the values rendered into the starter settings file.
// Empty fields fall back to commented-out placeholders.
type SettingsData struct {
	User        string
	Host        string
	Port        string
	SSHKey      string
	Domain      string
	Certificate string
	Key         string
}

// RenderSettings renders the starter certpush.conf content.
func RenderSettings(data SettingsData) (string, error) {
	content, err := settingsTemplates.ReadFile("settings/certpush.conf.tmpl")
	if err != nil {
		return "", fmt.Errorf("settings template not found: %w", err)
	}

	tmpl, err := template.New("settings").Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse settings template: %w", err)
	}

	if data.User == "" {
		data.User = "admin"
	}
	if data.Port == "" {
		data.Port = "22"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render settings template: %w", err)
	}
	return buf.String(), nil
}
