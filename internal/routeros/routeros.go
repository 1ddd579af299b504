// Package routeros implements the typed command surface of the appliance.
//
// Every interaction with the appliance is one of a small closed set of
// operations: probe, remove-certificate, remove-file, import, and the two
// service binding shapes. Each operation renders exactly one console command
// and executes it through the executor channel, so tests can substitute an
// executor mock and assert on the rendered commands.
package routeros

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cperrors "github.com/ksyq12/certpush/internal/errors"
	"github.com/ksyq12/certpush/internal/executor"
)

// ErrImportedNothing reports an import the appliance accepted but consumed
// no material from, typically because a store entry already holds the
// target name. Transport and console errors are returned as-is and do not
// match this sentinel.
var ErrImportedNothing = errors.New("import consumed nothing")

// Service identifies a TLS-terminating appliance service.
type Service string

// The fixed set of services the tool knows how to bind.
const (
	ServiceWWW  Service = "www-ssl"     // web management TLS service
	ServiceAPI  Service = "api-ssl"     // API TLS service
	ServiceSSTP Service = "sstp-server" // SSTP tunnel server
)

// DefaultServices returns the ordered service list used by a provisioning
// run. Order matters: binding failures are reported by position.
func DefaultServices() []Service {
	return []Service{ServiceWWW, ServiceAPI, ServiceSSTP}
}

// IsValidService checks if the given identifier is a known service.
func IsValidService(s Service) bool {
	switch s {
	case ServiceWWW, ServiceAPI, ServiceSSTP:
		return true
	}
	return false
}

// Client executes typed appliance operations through an executor.
type Client struct {
	exec executor.Executor
}

// NewClient creates a Client on top of an established executor channel.
func NewClient(exec executor.Executor) *Client {
	return &Client{exec: exec}
}

// Upload copies a local file to the appliance under remoteName through the
// executor channel.
func (c *Client) Upload(ctx context.Context, localPath, remoteName string) error {
	return c.exec.Upload(ctx, localPath, remoteName)
}

// Probe issues a benign, side-effect-free command and returns its output.
// Success means the channel and credentials are valid.
func (c *Client) Probe(ctx context.Context) (string, error) {
	out, err := c.exec.Run(ctx, "/system resource print")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// RemoveCertificate removes a certificate store entry by name.
// The find clause makes removal of a missing entry a no-op on the appliance
// side; transport errors still surface.
func (c *Client) RemoveCertificate(ctx context.Context, name string) error {
	cmd := fmt.Sprintf("/certificate remove [find name=%s]", quote(name))
	_, err := c.exec.Run(ctx, cmd)
	return err
}

// RemoveFile removes a file from the appliance filesystem by name.
func (c *Client) RemoveFile(ctx context.Context, name string) error {
	cmd := fmt.Sprintf("/file remove [find name=%s]", quote(name))
	_, err := c.exec.Run(ctx, cmd)
	return err
}

// ImportFile imports an uploaded file into the certificate store with an
// empty passphrase. The appliance reports how many certificates and keys it
// consumed; an import that consumes nothing is a failure.
func (c *Client) ImportFile(ctx context.Context, fileName string) error {
	cmd := fmt.Sprintf("/certificate import file-name=%s passphrase=\"\"", quote(fileName))
	out, err := c.exec.Run(ctx, cmd)
	if err != nil {
		return err
	}
	if importedNothing(string(out)) {
		return fmt.Errorf("%w: %s: %s", ErrImportedNothing, fileName, strings.TrimSpace(string(out)))
	}
	return nil
}

// importedNothing reports whether the import output indicates that no
// certificate or key material was consumed.
func importedNothing(out string) bool {
	lowered := strings.ToLower(out)
	if strings.Contains(lowered, "certificates-imported: 0") &&
		strings.Contains(lowered, "private-keys-imported: 0") {
		return true
	}
	return strings.Contains(lowered, "failure:")
}

// BindService points a service at a certificate store entry. The tunnel
// server uses a different command shape than the two plain TLS services.
// An identifier outside the known set is a bug in the caller's service
// list and yields the fatal unknown-service error.
func (c *Client) BindService(ctx context.Context, svc Service, storeName string) error {
	var cmd string
	switch svc {
	case ServiceWWW, ServiceAPI:
		cmd = fmt.Sprintf("/ip service set %s certificate=%s", svc, quote(storeName))
	case ServiceSSTP:
		cmd = fmt.Sprintf("/interface sstp-server server set certificate=%s", quote(storeName))
	default:
		return cperrors.UnknownService(string(svc))
	}
	_, err := c.exec.Run(ctx, cmd)
	return err
}

// ServiceCertificate returns the certificate store name currently bound to
// a service, or an empty string when none is bound.
func (c *Client) ServiceCertificate(ctx context.Context, svc Service) (string, error) {
	var cmd string
	switch svc {
	case ServiceWWW, ServiceAPI:
		cmd = fmt.Sprintf(":put [/ip service get %s certificate]", svc)
	case ServiceSSTP:
		cmd = ":put [/interface sstp-server server get certificate]"
	default:
		return "", cperrors.UnknownService(string(svc))
	}
	out, err := c.exec.Run(ctx, cmd)
	if err != nil {
		return "", err
	}
	cert := strings.TrimSpace(string(out))
	if cert == "none" {
		cert = ""
	}
	return cert, nil
}
