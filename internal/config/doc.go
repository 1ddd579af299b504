// Package config assembles the resolved parameter set for a provisioning run.
//
// Parameters are merged from layered sources in increasing precedence:
//
//  1. built-in defaults (port 22, user admin)
//  2. a named target profile from ~/.config/certpush/targets.yaml (optional)
//  3. certpush.conf in the working directory
//  4. certpush.local.conf in the working directory
//  5. process environment (ROUTEROS_* variables)
//  6. command-line flags
//  7. positional arguments, applied only to parameters still empty
//
// Settings files use shell-style KEY="value" assignments with the same key
// names as the environment variables. Unknown keys are ignored; the file is
// an overlay of named settings, not a schema-validated document.
//
// Example certpush.conf:
//
//	ROUTEROS_USER="admin"
//	ROUTEROS_HOST="203.0.113.5"
//	ROUTEROS_SSH_PORT="22"
//	ROUTEROS_PRIVATE_KEY="/root/.ssh/id_ed25519"
//	ROUTEROS_DOMAIN="example.com"
//
// When the certificate or key path is left unset, it defaults to the
// Let's Encrypt live layout for the resolved domain.
//
// The result of Resolve is an immutable Config value constructed once and
// passed to every component. Missing required parameters (host, port, SSH
// key path, domain) fail resolution before any remote interaction, naming
// the first missing field.
package config
