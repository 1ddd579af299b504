package config

import (
	"os"

	cperrors "github.com/ksyq12/certpush/internal/errors"
	"github.com/ksyq12/certpush/internal/logger"
	"github.com/ksyq12/certpush/internal/platform"
)

// Settings file names checked in the working directory, in fixed precedence
// order: the local file overrides the base file for any key present in both.
const (
	SettingsFile      = "certpush.conf"
	SettingsLocalFile = "certpush.local.conf"
)

// Environment variable names, also used as settings file keys.
const (
	EnvUser        = "ROUTEROS_USER"
	EnvHost        = "ROUTEROS_HOST"
	EnvPort        = "ROUTEROS_SSH_PORT"
	EnvSSHKey      = "ROUTEROS_PRIVATE_KEY"
	EnvDomain      = "ROUTEROS_DOMAIN"
	EnvCertificate = "ROUTEROS_CERTIFICATE"
	EnvKey         = "ROUTEROS_KEY"
	EnvSSHOptions  = "ROUTEROS_SSH_OPTIONS"
)

// Config is the fully-resolved, immutable parameter set for one run.
type Config struct {
	User        string // administrative user on the appliance
	Host        string // appliance host
	Port        string // appliance SSH port
	SSHKey      string // path to the administrative SSH identity
	Domain      string // domain the certificate covers
	Certificate string // local certificate file path
	Key         string // local private key file path
	SSHOptions  string // extra transport options, OpenSSH style

	KnownHosts    string // known_hosts path for host key verification
	StrictHostKey bool   // fail on unknown host keys
}

// Flags carries the command-line flag values into resolution.
// An empty string means the flag was not set.
type Flags struct {
	User        string
	Host        string
	Port        string
	SSHKey      string
	Domain      string
	Certificate string
	Key         string
	SSHOptions  string

	Target        string // named profile from targets.yaml
	KnownHosts    string
	StrictHostKey bool
}

// values is the mutable merge target used during resolution.
type values struct {
	user, host, port, sshKey, domain, cert, key, sshOptions string
}

// Resolve merges all configuration sources and validates the result.
// Positional arguments are [user host port ssh-key domain]; each is applied
// only when the corresponding parameter is still empty after the named
// layers.
func Resolve(flags Flags, positional []string) (*Config, error) {
	var v values

	if flags.Target != "" {
		profile, err := LoadTarget(flags.Target)
		if err != nil {
			return nil, err
		}
		v.applyProfile(profile)
	}

	for _, name := range []string{SettingsFile, SettingsLocalFile} {
		if err := v.applyFile(name); err != nil {
			return nil, err
		}
	}

	v.applyEnv()
	v.applyFlags(flags)

	if err := v.applyPositional(positional); err != nil {
		return nil, err
	}

	// Built-in fallbacks sit below every explicit source, including the
	// positional arguments.
	if v.user == "" {
		v.user = "admin"
	}
	if v.port == "" {
		v.port = "22"
	}

	// Cert/key default to the Let's Encrypt live layout for the domain.
	if v.domain != "" {
		certPath, keyPath := platform.DefaultCertPaths(v.domain)
		if v.cert == "" {
			v.cert = certPath
		}
		if v.key == "" {
			v.key = keyPath
		}
	}

	required := []struct {
		field string
		value string
	}{
		{"host", v.host},
		{"port", v.port},
		{"ssh-key", v.sshKey},
		{"domain", v.domain},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, cperrors.MissingField(r.field)
		}
	}

	return &Config{
		User:          v.user,
		Host:          v.host,
		Port:          v.port,
		SSHKey:        v.sshKey,
		Domain:        v.domain,
		Certificate:   v.cert,
		Key:           v.key,
		SSHOptions:    v.sshOptions,
		KnownHosts:    flags.KnownHosts,
		StrictHostKey: flags.StrictHostKey,
	}, nil
}

// applyFile overlays a settings file from the working directory.
// A missing file is not an error; a malformed one is.
func (v *values) applyFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return cperrors.Wrap(cperrors.ErrCodeConfig, "failed to open settings file "+name, err)
	}
	defer f.Close()

	settings, err := ParseSettings(f)
	if err != nil {
		return cperrors.Wrap(cperrors.ErrCodeConfig, "failed to parse settings file "+name, err)
	}
	logger.Debug("Applying settings file %s (%d keys)", name, len(settings))
	v.applySettings(settings)
	return nil
}

// applySettings overlays known keys; unknown keys are ignored.
func (v *values) applySettings(settings map[string]string) {
	set := func(dst *string, key string) {
		if val, ok := settings[key]; ok {
			*dst = val
		}
	}
	set(&v.user, EnvUser)
	set(&v.host, EnvHost)
	set(&v.port, EnvPort)
	set(&v.sshKey, EnvSSHKey)
	set(&v.domain, EnvDomain)
	set(&v.cert, EnvCertificate)
	set(&v.key, EnvKey)
	set(&v.sshOptions, EnvSSHOptions)
}

func (v *values) applyEnv() {
	set := func(dst *string, key string) {
		if val := os.Getenv(key); val != "" {
			*dst = val
		}
	}
	set(&v.user, EnvUser)
	set(&v.host, EnvHost)
	set(&v.port, EnvPort)
	set(&v.sshKey, EnvSSHKey)
	set(&v.domain, EnvDomain)
	set(&v.cert, EnvCertificate)
	set(&v.key, EnvKey)
	set(&v.sshOptions, EnvSSHOptions)
}

func (v *values) applyFlags(flags Flags) {
	set := func(dst *string, val string) {
		if val != "" {
			*dst = val
		}
	}
	set(&v.user, flags.User)
	set(&v.host, flags.Host)
	set(&v.port, flags.Port)
	set(&v.sshKey, flags.SSHKey)
	set(&v.domain, flags.Domain)
	set(&v.cert, flags.Certificate)
	set(&v.key, flags.Key)
	set(&v.sshOptions, flags.SSHOptions)
}

// applyPositional fills still-empty parameters from the positional argument
// list [user host port ssh-key domain].
func (v *values) applyPositional(args []string) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) != 5 {
		return cperrors.Config("positional arguments must be: USER HOST PORT SSH_KEY DOMAIN")
	}
	targets := []*string{&v.user, &v.host, &v.port, &v.sshKey, &v.domain}
	for i, dst := range targets {
		if *dst == "" {
			*dst = args[i]
		}
	}
	return nil
}

func (v *values) applyProfile(p *Target) {
	set := func(dst *string, val string) {
		if val != "" {
			*dst = val
		}
	}
	set(&v.user, p.User)
	set(&v.host, p.Host)
	set(&v.port, p.Port)
	set(&v.sshKey, p.SSHKey)
	set(&v.domain, p.Domain)
	set(&v.cert, p.Certificate)
	set(&v.key, p.Key)
	set(&v.sshOptions, p.SSHOptions)
}
