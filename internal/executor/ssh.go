package executor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"context"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/ksyq12/certpush/internal/logger"
)

// defaultConnectTimeout bounds the TCP dial and SSH handshake.
const defaultConnectTimeout = 10 * time.Second

// PassphraseFunc supplies the passphrase for an encrypted private key.
// It is only invoked when the key actually requires one.
type PassphraseFunc func(keyPath string) (string, error)

// Options describes how to reach and authenticate to the appliance.
type Options struct {
	Host           string
	Port           string
	User           string
	KeyPath        string        // SSH identity used for authentication
	KnownHostsPath string        // known_hosts file for host key verification
	StrictHostKey  bool          // fail on unknown host keys
	ConnectTimeout time.Duration // zero means defaultConnectTimeout
	Passphrase     PassphraseFunc

	// Parsed from the extra transport options parameter.
	HostKeyAlgorithms []string
	Ciphers           []string
}

// SSHExecutor implements Executor over an SSH connection.
// Each Run opens a fresh session on the shared connection.
type SSHExecutor struct {
	client *ssh.Client
	addr   string
}

// Dial connects and authenticates to the appliance.
func Dial(opts Options) (*SSHExecutor, error) {
	signer, err := loadSigner(opts.KeyPath, opts.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH identity %s: %w", opts.KeyPath, err)
	}

	hostKeyCallback, err := hostKeyPolicy(opts)
	if err != nil {
		return nil, err
	}

	timeout := opts.ConnectTimeout
	if timeout == 0 {
		timeout = defaultConnectTimeout
	}

	cfg := &ssh.ClientConfig{
		User:            opts.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}
	if len(opts.HostKeyAlgorithms) > 0 {
		cfg.HostKeyAlgorithms = opts.HostKeyAlgorithms
	}
	if len(opts.Ciphers) > 0 {
		cfg.Ciphers = opts.Ciphers
	}

	addr := net.JoinHostPort(opts.Host, opts.Port)
	logger.Debug("Dialing %s as %s", addr, opts.User)

	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("ssh connection to %s failed: %w", addr, err)
	}

	return &SSHExecutor{client: client, addr: addr}, nil
}

// loadSigner parses the private key file, prompting for a passphrase only
// when the key is encrypted.
func loadSigner(path string, passphrase PassphraseFunc) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err == nil {
		return signer, nil
	}

	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) && passphrase != nil {
		pass, perr := passphrase(path)
		if perr != nil {
			return nil, perr
		}
		return ssh.ParsePrivateKeyWithPassphrase(data, []byte(pass))
	}
	return nil, err
}

// hostKeyPolicy returns the host key verification callback. With a
// known_hosts file the knownhosts callback is used; strict mode makes a
// missing file fatal instead of falling back to accepting any key.
func hostKeyPolicy(opts Options) (ssh.HostKeyCallback, error) {
	if opts.KnownHostsPath != "" {
		cb, err := knownhosts.New(opts.KnownHostsPath)
		if err != nil {
			if opts.StrictHostKey {
				return nil, fmt.Errorf("failed to load known_hosts %s: %w", opts.KnownHostsPath, err)
			}
			logger.Warn("Ignoring unusable known_hosts file %s: %v", opts.KnownHostsPath, err)
			return ssh.InsecureIgnoreHostKey(), nil
		}
		return cb, nil
	}
	if opts.StrictHostKey {
		return nil, errors.New("strict host key checking requires a known_hosts file")
	}
	return ssh.InsecureIgnoreHostKey(), nil
}

// Run executes one command on the appliance and returns combined output.
func (e *SSHExecutor) Run(ctx context.Context, command string) ([]byte, error) {
	session, err := e.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	defer session.Close()

	var buf bytes.Buffer
	session.Stdout = &buf
	session.Stderr = &buf

	logger.Debug("Remote command: %s", command)
	if err := session.Start(command); err != nil {
		return nil, fmt.Errorf("failed to start command: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- session.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			return buf.Bytes(), fmt.Errorf("remote command failed: %w (output: %s)", err, buf.String())
		}
		return buf.Bytes(), nil
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return buf.Bytes(), ctx.Err()
	}
}

// Upload copies a local file to the appliance root under remoteName
// using the SFTP subsystem.
func (e *SSHExecutor) Upload(ctx context.Context, localPath, remoteName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sftpClient, err := sftp.NewClient(e.client)
	if err != nil {
		return fmt.Errorf("failed to start sftp subsystem: %w", err)
	}
	defer sftpClient.Close()

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer src.Close()

	dst, err := sftpClient.Create(remoteName)
	if err != nil {
		return fmt.Errorf("failed to create remote file %s: %w", remoteName, err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, src)
	if err != nil {
		return fmt.Errorf("failed to write remote file %s: %w", remoteName, err)
	}
	logger.Debug("Uploaded %s to %s (%d bytes)", localPath, remoteName, n)
	return nil
}

// Close terminates the SSH connection.
func (e *SSHExecutor) Close() error {
	return e.client.Close()
}
