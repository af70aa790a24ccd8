// Package transport provides the remote implementation of core.Transport,
// running probes on another host over SSH with filesystem access via SFTP.
package transport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/melih-ucgun/hostcap/internal/core"
)

// Options describes the SSH target and credentials.
type Options struct {
	User     string
	Addr     string
	Port     int
	Password string
	KeyPath  string
}

// ParseHost parses a "user@addr[:port]" target spec.
func ParseHost(spec string) (Options, error) {
	var opts Options

	user, rest, ok := strings.Cut(spec, "@")
	if !ok || user == "" || rest == "" {
		return opts, fmt.Errorf("invalid host spec %q, want user@addr[:port]", spec)
	}
	opts.User = user
	opts.Addr = rest
	opts.Port = 22

	if addr, port, ok := strings.Cut(rest, ":"); ok {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 {
			return opts, fmt.Errorf("invalid port in host spec %q", spec)
		}
		opts.Addr = addr
		opts.Port = n
	}
	return opts, nil
}

// SSHTransport runs commands on a remote host over an SSH connection and
// exposes its filesystem through SFTP.
type SSHTransport struct {
	client *ssh.Client
	sftp   *sftp.Client
	fs     core.FileSystem
}

// NewSSHTransport opens a verified SSH connection to the given host.
// The server key is checked against ~/.ssh/known_hosts; there is no
// insecure fallback, connect manually once if the host is unknown.
func NewSSHTransport(opts Options) (*SSHTransport, error) {
	var authMethods []ssh.AuthMethod

	if opts.KeyPath != "" {
		keyData, err := os.ReadFile(opts.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("could not read private key %s: %w", opts.KeyPath, err)
		}
		signer, err := ssh.ParsePrivateKey(keyData)
		if err != nil {
			return nil, fmt.Errorf("could not parse private key %s: %w", opts.KeyPath, err)
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	}
	if opts.Password != "" {
		authMethods = append(authMethods, ssh.Password(opts.Password))
	}
	if len(authMethods) == 0 {
		return nil, fmt.Errorf("no SSH credentials: set HOSTCAP_SSH_KEY or HOSTCAP_SSH_PASSWORD")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not resolve home directory: %w", err)
	}
	knownHostsPath := filepath.Join(homeDir, ".ssh", "known_hosts")
	hostKeyCallback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("could not load known_hosts (%s): %w", knownHostsPath, err)
	}

	clientConfig := &ssh.ClientConfig{
		User:            opts.User,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         15 * time.Second,
	}

	port := opts.Port
	if port == 0 {
		port = 22
	}
	addr := fmt.Sprintf("%s:%d", opts.Addr, port)

	client, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("SSH connection to %s failed: %w", addr, err)
	}

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not open SFTP session on %s: %w", addr, err)
	}

	return &SSHTransport{
		client: client,
		sftp:   sftpClient,
		fs:     NewSFTPFS(sftpClient),
	}, nil
}

// Execute runs cmd in a fresh session and returns its combined output.
// Output is returned even when the command exits non-zero.
func (t *SSHTransport) Execute(ctx context.Context, cmd string) (string, error) {
	session, err := t.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("could not open SSH session: %w", err)
	}
	defer session.Close()

	out, err := session.CombinedOutput(cmd)
	return string(out), err
}

func (t *SSHTransport) FS() core.FileSystem { return t.fs }

func (t *SSHTransport) Close() error {
	if t.sftp != nil {
		t.sftp.Close()
	}
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}
