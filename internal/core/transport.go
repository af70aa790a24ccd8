package core

import (
	"context"
	"os/exec"
)

// Transport runs commands on the target host and exposes its filesystem.
// LocalTransport covers the current machine; transport.SSHTransport
// implements the same interface over SSH/SFTP.
type Transport interface {
	// Execute runs a command line and returns its combined output.
	// Output is returned even when the command exits non-zero.
	Execute(ctx context.Context, cmd string) (string, error)
	FS() FileSystem
	Close() error
}

// LocalTransport executes commands with os/exec on the local host.
type LocalTransport struct {
	fs FileSystem
}

func NewLocalTransport() *LocalTransport {
	return &LocalTransport{fs: &RealFS{}}
}

func (t *LocalTransport) Execute(ctx context.Context, cmd string) (string, error) {
	out, err := exec.CommandContext(ctx, "sh", "-c", cmd).CombinedOutput()
	return string(out), err
}

func (t *LocalTransport) FS() FileSystem { return t.fs }

func (t *LocalTransport) Close() error { return nil }
