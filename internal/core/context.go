package core

import (
	"context"
	"io"
	"os"
)

// Cache is the caller-owned memoization surface shared by probes within a
// session. Probes only touch keys they own by convention; values pre-seeded
// by the caller are returned verbatim, whatever their type.
type Cache = map[string]any

// SystemContext holds the runtime context for a probe session.
// It wraps the standard Go context and adds hostcap-specific fields.
type SystemContext struct {
	context.Context

	// Host facts, filled in by system.Detect.
	OS         string // linux, darwin
	Distro     string // ubuntu, arch, fedora
	Version    string // 22.04, 38, rolling
	Hostname   string
	InitSystem string // systemd, openrc, sysvinit, unknown

	// Transport runs commands and filesystem calls against the target host,
	// locally or over SSH.
	Transport Transport

	// Cache memoizes probe results for the lifetime of this context.
	Cache Cache

	Logger Logger

	Stdout io.Writer
	Stderr io.Writer
}

// NewSystemContext builds a bare context over the given transport.
// Host facts start out unknown; the detector fills them in.
func NewSystemContext(tr Transport) *SystemContext {
	return &SystemContext{
		Context:   context.Background(),
		OS:        "unknown",
		Distro:    "unknown",
		Transport: tr,
		Cache:     make(Cache),
		Logger:    NewDefaultLogger(os.Stderr, defaultLogLevel),
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}
