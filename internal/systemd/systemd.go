// Package systemd probes the init system of a host: whether it was booted
// with systemd, which systemd major version is installed, and whether that
// version can launch transient scope units.
//
// Results are memoized in a caller-supplied cache so that a session performs
// each external check at most once. A value already present in the cache is
// returned verbatim, even when it is not of the canonical type; callers and
// tests rely on this to pre-seed overrides. Probing failures never surface
// as errors: a host without systemd is ordinary data, not an exception.
package systemd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/melih-ucgun/hostcap/internal/core"
)

const (
	// BootedKey and VersionKey are the cache keys this package owns.
	BootedKey  = "hostcap.systemd.booted"
	VersionKey = "hostcap.systemd.version"

	// markerPath exists only while the running init is systemd.
	markerPath = "/run/systemd/system"

	// versionCmd queries the installed systemctl, booted or not.
	versionCmd = "systemctl --version"

	// scopeMinVersion is the first systemd release with scope units.
	scopeMinVersion = 205
)

// ErrInvalidCache reports a cache argument that is neither nil nor a
// string-keyed map. It signals a bug in the caller, not a host condition,
// and is the only error the probes ever return.
var ErrInvalidCache = errors.New("cache must be nil or a map[string]any")

// Prober runs the probes through a transport.
type Prober struct {
	tr core.Transport
}

func New(tr core.Transport) *Prober {
	return &Prober{tr: tr}
}

// assertCache validates the optional cache argument before any external
// call is made. nil disables caching.
func assertCache(cache any) (core.Cache, error) {
	switch c := cache.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return c, nil
	default:
		return nil, fmt.Errorf("%w, got %T", ErrInvalidCache, cache)
	}
}

// Booted reports whether the host was booted with systemd as its init
// system, by checking that the runtime marker directory exists.
//
// The result is normally a bool. On a cache hit it is whatever the cache
// holds under BootedKey, unmodified. Every stat failure counts as not
// booted; a permission error is indistinguishable from absence here.
func (p *Prober) Booted(cache any) (any, error) {
	c, err := assertCache(cache)
	if err != nil {
		return nil, err
	}
	if c != nil {
		if v, ok := c[BootedKey]; ok {
			return v, nil
		}
	}

	_, statErr := p.tr.FS().Stat(markerPath)
	booted := statErr == nil
	if c != nil {
		c[BootedKey] = booted
	}
	return booted, nil
}

// Version returns the systemd major version as an int, or nil when
// systemctl cannot be run or its output does not parse. The host does not
// need to be systemd-booted; the binary may be installed regardless.
//
// A parse failure writes no cache entry: an absent VersionKey means "not
// successfully determined yet", which is distinct from any stored value.
func (p *Prober) Version(cache any) (any, error) {
	c, err := assertCache(cache)
	if err != nil {
		return nil, err
	}
	if c != nil {
		if v, ok := c[VersionKey]; ok {
			return v, nil
		}
	}

	// Exit status is deliberately not inspected: a non-zero exit with
	// parseable output still yields a version.
	out, _ := p.tr.Execute(context.Background(), versionCmd)
	ver, ok := parseVersion(out)
	if !ok {
		return nil, nil
	}
	if c != nil {
		c[VersionKey] = ver
	}
	return ver, nil
}

// HasScope reports whether the running systemd supports transient scope
// units (systemd >= 205). When the host is not systemd-booted the version
// probe is skipped entirely, so no version cache entry appears either.
func (p *Prober) HasScope(cache any) (bool, error) {
	if _, err := assertCache(cache); err != nil {
		return false, err
	}

	booted, err := p.Booted(cache)
	if err != nil {
		return false, err
	}
	if !truthy(booted) {
		return false, nil
	}

	ver, err := p.Version(cache)
	if err != nil {
		return false, err
	}
	n, ok := ver.(int)
	if !ok {
		return false, nil
	}
	return n >= scopeMinVersion, nil
}

// parseVersion extracts the major version from `systemctl --version`
// output. The first line looks like "systemd 231" or, for builds versioned
// by git describe, "systemd 241 (241.0-0-dist)"; only the leading digit
// run of the second field matters.
func parseVersion(out string) (int, bool) {
	line, _, _ := strings.Cut(out, "\n")
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}

	token := fields[1]
	i := 0
	for i < len(token) && token[i] >= '0' && token[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(token[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// truthy interprets a possibly overridden cache value: nil, false, empty
// strings and zero numbers are falsy, everything else is truthy.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}
