package systemd

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/melih-ucgun/hostcap/internal/core"
)

func bootedTransport(t *testing.T) *core.MockTransport {
	t.Helper()
	tr := core.NewMockTransport()
	tr.AddFile("/run/systemd/system", "")
	return tr
}

func TestBooted(t *testing.T) {
	tr := bootedTransport(t)
	p := New(tr)

	// Without a cache.
	got, err := p.Booted(nil)
	if err != nil {
		t.Fatalf("Booted returned error: %v", err)
	}
	if got != true {
		t.Errorf("Booted() = %v, want true", got)
	}

	// With a cache: the boot key must be written.
	cache := map[string]any{}
	if got, err = p.Booted(cache); err != nil {
		t.Fatalf("Booted returned error: %v", err)
	}
	if got != true {
		t.Errorf("Booted() = %v, want true", got)
	}
	if v, ok := cache[BootedKey]; !ok || v != true {
		t.Errorf("cache[%q] = %v (present=%v), want true", BootedKey, v, ok)
	}
}

func TestNotBooted(t *testing.T) {
	tests := []struct {
		name    string
		statErr error
	}{
		{"marker missing", nil}, // mock returns ErrNotExist for unknown paths
		{"permission denied", fs.ErrPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := core.NewMockTransport()
			if tt.statErr != nil {
				tr.StatErrors["/run/systemd/system"] = tt.statErr
			}
			p := New(tr)

			got, err := p.Booted(nil)
			if err != nil {
				t.Fatalf("Booted returned error: %v", err)
			}
			if got != false {
				t.Errorf("Booted() = %v, want false", got)
			}

			cache := map[string]any{}
			if _, err = p.Booted(cache); err != nil {
				t.Fatalf("Booted returned error: %v", err)
			}
			if v := cache[BootedKey]; v != false {
				t.Errorf("cache[%q] = %v, want false", BootedKey, v)
			}
		})
	}
}

func TestBootedReturnsCacheVerbatim(t *testing.T) {
	// A pre-seeded non-boolean sentinel must come back unmodified; this is
	// the documented override backdoor.
	tr := core.NewMockTransport()
	p := New(tr)

	cache := map[string]any{BootedKey: "foo"}
	got, err := p.Booted(cache)
	if err != nil {
		t.Fatalf("Booted returned error: %v", err)
	}
	if got != "foo" {
		t.Errorf("Booted() = %v, want %q", got, "foo")
	}
	if len(tr.StatCalls) != 0 {
		t.Errorf("cache hit still performed %d stat calls", len(tr.StatCalls))
	}
}

func TestBootedInvalidCache(t *testing.T) {
	tr := bootedTransport(t)
	p := New(tr)

	if _, err := p.Booted(99999); !errors.Is(err, ErrInvalidCache) {
		t.Fatalf("Booted(99999) error = %v, want ErrInvalidCache", err)
	}
	if len(tr.StatCalls) != 0 {
		t.Errorf("invalid cache still performed %d stat calls", len(tr.StatCalls))
	}
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   int
	}{
		{"plain", "systemd 231\n-SYSVINIT", 231},
		{"git describe", "systemd 241 (241.0-0-dist)\n-SYSVINIT", 241},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := core.NewMockTransport()
			tr.AddResponse("systemctl --version", tt.output)
			p := New(tr)

			got, err := p.Version(nil)
			if err != nil {
				t.Fatalf("Version returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Version() = %v, want %d", got, tt.want)
			}

			cache := map[string]any{}
			if _, err = p.Version(cache); err != nil {
				t.Fatalf("Version returned error: %v", err)
			}
			if v := cache[VersionKey]; v != tt.want {
				t.Errorf("cache[%q] = %v, want %d", VersionKey, v, tt.want)
			}
		})
	}
}

func TestVersionParseProblem(t *testing.T) {
	tr := core.NewMockTransport()
	tr.AddResponse("systemctl --version", "invalid")
	p := New(tr)

	got, err := p.Version(nil)
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if got != nil {
		t.Errorf("Version() = %v, want nil", got)
	}

	// A failed parse must leave the cache untouched: key absence means
	// "not successfully determined yet".
	cache := map[string]any{}
	if _, err = p.Version(cache); err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if _, ok := cache[VersionKey]; ok {
		t.Errorf("cache contains %q after parse failure", VersionKey)
	}
}

func TestVersionIgnoresExitStatus(t *testing.T) {
	// Combined output is parsed even when the command exits non-zero.
	tr := core.NewMockTransport()
	tr.AddResponse("systemctl --version", "systemd 239\n+PAM")
	tr.AddError("systemctl --version", errors.New("exit status 1"))
	p := New(tr)

	got, err := p.Version(nil)
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if got != 239 {
		t.Errorf("Version() = %v, want 239", got)
	}
}

func TestVersionCommandMissing(t *testing.T) {
	tr := core.NewMockTransport()
	tr.AddError("systemctl --version", errors.New("sh: systemctl: command not found"))
	p := New(tr)

	got, err := p.Version(nil)
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if got != nil {
		t.Errorf("Version() = %v, want nil", got)
	}
}

func TestVersionReturnsCacheVerbatim(t *testing.T) {
	tr := core.NewMockTransport()
	p := New(tr)

	cache := map[string]any{VersionKey: "foo"}
	got, err := p.Version(cache)
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if got != "foo" {
		t.Errorf("Version() = %v, want %q", got, "foo")
	}
	if tr.CallCount("systemctl") != 0 {
		t.Errorf("cache hit still executed systemctl")
	}
}

func TestVersionInvalidCache(t *testing.T) {
	tr := core.NewMockTransport()
	p := New(tr)

	if _, err := p.Version(99999); !errors.Is(err, ErrInvalidCache) {
		t.Fatalf("Version(99999) error = %v, want ErrInvalidCache", err)
	}
	if tr.CallCount("systemctl") != 0 {
		t.Errorf("invalid cache still executed systemctl")
	}
}

func TestHasScope(t *testing.T) {
	// Scopes appeared in systemd 205; check both sides of the threshold.
	tests := []struct {
		version int
		want    bool
	}{
		{204, false},
		{205, true},
		{206, true},
	}

	for _, tt := range tests {
		tr := bootedTransport(t)
		tr.AddResponse("systemctl --version", fmt.Sprintf("systemd %d\n-SYSVINIT", tt.version))
		p := New(tr)

		got, err := p.HasScope(nil)
		if err != nil {
			t.Fatalf("HasScope returned error: %v", err)
		}
		if got != tt.want {
			t.Errorf("HasScope() with version %d = %v, want %v", tt.version, got, tt.want)
		}

		cache := map[string]any{}
		if _, err = p.HasScope(cache); err != nil {
			t.Fatalf("HasScope returned error: %v", err)
		}
		if v := cache[BootedKey]; v != true {
			t.Errorf("cache[%q] = %v, want true", BootedKey, v)
		}
		if v := cache[VersionKey]; v != tt.version {
			t.Errorf("cache[%q] = %v, want %d", VersionKey, v, tt.version)
		}
	}
}

func TestHasScopeNotBooted(t *testing.T) {
	// Not systemd-booted: the version probe must not run at all, so the
	// cache ends up with a booted key and nothing else.
	tr := core.NewMockTransport()
	tr.AddResponse("systemctl --version", "systemd 251\n+PAM")
	p := New(tr)

	cache := map[string]any{}
	got, err := p.HasScope(cache)
	if err != nil {
		t.Fatalf("HasScope returned error: %v", err)
	}
	if got {
		t.Error("HasScope() = true on a non-systemd host")
	}
	if v := cache[BootedKey]; v != false {
		t.Errorf("cache[%q] = %v, want false", BootedKey, v)
	}
	if _, ok := cache[VersionKey]; ok {
		t.Errorf("cache contains %q although the host is not booted with systemd", VersionKey)
	}
	if tr.CallCount("systemctl") != 0 {
		t.Error("version probe ran despite the boot check failing")
	}
}

func TestHasScopeVersionParseProblem(t *testing.T) {
	tr := bootedTransport(t)
	tr.AddResponse("systemctl --version", "invalid")
	p := New(tr)

	cache := map[string]any{}
	got, err := p.HasScope(cache)
	if err != nil {
		t.Fatalf("HasScope returned error: %v", err)
	}
	if got {
		t.Error("HasScope() = true with unparseable systemctl output")
	}
	if v := cache[BootedKey]; v != true {
		t.Errorf("cache[%q] = %v, want true", BootedKey, v)
	}
	if _, ok := cache[VersionKey]; ok {
		t.Errorf("cache contains %q after parse failure", VersionKey)
	}
}

func TestHasScopeInvalidCache(t *testing.T) {
	tr := bootedTransport(t)
	p := New(tr)

	if _, err := p.HasScope(99999); !errors.Is(err, ErrInvalidCache) {
		t.Fatalf("HasScope(99999) error = %v, want ErrInvalidCache", err)
	}
	if len(tr.StatCalls) != 0 || tr.CallCount("systemctl") != 0 {
		t.Error("invalid cache still performed external calls")
	}
}

func TestIdempotence(t *testing.T) {
	// With a shared cache every external call happens at most once; the
	// second round is a pure cache hit.
	tr := bootedTransport(t)
	tr.AddResponse("systemctl --version", "systemd 245\n+PAM")
	p := New(tr)

	cache := map[string]any{}
	for i := 0; i < 2; i++ {
		booted, err := p.Booted(cache)
		if err != nil {
			t.Fatalf("Booted returned error: %v", err)
		}
		if booted != true {
			t.Errorf("Booted() = %v on round %d, want true", booted, i+1)
		}

		ver, err := p.Version(cache)
		if err != nil {
			t.Fatalf("Version returned error: %v", err)
		}
		if ver != 245 {
			t.Errorf("Version() = %v on round %d, want 245", ver, i+1)
		}

		scope, err := p.HasScope(cache)
		if err != nil {
			t.Fatalf("HasScope returned error: %v", err)
		}
		if !scope {
			t.Errorf("HasScope() = false on round %d, want true", i+1)
		}
	}

	if n := len(tr.StatCalls); n != 1 {
		t.Errorf("marker stat ran %d times, want 1", n)
	}
	if n := tr.CallCount("systemctl"); n != 1 {
		t.Errorf("systemctl ran %d times, want 1", n)
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		output string
		want   int
		ok     bool
	}{
		{"systemd 231\n-SYSVINIT", 231, true},
		{"systemd 241 (241.0-0-dist)\n-SYSVINIT", 241, true},
		{"systemd 247.3-7+deb11u4\nsome feature line", 247, true},
		{"invalid", 0, false},
		{"", 0, false},
		{"systemd abc", 0, false},
		{"systemd\n231", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseVersion(tt.output)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseVersion(%q) = (%d, %v), want (%d, %v)",
				tt.output, got, ok, tt.want, tt.ok)
		}
	}
}
