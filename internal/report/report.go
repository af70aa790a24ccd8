// Package report collects the capability probes into a single serializable
// result for the CLI and for baseline files.
package report

import (
	"bytes"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/melih-ucgun/hostcap/internal/core"
	"github.com/melih-ucgun/hostcap/internal/systemd"
)

// Report is one probe run against one host.
type Report struct {
	ID        string    `yaml:"id"`
	Timestamp time.Time `yaml:"timestamp"`
	Host      string    `yaml:"host"`
	Distro    string    `yaml:"distro,omitempty"`
	Init      string    `yaml:"init"`
	Booted    bool      `yaml:"booted"`
	Version   *int      `yaml:"version"`
	HasScope  bool      `yaml:"has_scope"`
}

// Facts is the comparable subset of a report: run metadata (id, timestamp)
// excluded, so two runs on the same host diff clean.
type Facts struct {
	Host     string `yaml:"host"`
	Init     string `yaml:"init"`
	Booted   bool   `yaml:"booted"`
	Version  *int   `yaml:"version"`
	HasScope bool   `yaml:"has_scope"`
}

// Collect runs all three probes over the context's shared cache, so the
// marker stat and the systemctl call each happen at most once per session.
// Version is probed unconditionally here: the report shows the installed
// systemctl version even on hosts not booted with systemd.
func Collect(sc *core.SystemContext) (*Report, error) {
	p := systemd.New(sc.Transport)

	booted, err := p.Booted(sc.Cache)
	if err != nil {
		return nil, err
	}
	version, err := p.Version(sc.Cache)
	if err != nil {
		return nil, err
	}
	hasScope, err := p.HasScope(sc.Cache)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Host:      sc.Hostname,
		Distro:    sc.Distro,
		Init:      sc.InitSystem,
		HasScope:  hasScope,
	}
	if b, ok := booted.(bool); ok {
		rep.Booted = b
	}
	if n, ok := version.(int); ok {
		rep.Version = &n
	}
	return rep, nil
}

// YAML renders the full report, baseline-file format included.
func (r *Report) YAML() (string, error) {
	out, err := yaml.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (r *Report) Facts() Facts {
	return Facts{
		Host:     r.Host,
		Init:     r.Init,
		Booted:   r.Booted,
		Version:  r.Version,
		HasScope: r.HasScope,
	}
}

// FactsYAML renders only the comparable facts, for drift diffing.
func (r *Report) FactsYAML() (string, error) {
	out, err := yaml.Marshal(r.Facts())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Render executes a Go template against the report, with the sprig function
// map available. missingkey=zero keeps optional fields usable with sprig's
// 'default'.
func (r *Report) Render(content string) (string, error) {
	tmpl, err := template.New("report").Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(content)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}
