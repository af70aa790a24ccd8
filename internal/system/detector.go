// Package system fills a SystemContext with facts about the target host.
// Everything goes through the transport's filesystem so detection works the
// same locally and over SSH.
package system

import (
	"bufio"
	"strings"

	"github.com/melih-ucgun/hostcap/internal/core"
)

// Detect builds a SystemContext for the target behind the transport.
func Detect(tr core.Transport) *core.SystemContext {
	sc := core.NewSystemContext(tr)
	hostFS := tr.FS()

	sc.OS = "linux"
	info := readOSRelease(hostFS)
	if id := info["ID"]; id != "" {
		sc.Distro = id
	}
	sc.Version = info["VERSION_ID"]
	sc.InitSystem = detectInitSystem(hostFS)

	if data, err := hostFS.ReadFile("/proc/sys/kernel/hostname"); err == nil {
		sc.Hostname = strings.TrimSpace(string(data))
	}

	return sc
}

func detectInitSystem(hostFS core.FileSystem) string {
	// PID 1 comm is the most reliable signal.
	if comm, err := hostFS.ReadFile("/proc/1/comm"); err == nil {
		if strings.TrimSpace(string(comm)) == "systemd" {
			return "systemd"
		}
	}

	if _, err := hostFS.Stat("/run/systemd/system"); err == nil {
		return "systemd"
	}
	if _, err := hostFS.Stat("/run/openrc"); err == nil {
		return "openrc"
	}
	if _, err := hostFS.Stat("/etc/init.d"); err == nil {
		return "sysvinit"
	}
	return "unknown"
}

func readOSRelease(hostFS core.FileSystem) map[string]string {
	info := make(map[string]string)
	data, err := hostFS.ReadFile("/etc/os-release")
	if err != nil {
		return info
	}

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := scanner.Text()
		if parts := strings.SplitN(line, "=", 2); len(parts) == 2 {
			info[parts[0]] = strings.Trim(parts[1], "\"")
		}
	}
	return info
}
