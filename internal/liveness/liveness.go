// Package liveness checks whether the SvxLink process is still running.
package liveness

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Probe checks a PID file against /proc.
type Probe struct {
	PIDFile  string
	Binary   string
	ProcRoot string // defaults to /proc
}

// Alive reports whether the PID file names a running process whose
// executable path contains Binary. Any missing piece counts as dead.
func (p Probe) Alive() bool {
	data, err := os.ReadFile(p.PIDFile)
	if err != nil {
		log.Debug().Str("pid_file", p.PIDFile).Msg("no pid file")
		return false
	}
	pid := strings.TrimSpace(string(data))
	if pid == "" || strings.ContainsAny(pid, `/\`) {
		log.Debug().Str("pid_file", p.PIDFile).Msg("pid file is empty or invalid")
		return false
	}

	root := p.ProcRoot
	if root == "" {
		root = "/proc"
	}
	procPath := filepath.Join(root, pid)
	if _, err := os.Stat(procPath); err != nil {
		log.Debug().Str("path", procPath).Msg("process not found")
		return false
	}
	// The link target is read, not resolved: after an upgrade replaces the
	// binary the kernel reports "/usr/bin/svxlink (deleted)", which no longer
	// exists but still names a running process.
	exe, err := os.Readlink(filepath.Join(procPath, "exe"))
	if err != nil {
		log.Debug().Err(err).Str("path", procPath).Msg("exe link not readable")
		return false
	}
	if !strings.Contains(exe, p.Binary) {
		log.Debug().Str("pid", pid).Str("exe", exe).Msg("pid does not belong to the expected binary")
		return false
	}
	return true
}
