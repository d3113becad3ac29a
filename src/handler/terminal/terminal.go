package terminal

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/creack/pty"
	"github.com/sirupsen/logrus"
)

// Process is a running interactive shell attached to a session.
type Process interface {
	Write(p []byte) (int, error)
	Resize(cols, rows uint16) error
	Kill() error
	Pid() int
}

// SpawnOptions describes the shell to start.
type SpawnOptions struct {
	Shell ShellKind
	Dir   string
	Env   map[string]string
	Cols  uint16
	Rows  uint16
}

// Spawner starts shell processes. onData receives every chunk of output and
// onExit is called once when the process is gone, whether it exited on its own
// or was killed.
type Spawner interface {
	Spawn(opts SpawnOptions, onData func([]byte), onExit func()) (Process, error)
}

// PTYSpawner starts shells on a pseudo-terminal.
type PTYSpawner struct{}

// ptyProcess is a shell running on a PTY
type ptyProcess struct {
	ptmx       *os.File
	processPid int // Store only PID to avoid FD leak (not *exec.Cmd)
	mu         sync.Mutex
	closed     bool
	exited     chan struct{}
}

// Spawn starts the shell for opts.Shell on a PTY of the requested size.
func (PTYSpawner) Spawn(opts SpawnOptions, onData func([]byte), onExit func()) (Process, error) {
	name, args := shellCommand(opts.Shell)
	cmd := exec.Command(name, args...)

	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	cmd.Env = buildEnv(os.Environ(), opts.Env)

	// NOTE: Do NOT set SysProcAttr here!
	// pty.Start() already makes the shell a session leader with Setsid.
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: opts.Cols,
		Rows: opts.Rows,
	})
	if err != nil {
		return nil, err
	}

	p := &ptyProcess{
		ptmx:       ptmx,
		processPid: cmd.Process.Pid,
		exited:     make(chan struct{}),
	}

	go func() {
		_ = cmd.Wait()
		// Release process resources immediately after Wait() to close pidfd
		if cmd.Process != nil {
			_ = cmd.Process.Release()
		}
		close(p.exited)
	}()

	var exitOnce sync.Once
	exit := func() {
		exitOnce.Do(func() {
			_ = p.Kill()
			if onExit != nil {
				onExit()
			}
		})
	}
	go p.readLoop(onData, exit)
	go p.watchShellExit(exit)

	return p, nil
}

// readLoop forwards PTY output until the PTY is closed.
func (p *ptyProcess) readLoop(onData func([]byte), exit func()) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("readLoop panic for pid %d: %v", p.processPid, r)
		}
		exit()
	}()

	buf := make([]byte, 4096)
	for {
		n, err := p.ptmx.Read(buf)
		if n > 0 && onData != nil {
			data := make([]byte, n)
			copy(data, buf[:n])
			onData(data)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				logrus.Debugf("PTY read for pid %d ended: %v", p.processPid, err)
			}
			return
		}
	}
}

// watchShellExit closes the PTY when the shell exits, even if background
// children still hold the slave side open and keep readLoop alive.
func (p *ptyProcess) watchShellExit(exit func()) {
	<-p.exited
	logrus.Debugf("Shell process %d exited", p.processPid)
	exit()
}

func (p *ptyProcess) Write(b []byte) (int, error) {
	return p.ptmx.Write(b)
}

func (p *ptyProcess) Resize(cols, rows uint16) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return io.ErrClosedPipe
	}

	return pty.Setsize(p.ptmx, &pty.Winsize{
		Cols: cols,
		Rows: rows,
	})
}

// Kill closes the PTY and kills the shell with everything it started.
func (p *ptyProcess) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	// Close PTY first to signal EOF to readers
	err := p.ptmx.Close()
	if p.processPid > 0 {
		killProcessGroup(p.processPid)
	}
	return err
}

func (p *ptyProcess) Pid() int {
	return p.processPid
}

// buildEnv merges overrides into the host environment and forces a
// terminal type the browser terminal understands.
func buildEnv(systemEnv []string, overrides map[string]string) []string {
	forced := map[string]string{
		"TERM":      "xterm-256color",
		"COLORTERM": "truecolor",
	}
	for k, v := range overrides {
		forced[k] = v
	}

	finalEnv := make([]string, 0, len(systemEnv)+len(forced))
	for _, envVar := range systemEnv {
		key, _, ok := strings.Cut(envVar, "=")
		if !ok || key == "" {
			continue
		}
		if _, overridden := forced[key]; overridden {
			continue
		}
		finalEnv = append(finalEnv, envVar)
	}
	for k, v := range forced {
		finalEnv = append(finalEnv, k+"="+v)
	}
	return finalEnv
}
