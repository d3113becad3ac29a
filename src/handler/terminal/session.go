package terminal

import (
	"maps"
	"strings"
	"sync"
	"time"
)

const (
	// maxBufferSize is the maximum number of bytes of scrollback kept per
	// session. It is replayed when a client reattaches.
	maxBufferSize = 100 * 1024 // 100KB

	// ansiReset resets all terminal text attributes. Prepended to buffer replays
	// to avoid inheriting stale formatting from truncated escape sequences.
	ansiReset = "\x1b[0m"
)

// Session is one logical terminal. The process is nil when the shell could
// not be started or has been killed.
type Session struct {
	ID        string
	Shell     ShellKind
	CreatedAt time.Time

	mu               sync.Mutex
	process          Process
	currentDirectory string
	lastActivity     time.Time
	history          []string
	pending          []byte
	env              map[string]string
	cols, rows       uint16
	buffer           []byte
}

// SessionInfo is a point-in-time view of a Session.
type SessionInfo struct {
	ID               string            `json:"id"`
	Shell            ShellKind         `json:"shell"`
	CurrentDirectory string            `json:"currentDirectory"`
	CreatedAt        time.Time         `json:"createdAt"`
	LastActivity     time.Time         `json:"lastActivity"`
	History          []string          `json:"history"`
	Env              map[string]string `json:"env"`
	Cols             uint16            `json:"cols"`
	Rows             uint16            `json:"rows"`
	Pid              int               `json:"pid,omitempty"`
	Alive            bool              `json:"alive"`
} // @name TerminalSession

func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := SessionInfo{
		ID:               s.ID,
		Shell:            s.Shell,
		CurrentDirectory: s.currentDirectory,
		CreatedAt:        s.CreatedAt,
		LastActivity:     s.lastActivity,
		History:          append([]string{}, s.history...),
		Env:              maps.Clone(s.env),
		Cols:             s.cols,
		Rows:             s.rows,
		Alive:            s.process != nil,
	}
	if s.process != nil {
		info.Pid = s.process.Pid()
	}
	return info
}

// CurrentDirectory is the virtual directory relative commands resolve against.
func (s *Session) CurrentDirectory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentDirectory
}

func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Env returns a copy of the session's fixed environment.
func (s *Session) Env() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.env)
}

// History returns the submitted command lines, oldest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.history...)
}

// HasProcess reports whether a live shell is attached.
func (s *Session) HasProcess() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.process != nil
}

func (s *Session) Size() (cols, rows uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols, s.rows
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActivity = now
	s.mu.Unlock()
}

func (s *Session) getProcess() Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.process
}

// detach clears and returns the process handle.
func (s *Session) detach() Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.process
	s.process = nil
	return p
}

// recordInput keeps a local copy of the line being typed so that completed
// lines land in the history. It does not affect what the shell receives.
func (s *Session) recordInput(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case input == "\r" || input == "\n" || input == "\r\n":
		if line := strings.TrimSpace(string(s.pending)); line != "" {
			s.history = append(s.history, line)
		}
		s.pending = s.pending[:0]
	case input == "\x7f" || input == "\b":
		if len(s.pending) > 0 {
			s.pending = s.pending[:len(s.pending)-1]
		}
	case len(input) == 1 && input[0] >= 32 && input[0] <= 126:
		s.pending = append(s.pending, input[0])
	}
}

func (s *Session) appendHistory(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	s.mu.Lock()
	s.history = append(s.history, line)
	s.mu.Unlock()
}

// historyItem treats the history as a stack: index 0 is the latest line.
func (s *Session) historyItem(index int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.history) {
		return "", false
	}
	return s.history[len(s.history)-1-index], true
}

// appendBuffer adds output to the scrollback ring buffer.
func (s *Session) appendBuffer(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffer = append(s.buffer, data...)
	if len(s.buffer) > maxBufferSize {
		excess := len(s.buffer) - maxBufferSize
		// Find the nearest newline after the truncation point so we start
		// at a line boundary. This avoids cutting inside ANSI escape
		// sequences, which would corrupt terminal state on replay.
		cutPoint := excess
		limit := excess + 256
		if limit > len(s.buffer) {
			limit = len(s.buffer)
		}
		for i := excess; i < limit; i++ {
			if s.buffer[i] == '\n' {
				cutPoint = i + 1
				break
			}
		}
		s.buffer = s.buffer[cutPoint:]
	}
}

// Scrollback returns a copy of the buffered output, prepended with an ANSI
// reset, or nil when nothing was printed yet.
func (s *Session) Scrollback() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buffer) == 0 {
		return nil
	}
	reset := []byte(ansiReset)
	result := make([]byte, len(reset)+len(s.buffer))
	copy(result, reset)
	copy(result[len(reset):], s.buffer)
	return result
}
