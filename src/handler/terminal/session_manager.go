package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/lib"
	"github.com/manojxshrestha/win11web-sub000/src/metrics"
)

const (
	// spawnErrorDelay gives the client time to bind its output handler before
	// a spawn failure is reported.
	spawnErrorDelay = 100 * time.Millisecond
)

var (
	// ErrSessionUnknown is returned for operations on an id with no session.
	ErrSessionUnknown = errors.New("terminal session not found")

	// ErrProcessUnavailable is reported when a session has no live shell.
	ErrProcessUnavailable = errors.New("no shell process is attached to this session")
)

// SinkFunc adapts a function to the io.Writer a session's output goes to.
type SinkFunc func(p []byte)

func (f SinkFunc) Write(p []byte) (int, error) {
	f(p)
	return len(p), nil
}

// ProcessInfo describes the shell process of one session.
type ProcessInfo struct {
	SessionID string    `json:"sessionId"`
	Shell     ShellKind `json:"shell"`
	Pid       int       `json:"pid"`
	StartedAt time.Time `json:"startedAt"`
	Cols      uint16    `json:"cols"`
	Rows      uint16    `json:"rows"`
} // @name ProcessInfo

// SessionManager owns every terminal session. Output of each session goes to
// the sink most recently bound with CreateSession.
type SessionManager struct {
	fs      *filesystem.Filesystem
	spawner Spawner
	now     func() time.Time

	cols, rows uint16
	errorDelay time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
	sinks    map[string]io.Writer

	listenersMu sync.RWMutex
	listeners   []func(id string)
}

// Option configures a SessionManager.
type Option func(*SessionManager)

// WithSpawner replaces the PTY spawner.
func WithSpawner(s Spawner) Option {
	return func(sm *SessionManager) { sm.spawner = s }
}

// WithClock replaces time.Now for activity tracking.
func WithClock(now func() time.Time) Option {
	return func(sm *SessionManager) { sm.now = now }
}

// WithGeometry sets the size new shells start with.
func WithGeometry(cols, rows uint16) Option {
	return func(sm *SessionManager) {
		if cols > 0 && rows > 0 {
			sm.cols, sm.rows = cols, rows
		}
	}
}

// WithSpawnErrorDelay sets how long a spawn failure waits before being
// written to the sink.
func WithSpawnErrorDelay(d time.Duration) Option {
	return func(sm *SessionManager) { sm.errorDelay = d }
}

// NewSessionManager creates a manager whose sessions complete paths against fs.
func NewSessionManager(fs *filesystem.Filesystem, opts ...Option) *SessionManager {
	sm := &SessionManager{
		fs:         fs,
		spawner:    PTYSpawner{},
		now:        time.Now,
		cols:       lib.DefaultTerminalCols,
		rows:       lib.DefaultTerminalRows,
		errorDelay: spawnErrorDelay,
		sessions:   make(map[string]*Session),
		sinks:      make(map[string]io.Writer),
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

// OnDestroy registers fn to be called with the id of every destroyed session.
func (sm *SessionManager) OnDestroy(fn func(id string)) {
	sm.listenersMu.Lock()
	sm.listeners = append(sm.listeners, fn)
	sm.listenersMu.Unlock()
}

// CreateSession binds sink as the output of id and returns its session,
// starting one if needed. An empty id gets a generated one. Calling it again
// for a live id only rebinds the sink and bumps the activity time; created
// reports whether a new session was made.
//
// A shell that fails to start does not fail the call: the session exists
// without a process and the failure is written to the sink shortly after.
func (sm *SessionManager) CreateSession(id string, shell ShellKind, sink io.Writer) (session *Session, created bool) {
	if id == "" {
		id = uuid.NewString()
	}
	now := sm.now()

	sm.mu.Lock()
	sm.sinks[id] = sink
	if s, ok := sm.sessions[id]; ok {
		sm.mu.Unlock()
		s.touch(now)
		logrus.Infof("Reattaching to existing terminal session: %s", id)
		return s, false
	}

	s := &Session{
		ID:               id,
		Shell:            shell,
		CreatedAt:        now,
		currentDirectory: filesystem.HomeDirectory,
		lastActivity:     now,
		env:              syntheticEnv(shell),
		cols:             sm.cols,
		rows:             sm.rows,
	}
	sm.sessions[id] = s
	active := len(sm.sessions)
	sm.mu.Unlock()
	metrics.SetTerminalSessionsActive(active)

	proc, err := sm.spawner.Spawn(SpawnOptions{
		Shell: shell,
		Dir:   startDirectory(),
		Cols:  sm.cols,
		Rows:  sm.rows,
	}, func(data []byte) {
		s.appendBuffer(data)
		sm.emit(id, data)
	}, func() {
		sm.destroyIfCurrent(id, s)
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"session": id, "shell": shell}).Warnf("Failed to start shell: %v", err)
		msg := fmt.Sprintf("\r\n\x1b[31mFailed to start %s: %v\x1b[0m\r\n", shell, err)
		time.AfterFunc(sm.errorDelay, func() { sm.emit(id, []byte(msg)) })
		return s, true
	}

	// The session may have been destroyed while the shell was starting.
	sm.mu.RLock()
	current := sm.sessions[id] == s
	sm.mu.RUnlock()
	if !current {
		_ = proc.Kill()
		return s, true
	}
	s.mu.Lock()
	s.process = proc
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{"session": id, "shell": shell, "pid": proc.Pid()}).Info("Created new terminal session")
	return s, true
}

// Get returns the session with the given id.
func (sm *SessionManager) Get(id string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[id]
	return s, ok
}

// List returns a view of every session, oldest first.
func (sm *SessionManager) List() []SessionInfo {
	sm.mu.RLock()
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.Before(infos[j].CreatedAt)
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// Processes lists the shells of all sessions that have one.
func (sm *SessionManager) Processes() []ProcessInfo {
	var out []ProcessInfo
	for _, info := range sm.List() {
		if !info.Alive {
			continue
		}
		out = append(out, ProcessInfo{
			SessionID: info.ID,
			Shell:     info.Shell,
			Pid:       info.Pid,
			StartedAt: info.CreatedAt,
			Cols:      info.Cols,
			Rows:      info.Rows,
		})
	}
	return out
}

// HandleInput records input for the history and forwards it to the shell.
// Without a shell the failure is written to the sink instead.
func (sm *SessionManager) HandleInput(id, input string) error {
	s, ok := sm.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionUnknown, id)
	}
	s.touch(sm.now())
	s.recordInput(input)

	proc := s.getProcess()
	if proc == nil {
		sm.emit(id, []byte("\r\n\x1b[31mError: "+ErrProcessUnavailable.Error()+"\x1b[0m\r\n"))
		return nil
	}
	if _, err := proc.Write([]byte(input)); err != nil {
		logrus.Warnf("Failed to write to terminal session %s: %v", id, err)
	}
	return nil
}

// ResizeTerminal resizes the shell of id. Failures are logged only.
func (sm *SessionManager) ResizeTerminal(id string, cols, rows uint16) {
	s, ok := sm.Get(id)
	if !ok {
		return
	}
	s.touch(sm.now())

	proc := s.getProcess()
	if proc == nil || cols == 0 || rows == 0 {
		return
	}
	if err := proc.Resize(cols, rows); err != nil {
		logrus.Warnf("Failed to resize terminal session %s: %v", id, err)
		return
	}
	s.mu.Lock()
	s.cols, s.rows = cols, rows
	s.mu.Unlock()
}

// DestroySession kills the shell of id and forgets the session.
func (sm *SessionManager) DestroySession(id string) {
	sm.mu.Lock()
	s, ok := sm.sessions[id]
	if ok {
		delete(sm.sessions, id)
		delete(sm.sinks, id)
	}
	sm.mu.Unlock()

	if ok {
		sm.teardown(s)
	}
}

// destroyIfCurrent destroys id only while it still refers to s. A shell
// exiting after its session was replaced must not take the new one down.
func (sm *SessionManager) destroyIfCurrent(id string, s *Session) {
	sm.mu.Lock()
	current, ok := sm.sessions[id]
	if !ok || current != s {
		sm.mu.Unlock()
		return
	}
	delete(sm.sessions, id)
	delete(sm.sinks, id)
	sm.mu.Unlock()

	logrus.Infof("Shell process exited for session %s, closing session", id)
	sm.teardown(s)
}

func (sm *SessionManager) teardown(s *Session) {
	if proc := s.detach(); proc != nil {
		if err := proc.Kill(); err != nil {
			logrus.Debugf("Killing shell of session %s: %v", s.ID, err)
		}
	}
	logrus.Infof("Removed terminal session: %s", s.ID)

	sm.mu.RLock()
	active := len(sm.sessions)
	sm.mu.RUnlock()
	metrics.SetTerminalSessionsActive(active)
	metrics.RecordTerminalSessionDestroyed()

	sm.listenersMu.RLock()
	listeners := append([]func(string){}, sm.listeners...)
	sm.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(s.ID)
	}
}

// DestroyAllSessions destroys every session.
func (sm *SessionManager) DestroyAllSessions() {
	sm.mu.RLock()
	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	sm.mu.RUnlock()

	for _, id := range ids {
		sm.DestroySession(id)
	}
}

// GetHistoryItem returns the command index lines back from the latest one.
func (sm *SessionManager) GetHistoryItem(id string, index int) (string, bool) {
	s, ok := sm.Get(id)
	if !ok {
		return "", false
	}
	return s.historyItem(index)
}

// HistoryDirection is the way an up or down arrow walks the history.
type HistoryDirection string

const (
	HistoryUp   HistoryDirection = "up"
	HistoryDown HistoryDirection = "down"
)

// NavigateHistory moves from current, the stack index the client shows (-1
// for the live prompt), one step in direction. Up walks to older lines and
// stays on the oldest; down walks to newer lines and returns to the prompt
// (-1, not found) past the latest. It fails for an unknown session or
// direction.
func (sm *SessionManager) NavigateHistory(id string, direction HistoryDirection, current int) (int, string, bool, error) {
	s, ok := sm.Get(id)
	if !ok {
		return -1, "", false, fmt.Errorf("%w: %s", ErrSessionUnknown, id)
	}

	n := len(s.History())
	if current < -1 {
		current = -1
	}
	if current >= n {
		current = n - 1
	}

	next := current
	switch direction {
	case HistoryUp:
		if current+1 < n {
			next = current + 1
		}
	case HistoryDown:
		next = current - 1
		if next < -1 {
			next = -1
		}
	default:
		return current, "", false, fmt.Errorf("unknown history direction %q", direction)
	}

	if next < 0 {
		return -1, "", false, nil
	}
	item, found := s.historyItem(next)
	return next, item, found, nil
}

// History returns the command history of id, oldest first.
func (sm *SessionManager) History(id string) ([]string, error) {
	s, ok := sm.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionUnknown, id)
	}
	return s.History(), nil
}

// AppendHistory records a command line run through the simulated command path.
func (sm *SessionManager) AppendHistory(id, line string) error {
	s, ok := sm.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionUnknown, id)
	}
	s.touch(sm.now())
	s.appendHistory(line)
	return nil
}

// SetCurrentDirectory changes the virtual directory of id.
func (sm *SessionManager) SetCurrentDirectory(id, dir string) error {
	s, ok := sm.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionUnknown, id)
	}
	s.mu.Lock()
	s.currentDirectory = lib.Normalize(dir)
	s.mu.Unlock()
	return nil
}

// Complete returns path completions for input relative to the session's
// current directory.
func (sm *SessionManager) Complete(id, input string) []string {
	s, ok := sm.Get(id)
	if !ok {
		return []string{}
	}
	return sm.fs.CompletePath(input, s.CurrentDirectory())
}

// CleanupIdleSessions destroys every session idle for longer than timeout and
// returns how many were destroyed.
func (sm *SessionManager) CleanupIdleSessions(timeout time.Duration) int {
	now := sm.now()

	sm.mu.RLock()
	var idle []string
	for id, s := range sm.sessions {
		if now.Sub(s.LastActivity()) > timeout {
			idle = append(idle, id)
		}
	}
	sm.mu.RUnlock()

	for _, id := range idle {
		sm.DestroySession(id)
		logrus.Infof("Cleaned up idle terminal session: %s (idle > %v)", id, timeout)
	}
	return len(idle)
}

// StartCleanup runs CleanupIdleSessions every interval until ctx is done.
func (sm *SessionManager) StartCleanup(ctx context.Context, interval, timeout time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sm.CleanupIdleSessions(timeout)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (sm *SessionManager) emit(id string, data []byte) {
	sm.mu.RLock()
	sink := sm.sinks[id]
	sm.mu.RUnlock()

	if sink == nil {
		return
	}
	if _, err := sink.Write(data); err != nil {
		logrus.Debugf("Dropping output of terminal session %s: %v", id, err)
	}
}
