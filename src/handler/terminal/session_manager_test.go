package terminal

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
)

type fakeProcess struct {
	mu        sync.Mutex
	pid       int
	writes    []string
	sizes     [][2]uint16
	killed    bool
	resizeErr error

	onData func([]byte)
	onExit func()
}

func (p *fakeProcess) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writes = append(p.writes, string(b))
	return len(b), nil
}

func (p *fakeProcess) Resize(cols, rows uint16) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resizeErr != nil {
		return p.resizeErr
	}
	p.sizes = append(p.sizes, [2]uint16{cols, rows})
	return nil
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killed = true
	return nil
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

func (p *fakeProcess) Writes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.writes...)
}

type fakeSpawner struct {
	mu        sync.Mutex
	err       error
	processes []*fakeProcess
	opts      []SpawnOptions
}

func (s *fakeSpawner) Spawn(opts SpawnOptions, onData func([]byte), onExit func()) (Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = append(s.opts, opts)
	if s.err != nil {
		return nil, s.err
	}
	p := &fakeProcess{pid: 1000 + len(s.processes), onData: onData, onExit: onExit}
	s.processes = append(s.processes, p)
	return p, nil
}

func (s *fakeSpawner) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.processes)
}

type recordingSink struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (r *recordingSink) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *recordingSink) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestManager(t *testing.T, opts ...Option) (*SessionManager, *fakeSpawner, *fakeClock) {
	t.Helper()
	spawner := &fakeSpawner{}
	clock := &fakeClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
	all := append([]Option{WithSpawner(spawner), WithClock(clock.Now), WithSpawnErrorDelay(0)}, opts...)
	return NewSessionManager(filesystem.NewFilesystem(), all...), spawner, clock
}

func TestCreateSession_Idempotent(t *testing.T) {
	sm, spawner, clock := newTestManager(t)
	first := &recordingSink{}
	second := &recordingSink{}

	s1, created := sm.CreateSession("abc", ShellPowerShell, first)
	require.True(t, created)
	clock.Advance(time.Minute)
	s2, created := sm.CreateSession("abc", ShellCmd, second)
	require.False(t, created)

	assert.Same(t, s1, s2)
	assert.Equal(t, ShellPowerShell, s2.Shell)
	assert.Equal(t, 1, spawner.count())
	assert.Equal(t, clock.Now(), s2.LastActivity())

	// output now goes to the sink bound last
	spawner.processes[0].onData([]byte("hello"))
	assert.Empty(t, first.String())
	assert.Equal(t, "hello", second.String())
}

func TestCreateSession_Defaults(t *testing.T) {
	sm, spawner, _ := newTestManager(t, WithGeometry(120, 40))

	s, _ := sm.CreateSession("", ShellCmd, &recordingSink{})
	_, err := uuid.Parse(s.ID)
	assert.NoError(t, err)

	info := s.Info()
	assert.Equal(t, filesystem.HomeDirectory, info.CurrentDirectory)
	assert.Equal(t, uint16(120), info.Cols)
	assert.Equal(t, uint16(40), info.Rows)
	assert.True(t, info.Alive)
	assert.Equal(t, 1000, info.Pid)
	assert.Equal(t, ComputerName, info.Env["COMPUTERNAME"])
	assert.Equal(t, "$P$G", info.Env["PROMPT"])

	require.Len(t, spawner.opts, 1)
	assert.Equal(t, ShellCmd, spawner.opts[0].Shell)
	assert.Equal(t, uint16(120), spawner.opts[0].Cols)
}

func TestCreateSession_SpawnFailure(t *testing.T) {
	sm, spawner, _ := newTestManager(t)
	spawner.err = errors.New("no pty")
	sink := &recordingSink{}

	s, created := sm.CreateSession("broken", ShellPowerShell, sink)
	require.True(t, created)
	assert.False(t, s.HasProcess())
	assert.NotEmpty(t, s.Env(), "environment is attached even without a process")

	_, ok := sm.Get("broken")
	assert.True(t, ok)
	assert.Eventually(t, func() bool {
		return strings.Contains(sink.String(), "no pty")
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, sm.HandleInput("broken", "dir\r"))
	assert.Contains(t, sink.String(), ErrProcessUnavailable.Error())
}

func TestHandleInput_UnknownSession(t *testing.T) {
	sm, _, _ := newTestManager(t)
	err := sm.HandleInput("missing", "x")
	assert.True(t, errors.Is(err, ErrSessionUnknown))
}

func TestHandleInput_HistoryBookkeeping(t *testing.T) {
	sm, spawner, _ := newTestManager(t)
	sm.CreateSession("s", ShellPowerShell, &recordingSink{})

	chunks := []string{"d", "i", "r", "x", "\x7f", "\r", "  ", "\r\n", "c", "d", "\b", "l", "s", "\n", "ls -la\r"}
	for _, c := range chunks {
		require.NoError(t, sm.HandleInput("s", c))
	}

	history, err := sm.History("s")
	require.NoError(t, err)
	assert.Equal(t, []string{"dir", "cls"}, history)
	assert.Equal(t, chunks, spawner.processes[0].Writes(), "input is forwarded verbatim")
}

func TestGetHistoryItem(t *testing.T) {
	sm, _, _ := newTestManager(t)
	sm.CreateSession("s", ShellCmd, &recordingSink{})

	_, ok := sm.GetHistoryItem("s", 0)
	assert.False(t, ok, "empty history")

	for _, line := range []string{"first", "second", "third"} {
		require.NoError(t, sm.AppendHistory("s", line))
	}

	testCases := []struct {
		index    int
		expected string
		ok       bool
	}{
		{0, "third", true},
		{1, "second", true},
		{2, "first", true},
		{3, "", false},
		{-1, "", false},
	}
	for _, tc := range testCases {
		got, ok := sm.GetHistoryItem("s", tc.index)
		assert.Equal(t, tc.ok, ok, "index %d", tc.index)
		assert.Equal(t, tc.expected, got, "index %d", tc.index)
	}

	_, ok = sm.GetHistoryItem("nobody", 0)
	assert.False(t, ok)
}

func TestNavigateHistory(t *testing.T) {
	sm, _, _ := newTestManager(t)
	sm.CreateSession("s", ShellCmd, &recordingSink{})

	index, _, found, err := sm.NavigateHistory("s", HistoryUp, -1)
	require.NoError(t, err)
	assert.False(t, found, "empty history")
	assert.Equal(t, -1, index)

	for _, line := range []string{"first", "second", "third"} {
		require.NoError(t, sm.AppendHistory("s", line))
	}

	testCases := []struct {
		name      string
		direction HistoryDirection
		current   int
		index     int
		item      string
		found     bool
	}{
		{"up from prompt", HistoryUp, -1, 0, "third", true},
		{"up again", HistoryUp, 0, 1, "second", true},
		{"up stays on oldest", HistoryUp, 2, 2, "first", true},
		{"down to newer", HistoryDown, 2, 1, "second", true},
		{"down past latest returns to prompt", HistoryDown, 0, -1, "", false},
		{"down at prompt", HistoryDown, -1, -1, "", false},
		{"stale index is clamped", HistoryUp, 10, 2, "first", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			index, item, found, err := sm.NavigateHistory("s", tc.direction, tc.current)
			require.NoError(t, err)
			assert.Equal(t, tc.index, index)
			assert.Equal(t, tc.item, item)
			assert.Equal(t, tc.found, found)
		})
	}

	_, _, _, err = sm.NavigateHistory("s", "sideways", 0)
	assert.Error(t, err)

	_, _, _, err = sm.NavigateHistory("nobody", HistoryUp, -1)
	assert.ErrorIs(t, err, ErrSessionUnknown)
}

func TestResizeTerminal(t *testing.T) {
	sm, spawner, clock := newTestManager(t)
	s, _ := sm.CreateSession("s", ShellPowerShell, &recordingSink{})
	proc := spawner.processes[0]

	sm.ResizeTerminal("s", 100, 30)
	cols, rows := s.Size()
	assert.Equal(t, uint16(100), cols)
	assert.Equal(t, uint16(30), rows)
	assert.Equal(t, [][2]uint16{{100, 30}}, proc.sizes)

	proc.resizeErr = errors.New("closed")
	clock.Advance(time.Minute)
	assert.NotPanics(t, func() { sm.ResizeTerminal("s", 10, 10) })
	cols, _ = s.Size()
	assert.Equal(t, uint16(100), cols)
	assert.Equal(t, clock.Now(), s.LastActivity())

	assert.NotPanics(t, func() { sm.ResizeTerminal("unknown", 10, 10) })
}

func TestDestroySession(t *testing.T) {
	sm, spawner, _ := newTestManager(t)
	var destroyed []string
	sm.OnDestroy(func(id string) { destroyed = append(destroyed, id) })

	sm.CreateSession("s", ShellPowerShell, &recordingSink{})
	sm.DestroySession("s")
	sm.DestroySession("s")

	assert.True(t, spawner.processes[0].Killed())
	assert.Equal(t, []string{"s"}, destroyed)
	_, ok := sm.Get("s")
	assert.False(t, ok)
	assert.Empty(t, sm.Complete("s", ""))
}

func TestProcessExitDestroysSession(t *testing.T) {
	sm, spawner, _ := newTestManager(t)
	var destroyed []string
	sm.OnDestroy(func(id string) { destroyed = append(destroyed, id) })

	sm.CreateSession("s", ShellPowerShell, &recordingSink{})
	spawner.processes[0].onExit()

	_, ok := sm.Get("s")
	assert.False(t, ok)
	assert.Equal(t, []string{"s"}, destroyed)
}

func TestProcessExit_StaleProcessKeepsNewSession(t *testing.T) {
	sm, spawner, _ := newTestManager(t)

	sm.CreateSession("s", ShellPowerShell, &recordingSink{})
	sm.DestroySession("s")
	replacement, _ := sm.CreateSession("s", ShellPowerShell, &recordingSink{})

	spawner.processes[0].onExit()

	got, ok := sm.Get("s")
	require.True(t, ok)
	assert.Same(t, replacement, got)
}

func TestDestroyAllSessions(t *testing.T) {
	sm, spawner, _ := newTestManager(t)
	for _, id := range []string{"a", "b", "c"} {
		sm.CreateSession(id, ShellCmd, &recordingSink{})
	}

	sm.DestroyAllSessions()

	assert.Empty(t, sm.List())
	for _, p := range spawner.processes {
		assert.True(t, p.Killed())
	}
}

func TestCleanupIdleSessions(t *testing.T) {
	sm, _, clock := newTestManager(t)

	sm.CreateSession("old", ShellPowerShell, &recordingSink{})
	clock.Advance(50 * time.Minute)
	sm.CreateSession("recent", ShellPowerShell, &recordingSink{})
	clock.Advance(20 * time.Minute)

	removed := sm.CleanupIdleSessions(time.Hour)
	assert.Equal(t, 1, removed)

	_, ok := sm.Get("old")
	assert.False(t, ok)
	_, ok = sm.Get("recent")
	assert.True(t, ok)

	require.NoError(t, sm.HandleInput("recent", "x"))
	clock.Advance(59 * time.Minute)
	assert.Equal(t, 0, sm.CleanupIdleSessions(time.Hour))
}

func TestOutputGoesToScrollback(t *testing.T) {
	sm, spawner, _ := newTestManager(t)
	sink := &recordingSink{}
	s, _ := sm.CreateSession("s", ShellPowerShell, sink)

	assert.Nil(t, s.Scrollback())
	spawner.processes[0].onData([]byte("PS C:\\> "))

	assert.Equal(t, "PS C:\\> ", sink.String())
	assert.Equal(t, ansiReset+"PS C:\\> ", string(s.Scrollback()))
}

func TestScrollbackIsBounded(t *testing.T) {
	s := &Session{}
	line := strings.Repeat("x", 1023) + "\n"
	for i := 0; i < 150; i++ {
		s.appendBuffer([]byte(line))
	}
	buf := s.Scrollback()
	assert.LessOrEqual(t, len(buf), maxBufferSize+len(ansiReset))
	assert.True(t, strings.HasPrefix(string(buf[len(ansiReset):]), "x"))
}

func TestCompleteUsesCurrentDirectory(t *testing.T) {
	sm, _, _ := newTestManager(t)
	sm.CreateSession("s", ShellPowerShell, &recordingSink{})

	assert.Equal(t, []string{`Desktop\`, `Documents\`, `Downloads\`}, sm.Complete("s", "D"))

	require.NoError(t, sm.SetCurrentDirectory("s", `C:\Users\User\Desktop`))
	assert.Equal(t, []string{"Welcome.txt"}, sm.Complete("s", "w"))

	err := sm.SetCurrentDirectory("ghost", `C:\`)
	assert.True(t, errors.Is(err, ErrSessionUnknown))
}

func TestProcesses(t *testing.T) {
	sm, spawner, _ := newTestManager(t)
	sm.CreateSession("live", ShellPowerShell, &recordingSink{})
	spawner.err = errors.New("boom")
	sm.CreateSession("dead", ShellCmd, &recordingSink{})

	procs := sm.Processes()
	require.Len(t, procs, 1)
	assert.Equal(t, "live", procs[0].SessionID)
	assert.Equal(t, 1000, procs[0].Pid)
}
