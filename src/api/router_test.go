package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manojxshrestha/win11web-sub000/src/handler"
	"github.com/manojxshrestha/win11web-sub000/src/handler/command"
	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/handler/terminal"
)

type testServer struct {
	router   *gin.Engine
	fs       *filesystem.Filesystem
	bin      *filesystem.RecycleBin
	sessions *terminal.SessionManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard

	fs := filesystem.NewFilesystem()
	bin := filesystem.NewRecycleBin(fs)
	sessions := terminal.NewSessionManager(fs)
	t.Cleanup(sessions.DestroyAllSessions)

	router := SetupRouter(Dependencies{
		FileSystem:            fs,
		RecycleBin:            bin,
		Shares:                filesystem.NewShareRegistry(),
		Sessions:              sessions,
		Terminal:              handler.NewTerminalHandler(sessions, command.NewRouter(fs, bin, sessions)),
		DisableRequestLogging: true,
	})
	return &testServer{router: router, fs: fs, bin: bin, sessions: sessions}
}

func (s *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func query(path string) string {
	return url.Values{"path": {path}}.Encode()
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[handler.HealthResponse](t, w)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 0, health.Sessions)
	assert.Equal(t, 0, health.RecycleBinSize)
	assert.Equal(t, 2, health.Drive.Files)

	w = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestProcessingTimeHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fs := filesystem.NewFilesystem()
	bin := filesystem.NewRecycleBin(fs)
	router := SetupRouter(Dependencies{
		FileSystem:            fs,
		RecycleBin:            bin,
		Shares:                filesystem.NewShareRegistry(),
		Sessions:              terminal.NewSessionManager(fs),
		DisableRequestLogging: true,
		EnableProcessingTime:  true,
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/filesystem/list", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Regexp(t, `^total;dur=\d+\.\d{2};desc=`, w.Header().Get("Server-Timing"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodOptions, "/filesystem/list", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestFilesystemRoutes(t *testing.T) {
	s := newTestServer(t)

	t.Run("list home by default", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/filesystem/list", nil)
		require.Equal(t, http.StatusOK, w.Code)
		listing := decode[handler.DirectoryListing](t, w)
		assert.Equal(t, filesystem.HomeDirectory, listing.Path)
		names := make([]string, 0, len(listing.Items))
		for _, item := range listing.Items {
			names = append(names, item.Name)
		}
		assert.Equal(t, []string{"Desktop", "Documents", "Downloads", "Music", "Pictures", "Videos"}, names)
	})

	t.Run("list missing directory", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/filesystem/list?"+query(`C:\Nope`), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list a file", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/filesystem/list?"+query(`C:\Users\User\Desktop\Welcome.txt`), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("create then conflict", func(t *testing.T) {
		body := handler.FileRequest{Path: `C:\Users\User\notes.txt`, Content: "hello"}
		w := s.do(t, http.MethodPost, "/filesystem/file", body)
		require.Equal(t, http.StatusCreated, w.Code)
		node := decode[filesystem.FileNode](t, w)
		assert.Equal(t, int64(5), node.Size)

		w = s.do(t, http.MethodPost, "/filesystem/file", body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("write replaces content", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/filesystem/file", handler.FileRequest{Path: `C:\Users\User\notes.txt`, Content: "bye"})
		require.Equal(t, http.StatusOK, w.Code)
		node, ok := s.fs.GetFile(`C:\Users\User\notes.txt`)
		require.True(t, ok)
		assert.Equal(t, "bye", node.Text())
	})

	t.Run("write onto a directory", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/filesystem/file", handler.FileRequest{Path: `C:\Users\User\Documents`})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("info", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/filesystem/info?"+query(`C:/Users/User/notes.txt`), nil)
		require.Equal(t, http.StatusOK, w.Code)
		node := decode[filesystem.FileNode](t, w)
		assert.Equal(t, `C:\Users\User\notes.txt`, node.Path)
		require.NotNil(t, node.Content)
		assert.Equal(t, "bye", *node.Content)
	})

	t.Run("info is case sensitive", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/filesystem/info?"+query(`c:/users/user/notes.txt`), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("create directory", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/filesystem/directory", handler.DirectoryRequest{Path: `C:\Users\User\Projects\Go`})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, s.fs.IsDirectory(`C:\Users\User\Projects`))

		w = s.do(t, http.MethodPost, "/filesystem/directory", handler.DirectoryRequest{Path: `C:\Users\User\Projects`})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("rename", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/filesystem/rename", handler.RenameRequest{Path: `C:\Users\User\notes.txt`, NewName: "todo.txt"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, s.fs.FileExists(`C:\Users\User\todo.txt`))
		assert.False(t, s.fs.FileExists(`C:\Users\User\notes.txt`))
	})

	t.Run("copy and move", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/filesystem/copy", handler.TransferRequest{Source: `C:\Users\User\todo.txt`, Destination: `C:\Users\User\Projects\todo.txt`})
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, s.fs.FileExists(`C:\Users\User\todo.txt`))

		w = s.do(t, http.MethodPost, "/filesystem/move", handler.TransferRequest{Source: `C:\Users\User\todo.txt`, Destination: `C:\Users\User\Documents\todo.txt`})
		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, s.fs.FileExists(`C:\Users\User\todo.txt`))
		assert.True(t, s.fs.FileExists(`C:\Users\User\Documents\todo.txt`))
	})

	t.Run("search", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/filesystem/search?q=welcome", nil)
		require.Equal(t, http.StatusOK, w.Code)
		results := decode[[]filesystem.SearchResult](t, w)
		require.NotEmpty(t, results)
		assert.Equal(t, "Welcome.txt", results[0].Node.Name)
	})

	t.Run("tree", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/filesystem/tree?"+query(`C:\Users\User\Projects`), nil)
		require.Equal(t, http.StatusOK, w.Code)
		dir := decode[filesystem.Directory](t, w)
		assert.Equal(t, `C:\Users\User\Projects`, dir.Path)
		require.Len(t, dir.Subdirectories, 1)
		assert.Equal(t, "Go", dir.Subdirectories[0].Name)
	})

	t.Run("write tree", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/filesystem/tree", handler.TreeRequest{
			Path:  `C:\Users\User\site`,
			Files: map[string]string{"index.html": "<h1>hi</h1>", `css\main.css`: "body{}"},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		dir := decode[filesystem.Directory](t, w)
		require.Len(t, dir.Files, 1)
		assert.Equal(t, "index.html", dir.Files[0].Name)
		require.Len(t, dir.Subdirectories, 1)
		assert.Equal(t, "css", dir.Subdirectories[0].Name)

		w = s.do(t, http.MethodPut, "/filesystem/tree", handler.TreeRequest{
			Path:  `C:\Users\User\site`,
			Files: map[string]string{`..\escape.txt`: "x"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("complete", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/filesystem/complete", handler.CompletionRequest{Input: "Doc", CurrentDirectory: filesystem.HomeDirectory})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `["Documents\\"]`, w.Body.String())
	})

	t.Run("delete non-empty directory needs recursive", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/filesystem?"+query(`C:\Users\User\Projects`), nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = s.do(t, http.MethodDelete, "/filesystem?"+query(`C:\Users\User\Projects`)+"&recursive=true", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, s.fs.FileExists(`C:\Users\User\Projects\Go`))
		assert.Equal(t, 0, s.bin.Len())
	})

	t.Run("delete missing", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/filesystem?"+query(`C:\missing.txt`), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRecycleBinRoutes(t *testing.T) {
	s := newTestServer(t)
	welcome := `C:\Users\User\Desktop\Welcome.txt`

	w := s.do(t, http.MethodPost, "/recycle-bin/recycle", handler.RecycleRequest{Path: welcome})
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]*filesystem.RecycleBinEntry](t, w)
	require.Len(t, entries, 1)
	id := entries[0].ID
	assert.False(t, s.fs.FileExists(welcome))

	w = s.do(t, http.MethodGet, "/recycle-bin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]*filesystem.RecycleBinEntry](t, w), 1)

	w = s.do(t, http.MethodGet, "/recycle-bin/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, welcome, decode[filesystem.RecycleBinEntry](t, w).OriginalPath)

	w = s.do(t, http.MethodGet, "/recycle-bin/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/recycle-bin/"+id+"/restore", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, s.fs.FileExists(welcome))
	assert.Equal(t, 0, s.bin.Len())

	w = s.do(t, http.MethodPost, "/recycle-bin/"+id+"/restore", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/recycle-bin/recycle", handler.RecycleRequest{Path: `C:\Users\User\Documents`})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/recycle-bin/recycle", handler.RecycleRequest{Path: `C:\Users\User\Documents`, Recursive: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, s.bin.Len())

	w = s.do(t, http.MethodDelete, "/recycle-bin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[handler.EmptyResponse](t, w).Removed)
	assert.Equal(t, 0, s.bin.Len())
}

func TestShareRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/shares", handler.ShareRequest{Name: "Public", Path: `C:\Users\Public`})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/shares", nil)
	require.Equal(t, http.StatusOK, w.Code)
	shares := decode[[]filesystem.Share](t, w)
	require.Len(t, shares, 1)
	assert.Equal(t, "Public", shares[0].Name)

	w = s.do(t, http.MethodDelete, "/shares/Public", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/shares/Public", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTerminalExecuteRoute(t *testing.T) {
	s := newTestServer(t)

	testCases := []struct {
		name    string
		req     handler.ExecuteRequest
		status  int
		output  string
		cwd     string
		prompt  string
		hasFail bool
	}{
		{
			name:   "echo in powershell",
			req:    handler.ExecuteRequest{Command: "echo hello"},
			status: http.StatusOK,
			output: "hello",
			cwd:    filesystem.HomeDirectory,
			prompt: `PS C:\Users\User> `,
		},
		{
			name:   "cd applies the new directory",
			req:    handler.ExecuteRequest{Command: "cd Documents", Shell: "cmd"},
			status: http.StatusOK,
			cwd:    `C:\Users\User\Documents`,
			prompt: `C:\Users\User\Documents>`,
		},
		{
			name:    "unknown command",
			req:     handler.ExecuteRequest{Command: "frobnicate", Shell: "cmd"},
			status:  http.StatusOK,
			cwd:     filesystem.HomeDirectory,
			prompt:  `C:\Users\User>`,
			hasFail: true,
		},
		{
			name:   "unknown session",
			req:    handler.ExecuteRequest{Command: "dir", SessionID: "missing"},
			status: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/terminal/execute", tc.req)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.status != http.StatusOK {
				return
			}
			res := decode[handler.ExecuteResponse](t, w)
			if tc.output != "" {
				assert.Equal(t, tc.output, res.Output)
			}
			assert.Equal(t, tc.cwd, res.CurrentDirectory)
			assert.Equal(t, tc.prompt, res.Prompt)
			assert.Equal(t, tc.hasFail, res.ExitCode != 0)
		})
	}
}

func TestTerminalSessionsRoute(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/terminal/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(t, http.MethodGet, "/terminal", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestRedactSecrets(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no query string",
			input:    "/filesystem/list",
			expected: "/filesystem/list",
		},
		{
			name:     "no sensitive params",
			input:    "/filesystem/search?q=test&limit=10",
			expected: "/filesystem/search?q=test&limit=10",
		},
		{
			name:     "api_key param",
			input:    "/filesystem/list?api_key=secret123&path=test",
			expected: "/filesystem/list?api_key=%5BREDACTED%5D&path=test",
		},
		{
			name:     "api-key param",
			input:    "/filesystem/list?api-key=secret123",
			expected: "/filesystem/list?api-key=%5BREDACTED%5D",
		},
		{
			name:     "token param",
			input:    "/terminal/ws?token=abc123xyz",
			expected: "/terminal/ws?token=%5BREDACTED%5D",
		},
		{
			name:     "access_token param",
			input:    "/terminal/ws?access_token=eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9",
			expected: "/terminal/ws?access_token=%5BREDACTED%5D",
		},
		{
			name:     "password param",
			input:    "/mcp?password=supersecret",
			expected: "/mcp?password=%5BREDACTED%5D",
		},
		{
			name:     "multiple sensitive params",
			input:    "/filesystem/list?api_key=key123&token=token456&name=test",
			expected: "/filesystem/list?api_key=%5BREDACTED%5D&name=test&token=%5BREDACTED%5D",
		},
		{
			name:     "case insensitive Token",
			input:    "/terminal/ws?Token=abc123",
			expected: "/terminal/ws?Token=%5BREDACTED%5D",
		},
		{
			name:     "session_id param",
			input:    "/terminal/ws?session_id=sess_abc123",
			expected: "/terminal/ws?session_id=%5BREDACTED%5D",
		},
		{
			name:     "empty query string",
			input:    "/filesystem/list?",
			expected: "/filesystem/list?",
		},
		{
			name:     "empty value for sensitive param still redacted",
			input:    "/filesystem/list?key=&path=test",
			expected: "/filesystem/list?key=%5BREDACTED%5D&path=test",
		},
		{
			name:     "url encoded value",
			input:    "/filesystem/list?path=C%3A%5CUsers&secret=a%20b",
			expected: "/filesystem/list?path=C%3A%5CUsers&secret=%5BREDACTED%5D",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, redactSecrets(tc.input))
		})
	}
}

func TestRedactQueryPatterns(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "token pattern",
			input:    "/terminal/ws?token=abc123",
			expected: "/terminal/ws?token=[REDACTED]",
		},
		{
			name:     "multiple patterns",
			input:    "/mcp?api_key=key1&password=pass1&name=test",
			expected: "/mcp?api_key=[REDACTED]&password=[REDACTED]&name=test",
		},
		{
			name:     "suffix of another name is left alone",
			input:    "/mcp?monkey=banana",
			expected: "/mcp?monkey=banana",
		},
		{
			name:     "no sensitive params",
			input:    "/filesystem/list?path=C:&depth=2",
			expected: "/filesystem/list?path=C:&depth=2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, redactQueryPatterns(tc.input))
		})
	}
}

func TestWatchWebSocket(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	dial := func(t *testing.T) *websocket.Conn {
		t.Helper()
		target := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/watch/filesystem?" +
			url.Values{"path": {`C:\`}, "recursive": {"true"}}.Encode()
		conn, _, err := websocket.DefaultDialer.Dial(target, nil)
		require.NoError(t, err)
		return conn
	}

	t.Run("streams events", func(t *testing.T) {
		conn := dial(t)
		defer conn.Close()

		// The watch is registered just after the upgrade completes, so keep
		// touching the file until the first event arrives.
		stopTouching := make(chan struct{})
		defer close(stopTouching)
		go func() {
			ticker := time.NewTicker(20 * time.Millisecond)
			defer ticker.Stop()
			for {
				s.fs.CreateFile(`C:\Users\User\watched.txt`, "")
				select {
				case <-stopTouching:
					return
				case <-ticker.C:
				}
			}
		}()

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var event handler.FileEvent
		require.NoError(t, conn.ReadJSON(&event))
		assert.Equal(t, "watched.txt", event.Name)
		assert.Equal(t, `C:\Users\User`, event.Path)
	})

	t.Run("stalled client does not block writers", func(t *testing.T) {
		conn := dial(t)
		defer conn.Close()

		content := strings.Repeat("x", 1024)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 20000; i++ {
				_, _ = s.fs.WriteFile(fmt.Sprintf(`C:\Users\User\burst%d.txt`, i%64), content)
			}
		}()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			t.Fatal("filesystem writes blocked behind a watch client that stopped reading")
		}

		created := make(chan struct{})
		go func() {
			s.fs.CreateFile(`C:\after-burst.txt`, "")
			close(created)
		}()
		select {
		case <-created:
		case <-time.After(3 * time.Second):
			t.Fatal("CreateFile blocked behind a watch client that stopped reading")
		}
	})
}

func TestTrackFilesystemMetrics(t *testing.T) {
	s := newTestServer(t)
	stop := handler.TrackFilesystemMetrics(s.fs, s.bin)
	defer stop()

	w := s.do(t, http.MethodPost, "/recycle-bin/recycle", handler.RecycleRequest{Path: `C:\Users\User\Documents`, Recursive: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	scrape := func() string {
		return s.do(t, http.MethodGet, "/metrics", nil).Body.String()
	}
	stats := s.fs.Stats()
	assert.Eventually(t, func() bool {
		body := scrape()
		return strings.Contains(body, fmt.Sprintf("win11web_recycle_bin_items %d\n", s.bin.Len())) &&
			strings.Contains(body, fmt.Sprintf("win11web_filesystem_nodes{type=\"file\"} %d\n", stats.Files))
	}, 2*time.Second, 20*time.Millisecond)

	stop()
	stop()
}

func TestTerminalWebSocketHistory(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/terminal/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))

	// readType skips shell output until a message of the wanted type arrives.
	readType := func(t *testing.T, want string) handler.TerminalMessage {
		t.Helper()
		for {
			var msg handler.TerminalMessage
			require.NoError(t, conn.ReadJSON(&msg))
			if msg.Type == want {
				return msg
			}
			require.NotEqual(t, handler.MsgError, msg.Type, msg.Error)
		}
	}
	index := func(i int) *int { return &i }

	require.NoError(t, conn.WriteJSON(handler.TerminalMessage{Type: handler.MsgCreateSession, SessionID: "nav", Shell: "cmd"}))
	readType(t, handler.MsgSessionCreated)
	require.NoError(t, s.sessions.AppendHistory("nav", "dir"))
	require.NoError(t, s.sessions.AppendHistory("nav", "cls"))

	steps := []struct {
		direction string
		current   *int
		wantIndex int
		wantData  string
		wantFound bool
	}{
		{"up", nil, 0, "cls", true},
		{"up", index(0), 1, "dir", true},
		{"up", index(1), 1, "dir", true},
		{"down", index(1), 0, "cls", true},
		{"down", index(0), -1, "", false},
	}
	for _, step := range steps {
		require.NoError(t, conn.WriteJSON(handler.TerminalMessage{
			Type:      handler.MsgNavigateHistory,
			SessionID: "nav",
			Direction: step.direction,
			Index:     step.current,
		}))
		msg := readType(t, handler.MsgHistoryItem)
		require.NotNil(t, msg.Index)
		assert.Equal(t, step.wantIndex, *msg.Index)
		assert.Equal(t, step.wantData, msg.Data)
		assert.Equal(t, step.wantFound, msg.Found)
	}

	require.NoError(t, conn.WriteJSON(handler.TerminalMessage{Type: handler.MsgNavigateHistory, SessionID: "nobody", Direction: "up"}))
	var msg handler.TerminalMessage
	for msg.Type != handler.MsgError {
		require.NoError(t, conn.ReadJSON(&msg))
	}
	assert.Contains(t, msg.Error, "nobody")
}
