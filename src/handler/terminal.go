package handler

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/manojxshrestha/win11web-sub000/src/handler/command"
	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/handler/terminal"
	"github.com/manojxshrestha/win11web-sub000/src/metrics"
)

// Message types of the terminal WebSocket protocol.
const (
	MsgCreateSession     = "create-session"
	MsgInput             = "input"
	MsgResize            = "resize"
	MsgDestroySession    = "destroy-session"
	MsgGetHistory        = "get-history"
	MsgNavigateHistory   = "navigate-history"
	MsgRequestCompletion = "request-completion"
	MsgExecute           = "execute"

	MsgSessionCreated   = "session-created"
	MsgOutput           = "output"
	MsgHistory          = "history"
	MsgHistoryItem      = "history-item"
	MsgCompletion       = "completion"
	MsgCommandResult    = "command-result"
	MsgSessionDestroyed = "session-destroyed"
	MsgError            = "error"
)

// TerminalHandler handles terminal WebSocket connections
type TerminalHandler struct {
	*BaseHandler
	sessions *terminal.SessionManager
	commands *command.Router
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[string]*terminalConn // session id -> connection bound to it
}

// TerminalMessage represents a message to/from the terminal
type TerminalMessage struct {
	Type        string          `json:"type"`
	SessionID   string          `json:"sessionId,omitempty"`
	Shell       string          `json:"shell,omitempty"`
	Data        string          `json:"data,omitempty"`
	Cols        uint16          `json:"cols,omitempty"`
	Rows        uint16          `json:"rows,omitempty"`
	Direction   string          `json:"direction,omitempty"`
	Index       *int            `json:"index,omitempty"`
	Found       bool            `json:"found,omitempty"`
	Reattached  bool            `json:"reattached,omitempty"`
	Cwd         string          `json:"cwd,omitempty"`
	Prompt      string          `json:"prompt,omitempty"`
	History     []string        `json:"history,omitempty"`
	Completions []string        `json:"completions,omitempty"`
	Result      *command.Result `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
} // @name TerminalMessage

// ExecuteRequest runs one line through the simulated command path.
type ExecuteRequest struct {
	Command          string `json:"command" example:"dir"`
	SessionID        string `json:"sessionId,omitempty" example:"3f2a9c1e-6a55-4a43-9a57-0c8f1e0b6b31"`
	Shell            string `json:"shell,omitempty" example:"powershell"`
	CurrentDirectory string `json:"currentDirectory,omitempty" example:"C:\\Users\\User"`
} // @name ExecuteRequest

// ExecuteResponse is a command result plus the directory it leaves behind.
type ExecuteResponse struct {
	command.Result
	CurrentDirectory string `json:"currentDirectory"`
	Prompt           string `json:"prompt"`
} // @name ExecuteResponse

// terminalConn serializes writes to one WebSocket.
type terminalConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (tc *terminalConn) send(msg TerminalMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	_ = tc.conn.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
	return tc.conn.WriteMessage(websocket.TextMessage, data)
}

// NewTerminalHandler creates a new terminal handler
func NewTerminalHandler(sessions *terminal.SessionManager, commands *command.Router) *TerminalHandler {
	h := &TerminalHandler{
		BaseHandler: NewBaseHandler(),
		sessions:    sessions,
		commands:    commands,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		conns: make(map[string]*terminalConn),
	}
	sessions.OnDestroy(h.sessionDestroyed)
	return h
}

func (h *TerminalHandler) sessionDestroyed(id string) {
	h.mu.Lock()
	tc := h.conns[id]
	delete(h.conns, id)
	h.mu.Unlock()

	if tc != nil {
		_ = tc.send(TerminalMessage{Type: MsgSessionDestroyed, SessionID: id})
	}
}

func (h *TerminalHandler) bind(id string, tc *terminalConn) {
	h.mu.Lock()
	h.conns[id] = tc
	h.mu.Unlock()
}

// unbindAll forgets every session bound to tc. The sessions stay alive so
// that a new connection can reattach.
func (h *TerminalHandler) unbindAll(tc *terminalConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.conns {
		if c == tc {
			delete(h.conns, id)
		}
	}
}

func (h *TerminalHandler) HandleTerminalPage(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, terminal.GetTerminalHTML())
}

// HandleListSessions lists terminal sessions
// @Summary List terminal sessions
// @Tags terminal
// @Produce json
// @Success 200 {array} terminal.SessionInfo "Sessions, oldest first"
// @Router /terminal/sessions [get]
func (h *TerminalHandler) HandleListSessions(c *gin.Context) {
	h.SendJSON(c, http.StatusOK, h.sessions.List())
}

// HandleExecute runs a command line against the virtual filesystem
// @Summary Execute a simulated shell command
// @Description Runs one command line. With a sessionId the session's shell, directory and history are used and updated.
// @Tags terminal
// @Accept json
// @Produce json
// @Param request body ExecuteRequest true "Command"
// @Success 200 {object} ExecuteResponse "Result"
// @Failure 404 {object} ErrorResponse "Unknown session"
// @Router /terminal/execute [post]
func (h *TerminalHandler) HandleExecute(c *gin.Context) {
	var req ExecuteRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.SendError(c, http.StatusBadRequest, err)
		return
	}
	res, err := h.Execute(req)
	if err != nil {
		h.SendDomainError(c, err)
		return
	}
	h.SendJSON(c, http.StatusOK, res)
}

// Execute runs req through the command router. A session id makes the
// command run in that session's context, and the session's directory and
// history are updated afterwards.
func (h *TerminalHandler) Execute(req ExecuteRequest) (ExecuteResponse, error) {
	ctx := command.Context{
		SessionID:        req.SessionID,
		Shell:            terminal.ParseShellKind(req.Shell),
		CurrentDirectory: req.CurrentDirectory,
	}
	if req.SessionID != "" {
		s, ok := h.sessions.Get(req.SessionID)
		if !ok {
			return ExecuteResponse{}, fmt.Errorf("%w: %s", terminal.ErrSessionUnknown, req.SessionID)
		}
		info := s.Info()
		ctx.Shell = info.Shell
		ctx.CurrentDirectory = info.CurrentDirectory
		ctx.Env = info.Env
		ctx.History = info.History
	}

	res := h.commands.Execute(ctx, req.Command)

	cwd := ctx.CurrentDirectory
	if res.NewDirectory != "" {
		cwd = res.NewDirectory
	}
	if req.SessionID != "" {
		_ = h.sessions.AppendHistory(req.SessionID, req.Command)
		if res.NewDirectory != "" {
			_ = h.sessions.SetCurrentDirectory(req.SessionID, res.NewDirectory)
		}
	}
	if cwd == "" {
		cwd = filesystem.HomeDirectory
	}
	return ExecuteResponse{
		Result:           res,
		CurrentDirectory: cwd,
		Prompt:           ctx.Shell.Prompt(cwd),
	}, nil
}

// HandleTerminalWS serves the terminal WebSocket protocol
// @Summary Terminal WebSocket
// @Description JSON messages {type, sessionId, ...}. Client types: create-session, input, resize, destroy-session, get-history, navigate-history, request-completion, execute.
// @Tags terminal
// @Success 101 {string} string "WebSocket connection established"
// @Router /terminal/ws [get]
func (h *TerminalHandler) HandleTerminalWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Errorf("Failed to upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()
	metrics.WebSocketOpened("terminal")
	defer metrics.WebSocketClosed("terminal")

	tc := &terminalConn{conn: conn}
	defer h.unbindAll(tc)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.Warnf("Terminal WebSocket closed: %v", err)
			}
			return
		}

		var msg TerminalMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			logrus.Warnf("Invalid terminal message: %v", err)
			_ = tc.send(TerminalMessage{Type: MsgError, Error: "invalid message: " + err.Error()})
			continue
		}
		if err := h.dispatch(tc, msg); err != nil {
			_ = tc.send(TerminalMessage{Type: MsgError, SessionID: msg.SessionID, Error: err.Error()})
		}
	}
}

func (h *TerminalHandler) dispatch(tc *terminalConn, msg TerminalMessage) error {
	switch msg.Type {
	case MsgCreateSession:
		return h.createSession(tc, msg)

	case MsgInput:
		return h.sessions.HandleInput(msg.SessionID, msg.Data)

	case MsgResize:
		h.sessions.ResizeTerminal(msg.SessionID, msg.Cols, msg.Rows)
		return nil

	case MsgDestroySession:
		h.sessions.DestroySession(msg.SessionID)
		return nil

	case MsgGetHistory:
		history, err := h.sessions.History(msg.SessionID)
		if err != nil {
			return err
		}
		return tc.send(TerminalMessage{Type: MsgHistory, SessionID: msg.SessionID, History: history})

	case MsgNavigateHistory:
		current := -1
		if msg.Index != nil {
			current = *msg.Index
		}
		index, item, found, err := h.sessions.NavigateHistory(msg.SessionID, terminal.HistoryDirection(msg.Direction), current)
		if err != nil {
			return err
		}
		return tc.send(TerminalMessage{Type: MsgHistoryItem, SessionID: msg.SessionID, Index: &index, Data: item, Found: found})

	case MsgRequestCompletion:
		completions := h.sessions.Complete(msg.SessionID, msg.Data)
		return tc.send(TerminalMessage{Type: MsgCompletion, SessionID: msg.SessionID, Data: msg.Data, Completions: completions})

	case MsgExecute:
		res, err := h.Execute(ExecuteRequest{Command: msg.Data, SessionID: msg.SessionID, Shell: msg.Shell})
		if err != nil {
			return err
		}
		return tc.send(TerminalMessage{
			Type:      MsgCommandResult,
			SessionID: msg.SessionID,
			Result:    &res.Result,
			Cwd:       res.CurrentDirectory,
			Prompt:    res.Prompt,
		})

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

func (h *TerminalHandler) createSession(tc *terminalConn, msg TerminalMessage) error {
	shell := terminal.ParseShellKind(msg.Shell)

	id := msg.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	sink := terminal.SinkFunc(func(p []byte) {
		if err := tc.send(TerminalMessage{Type: MsgOutput, SessionID: id, Data: string(p)}); err != nil {
			logrus.Debugf("Dropped output for session %s: %v", id, err)
		}
	})
	h.bind(id, tc)
	s, created := h.sessions.CreateSession(id, shell, sink)

	info := s.Info()
	if msg.Cols > 0 && msg.Rows > 0 {
		h.sessions.ResizeTerminal(id, msg.Cols, msg.Rows)
	}
	if err := tc.send(TerminalMessage{
		Type:       MsgSessionCreated,
		SessionID:  id,
		Shell:      string(info.Shell),
		Cwd:        info.CurrentDirectory,
		Prompt:     info.Shell.Prompt(info.CurrentDirectory),
		Reattached: !created,
	}); err != nil {
		return err
	}
	if !created {
		if scrollback := s.Scrollback(); scrollback != nil {
			return tc.send(TerminalMessage{Type: MsgOutput, SessionID: id, Data: string(scrollback)})
		}
	}
	return nil
}
