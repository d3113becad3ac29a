package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/lib"
	"github.com/manojxshrestha/win11web-sub000/src/metrics"
)

const (
	// watchQueueSize bounds the events buffered for one watch connection.
	watchQueueSize = 256
	// watchWriteTimeout bounds a single write to a watch connection.
	watchWriteTimeout = 10 * time.Second
)

// FileSystemHandler handles filesystem operations
type FileSystemHandler struct {
	*BaseHandler
	fs *filesystem.Filesystem
}

// FileEvent represents a file event
type FileEvent struct {
	Op    string  `json:"op"`
	Name  string  `json:"name"`
	Path  string  `json:"path"`
	Error *string `json:"error"`
} // @name FileEvent

// FileRequest represents the request body for creating or updating a file
type FileRequest struct {
	Path    string `json:"path" binding:"required" example:"C:\\Users\\User\\Documents\\notes.txt"`
	Content string `json:"content" example:"file contents here"`
} // @name FileRequest

// DirectoryRequest is the body of a directory creation.
type DirectoryRequest struct {
	Path string `json:"path" binding:"required" example:"C:\\Users\\User\\Projects"`
} // @name DirectoryRequest

// RenameRequest is the body of a rename.
type RenameRequest struct {
	Path    string `json:"path" binding:"required" example:"C:\\Users\\User\\old.txt"`
	NewName string `json:"newName" binding:"required" example:"new.txt"`
} // @name RenameRequest

// TransferRequest is the body of a move or copy.
type TransferRequest struct {
	Source      string `json:"source" binding:"required" example:"C:\\Users\\User\\Desktop\\Welcome.txt"`
	Destination string `json:"destination" binding:"required" example:"C:\\Users\\User\\Documents\\Welcome.txt"`
} // @name TransferRequest

// CompletionRequest asks for path completions.
type CompletionRequest struct {
	Input            string `json:"input" example:"Doc"`
	CurrentDirectory string `json:"currentDirectory" example:"C:\\Users\\User"`
} // @name CompletionRequest

// TreeRequest writes several files under one root.
type TreeRequest struct {
	Path  string            `json:"path" binding:"required" example:"C:\\Users\\User\\Projects\\site"`
	Files map[string]string `json:"files"`
} // @name TreeRequest

// DirectoryListing is the direct children of a directory.
type DirectoryListing struct {
	Path  string                 `json:"path"`
	Items []*filesystem.FileNode `json:"items"`
} // @name DirectoryListing

// NewFileSystemHandler creates a new filesystem handler
func NewFileSystemHandler(fs *filesystem.Filesystem) *FileSystemHandler {
	return &FileSystemHandler{
		BaseHandler: NewBaseHandler(),
		fs:          fs,
	}
}

// queryPath reads the path query parameter, defaulting to the home directory.
func (h *FileSystemHandler) queryPath(c *gin.Context) string {
	return lib.Normalize(h.GetQueryParam(c, "path", filesystem.HomeDirectory))
}

// HandleListDirectory lists the direct children of a directory
// @Summary List a directory
// @Description List the direct children of a directory, directories first
// @Tags filesystem
// @Produce json
// @Param path query string false "Directory path" default(C:\Users\User)
// @Success 200 {object} DirectoryListing "Directory listing"
// @Failure 404 {object} ErrorResponse "Directory not found"
// @Failure 422 {object} ErrorResponse "Path is a file"
// @Router /filesystem/list [get]
func (h *FileSystemHandler) HandleListDirectory(c *gin.Context) {
	path := h.queryPath(c)
	node, ok := h.fs.GetFile(path)
	if !ok {
		h.SendDomainError(c, &filesystem.Error{Op: filesystem.OpList, Path: path, Err: filesystem.ErrNotFound})
		return
	}
	if !node.IsDir() {
		h.SendError(c, http.StatusUnprocessableEntity, fmt.Errorf("path is not a directory"))
		return
	}
	h.SendJSON(c, http.StatusOK, DirectoryListing{Path: path, Items: h.fs.ListDirectory(path)})
}

// HandleGetInfo returns a single node
// @Summary Get a file or directory
// @Description Get a node, including file content
// @Tags filesystem
// @Produce json
// @Param path query string true "Path"
// @Success 200 {object} filesystem.FileNode "Node"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /filesystem/info [get]
func (h *FileSystemHandler) HandleGetInfo(c *gin.Context) {
	path := h.queryPath(c)
	node, ok := h.fs.GetFile(path)
	if !ok {
		h.SendError(c, http.StatusNotFound, fmt.Errorf("file or directory not found"))
		return
	}
	h.SendJSON(c, http.StatusOK, node)
}

// HandleGetTree returns a nested view of a directory
// @Summary Get a directory tree
// @Tags filesystem
// @Produce json
// @Param path query string false "Root directory"
// @Param depth query int false "Levels to include, 0 for all"
// @Success 200 {object} filesystem.Directory "Tree"
// @Failure 400 {object} ErrorResponse "Invalid depth"
// @Failure 404 {object} ErrorResponse "Directory not found"
// @Router /filesystem/tree [get]
func (h *FileSystemHandler) HandleGetTree(c *gin.Context) {
	depth, err := strconv.Atoi(h.GetQueryParam(c, "depth", "0"))
	if err != nil {
		h.SendError(c, http.StatusBadRequest, fmt.Errorf("invalid depth: %w", err))
		return
	}
	dir, err := h.fs.Tree(h.queryPath(c), depth)
	if err != nil {
		h.SendDomainError(c, err)
		return
	}
	h.SendJSON(c, http.StatusOK, dir)
}

// HandleCreateOrUpdateTree writes a set of files relative to a root directory
// @Summary Create or update a directory tree
// @Description Creates the root and any intermediate directories, then writes every file
// @Tags filesystem
// @Accept json
// @Produce json
// @Param request body TreeRequest true "Root and files keyed by relative path"
// @Success 200 {object} filesystem.Directory "Resulting tree"
// @Failure 400 {object} ErrorResponse "A file path escapes the root"
// @Failure 409 {object} ErrorResponse "Root or an intermediate path is a file"
// @Router /filesystem/tree [put]
func (h *FileSystemHandler) HandleCreateOrUpdateTree(c *gin.Context) {
	var req TreeRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.SendError(c, http.StatusBadRequest, err)
		return
	}
	root := lib.Normalize(req.Path)
	if err := h.fs.CreateOrUpdateTree(root, req.Files); err != nil {
		if StatusFor(err) == http.StatusInternalServerError {
			h.SendError(c, http.StatusBadRequest, err)
			return
		}
		h.SendDomainError(c, err)
		return
	}
	dir, err := h.fs.Tree(root, 0)
	if err != nil {
		h.SendDomainError(c, err)
		return
	}
	h.SendJSON(c, http.StatusOK, dir)
}

// HandleSearch fuzzy-searches node names
// @Summary Search files by name
// @Tags filesystem
// @Produce json
// @Param q query string true "Query"
// @Param path query string false "Root directory"
// @Param limit query int false "Maximum number of results"
// @Success 200 {array} filesystem.SearchResult "Matches, best first"
// @Router /filesystem/search [get]
func (h *FileSystemHandler) HandleSearch(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	root := lib.Normalize(h.GetQueryParam(c, "path", `C:\`))
	h.SendJSON(c, http.StatusOK, h.fs.Search(c.Query("q"), root, limit))
}

// HandleCreateFile creates a file that must not exist yet
// @Summary Create a file
// @Tags filesystem
// @Accept json
// @Produce json
// @Param request body FileRequest true "File"
// @Success 201 {object} filesystem.FileNode "Created file"
// @Failure 409 {object} ErrorResponse "Path already exists"
// @Router /filesystem/file [post]
func (h *FileSystemHandler) HandleCreateFile(c *gin.Context) {
	var req FileRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.SendError(c, http.StatusBadRequest, err)
		return
	}
	path := lib.Normalize(req.Path)
	if h.fs.FileExists(path) {
		h.SendDomainError(c, &filesystem.Error{Op: filesystem.OpWrite, Path: path, Err: filesystem.ErrAlreadyExists})
		return
	}
	node, err := h.fs.WriteFile(path, req.Content)
	if err != nil {
		h.SendDomainError(c, err)
		return
	}
	h.SendJSON(c, http.StatusCreated, node)
}

// HandleWriteFile replaces the content of a file, creating it if needed
// @Summary Write a file
// @Tags filesystem
// @Accept json
// @Produce json
// @Param request body FileRequest true "File"
// @Success 200 {object} filesystem.FileNode "Written file"
// @Failure 422 {object} ErrorResponse "Path is a directory"
// @Router /filesystem/file [put]
func (h *FileSystemHandler) HandleWriteFile(c *gin.Context) {
	var req FileRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.SendError(c, http.StatusBadRequest, err)
		return
	}
	node, err := h.fs.WriteFile(req.Path, req.Content)
	if err != nil {
		h.SendDomainError(c, err)
		return
	}
	h.SendJSON(c, http.StatusOK, node)
}

// HandleCreateDirectory creates a directory and any missing parents
// @Summary Create a directory
// @Tags filesystem
// @Accept json
// @Produce json
// @Param request body DirectoryRequest true "Directory"
// @Success 201 {object} filesystem.FileNode "Created directory"
// @Failure 409 {object} ErrorResponse "Path already exists"
// @Router /filesystem/directory [post]
func (h *FileSystemHandler) HandleCreateDirectory(c *gin.Context) {
	var req DirectoryRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.SendError(c, http.StatusBadRequest, err)
		return
	}
	path := lib.Normalize(req.Path)
	if h.fs.FileExists(path) {
		h.SendDomainError(c, &filesystem.Error{Op: filesystem.OpWrite, Path: path, Err: filesystem.ErrAlreadyExists})
		return
	}
	h.SendJSON(c, http.StatusCreated, h.fs.MkdirAll(path))
}

// HandleDelete permanently deletes a file or directory
// @Summary Delete a file or directory
// @Description Deletes without going through the recycle bin
// @Tags filesystem
// @Produce json
// @Param path query string true "Path"
// @Param recursive query boolean false "Delete directory contents"
// @Success 200 {object} SuccessResponse "Deleted"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Directory not empty"
// @Router /filesystem [delete]
func (h *FileSystemHandler) HandleDelete(c *gin.Context) {
	path := lib.Normalize(c.Query("path"))
	if h.fs.IsDirectory(path) {
		if _, err := h.fs.DeleteDirectory(path, h.GetBoolQuery(c, "recursive")); err != nil {
			h.SendDomainError(c, err)
			return
		}
		h.SendSuccess(c, path, "Directory deleted successfully")
		return
	}
	if h.fs.DeleteFile(path) {
		h.SendSuccess(c, path, "File deleted successfully")
		return
	}
	h.SendError(c, http.StatusNotFound, fmt.Errorf("file or directory not found"))
}

// HandleRename renames a node in place
// @Summary Rename a file or directory
// @Tags filesystem
// @Accept json
// @Produce json
// @Param request body RenameRequest true "Rename"
// @Success 200 {object} filesystem.FileNode "Renamed node"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Target exists"
// @Router /filesystem/rename [post]
func (h *FileSystemHandler) HandleRename(c *gin.Context) {
	var req RenameRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.SendError(c, http.StatusBadRequest, err)
		return
	}
	node, err := h.fs.Rename(req.Path, req.NewName)
	if err != nil {
		h.SendDomainError(c, err)
		return
	}
	h.SendJSON(c, http.StatusOK, node)
}

// HandleMove moves a node and its subtree
// @Summary Move a file or directory
// @Tags filesystem
// @Accept json
// @Produce json
// @Param request body TransferRequest true "Move"
// @Success 200 {object} SuccessResponse "Moved"
// @Failure 404 {object} ErrorResponse "Source not found"
// @Failure 409 {object} ErrorResponse "Move into itself"
// @Router /filesystem/move [post]
func (h *FileSystemHandler) HandleMove(c *gin.Context) {
	h.transfer(c, h.fs.MoveFile, "moved")
}

// HandleCopy copies a node and its subtree
// @Summary Copy a file or directory
// @Tags filesystem
// @Accept json
// @Produce json
// @Param request body TransferRequest true "Copy"
// @Success 200 {object} SuccessResponse "Copied"
// @Failure 404 {object} ErrorResponse "Source not found"
// @Router /filesystem/copy [post]
func (h *FileSystemHandler) HandleCopy(c *gin.Context) {
	h.transfer(c, h.fs.CopyFile, "copied")
}

func (h *FileSystemHandler) transfer(c *gin.Context, op func(src, dst string) (bool, error), verb string) {
	var req TransferRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.SendError(c, http.StatusBadRequest, err)
		return
	}
	ok, err := op(req.Source, req.Destination)
	if err != nil {
		h.SendDomainError(c, err)
		return
	}
	if !ok {
		h.SendError(c, http.StatusNotFound, fmt.Errorf("source not found: %s", lib.Normalize(req.Source)))
		return
	}
	h.SendSuccess(c, lib.Normalize(req.Destination), fmt.Sprintf("Successfully %s %s", verb, lib.Normalize(req.Source)))
}

// HandleComplete returns tab completions for a partial path
// @Summary Complete a path
// @Tags filesystem
// @Accept json
// @Produce json
// @Param request body CompletionRequest true "Partial input"
// @Success 200 {array} string "Completions"
// @Router /filesystem/complete [post]
func (h *FileSystemHandler) HandleComplete(c *gin.Context) {
	var req CompletionRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.SendError(c, http.StatusBadRequest, err)
		return
	}
	cwd := req.CurrentDirectory
	if cwd == "" {
		cwd = filesystem.HomeDirectory
	}
	h.SendJSON(c, http.StatusOK, h.fs.CompletePath(req.Input, cwd))
}

func fileEvent(event fsnotify.Event) FileEvent {
	return FileEvent{
		Op:   event.Op.String(),
		Name: lib.Name(event.Name),
		Path: lib.Parent(event.Name),
	}
}

// HandleWatchDirectoryWebSocket streams file modification events for a directory over WebSocket
// @Summary Stream file modification events in a directory via WebSocket
// @Description Streams JSON events of modified files in the given directory. Closes when the client disconnects.
// @Tags filesystem
// @Produce json
// @Param path query string false "Directory path to watch"
// @Param recursive query boolean false "Include events from subdirectories"
// @Param ignore query string false "Comma separated substrings of paths to skip"
// @Success 101 {string} string "WebSocket connection established"
// @Failure 400 {object} ErrorResponse "Not a directory"
// @Router /ws/watch/filesystem [get]
func (h *FileSystemHandler) HandleWatchDirectoryWebSocket(c *gin.Context) {
	path := h.queryPath(c)
	recursive := h.GetBoolQuery(c, "recursive")

	var ignorePatterns []string
	if ignoreParam := c.Query("ignore"); ignoreParam != "" {
		ignorePatterns = strings.Split(ignoreParam, ",")
	}
	shouldIgnore := func(eventPath string) bool {
		for _, pattern := range ignorePatterns {
			if pattern != "" && strings.Contains(eventPath, pattern) {
				return true
			}
		}
		return false
	}

	if !h.fs.IsDirectory(path) {
		h.SendError(c, http.StatusBadRequest, fmt.Errorf("path is not a directory"))
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Errorf("Failed to upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()
	metrics.WebSocketOpened("watch")
	defer metrics.WebSocketClosed("watch")

	// Watch callbacks only enqueue; the loop below does the writes. A client
	// that lets the queue fill is disconnected.
	events := make(chan FileEvent, watchQueueSize)
	done := make(chan struct{})
	overflowed := make(chan struct{})
	var once, overflowOnce sync.Once
	finish := func() { once.Do(func() { close(done) }) }

	stop := h.fs.Watch(path, recursive, func(event fsnotify.Event) {
		if shouldIgnore(event.Name) {
			return
		}
		select {
		case events <- fileEvent(event):
		default:
			overflowOnce.Do(func() { close(overflowed) })
		}
	})
	defer stop() // Ensures watcher is removed when handler exits

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				finish()
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-overflowed:
			logrus.Warnf("Closing filesystem watch on %s: client is not keeping up", path)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too many pending events"),
				time.Now().Add(watchWriteTimeout))
			return
		case event := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
			if err := conn.WriteJSON(event); err != nil {
				logrus.Debugf("Filesystem watch write failed: %v", err)
				return
			}
		}
	}
}

// TrackFilesystemMetrics keeps the filesystem and recycle bin gauges current
// by watching the whole drive. Bursts of changes are folded into a single
// refresh. The returned function stops tracking.
func TrackFilesystemMetrics(fs *filesystem.Filesystem, bin *filesystem.RecycleBin) (stop func()) {
	update := func() {
		s := fs.Stats()
		metrics.SetFilesystemStats(s.Files, s.Directories, s.Bytes)
		metrics.SetRecycleBinItems(bin.Len())
	}
	update()

	dirty := make(chan struct{}, 1)
	quit := make(chan struct{})
	go func() {
		for {
			select {
			case <-quit:
				return
			case <-dirty:
				update()
			}
		}
	}()

	unwatch := fs.Watch(`C:\`, true, func(fsnotify.Event) {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})
	var once sync.Once
	return func() {
		once.Do(func() {
			unwatch()
			close(quit)
		})
	}
}
