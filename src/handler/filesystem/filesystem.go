package filesystem

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/manojxshrestha/win11web-sub000/src/lib"
)

// Filesystem is the in-memory hierarchical store. Nodes are keyed by their
// normalized path; ids are assigned from a counter starting at 1.
//
// Every primitive takes the store lock, so a single call is atomic with
// respect to other callers. Recursive operations hold the lock for the whole
// subtree.
type Filesystem struct {
	mu     sync.RWMutex
	nodes  map[string]*FileNode
	nextID int64
	now    func() time.Time

	watchers *watcherSet
}

// Option configures a Filesystem.
type Option func(*Filesystem)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(fs *Filesystem) {
		fs.now = now
	}
}

// NewFilesystem creates a filesystem populated with the default Windows-like
// directory layout.
func NewFilesystem(opts ...Option) *Filesystem {
	fs := &Filesystem{
		nodes:    make(map[string]*FileNode),
		nextID:   1,
		now:      time.Now,
		watchers: newWatcherSet(),
	}
	for _, opt := range opts {
		opt(fs)
	}
	fs.seed()
	return fs
}

// newNode builds a node with a fresh id. Caller holds fs.mu.
func (fs *Filesystem) newNode(path string, typ NodeType, content *string) *FileNode {
	now := fs.now()
	node := &FileNode{
		ID:         fs.nextID,
		Name:       lib.Name(path),
		Path:       path,
		Type:       typ,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	fs.nextID++
	if typ == TypeFile {
		if content == nil {
			content = stringPtr("")
		}
		node.Content = stringPtr(*content)
		node.Size = int64(len(*content))
	}
	if !lib.IsRoot(path) {
		if parent, ok := fs.nodes[lib.Parent(path)]; ok {
			id := parent.ID
			node.ParentID = &id
		}
	}
	return node
}

// CreateFile inserts a file at path, replacing whatever was there.
func (fs *Filesystem) CreateFile(path, content string) *FileNode {
	path = lib.Normalize(path)

	fs.mu.Lock()
	node := fs.newNode(path, TypeFile, &content)
	fs.nodes[path] = node
	out := node.clone()
	fs.mu.Unlock()

	fs.emit(fsnotify.Event{Name: path, Op: fsnotify.Create})
	return out
}

// WriteFile replaces the content of the file at path, creating it when it
// does not exist. Writing to a directory fails with ErrIsDirectory.
func (fs *Filesystem) WriteFile(path, content string) (*FileNode, error) {
	path = lib.Normalize(path)

	fs.mu.Lock()
	node, ok := fs.nodes[path]
	if !ok {
		node = fs.newNode(path, TypeFile, &content)
		fs.nodes[path] = node
		out := node.clone()
		fs.mu.Unlock()

		fs.emit(fsnotify.Event{Name: path, Op: fsnotify.Create})
		return out, nil
	}
	if node.IsDir() {
		fs.mu.Unlock()
		return nil, newError(OpWrite, path, ErrIsDirectory)
	}
	node.Content = stringPtr(content)
	node.Size = int64(len(content))
	node.ModifiedAt = fs.now()
	out := node.clone()
	fs.mu.Unlock()

	fs.emit(fsnotify.Event{Name: path, Op: fsnotify.Write})
	return out, nil
}

// CreateDirectory inserts a directory at path, replacing whatever was there.
func (fs *Filesystem) CreateDirectory(path string) *FileNode {
	path = lib.Normalize(path)

	fs.mu.Lock()
	node := fs.newNode(path, TypeDirectory, nil)
	fs.nodes[path] = node
	out := node.clone()
	fs.mu.Unlock()

	fs.emit(fsnotify.Event{Name: path, Op: fsnotify.Create})
	return out
}

// MkdirAll creates path and any missing ancestors. Existing directories are
// left untouched.
func (fs *Filesystem) MkdirAll(path string) *FileNode {
	path = lib.Normalize(path)

	fs.mu.Lock()
	var events []fsnotify.Event
	segments := lib.Segments(path)
	for i := 1; i <= len(segments); i++ {
		p := lib.Join(segments[:i]...)
		if _, ok := fs.nodes[p]; ok {
			continue
		}
		fs.nodes[p] = fs.newNode(p, TypeDirectory, nil)
		events = append(events, fsnotify.Event{Name: p, Op: fsnotify.Create})
	}
	out := fs.nodes[path].clone()
	fs.mu.Unlock()

	fs.emit(events...)
	return out
}

// GetFile returns a copy of the node at path.
func (fs *Filesystem) GetFile(path string) (*FileNode, bool) {
	path = lib.Normalize(path)

	fs.mu.RLock()
	defer fs.mu.RUnlock()
	node, ok := fs.nodes[path]
	if !ok {
		return nil, false
	}
	return node.clone(), true
}

// FileExists reports whether any node exists at path.
func (fs *Filesystem) FileExists(path string) bool {
	_, ok := fs.GetFile(path)
	return ok
}

// IsDirectory reports whether a directory node exists at path.
func (fs *Filesystem) IsDirectory(path string) bool {
	node, ok := fs.GetFile(path)
	return ok && node.IsDir()
}

// ListDirectory returns the direct children of path, directories first and
// then by name.
func (fs *Filesystem) ListDirectory(path string) []*FileNode {
	path = lib.Normalize(path)

	fs.mu.RLock()
	children := fs.children(path)
	out := make([]*FileNode, 0, len(children))
	for _, c := range children {
		out = append(out, c.clone())
	}
	fs.mu.RUnlock()

	sortNodes(out)
	return out
}

// children returns the live direct children of path. Caller holds fs.mu.
func (fs *Filesystem) children(path string) []*FileNode {
	var out []*FileNode
	for p, node := range fs.nodes {
		if lib.IsChildOf(p, path) {
			out = append(out, node)
		}
	}
	return out
}

// subtree returns the keys of path and all its descendants, shortest first.
// Caller holds fs.mu.
func (fs *Filesystem) subtree(path string) []string {
	var keys []string
	for p := range fs.nodes {
		if lib.IsWithin(p, path) {
			keys = append(keys, p)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		di, dj := len(lib.Segments(keys[i])), len(lib.Segments(keys[j]))
		if di != dj {
			return di < dj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// DeleteFile removes the single node at path.
func (fs *Filesystem) DeleteFile(path string) bool {
	path = lib.Normalize(path)

	fs.mu.Lock()
	_, ok := fs.nodes[path]
	delete(fs.nodes, path)
	fs.mu.Unlock()

	if ok {
		fs.emit(fsnotify.Event{Name: path, Op: fsnotify.Remove})
	}
	return ok
}

// DeleteDirectory removes the directory at path. Without recursive, a
// directory that still has children is left alone and ErrDirectoryNotEmpty
// is returned. With recursive, path and everything below it is removed and
// the result reports whether anything was.
func (fs *Filesystem) DeleteDirectory(path string, recursive bool) (bool, error) {
	path = lib.Normalize(path)

	fs.mu.Lock()
	var removed []string
	if recursive {
		keys := fs.subtree(path)
		for i := len(keys) - 1; i >= 0; i-- {
			delete(fs.nodes, keys[i])
			removed = append(removed, keys[i])
		}
	} else {
		if len(fs.children(path)) > 0 {
			fs.mu.Unlock()
			return false, newError(OpDelete, path, ErrDirectoryNotEmpty)
		}
		if _, ok := fs.nodes[path]; ok {
			delete(fs.nodes, path)
			removed = append(removed, path)
		}
	}
	fs.mu.Unlock()

	fs.emit(removeEvents(removed)...)
	return len(removed) > 0, nil
}

// MoveFile relocates the node at source, and every node below it, to dest.
// Nodes keep their ids; whatever occupied the destination keys is replaced.
// It returns false when source does not exist.
func (fs *Filesystem) MoveFile(source, dest string) (bool, error) {
	source = lib.Normalize(source)
	dest = lib.Normalize(dest)
	if source == dest {
		return fs.FileExists(source), nil
	}

	fs.mu.Lock()
	root, ok := fs.nodes[source]
	if !ok {
		fs.mu.Unlock()
		return false, nil
	}
	if root.IsDir() && lib.IsWithin(dest, source) {
		fs.mu.Unlock()
		return false, newError(OpMove, dest, ErrInvalidMove)
	}

	keys := []string{source}
	if root.IsDir() {
		keys = fs.subtree(source)
	}
	moved := make([]*FileNode, 0, len(keys))
	for _, k := range keys {
		moved = append(moved, fs.nodes[k])
		delete(fs.nodes, k)
	}
	for _, node := range moved {
		node.Path = lib.Rebase(node.Path, source, dest)
		node.Name = lib.Name(node.Path)
		fs.nodes[node.Path] = node
	}
	root.ModifiedAt = fs.now()
	root.ParentID = nil
	if parent, ok := fs.nodes[lib.Parent(dest)]; ok && !lib.IsRoot(dest) {
		id := parent.ID
		root.ParentID = &id
	}
	fs.mu.Unlock()

	fs.emit(
		fsnotify.Event{Name: source, Op: fsnotify.Rename},
		fsnotify.Event{Name: dest, Op: fsnotify.Create},
	)
	return true, nil
}

// Rename moves path to a sibling called newName. Unlike MoveFile it refuses
// to replace an existing node.
func (fs *Filesystem) Rename(path, newName string) (*FileNode, error) {
	path = lib.Normalize(path)
	if newName == "" || strings.ContainsAny(newName, `\/`) {
		return nil, newError(OpRename, newName, ErrInvalidName)
	}
	dest := lib.Join(lib.Parent(path), newName)
	if dest == path {
		node, ok := fs.GetFile(path)
		if !ok {
			return nil, newError(OpRename, path, ErrNotFound)
		}
		return node, nil
	}
	if fs.FileExists(dest) {
		return nil, newError(OpRename, dest, ErrAlreadyExists)
	}
	ok, err := fs.MoveFile(path, dest)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newError(OpRename, path, ErrNotFound)
	}
	node, _ := fs.GetFile(dest)
	return node, nil
}

// CopyFile duplicates the node at source, and every node below it, to dest.
// Copies get new ids and timestamps. It returns false when source does not
// exist.
func (fs *Filesystem) CopyFile(source, dest string) (bool, error) {
	source = lib.Normalize(source)
	dest = lib.Normalize(dest)

	fs.mu.Lock()
	root, ok := fs.nodes[source]
	if !ok {
		fs.mu.Unlock()
		return false, nil
	}
	if root.IsDir() && lib.IsWithin(dest, source) {
		fs.mu.Unlock()
		return false, newError(OpCopy, dest, ErrInvalidMove)
	}

	keys := []string{source}
	if root.IsDir() {
		keys = fs.subtree(source)
	}
	originals := make([]*FileNode, 0, len(keys))
	for _, k := range keys {
		originals = append(originals, fs.nodes[k])
	}
	var events []fsnotify.Event
	for _, orig := range originals {
		target := lib.Rebase(orig.Path, source, dest)
		fs.nodes[target] = fs.newNode(target, orig.Type, orig.Content)
		events = append(events, fsnotify.Event{Name: target, Op: fsnotify.Create})
	}
	fs.mu.Unlock()

	fs.emit(events...)
	return true, nil
}

// Stats summarises the store.
type Stats struct {
	Files       int   `json:"files"`
	Directories int   `json:"directories"`
	Bytes       int64 `json:"bytes"`
} // @name FilesystemStats

// Stats counts files, directories and stored bytes.
func (fs *Filesystem) Stats() Stats {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var s Stats
	for _, node := range fs.nodes {
		if node.IsDir() {
			s.Directories++
		} else {
			s.Files++
			s.Bytes += node.Size
		}
	}
	return s
}

func removeEvents(paths []string) []fsnotify.Event {
	events := make([]fsnotify.Event, 0, len(paths))
	for _, p := range paths {
		events = append(events, fsnotify.Event{Name: p, Op: fsnotify.Remove})
	}
	return events
}

// sortNodes orders directories before files, then names by English collation.
func sortNodes(nodes []*FileNode) {
	c := collate.New(language.English)
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].IsDir() != nodes[j].IsDir() {
			return nodes[i].IsDir()
		}
		return c.CompareString(nodes[i].Name, nodes[j].Name) < 0
	})
}

// sortNames orders completion candidates: directories (trailing separator)
// first, then by English collation.
func sortNames(names []string) {
	c := collate.New(language.English)
	sort.SliceStable(names, func(i, j int) bool {
		di := strings.HasSuffix(names[i], lib.Separator)
		dj := strings.HasSuffix(names[j], lib.Separator)
		if di != dj {
			return di
		}
		return c.CompareString(names[i], names[j]) < 0
	})
}
