package filesystem

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/manojxshrestha/win11web-sub000/src/lib"
)

// RecycleRoot is the display namespace of recycled items.
const RecycleRoot = `C:\RECYCLE`

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

type binItem struct {
	entry *RecycleBinEntry
	seq   int64
}

// RecycleBin holds soft-deleted nodes of a Filesystem. Entries are keyed by
// a synthetic id and remember the path they were deleted from.
//
// Lock order is always Filesystem.mu before RecycleBin.mu.
type RecycleBin struct {
	fs      *Filesystem
	mu      sync.Mutex
	entries map[string]*binItem
	seq     int64
}

// NewRecycleBin creates an empty bin attached to fs.
func NewRecycleBin(fs *Filesystem) *RecycleBin {
	return &RecycleBin{
		fs:      fs,
		entries: make(map[string]*binItem),
	}
}

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.IntN(len(base36))]
	}
	return string(b)
}

// newID returns a "<epoch-ms>-<9 base36 chars>" id not yet in the bin.
// Caller holds rb.mu.
func (rb *RecycleBin) newID(now time.Time) string {
	for {
		id := fmt.Sprintf("%d-%s", now.UnixMilli(), randomBase36(9))
		if _, taken := rb.entries[id]; !taken {
			return id
		}
	}
}

// recycleLocked moves one live node into the bin. Caller holds fs.mu.
func (rb *RecycleBin) recycleLocked(path string) (*RecycleBinEntry, bool) {
	node, ok := rb.fs.nodes[path]
	if !ok {
		return nil, false
	}
	delete(rb.fs.nodes, path)

	now := rb.fs.now()
	rb.mu.Lock()
	defer rb.mu.Unlock()

	entry := &RecycleBinEntry{
		ID:           rb.newID(now),
		Name:         node.Name,
		OriginalPath: node.Path,
		Path:         RecycleRoot + lib.Separator + node.Name + "_" + strconv.FormatInt(now.UnixMilli(), 10),
		Type:         node.Type,
		Size:         node.Size,
		DeletedAt:    now,
	}
	if node.Content != nil {
		entry.Content = stringPtr(*node.Content)
	}
	rb.seq++
	rb.entries[entry.ID] = &binItem{entry: entry, seq: rb.seq}
	return cloneEntry(entry), true
}

// Recycle removes the node at path from the filesystem and keeps it in the
// bin. It returns false when nothing exists at path.
func (rb *RecycleBin) Recycle(path string) (*RecycleBinEntry, bool) {
	path = lib.Normalize(path)

	rb.fs.mu.Lock()
	entry, ok := rb.recycleLocked(path)
	rb.fs.mu.Unlock()

	if ok {
		rb.fs.emit(fsnotify.Event{Name: path, Op: fsnotify.Remove})
	}
	return entry, ok
}

// RecycleDirectory recycles a directory. Without recursive the directory must
// be empty, otherwise ErrDirectoryNotEmpty is returned and nothing changes.
// With recursive every node under path gets its own entry, the directory
// included.
func (rb *RecycleBin) RecycleDirectory(path string, recursive bool) ([]*RecycleBinEntry, error) {
	path = lib.Normalize(path)

	rb.fs.mu.Lock()
	var keys []string
	if recursive {
		keys = rb.fs.subtree(path)
	} else {
		if len(rb.fs.children(path)) > 0 {
			rb.fs.mu.Unlock()
			return nil, newError(OpRecycle, path, ErrDirectoryNotEmpty)
		}
		keys = []string{path}
	}

	entries := make([]*RecycleBinEntry, 0, len(keys))
	var removed []string
	for _, k := range keys {
		if entry, ok := rb.recycleLocked(k); ok {
			entries = append(entries, entry)
			removed = append(removed, k)
		}
	}
	rb.fs.mu.Unlock()

	rb.fs.emit(removeEvents(removed)...)
	return entries, nil
}

// List returns all entries, most recently deleted first.
func (rb *RecycleBin) List() []*RecycleBinEntry {
	rb.mu.Lock()
	items := make([]*binItem, 0, len(rb.entries))
	for _, item := range rb.entries {
		items = append(items, item)
	}
	rb.mu.Unlock()

	sort.Slice(items, func(i, j int) bool {
		if !items[i].entry.DeletedAt.Equal(items[j].entry.DeletedAt) {
			return items[i].entry.DeletedAt.After(items[j].entry.DeletedAt)
		}
		return items[i].seq > items[j].seq
	})

	out := make([]*RecycleBinEntry, 0, len(items))
	for _, item := range items {
		out = append(out, cloneEntry(item.entry))
	}
	return out
}

// Get returns the entry with the given id.
func (rb *RecycleBin) Get(id string) (*RecycleBinEntry, bool) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	item, ok := rb.entries[id]
	if !ok {
		return nil, false
	}
	return cloneEntry(item.entry), true
}

// Restore recreates the entry at its original path and drops it from the bin.
// It returns false when the id is unknown. When a node already occupies the
// original path it returns ErrAlreadyExists and the entry stays in the bin.
func (rb *RecycleBin) Restore(id string) (bool, error) {
	rb.fs.mu.Lock()
	rb.mu.Lock()
	item, ok := rb.entries[id]
	if !ok {
		rb.mu.Unlock()
		rb.fs.mu.Unlock()
		return false, nil
	}
	entry := item.entry
	if _, occupied := rb.fs.nodes[entry.OriginalPath]; occupied {
		rb.mu.Unlock()
		rb.fs.mu.Unlock()
		return false, newError(OpRestore, entry.OriginalPath, ErrAlreadyExists)
	}

	var node *FileNode
	if entry.Type == TypeDirectory {
		node = rb.fs.newNode(entry.OriginalPath, TypeDirectory, nil)
	} else {
		content := ""
		if entry.Content != nil {
			content = *entry.Content
		}
		node = rb.fs.newNode(entry.OriginalPath, TypeFile, &content)
	}
	rb.fs.nodes[entry.OriginalPath] = node
	delete(rb.entries, id)
	rb.mu.Unlock()
	rb.fs.mu.Unlock()

	rb.fs.emit(fsnotify.Event{Name: entry.OriginalPath, Op: fsnotify.Create})
	return true, nil
}

// DeletePermanently drops an entry without restoring it.
func (rb *RecycleBin) DeletePermanently(id string) bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	_, ok := rb.entries[id]
	delete(rb.entries, id)
	return ok
}

// Empty drops every entry and returns how many there were.
func (rb *RecycleBin) Empty() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	n := len(rb.entries)
	rb.entries = make(map[string]*binItem)
	return n
}

// Len returns the number of entries.
func (rb *RecycleBin) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return len(rb.entries)
}

func cloneEntry(e *RecycleBinEntry) *RecycleBinEntry {
	c := *e
	if e.Content != nil {
		c.Content = stringPtr(*e.Content)
	}
	return &c
}
