package filesystem

import "time"

// NodeType distinguishes files from directories.
type NodeType string

const (
	TypeFile      NodeType = "file"
	TypeDirectory NodeType = "directory"
)

// FileNode is one file or directory of the virtual filesystem. Path is the
// normalized primary key; exactly one node exists per path.
type FileNode struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Type       NodeType  `json:"type"`
	Content    *string   `json:"content,omitempty"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
	ParentID   *int64    `json:"parentId,omitempty"`
} // @name FileNode

// IsDir reports whether the node is a directory.
func (n *FileNode) IsDir() bool {
	return n.Type == TypeDirectory
}

// Text returns the file content, or "" for directories.
func (n *FileNode) Text() string {
	if n.Content == nil {
		return ""
	}
	return *n.Content
}

func (n *FileNode) clone() *FileNode {
	c := *n
	if n.Content != nil {
		content := *n.Content
		c.Content = &content
	}
	if n.ParentID != nil {
		parent := *n.ParentID
		c.ParentID = &parent
	}
	return &c
}

// RecycleBinEntry is a soft-deleted node. OriginalPath is where Restore puts
// it back; Path is only a display location inside the bin.
type RecycleBinEntry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OriginalPath string    `json:"originalPath"`
	Path         string    `json:"path"`
	Type         NodeType  `json:"type"`
	Content      *string   `json:"content,omitempty"`
	Size         int64     `json:"size"`
	DeletedAt    time.Time `json:"deletedAt"`
} // @name RecycleBinEntry

// Share is a declared network share.
type Share struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description"`
} // @name Share

func stringPtr(s string) *string {
	return &s
}
