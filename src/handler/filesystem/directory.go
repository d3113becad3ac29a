package filesystem

import (
	"fmt"

	"github.com/manojxshrestha/win11web-sub000/src/lib"
)

// Directory is a nested view of a directory and its contents.
type Directory struct {
	Path           string       `json:"path"`
	Name           string       `json:"name"`
	Files          []*FileNode  `json:"files"`
	Subdirectories []*Directory `json:"subdirectories"` // @name Subdirectories
} // @name Directory

func NewDirectory(path string) *Directory {
	path = lib.Normalize(path)
	return &Directory{
		Path:           path,
		Name:           lib.Name(path),
		Files:          []*FileNode{},
		Subdirectories: []*Directory{},
	}
}

// AddFile adds a file to the directory
func (d *Directory) AddFile(file *FileNode) {
	d.Files = append(d.Files, file)
}

// AddSubdirectory adds a subdirectory to the directory
func (d *Directory) AddSubdirectory(subDir *Directory) {
	d.Subdirectories = append(d.Subdirectories, subDir)
}

// GetFile returns a file by name if it exists in this directory
func (d *Directory) GetFile(name string) *FileNode {
	for _, file := range d.Files {
		if file.Name == name {
			return file
		}
	}
	return nil
}

// GetSubdirectory returns a subdirectory by name if it exists in this directory
func (d *Directory) GetSubdirectory(name string) *Directory {
	for _, subDir := range d.Subdirectories {
		if subDir.Name == name {
			return subDir
		}
	}
	return nil
}

// CountFiles returns the total number of files in this directory (excluding subdirectories)
func (d *Directory) CountFiles() int {
	return len(d.Files)
}

// CountSubdirectories returns the total number of subdirectories in this directory
func (d *Directory) CountSubdirectories() int {
	return len(d.Subdirectories)
}

// IsEmpty returns true if the directory has no files and no subdirectories
func (d *Directory) IsEmpty() bool {
	return len(d.Files) == 0 && len(d.Subdirectories) == 0
}

// Tree returns path and its contents down to depth levels. A depth of zero
// or less walks the whole subtree.
func (fs *Filesystem) Tree(path string, depth int) (*Directory, error) {
	path = lib.Normalize(path)
	if !fs.IsDirectory(path) {
		return nil, newError(OpList, path, ErrNotFound)
	}
	return fs.tree(path, depth), nil
}

func (fs *Filesystem) tree(path string, depth int) *Directory {
	dir := NewDirectory(path)
	for _, child := range fs.ListDirectory(path) {
		if !child.IsDir() {
			dir.AddFile(child)
			continue
		}
		if depth == 1 {
			dir.AddSubdirectory(NewDirectory(child.Path))
			continue
		}
		dir.AddSubdirectory(fs.tree(child.Path, depth-1))
	}
	return dir
}

// CreateOrUpdateTree writes every file of files, keyed by a path relative to
// rootPath, creating rootPath and any intermediate directories.
func (fs *Filesystem) CreateOrUpdateTree(rootPath string, files map[string]string) error {
	rootPath = lib.Normalize(rootPath)
	if node, ok := fs.GetFile(rootPath); ok && !node.IsDir() {
		return fmt.Errorf("error creating root directory: %w", newError(OpWrite, rootPath, ErrAlreadyExists))
	}
	fs.MkdirAll(rootPath)

	for relativePath, content := range files {
		fullPath := lib.Resolve(rootPath, relativePath)
		if !lib.IsWithin(fullPath, rootPath) || fullPath == rootPath {
			return fmt.Errorf("error writing file: %q escapes %s", relativePath, rootPath)
		}
		fs.MkdirAll(lib.Parent(fullPath))
		if _, err := fs.WriteFile(fullPath, content); err != nil {
			return fmt.Errorf("error writing file: %w", err)
		}
	}
	return nil
}
