package filesystem

import (
	"strings"

	"github.com/manojxshrestha/win11web-sub000/src/lib"
)

// CompletePath returns tab-completion candidates for the last segment of
// prefix, resolved against currentDirectory. Directory candidates carry a
// trailing separator. Directories come first, then files, each by name.
func (fs *Filesystem) CompletePath(prefix, currentDirectory string) []string {
	prefix = strings.ReplaceAll(prefix, "/", lib.Separator)
	basePath, search := splitCompletion(prefix, currentDirectory)
	basePath = lib.Normalize(basePath)
	search = strings.ToLower(search)

	fs.mu.RLock()
	var names []string
	for p, node := range fs.nodes {
		if !lib.IsChildOf(p, basePath) {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(node.Name), search) {
			continue
		}
		name := node.Name
		if node.IsDir() {
			name += lib.Separator
		}
		names = append(names, name)
	}
	fs.mu.RUnlock()

	sortNames(names)
	if names == nil {
		names = []string{}
	}
	return names
}

// splitCompletion turns a raw prefix into the directory to scan and the
// case-insensitive filter for names inside it.
func splitCompletion(prefix, cwd string) (basePath, search string) {
	if idx := strings.LastIndex(prefix, lib.Separator); idx >= 0 {
		pathPart := prefix[:idx]
		search = prefix[idx+1:]

		switch {
		case pathPart == "..":
			basePath = popSegments(cwd, 1)
		case strings.HasPrefix(pathPart, `..\`):
			ups := 0
			for strings.HasPrefix(pathPart, `..\`) {
				pathPart = strings.TrimPrefix(pathPart, `..\`)
				ups++
			}
			if pathPart == ".." {
				pathPart = ""
				ups++
			}
			basePath = popSegments(cwd, ups)
			if pathPart != "" {
				basePath += lib.Separator + pathPart
			}
		case pathPart == ".":
			basePath = cwd
		case strings.HasPrefix(pathPart, `.\`):
			basePath = cwd + lib.Separator + strings.TrimPrefix(pathPart, `.\`)
		case lib.HasDrive(pathPart):
			basePath = pathPart
		case pathPart == "":
			// "\foo" is rooted at the drive of the current directory
			basePath = lib.Segments(lib.Normalize(cwd))[0] + lib.Separator
		default:
			basePath = cwd + lib.Separator + pathPart
		}
		return basePath, search
	}

	if strings.HasPrefix(prefix, ".") {
		if prefix == ".." {
			return popSegments(cwd, 1), ""
		}
		if strings.HasPrefix(prefix, `.\`) {
			return cwd, strings.TrimPrefix(prefix, `.\`)
		}
	}
	return cwd, prefix
}

// popSegments removes n trailing segments from path, stopping at the drive root.
func popSegments(path string, n int) string {
	segments := lib.Segments(lib.Normalize(path))
	for i := 0; i < n && len(segments) > 1; i++ {
		segments = segments[:len(segments)-1]
	}
	return lib.Join(segments...)
}
