package lib

import (
	"regexp"
	"strings"
)

const (
	// Separator is the only path separator used in the virtual namespace.
	Separator = `\`

	// DefaultDrive is prepended to paths that carry no drive letter.
	DefaultDrive = `C:`
)

var (
	drivePrefix = regexp.MustCompile(`^[A-Za-z]:\\`)
	bareDrive   = regexp.MustCompile(`^[A-Za-z]:$`)
)

// Normalize converts an arbitrary user supplied path into the canonical key
// space of the virtual filesystem. Paths without a drive letter are taken to
// be relative to the root of C:, not to any current directory.
//
// Normalize is idempotent: Normalize(Normalize(p)) == Normalize(p).
func Normalize(path string) string {
	path = strings.ReplaceAll(path, "/", Separator)

	// Clean up double separators
	for strings.Contains(path, `\\`) {
		path = strings.ReplaceAll(path, `\\`, Separator)
	}

	if bareDrive.MatchString(path) {
		path += Separator
	}
	if !drivePrefix.MatchString(path) {
		path = DefaultDrive + Separator + strings.TrimLeft(path, Separator)
	}

	if len(path) > 3 && strings.HasSuffix(path, Separator) {
		path = path[:len(path)-1]
	}
	return path
}

// HasDrive reports whether path starts with a drive letter prefix such as C:\
// or is a bare drive such as C:.
func HasDrive(path string) bool {
	path = strings.ReplaceAll(path, "/", Separator)
	return drivePrefix.MatchString(path) || bareDrive.MatchString(path)
}

// Segments splits a path into its non-empty components. The drive ("C:") is
// the first segment of any normalized path.
func Segments(path string) []string {
	parts := strings.Split(path, Separator)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// Join builds a normalized path from segments.
func Join(segments ...string) string {
	return Normalize(strings.Join(segments, Separator))
}

// Name returns the last segment of a path.
func Name(path string) string {
	segments := Segments(Normalize(path))
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// Parent returns the normalized parent of path. The parent of a drive root is
// the drive root itself.
func Parent(path string) string {
	segments := Segments(Normalize(path))
	if len(segments) <= 1 {
		return Normalize(path)
	}
	return Join(segments[:len(segments)-1]...)
}

// IsRoot reports whether path is a drive root.
func IsRoot(path string) bool {
	return len(Segments(Normalize(path))) <= 1
}

// IsChildOf reports whether child sits exactly one level below parent. The
// comparison is segment by segment, so C:\Foobar is not a child of C:\Foo.
func IsChildOf(child, parent string) bool {
	c := Segments(Normalize(child))
	p := Segments(Normalize(parent))
	if len(c) != len(p)+1 {
		return false
	}
	return hasSegmentPrefix(c, p)
}

// IsWithin reports whether path equals root or is one of its descendants.
func IsWithin(path, root string) bool {
	return hasSegmentPrefix(Segments(Normalize(path)), Segments(Normalize(root)))
}

// Rebase moves path from under oldRoot to under newRoot. path must be within
// oldRoot.
func Rebase(path, oldRoot, newRoot string) string {
	rest := Segments(Normalize(path))[len(Segments(Normalize(oldRoot))):]
	return Join(append(Segments(Normalize(newRoot)), rest...)...)
}

func hasSegmentPrefix(segments, prefix []string) bool {
	if len(segments) < len(prefix) {
		return false
	}
	for i := range prefix {
		if segments[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Resolve interprets arg relative to cwd the way a shell would: absolute
// arguments (with a drive letter, or starting with a separator) are taken as
// is, relative ones are joined onto cwd, and "." / ".." segments are folded.
// ".." never climbs above the drive root.
func Resolve(cwd, arg string) string {
	arg = strings.ReplaceAll(arg, "/", Separator)

	var base []string
	switch {
	case HasDrive(arg):
		base = nil
	case strings.HasPrefix(arg, Separator):
		base = Segments(Normalize(cwd))[:1]
	default:
		base = Segments(Normalize(cwd))
	}

	out := append([]string{}, base...)
	for _, seg := range Segments(arg) {
		switch seg {
		case ".":
		case "..":
			if len(out) > 1 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	if len(out) == 0 {
		return Normalize("")
	}
	return Join(out...)
}
