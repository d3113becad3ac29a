package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
)

const (
	volumeSerial = "1A2B-3C4D"

	// diskCapacity is the size reported for drive C:.
	diskCapacity int64 = 256 * 1024 * 1024 * 1024
)

// commas formats n with thousands separators, as cmd.exe does.
func commas(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func cmdTimestamp(t time.Time) string {
	return t.Format("01/02/2006  03:04 PM")
}

func psTimestamp(t time.Time) string {
	return fmt.Sprintf("%10s %8s", t.Format("1/2/2006"), t.Format("3:04 PM"))
}

func psMode(n *filesystem.FileNode) string {
	if n.IsDir() {
		return "d-----"
	}
	return "-a----"
}

// cmdListing renders nodes the way cmd.exe prints "dir".
func cmdListing(dir string, nodes []*filesystem.FileNode, used int64) string {
	var b strings.Builder
	b.WriteString(" Volume in drive C has no label.\n")
	fmt.Fprintf(&b, " Volume Serial Number is %s\n\n", volumeSerial)
	fmt.Fprintf(&b, " Directory of %s\n\n", dir)

	var files, dirs int
	var bytes int64
	for _, n := range nodes {
		if n.IsDir() {
			dirs++
			fmt.Fprintf(&b, "%s    %-14s %s\n", cmdTimestamp(n.ModifiedAt), "<DIR>", n.Name)
			continue
		}
		files++
		bytes += n.Size
		fmt.Fprintf(&b, "%s %17s %s\n", cmdTimestamp(n.ModifiedAt), commas(n.Size), n.Name)
	}
	fmt.Fprintf(&b, "%16d File(s) %14s bytes\n", files, commas(bytes))
	fmt.Fprintf(&b, "%16d Dir(s) %15s bytes free", dirs, commas(diskCapacity-used))
	return b.String()
}

// psListing renders nodes the way PowerShell formats Get-ChildItem.
func psListing(dir string, nodes []*filesystem.FileNode) string {
	if len(nodes) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n    Directory: %s\n\n\n", dir)
	b.WriteString("Mode                 LastWriteTime         Length Name\n")
	b.WriteString("----                 -------------         ------ ----\n")
	for _, n := range nodes {
		length := ""
		if !n.IsDir() {
			length = strconv.FormatInt(n.Size, 10)
		}
		fmt.Fprintf(&b, "%-6s %27s %14s %s\n", psMode(n), psTimestamp(n.ModifiedAt), length, n.Name)
	}
	return b.String()
}

// psTable renders rows under a header, padding every column to its widest
// cell, the way PowerShell's Format-Table does.
func psTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			if i == len(cells)-1 {
				parts[i] = c
				continue
			}
			parts[i] = fmt.Sprintf("%-*s", widths[i], c)
		}
		return strings.TrimRight(strings.Join(parts, " "), " ")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(line(headers) + "\n")
	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	b.WriteString(line(dashes) + "\n")
	for _, row := range rows {
		b.WriteString(line(row) + "\n")
	}
	return b.String()
}

// notFound is the message each shell prints for a missing path.
func notFound(inv *invocation, cmdlet, path string) Result {
	if inv.cmd() {
		return failure("The system cannot find the path specified.")
	}
	return failure(fmt.Sprintf("%s : Cannot find path '%s' because it does not exist.", cmdlet, path))
}

func fileNotFound(inv *invocation, cmdlet, path string) Result {
	if inv.cmd() {
		return failure("The system cannot find the file specified.")
	}
	return failure(fmt.Sprintf("%s : Cannot find path '%s' because it does not exist.", cmdlet, path))
}
