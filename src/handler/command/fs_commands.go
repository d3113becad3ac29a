package command

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/lib"
)

var errMissingOperand = errors.New("the syntax of the command is incorrect")

func hasWildcard(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// expand resolves arg to the existing paths it names. A wildcard in the last
// segment matches children of its directory case-insensitively.
func (r *Router) expand(inv *invocation, arg string) []string {
	full := inv.resolve(arg)
	if !hasWildcard(lib.Name(full)) {
		if r.fs.FileExists(full) {
			return []string{full}
		}
		return nil
	}
	pattern := strings.ToLower(lib.Name(full))
	var out []string
	for _, n := range r.fs.ListDirectory(lib.Parent(full)) {
		if ok, _ := path.Match(pattern, strings.ToLower(n.Name)); ok {
			out = append(out, n.Path)
		}
	}
	return out
}

func (r *Router) changeDirectory(inv *invocation) (Result, error) {
	target, ok := inv.args.arg(0, "path", "literalpath")
	if !ok {
		if inv.cmd() {
			return Result{Output: inv.ctx.CurrentDirectory}, nil
		}
		target = "~"
	}

	dir := inv.resolve(target)
	if !r.fs.IsDirectory(dir) {
		if inv.cmd() {
			if r.fs.FileExists(dir) {
				return failure("The directory name is invalid."), nil
			}
			return failure("The system cannot find the path specified."), nil
		}
		return notFound(inv, "Set-Location", dir), nil
	}
	return Result{NewDirectory: dir}, nil
}

func (r *Router) listDirectory(inv *invocation) (Result, error) {
	target := inv.ctx.CurrentDirectory
	if arg, ok := inv.args.arg(0, "path", "literalpath"); ok {
		target = arg
	}

	dir := inv.resolve(target)
	var nodes []*filesystem.FileNode
	switch {
	case hasWildcard(lib.Name(dir)):
		for _, p := range r.expand(inv, target) {
			if n, ok := r.fs.GetFile(p); ok {
				nodes = append(nodes, n)
			}
		}
		dir = lib.Parent(dir)
		if len(nodes) == 0 {
			if inv.cmd() {
				return failure("File Not Found"), nil
			}
			return Result{}, nil
		}
	case r.fs.IsDirectory(dir):
		nodes = r.fs.ListDirectory(dir)
	default:
		n, ok := r.fs.GetFile(dir)
		if !ok {
			if inv.cmd() {
				return failure("File Not Found"), nil
			}
			return notFound(inv, "Get-ChildItem", dir), nil
		}
		nodes = []*filesystem.FileNode{n}
		dir = lib.Parent(dir)
	}

	if inv.args.has("b", "name") {
		names := make([]string, len(nodes))
		for i, n := range nodes {
			names[i] = n.Name
		}
		return Result{Output: strings.Join(names, "\n")}, nil
	}
	if inv.cmd() {
		return Result{Output: cmdListing(dir, nodes, r.fs.Stats().Bytes)}, nil
	}
	return Result{Output: psListing(dir, nodes)}, nil
}

func (r *Router) showContent(inv *invocation) (Result, error) {
	args := inv.args.positional
	if p, ok := inv.args.value("path", "literalpath"); ok && p != "" {
		args = append([]string{p}, args...)
	}
	if len(args) == 0 {
		return Result{}, errMissingOperand
	}

	var parts []string
	for _, arg := range args {
		paths := r.expand(inv, arg)
		if len(paths) == 0 {
			return fileNotFound(inv, "Get-Content", inv.resolve(arg)), nil
		}
		for _, p := range paths {
			node, _ := r.fs.GetFile(p)
			if node == nil {
				continue
			}
			if node.IsDir() {
				if inv.cmd() {
					return failure("Access is denied."), nil
				}
				return failure(fmt.Sprintf("Get-Content : Unable to get content because it is a directory: '%s'.", p)), nil
			}
			parts = append(parts, strings.TrimRight(node.Text(), "\r\n"))
		}
	}
	return Result{Output: strings.Join(parts, "\n")}, nil
}

func (r *Router) makeDirectory(inv *invocation) (Result, error) {
	args := inv.args.positional
	if p, ok := inv.args.value("path"); ok && p != "" {
		args = append([]string{p}, args...)
	}
	if len(args) == 0 {
		return Result{}, errMissingOperand
	}

	var created []*filesystem.FileNode
	for _, arg := range args {
		dir := inv.resolve(arg)
		if r.fs.FileExists(dir) {
			if inv.cmd() {
				return failure(fmt.Sprintf("A subdirectory or file %s already exists.", arg)), nil
			}
			return failure(fmt.Sprintf("New-Item : An item with the specified name %s already exists.", dir)), nil
		}
		created = append(created, r.fs.MkdirAll(dir))
	}
	if inv.cmd() {
		return Result{}, nil
	}
	return Result{Output: psListing(lib.Parent(created[0].Path), created)}, nil
}

func (r *Router) newItem(inv *invocation) (Result, error) {
	target, ok := inv.args.arg(0, "path")
	if !ok {
		return Result{}, errMissingOperand
	}
	full := inv.resolve(target)

	if kind, _ := inv.args.value("itemtype", "type"); strings.EqualFold(kind, "directory") {
		return r.makeDirectory(&invocation{name: "mkdir", args: arguments{positional: []string{target}}, ctx: inv.ctx})
	}

	value, _ := inv.args.value("value")
	existing, exists := r.fs.GetFile(full)
	if exists && existing.IsDir() {
		return Result{}, &filesystem.Error{Op: filesystem.OpWrite, Path: full, Err: filesystem.ErrIsDirectory}
	}
	if exists && inv.name != "touch" && !inv.args.has("force") {
		return failure(fmt.Sprintf("New-Item : The file '%s' already exists.", full)), nil
	}
	if exists && inv.name == "touch" {
		value = existing.Text()
	}

	node, err := r.fs.WriteFile(full, value)
	if err != nil {
		return Result{}, err
	}
	if inv.name == "touch" || inv.cmd() {
		return Result{}, nil
	}
	return Result{Output: psListing(lib.Parent(node.Path), []*filesystem.FileNode{node})}, nil
}

// sourceAndDest returns the resolved source and destination of a copy or
// move. A destination that is an existing directory receives the source
// under its own name.
func (r *Router) sourceAndDest(inv *invocation) (string, string, error) {
	bound := inv.args.bind(param{"path", "literalpath"}, param{"destination"})
	src, dst := bound[0], bound[1]
	if src == "" || dst == "" {
		return "", "", errMissingOperand
	}
	source := inv.resolve(src)
	dest := inv.resolve(dst)
	if r.fs.IsDirectory(dest) {
		dest = lib.Join(dest, lib.Name(source))
	}
	return source, dest, nil
}

func (r *Router) copyItem(inv *invocation) (Result, error) {
	source, dest, err := r.sourceAndDest(inv)
	if err != nil {
		return Result{}, err
	}
	ok, err := r.fs.CopyFile(source, dest)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return fileNotFound(inv, "Copy-Item", source), nil
	}
	if inv.cmd() {
		return Result{Output: "        1 file(s) copied."}, nil
	}
	return Result{}, nil
}

func (r *Router) moveItem(inv *invocation) (Result, error) {
	source, dest, err := r.sourceAndDest(inv)
	if err != nil {
		return Result{}, err
	}
	isDir := r.fs.IsDirectory(source)
	ok, err := r.fs.MoveFile(source, dest)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return fileNotFound(inv, "Move-Item", source), nil
	}
	if inv.cmd() {
		if isDir {
			return Result{Output: "        1 dir(s) moved."}, nil
		}
		return Result{Output: "        1 file(s) moved."}, nil
	}
	return Result{}, nil
}

func (r *Router) renameItem(inv *invocation) (Result, error) {
	bound := inv.args.bind(param{"path", "literalpath"}, param{"newname"})
	src, newName := bound[0], bound[1]
	if src == "" || newName == "" {
		return Result{}, errMissingOperand
	}

	source := inv.resolve(src)
	if !r.fs.FileExists(source) {
		return fileNotFound(inv, "Rename-Item", source), nil
	}
	if _, err := r.fs.Rename(source, newName); err != nil {
		if inv.cmd() && errors.Is(err, filesystem.ErrAlreadyExists) {
			return failure("A duplicate file name exists, or the file\ncannot be found."), nil
		}
		return Result{}, err
	}
	return Result{}, nil
}

// removeItem moves files and directories to the recycle bin.
func (r *Router) removeItem(inv *invocation) (Result, error) {
	args := inv.args.positional
	if p, ok := inv.args.value("path", "literalpath"); ok && p != "" {
		args = append([]string{p}, args...)
	}
	if len(args) == 0 {
		return Result{}, errMissingOperand
	}
	recursive := inv.args.has("recurse", "r", "s", "force", "rf") || inv.name == "recycle"

	for _, arg := range args {
		paths := r.expand(inv, arg)
		if len(paths) == 0 {
			if inv.cmd() {
				return failure("Could Not Find " + inv.resolve(arg)), nil
			}
			return notFound(inv, "Remove-Item", inv.resolve(arg)), nil
		}
		for _, p := range paths {
			if r.fs.IsDirectory(p) {
				if _, err := r.bin.RecycleDirectory(p, recursive); err != nil {
					return Result{}, err
				}
				continue
			}
			r.bin.Recycle(p)
		}
	}
	return Result{}, nil
}

func (r *Router) removeDirectory(inv *invocation) (Result, error) {
	target, ok := inv.args.arg(0, "path")
	if !ok {
		return Result{}, errMissingOperand
	}
	dir := inv.resolve(target)

	node, exists := r.fs.GetFile(dir)
	switch {
	case !exists:
		return fileNotFound(inv, "Remove-Item", dir), nil
	case !node.IsDir():
		return failure("The directory name is invalid."), nil
	case lib.IsWithin(inv.ctx.CurrentDirectory, dir):
		return failure("The process cannot access the file because it is being used by another process."), nil
	}

	_, err := r.bin.RecycleDirectory(dir, inv.args.has("s", "recurse"))
	if errors.Is(err, filesystem.ErrDirectoryNotEmpty) && inv.cmd() {
		return failure("The directory is not empty."), nil
	}
	return Result{}, err
}

func (r *Router) tree(inv *invocation) (Result, error) {
	target := inv.ctx.CurrentDirectory
	if arg, ok := inv.args.arg(0, "path"); ok {
		target = arg
	}
	dir := inv.resolve(target)
	root, err := r.fs.Tree(dir, 0)
	if err != nil {
		return failure("Invalid path - " + strings.ToUpper(strings.TrimPrefix(dir, "C:"))), nil
	}
	withFiles := inv.args.has("f")

	var b strings.Builder
	b.WriteString("Folder PATH listing\n")
	fmt.Fprintf(&b, "Volume serial number is %s\n", volumeSerial)
	b.WriteString(strings.ToUpper(dir) + "\n")
	if !withFiles && len(root.Subdirectories) == 0 {
		b.WriteString("No subfolders exist \n")
	}
	writeTree(&b, root, "", withFiles)
	return Result{Output: strings.TrimRight(b.String(), "\n")}, nil
}

func writeTree(b *strings.Builder, dir *filesystem.Directory, prefix string, withFiles bool) {
	if withFiles && len(dir.Files) > 0 {
		filePrefix := prefix + "    "
		if len(dir.Subdirectories) > 0 {
			filePrefix = prefix + "│   "
		}
		for _, f := range dir.Files {
			b.WriteString(filePrefix + f.Name + "\n")
		}
		b.WriteString(strings.TrimRight(filePrefix, " ") + "\n")
	}
	for i, sub := range dir.Subdirectories {
		last := i == len(dir.Subdirectories)-1
		branch, indent := "├───", "│   "
		if last {
			branch, indent = "└───", "    "
		}
		b.WriteString(prefix + branch + sub.Name + "\n")
		writeTree(b, sub, prefix+indent, withFiles)
	}
}

func (r *Router) find(inv *invocation) (Result, error) {
	bound := inv.args.bind(param{"filter"}, param{"path"})
	query := bound[0]
	if query == "" {
		return Result{}, errMissingOperand
	}
	root := inv.ctx.CurrentDirectory
	if bound[1] != "" {
		root = inv.resolve(bound[1])
	}

	results := r.fs.Search(strings.Trim(query, "*"), root, filesystem.DefaultSearchLimit)
	if len(results) == 0 {
		return failure("INFO: Could not find files for the given pattern(s)."), nil
	}
	lines := make([]string, len(results))
	for i, res := range results {
		lines[i] = res.Node.Path
	}
	return Result{Output: strings.Join(lines, "\n")}, nil
}
