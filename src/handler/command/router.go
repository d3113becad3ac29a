package command

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/handler/terminal"
	"github.com/manojxshrestha/win11web-sub000/src/lib"
	"github.com/manojxshrestha/win11web-sub000/src/metrics"
)

// Context is the session state a command runs against. The router never
// changes it; a successful cd reports the new directory in the Result.
type Context struct {
	SessionID        string             `json:"sessionId,omitempty"`
	Shell            terminal.ShellKind `json:"shell"`
	CurrentDirectory string             `json:"currentDirectory"`
	Env              map[string]string  `json:"env,omitempty"`
	History          []string           `json:"history,omitempty"`
}

// Result is the outcome of one command line.
type Result struct {
	Output       string `json:"output"`
	ExitCode     int    `json:"exitCode"`
	Error        string `json:"error,omitempty"`
	NewDirectory string `json:"newDirectory,omitempty"`
	Clear        bool   `json:"clear,omitempty"`
} // @name CommandResult

// ProcessLister reports the shells running for terminal sessions.
type ProcessLister interface {
	Processes() []terminal.ProcessInfo
}

// invocation is what a handler receives: the name the user typed, the parsed
// arguments and the session context.
type invocation struct {
	name string
	args arguments
	ctx  *Context
}

// resolve turns a user argument into a filesystem path relative to the
// session's current directory.
func (inv *invocation) resolve(arg string) string {
	if arg == "~" || strings.HasPrefix(arg, `~\`) || strings.HasPrefix(arg, "~/") {
		return lib.Resolve(filesystem.HomeDirectory, strings.TrimLeft(arg[1:], `\/`))
	}
	return lib.Resolve(inv.ctx.CurrentDirectory, arg)
}

func (inv *invocation) cmd() bool {
	return inv.ctx.Shell == terminal.ShellCmd
}

type handlerFunc func(r *Router, inv *invocation) (Result, error)

// Router dispatches command lines to the simulated command handlers.
type Router struct {
	fs    *filesystem.Filesystem
	bin   *filesystem.RecycleBin
	procs ProcessLister
	now   func() time.Time
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithClock replaces time.Now in command output.
func WithClock(now func() time.Time) RouterOption {
	return func(r *Router) { r.now = now }
}

// NewRouter creates a router over fs and bin. procs may be nil.
func NewRouter(fs *filesystem.Filesystem, bin *filesystem.RecycleBin, procs ProcessLister, opts ...RouterOption) *Router {
	r := &Router{
		fs:    fs,
		bin:   bin,
		procs: procs,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// commands maps every lower-case alias to its handler.
var commands map[string]handlerFunc

// canonical maps every alias to the first name of its command.
var canonical map[string]string

func init() {
	table := []struct {
		aliases []string
		handler handlerFunc
	}{
		{[]string{"cd", "chdir", "set-location", "sl"}, (*Router).changeDirectory},
		{[]string{"dir", "ls", "get-childitem", "gci"}, (*Router).listDirectory},
		{[]string{"type", "cat", "get-content", "gc"}, (*Router).showContent},
		{[]string{"mkdir", "md", "new-directory"}, (*Router).makeDirectory},
		{[]string{"touch", "new-item", "ni"}, (*Router).newItem},
		{[]string{"echo", "write-output", "write-host"}, (*Router).echo},
		{[]string{"copy", "cp", "copy-item", "cpi"}, (*Router).copyItem},
		{[]string{"move", "mv", "move-item", "mi"}, (*Router).moveItem},
		{[]string{"ren", "rename", "rename-item", "rni"}, (*Router).renameItem},
		{[]string{"del", "erase", "rm", "remove-item", "ri", "recycle"}, (*Router).removeItem},
		{[]string{"rmdir", "rd"}, (*Router).removeDirectory},
		{[]string{"pwd", "get-location", "gl"}, (*Router).printDirectory},
		{[]string{"cls", "clear", "clear-host"}, (*Router).clearScreen},
		{[]string{"whoami"}, (*Router).whoami},
		{[]string{"hostname"}, (*Router).hostname},
		{[]string{"ver"}, (*Router).version},
		{[]string{"set", "env"}, (*Router).environment},
		{[]string{"history", "doskey", "get-history", "h"}, (*Router).history},
		{[]string{"tasklist", "get-process", "ps"}, (*Router).taskList},
		{[]string{"restore"}, (*Router).restore},
		{[]string{"recyclebin"}, (*Router).recycleBin},
		{[]string{"tree"}, (*Router).tree},
		{[]string{"find", "findstr", "where"}, (*Router).find},
		{[]string{"help"}, (*Router).help},
	}

	commands = make(map[string]handlerFunc)
	canonical = make(map[string]string)
	for _, entry := range table {
		for _, alias := range entry.aliases {
			commands[alias] = entry.handler
			canonical[alias] = entry.aliases[0]
		}
	}
}

// Execute runs one command line. It never panics: handler errors become an
// "Error: <message>" result with exit code 1.
func (r *Router) Execute(ctx Context, line string) (res Result) {
	if ctx.Shell == "" {
		ctx.Shell = terminal.ShellPowerShell
	}
	if ctx.CurrentDirectory == "" {
		ctx.CurrentDirectory = filesystem.HomeDirectory
	}
	ctx.CurrentDirectory = lib.Normalize(ctx.CurrentDirectory)

	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return Result{}
	}
	tokens, redirect := splitRedirect(tokens)
	if len(tokens) == 0 {
		return errorResult(fmt.Errorf("missing command before redirection"))
	}

	name := strings.ToLower(tokens[0])
	if name == "exit" {
		return Result{Output: "Session ended.", ExitCode: 0}
	}

	handler, ok := commands[name]
	if !ok {
		metrics.RecordCommand("unknown", 1)
		return notRecognized(ctx.Shell, tokens[0])
	}

	defer func() {
		if p := recover(); p != nil {
			logrus.WithField("command", name).Errorf("Command panicked: %v", p)
			res = errorResult(fmt.Errorf("%v", p))
		}
		metrics.RecordCommand(canonical[name], res.ExitCode)
	}()

	exists := func(tok string) bool { return r.fs.FileExists(lib.Resolve(ctx.CurrentDirectory, tok)) }
	inv := &invocation{name: name, args: parseArguments(tokens[1:], exists), ctx: &ctx}
	res, err := handler(r, inv)
	if err != nil {
		logrus.WithFields(logrus.Fields{"command": name, "session": ctx.SessionID}).Debugf("Command failed: %v", err)
		return errorResult(err)
	}
	if redirect != nil {
		return r.applyRedirect(inv, redirect, res)
	}
	return res
}

// Commands returns the canonical name of every command, sorted.
func Commands() []string {
	seen := map[string]bool{}
	var names []string
	for _, c := range canonical {
		if !seen[c] {
			seen[c] = true
			names = append(names, c)
		}
	}
	sort.Strings(names)
	return names
}

func errorResult(err error) Result {
	return Result{
		Output:   "Error: " + err.Error(),
		Error:    err.Error(),
		ExitCode: 1,
	}
}

// failure is a shell-formatted failure that is not an internal error.
func failure(msg string) Result {
	return Result{Output: msg, Error: msg, ExitCode: 1}
}

func notRecognized(shell terminal.ShellKind, name string) Result {
	var msg string
	if shell == terminal.ShellCmd {
		msg = fmt.Sprintf("'%s' is not recognized as an internal or external command,\noperable program or batch file.", name)
	} else {
		msg = fmt.Sprintf("%s : The term '%s' is not recognized as the name of a cmdlet, function, script file, or operable program.\n"+
			"Check the spelling of the name, or if a path was included, verify that the path is correct and try again.", name, name)
	}
	return Result{Output: msg, Error: "command not found: " + name, ExitCode: 1}
}

type redirection struct {
	target string
	append bool
}

// splitRedirect removes a trailing "> file" or ">> file" from tokens.
func splitRedirect(tokens []string) ([]string, *redirection) {
	for i, tok := range tokens {
		var redir *redirection
		switch {
		case tok == ">>" || tok == ">":
			if i+1 >= len(tokens) {
				return tokens[:i], &redirection{}
			}
			redir = &redirection{target: tokens[i+1], append: tok == ">>"}
		case strings.HasPrefix(tok, ">>"):
			redir = &redirection{target: tok[2:], append: true}
		case strings.HasPrefix(tok, ">"):
			redir = &redirection{target: tok[1:]}
		default:
			continue
		}
		return tokens[:i], redir
	}
	return tokens, nil
}

func (r *Router) applyRedirect(inv *invocation, redir *redirection, res Result) Result {
	if redir.target == "" {
		return errorResult(fmt.Errorf("missing file name after redirection"))
	}
	if res.ExitCode != 0 {
		return res
	}
	path := inv.resolve(redir.target)
	content := res.Output
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\r\n"
	}
	if redir.append {
		if existing, ok := r.fs.GetFile(path); ok && !existing.IsDir() {
			content = existing.Text() + content
		}
	}
	if _, err := r.fs.WriteFile(path, content); err != nil {
		return errorResult(err)
	}
	return Result{NewDirectory: res.NewDirectory}
}
