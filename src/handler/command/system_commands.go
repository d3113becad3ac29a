package command

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/handler/terminal"
	"github.com/manojxshrestha/win11web-sub000/src/metrics"
)

const windowsVersion = "10.0.22631.4317"

func (r *Router) echo(inv *invocation) (Result, error) {
	words := inv.args.positional
	if len(words) == 0 {
		if inv.cmd() {
			return Result{Output: "ECHO is on."}, nil
		}
		return Result{}, nil
	}
	return Result{Output: strings.Join(words, " ")}, nil
}

func (r *Router) printDirectory(inv *invocation) (Result, error) {
	if inv.cmd() {
		return Result{Output: inv.ctx.CurrentDirectory}, nil
	}
	return Result{Output: psTable([]string{"Path"}, [][]string{{inv.ctx.CurrentDirectory}})}, nil
}

func (r *Router) clearScreen(inv *invocation) (Result, error) {
	return Result{Output: "\x1b[2J\x1b[3J\x1b[H", Clear: true}, nil
}

func (r *Router) envValue(inv *invocation, key, fallback string) string {
	if v, ok := inv.ctx.Env[key]; ok && v != "" {
		return v
	}
	return fallback
}

func (r *Router) whoami(inv *invocation) (Result, error) {
	host := r.envValue(inv, "COMPUTERNAME", terminal.ComputerName)
	user := r.envValue(inv, "USERNAME", terminal.UserName)
	return Result{Output: strings.ToLower(host + `\` + user)}, nil
}

func (r *Router) hostname(inv *invocation) (Result, error) {
	return Result{Output: r.envValue(inv, "COMPUTERNAME", terminal.ComputerName)}, nil
}

func (r *Router) version(inv *invocation) (Result, error) {
	return Result{Output: "\nMicrosoft Windows [Version " + windowsVersion + "]"}, nil
}

func (r *Router) environment(inv *invocation) (Result, error) {
	filter := ""
	if len(inv.args.positional) > 0 {
		filter = inv.args.positional[0]
	}
	if strings.Contains(filter, "=") {
		return failure("The environment of this session is read-only."), nil
	}

	keys := make([]string, 0, len(inv.ctx.Env))
	for k := range inv.ctx.Env {
		if filter == "" || strings.HasPrefix(strings.ToLower(k), strings.ToLower(filter)) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return strings.ToLower(keys[i]) < strings.ToLower(keys[j]) })

	if len(keys) == 0 {
		if inv.cmd() {
			return failure("Environment variable " + filter + " not defined"), nil
		}
		return Result{}, nil
	}

	if inv.cmd() {
		lines := make([]string, len(keys))
		for i, k := range keys {
			lines[i] = k + "=" + inv.ctx.Env[k]
		}
		return Result{Output: strings.Join(lines, "\n")}, nil
	}
	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{k, inv.ctx.Env[k]}
	}
	return Result{Output: psTable([]string{"Name", "Value"}, rows)}, nil
}

func (r *Router) history(inv *invocation) (Result, error) {
	lines := inv.ctx.History
	if n, ok := inv.args.value("count"); ok {
		count, err := strconv.Atoi(n)
		if err != nil || count < 0 {
			return Result{}, fmt.Errorf("invalid count %q", n)
		}
		if count < len(lines) {
			lines = lines[len(lines)-count:]
		}
	}
	if len(lines) == 0 {
		return Result{}, nil
	}
	if inv.cmd() {
		return Result{Output: strings.Join(lines, "\n")}, nil
	}

	offset := len(inv.ctx.History) - len(lines)
	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = []string{fmt.Sprintf("%4d", offset+i+1), l}
	}
	return Result{Output: psTable([]string{"  Id", "CommandLine"}, rows)}, nil
}

type processRow struct {
	name   string
	pid    int
	memory int64 // KB
}

// systemProcesses are always present on the simulated machine.
var systemProcesses = []processRow{
	{"System Idle Process", 0, 8},
	{"System", 4, 144},
	{"Registry", 92, 42120},
	{"smss.exe", 384, 1104},
	{"csrss.exe", 612, 5480},
	{"wininit.exe", 704, 6712},
	{"services.exe", 776, 10244},
	{"lsass.exe", 796, 21500},
	{"svchost.exe", 924, 31888},
	{"dwm.exe", 1180, 98420},
	{"explorer.exe", 4312, 162340},
	{"SearchHost.exe", 5120, 210556},
	{"msedge.exe", 6844, 184212},
}

func (r *Router) processes() []processRow {
	rows := append([]processRow{}, systemProcesses...)
	if r.procs == nil {
		return rows
	}
	for _, p := range r.procs.Processes() {
		name := "powershell.exe"
		if p.Shell == terminal.ShellCmd {
			name = "cmd.exe"
		}
		rows = append(rows, processRow{name: name, pid: p.Pid, memory: 65536})
	}
	return rows
}

func (r *Router) taskList(inv *invocation) (Result, error) {
	rows := r.processes()

	if inv.cmd() {
		var b strings.Builder
		b.WriteString("\nImage Name                     PID Session Name        Session#    Mem Usage\n")
		b.WriteString("========================= ======== ================ =========== ============\n")
		for _, p := range rows {
			session, num := "Console", 1
			if p.pid < 1000 {
				session, num = "Services", 0
			}
			fmt.Fprintf(&b, "%-25s %8d %-16s %11d %12s\n", p.name, p.pid, session, num, commas(p.memory)+" K")
		}
		return Result{Output: strings.TrimRight(b.String(), "\n")}, nil
	}

	table := make([][]string, 0, len(rows))
	for _, p := range rows {
		name := strings.TrimSuffix(p.name, ".exe")
		table = append(table, []string{
			fmt.Sprintf("%7s", strconv.FormatInt(p.memory/1024, 10)),
			fmt.Sprintf("%5d", p.pid),
			name,
		})
	}
	return Result{Output: psTable([]string{"  WS(MB)", "   Id", "ProcessName"}, table)}, nil
}

func (r *Router) recycleBin(inv *invocation) (Result, error) {
	if inv.args.has("empty", "e") || (len(inv.args.positional) > 0 && strings.EqualFold(inv.args.positional[0], "empty")) {
		n := r.bin.Empty()
		metrics.SetRecycleBinItems(r.bin.Len())
		return Result{Output: fmt.Sprintf("Emptied the Recycle Bin (%d item(s)).", n)}, nil
	}

	entries := r.bin.List()
	if len(entries) == 0 {
		return Result{Output: "The Recycle Bin is empty."}, nil
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.ID, e.DeletedAt.Format("1/2/2006 3:04 PM"), string(e.Type), e.OriginalPath}
	}
	return Result{Output: psTable([]string{"Id", "Deleted", "Type", "OriginalPath"}, rows)}, nil
}

// restore brings back a recycle bin entry by id, or the most recently
// deleted entry whose original path matches the argument.
func (r *Router) restore(inv *invocation) (Result, error) {
	arg, ok := inv.args.arg(0, "path")
	if !ok {
		return Result{}, errMissingOperand
	}

	entry, ok := r.bin.Get(arg)
	if !ok {
		target := inv.resolve(arg)
		for _, e := range r.bin.List() {
			if strings.EqualFold(e.OriginalPath, target) {
				entry, ok = e, true
				break
			}
		}
	}
	if !ok {
		return failure(fmt.Sprintf("No item named '%s' in the Recycle Bin.", arg)), nil
	}

	restored, err := r.bin.Restore(entry.ID)
	if err != nil {
		return Result{}, err
	}
	if !restored {
		return Result{}, &filesystem.Error{Op: filesystem.OpRestore, Path: entry.OriginalPath, Err: filesystem.ErrNotFound}
	}
	return Result{Output: "Restored " + entry.OriginalPath}, nil
}

var helpText = map[string]string{
	"cd":         "Displays the name of or changes the current directory.",
	"dir":        "Displays a list of files and subdirectories in a directory.",
	"type":       "Displays the contents of a text file.",
	"mkdir":      "Creates a directory.",
	"touch":      "Creates an empty file or updates its timestamp.",
	"echo":       "Displays messages.",
	"copy":       "Copies files and directories to another location.",
	"move":       "Moves files and directories.",
	"ren":        "Renames a file or directory.",
	"del":        "Moves files to the Recycle Bin.",
	"rmdir":      "Moves a directory to the Recycle Bin.",
	"pwd":        "Prints the current directory.",
	"cls":        "Clears the screen.",
	"whoami":     "Displays the current user.",
	"hostname":   "Prints the name of the computer.",
	"ver":        "Displays the Windows version.",
	"set":        "Displays environment variables.",
	"history":    "Displays the command history.",
	"tasklist":   "Displays all currently running processes.",
	"restore":    "Restores an item from the Recycle Bin.",
	"recyclebin": "Lists or empties the Recycle Bin.",
	"tree":       "Graphically displays the folder structure of a drive or path.",
	"find":       "Searches for files by name.",
	"help":       "Provides help information for commands.",
}

func (r *Router) help(inv *invocation) (Result, error) {
	if len(inv.args.positional) > 0 {
		name := strings.ToLower(inv.args.positional[0])
		c, ok := canonical[name]
		if !ok {
			return Result{}, errors.New("this command is not supported by the help utility")
		}
		aliases := aliasesOf(c)
		return Result{Output: fmt.Sprintf("%s\n\nAliases: %s", helpText[c], strings.Join(aliases, ", "))}, nil
	}

	var b strings.Builder
	b.WriteString("For more information on a specific command, type HELP command-name\n")
	for _, c := range Commands() {
		fmt.Fprintf(&b, "%-12s%s\n", strings.ToUpper(c), helpText[c])
	}
	return Result{Output: strings.TrimRight(b.String(), "\n")}, nil
}

func aliasesOf(name string) []string {
	var out []string
	for alias, c := range canonical {
		if c == name {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}
