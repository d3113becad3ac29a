package terminal

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
)

// ShellKind is the flavour of shell a session emulates.
type ShellKind string

const (
	ShellPowerShell ShellKind = "powershell"
	ShellCmd        ShellKind = "cmd"
)

const (
	// ComputerName and UserName identify the simulated machine.
	ComputerName = "WIN11-DESKTOP"
	UserName     = "User"
)

// ParseShellKind maps a client supplied shell name to a ShellKind. Anything
// that is not recognisably cmd is treated as PowerShell.
func ParseShellKind(s string) ShellKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cmd", "cmd.exe", "command prompt":
		return ShellCmd
	default:
		return ShellPowerShell
	}
}

// Prompt renders the prompt the shell shows for dir.
func (k ShellKind) Prompt(dir string) string {
	if k == ShellCmd {
		return dir + ">"
	}
	return "PS " + dir + "> "
}

// shellCommand returns the executable and arguments for an interactive shell
// of kind that stays open.
func shellCommand(kind ShellKind) (string, []string) {
	if runtime.GOOS == "windows" {
		if kind == ShellCmd {
			return "cmd.exe", []string{"/K"}
		}
		return "powershell.exe", []string{"-NoLogo", "-NoExit"}
	}

	if kind == ShellPowerShell {
		if path, err := exec.LookPath("pwsh"); err == nil {
			return path, []string{"-NoLogo"}
		}
	}
	return findShell(), nil
}

// findShell returns the best available POSIX shell
func findShell() string {
	// Check SHELL env first
	if shell := os.Getenv("SHELL"); shell != "" {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}

	// Try common shells in order of preference
	shells := []string{"/bin/zsh", "/bin/bash", "/bin/sh", "/bin/ash"}
	for _, shell := range shells {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}

	// Fallback
	return "/bin/sh"
}

// startDirectory is the host directory the shell process starts in.
func startDirectory() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if _, err := os.Stat(home); err == nil {
			return home
		}
	}
	if runtime.GOOS == "windows" {
		return `C:\Users\Public`
	}
	return "/tmp"
}

// syntheticEnv is the environment the simulated commands report. It does not
// depend on the host.
func syntheticEnv(kind ShellKind) map[string]string {
	home := filesystem.HomeDirectory
	env := map[string]string{
		"COMPUTERNAME":           ComputerName,
		"USERNAME":               UserName,
		"USERDOMAIN":             ComputerName,
		"USERPROFILE":            home,
		"HOMEDRIVE":              "C:",
		"HOMEPATH":               strings.TrimPrefix(home, "C:"),
		"APPDATA":                home + `\AppData\Roaming`,
		"LOCALAPPDATA":           home + `\AppData\Local`,
		"TEMP":                   home + `\AppData\Local\Temp`,
		"TMP":                    home + `\AppData\Local\Temp`,
		"SystemDrive":            "C:",
		"SystemRoot":             `C:\Windows`,
		"windir":                 `C:\Windows`,
		"ProgramFiles":           `C:\Program Files`,
		"ProgramFiles(x86)":      `C:\Program Files (x86)`,
		"OS":                     "Windows_NT",
		"PROCESSOR_ARCHITECTURE": "AMD64",
		"NUMBER_OF_PROCESSORS":   "8",
		"PATHEXT":                ".COM;.EXE;.BAT;.CMD;.VBS;.JS;.PS1",
		"Path": `C:\Windows\system32;C:\Windows;C:\Windows\System32\Wbem;` +
			`C:\Windows\System32\WindowsPowerShell\v1.0\`,
	}
	if kind == ShellCmd {
		env["PROMPT"] = "$P$G"
		env["ComSpec"] = `C:\Windows\system32\cmd.exe`
	} else {
		env["PSModulePath"] = `C:\Program Files\WindowsPowerShell\Modules;C:\Windows\system32\WindowsPowerShell\v1.0\Modules`
	}
	return env
}
