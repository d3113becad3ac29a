package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/handler/terminal"
)

func TestChangeDirectory(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name    string
		shell   terminal.ShellKind
		line    string
		wantDir string
		wantOut string
		code    int
	}{
		{"relative", terminal.ShellCmd, "cd Documents", `C:\Users\User\Documents`, "", 0},
		{"parent", terminal.ShellCmd, "cd ..", `C:\Users`, "", 0},
		{"root", terminal.ShellCmd, `cd \`, `C:\`, "", 0},
		{"forward slashes", terminal.ShellPowerShell, "cd C:/Windows/System32", `C:\Windows\System32`, "", 0},
		{"quoted", terminal.ShellCmd, `cd "C:\Program Files"`, `C:\Program Files`, "", 0},
		{"home", terminal.ShellPowerShell, `cd ~\Music`, `C:\Users\User\Music`, "", 0},
		{"cmd no argument", terminal.ShellCmd, "cd", "", filesystem.HomeDirectory, 0},
		{"powershell no argument", terminal.ShellPowerShell, "cd", filesystem.HomeDirectory, "", 0},
		{"cmd missing", terminal.ShellCmd, "cd nowhere", "", "The system cannot find the path specified.", 1},
		{"cmd file", terminal.ShellCmd, `cd Desktop\Welcome.txt`, "", "The directory name is invalid.", 1},
		{"powershell missing", terminal.ShellPowerShell, "cd nowhere", "", `Set-Location : Cannot find path 'C:\Users\User\nowhere' because it does not exist.`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.run(tt.shell, tt.line)
			assert.Equal(t, tt.code, res.ExitCode)
			assert.Equal(t, tt.wantDir, res.NewDirectory)
			assert.Equal(t, tt.wantOut, res.Output)
		})
	}
}

func TestListDirectory(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("cmd listing", func(t *testing.T) {
		res := env.run(terminal.ShellCmd, "dir Desktop")
		require.Equal(t, 0, res.ExitCode)
		assert.Contains(t, res.Output, ` Directory of C:\Users\User\Desktop`)
		assert.Contains(t, res.Output, "Welcome.txt")
		assert.Contains(t, res.Output, "03/05/2024  02:30 PM")
		assert.Contains(t, res.Output, "1 File(s)")
		assert.Contains(t, res.Output, "0 Dir(s)")
	})

	t.Run("powershell listing", func(t *testing.T) {
		res := env.run(terminal.ShellPowerShell, "ls")
		require.Equal(t, 0, res.ExitCode)
		assert.Contains(t, res.Output, `Directory: C:\Users\User`)
		assert.Contains(t, res.Output, "d-----")
		assert.Contains(t, res.Output, "Documents")
	})

	t.Run("wildcard", func(t *testing.T) {
		res := env.run(terminal.ShellCmd, `dir /b Desktop\*.TXT`)
		assert.Equal(t, "Welcome.txt", res.Output)

		res = env.run(terminal.ShellCmd, `dir /b Desktop\*.exe`)
		assert.Equal(t, "File Not Found", res.Output)
		assert.Equal(t, 1, res.ExitCode)

		res = env.run(terminal.ShellPowerShell, `ls Desktop\*.exe`)
		assert.Equal(t, 0, res.ExitCode)
		assert.Empty(t, res.Output)
	})

	t.Run("single file", func(t *testing.T) {
		res := env.run(terminal.ShellPowerShell, `ls -Name Documents\README.md`)
		assert.Equal(t, "README.md", res.Output)
	})

	t.Run("missing", func(t *testing.T) {
		res := env.run(terminal.ShellPowerShell, "ls nowhere")
		assert.Equal(t, 1, res.ExitCode)
		assert.Contains(t, res.Output, "Get-ChildItem : Cannot find path")
	})
}

func TestShowContent(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.fs.WriteFile(`C:\Users\User\a.txt`, "alpha\r\n")
	require.NoError(t, err)
	_, err = env.fs.WriteFile(`C:\Users\User\b.txt`, "beta")
	require.NoError(t, err)

	res := env.run(terminal.ShellCmd, "type a.txt b.txt")
	assert.Equal(t, "alpha\nbeta", res.Output)

	res = env.run(terminal.ShellPowerShell, "cat *.txt")
	assert.Equal(t, "alpha\nbeta", res.Output)

	res = env.run(terminal.ShellCmd, "type Documents")
	assert.Equal(t, "Access is denied.", res.Output)
	assert.Equal(t, 1, res.ExitCode)

	res = env.run(terminal.ShellCmd, "type missing.txt")
	assert.Equal(t, "The system cannot find the file specified.", res.Output)
}

func TestMakeDirectoryAndNewItem(t *testing.T) {
	env := newTestEnv(t, nil)

	res := env.run(terminal.ShellCmd, `mkdir Projects\go\src`)
	require.Equal(t, 0, res.ExitCode)
	assert.True(t, env.fs.IsDirectory(`C:\Users\User\Projects\go\src`))

	res = env.run(terminal.ShellCmd, "mkdir Projects")
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "A subdirectory or file Projects already exists.", res.Output)

	res = env.run(terminal.ShellPowerShell, "New-Item -ItemType Directory -Path Work")
	require.Equal(t, 0, res.ExitCode)
	assert.True(t, env.fs.IsDirectory(`C:\Users\User\Work`))
	assert.Contains(t, res.Output, "Work")

	res = env.run(terminal.ShellPowerShell, `New-Item notes.txt -Value "first line"`)
	require.Equal(t, 0, res.ExitCode)
	node, _ := env.fs.GetFile(`C:\Users\User\notes.txt`)
	assert.Equal(t, "first line", node.Text())

	res = env.run(terminal.ShellPowerShell, "New-Item notes.txt")
	assert.Equal(t, 1, res.ExitCode)

	res = env.run(terminal.ShellPowerShell, "touch notes.txt")
	assert.Equal(t, 0, res.ExitCode)
	node, _ = env.fs.GetFile(`C:\Users\User\notes.txt`)
	assert.Equal(t, "first line", node.Text())

	res = env.run(terminal.ShellPowerShell, "New-Item notes.txt -Force")
	assert.Equal(t, 0, res.ExitCode)
	node, _ = env.fs.GetFile(`C:\Users\User\notes.txt`)
	assert.Equal(t, "", node.Text())

	res = env.run(terminal.ShellPowerShell, "touch Documents")
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Error, filesystem.ErrIsDirectory.Error())
}

func TestCopyMoveRename(t *testing.T) {
	env := newTestEnv(t, nil)

	res := env.run(terminal.ShellCmd, `copy Desktop\Welcome.txt Documents`)
	require.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "        1 file(s) copied.", res.Output)
	assert.True(t, env.fs.FileExists(`C:\Users\User\Documents\Welcome.txt`))
	assert.True(t, env.fs.FileExists(`C:\Users\User\Desktop\Welcome.txt`))

	res = env.run(terminal.ShellCmd, `move Documents\Welcome.txt Downloads\moved.txt`)
	require.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "        1 file(s) moved.", res.Output)
	assert.False(t, env.fs.FileExists(`C:\Users\User\Documents\Welcome.txt`))
	assert.True(t, env.fs.FileExists(`C:\Users\User\Downloads\moved.txt`))

	res = env.run(terminal.ShellCmd, "move Music Videos")
	require.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "        1 dir(s) moved.", res.Output)
	assert.True(t, env.fs.IsDirectory(`C:\Users\User\Videos\Music`))

	res = env.run(terminal.ShellPowerShell, `Rename-Item Downloads\moved.txt renamed.txt`)
	require.Equal(t, 0, res.ExitCode)
	assert.True(t, env.fs.FileExists(`C:\Users\User\Downloads\renamed.txt`))

	res = env.run(terminal.ShellCmd, `ren Downloads\renamed.txt ..\Desktop\x.txt`)
	assert.Equal(t, 1, res.ExitCode)

	_, err := env.fs.WriteFile(`C:\Users\User\Downloads\other.txt`, "")
	require.NoError(t, err)
	res = env.run(terminal.ShellCmd, `ren Downloads\renamed.txt other.txt`)
	assert.Equal(t, "A duplicate file name exists, or the file\ncannot be found.", res.Output)

	res = env.run(terminal.ShellCmd, "copy ghost.txt Documents")
	assert.Equal(t, "The system cannot find the file specified.", res.Output)
}

func TestNamedSourceWithPositionalTarget(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.fs.WriteFile(`C:\Users\User\a.txt`, "alpha")
	require.NoError(t, err)

	res := env.run(terminal.ShellPowerShell, "Copy-Item -Path a.txt b.txt")
	require.Equal(t, 0, res.ExitCode, res.Output)
	node, ok := env.fs.GetFile(`C:\Users\User\b.txt`)
	require.True(t, ok)
	assert.Equal(t, "alpha", node.Text())

	res = env.run(terminal.ShellPowerShell, "Move-Item b.txt -Destination Documents")
	require.Equal(t, 0, res.ExitCode, res.Output)
	assert.True(t, env.fs.FileExists(`C:\Users\User\Documents\b.txt`))

	res = env.run(terminal.ShellPowerShell, "Rename-Item -Path a.txt c.txt")
	require.Equal(t, 0, res.ExitCode, res.Output)
	assert.True(t, env.fs.FileExists(`C:\Users\User\c.txt`))
	assert.False(t, env.fs.FileExists(`C:\Users\User\a.txt`))

	res = env.run(terminal.ShellPowerShell, "Rename-Item -Path c.txt")
	assert.Equal(t, 1, res.ExitCode)
}

func TestShortSlashPaths(t *testing.T) {
	env := newTestEnv(t, nil)
	env.fs.MkdirAll(`C:\Go`)

	res := env.run(terminal.ShellCmd, "cd /Go")
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, `C:\Go`, res.NewDirectory)

	res = env.run(terminal.ShellCmd, "dir /Go")
	require.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Output, `Directory of C:\Go`)
}

func TestRemoveItemRecycles(t *testing.T) {
	env := newTestEnv(t, nil)

	res := env.run(terminal.ShellCmd, `del Desktop\Welcome.txt`)
	require.Equal(t, 0, res.ExitCode)
	assert.False(t, env.fs.FileExists(`C:\Users\User\Desktop\Welcome.txt`))

	entries := env.bin.List()
	require.Len(t, entries, 1)
	assert.Equal(t, `C:\Users\User\Desktop\Welcome.txt`, entries[0].OriginalPath)

	res = env.run(terminal.ShellCmd, `del Desktop\Welcome.txt`)
	assert.Equal(t, `Could Not Find C:\Users\User\Desktop\Welcome.txt`, res.Output)

	res = env.run(terminal.ShellPowerShell, "Remove-Item Documents")
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Error, filesystem.ErrDirectoryNotEmpty.Error())

	res = env.run(terminal.ShellPowerShell, "Remove-Item Documents -Recurse")
	require.Equal(t, 0, res.ExitCode)
	assert.False(t, env.fs.FileExists(`C:\Users\User\Documents`))
	assert.Equal(t, 3, env.bin.Len())

	res = env.run(terminal.ShellPowerShell, "recycle Pictures")
	require.Equal(t, 0, res.ExitCode)
	assert.False(t, env.fs.FileExists(`C:\Users\User\Pictures`))
}

func TestRemoveDirectory(t *testing.T) {
	env := newTestEnv(t, nil)

	res := env.run(terminal.ShellCmd, "rmdir Documents")
	assert.Equal(t, "The directory is not empty.", res.Output)
	assert.True(t, env.fs.IsDirectory(`C:\Users\User\Documents`))

	res = env.run(terminal.ShellCmd, "rd /s /q Documents")
	require.Equal(t, 0, res.ExitCode)
	assert.False(t, env.fs.FileExists(`C:\Users\User\Documents`))

	res = env.run(terminal.ShellCmd, "rmdir Music")
	require.Equal(t, 0, res.ExitCode)

	res = env.run(terminal.ShellCmd, `rmdir Desktop\Welcome.txt`)
	assert.Equal(t, "The directory name is invalid.", res.Output)

	res = env.runIn(terminal.ShellCmd, `C:\Users\User\Videos`, `rmdir C:\Users\User\Videos`)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Output, "being used by another process")
}

func TestTree(t *testing.T) {
	env := newTestEnv(t, nil)

	res := env.run(terminal.ShellCmd, "tree")
	require.Equal(t, 0, res.ExitCode)
	lines := strings.Split(res.Output, "\n")
	assert.Equal(t, "Folder PATH listing", lines[0])
	assert.Equal(t, `C:\USERS\USER`, lines[2])
	assert.Equal(t, "├───Desktop", lines[3])
	assert.Equal(t, "└───Videos", lines[len(lines)-1])

	res = env.run(terminal.ShellCmd, `tree /f Desktop`)
	assert.Contains(t, res.Output, "    Welcome.txt")

	res = env.run(terminal.ShellCmd, `tree Desktop`)
	assert.Contains(t, res.Output, "No subfolders exist")

	res = env.run(terminal.ShellCmd, "tree nowhere")
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Output, "Invalid path")
}

func TestFind(t *testing.T) {
	env := newTestEnv(t, nil)

	res := env.run(terminal.ShellCmd, "find welcome")
	require.Equal(t, 0, res.ExitCode)
	assert.Contains(t, strings.Split(res.Output, "\n"), `C:\Users\User\Desktop\Welcome.txt`)

	res = env.run(terminal.ShellCmd, `find README C:\Users\User\Documents`)
	assert.Equal(t, `C:\Users\User\Documents\README.md`, res.Output)

	res = env.run(terminal.ShellCmd, "find qqqqzzzz")
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "INFO: Could not find files for the given pattern(s).", res.Output)
}
