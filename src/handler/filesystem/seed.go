package filesystem

const (
	// HomeDirectory is the virtual profile directory of the simulated user.
	HomeDirectory = `C:\Users\User`
)

var seedDirectories = []string{
	`C:\`,
	`C:\Users`,
	HomeDirectory,
	HomeDirectory + `\Desktop`,
	HomeDirectory + `\Documents`,
	HomeDirectory + `\Downloads`,
	HomeDirectory + `\Pictures`,
	HomeDirectory + `\Videos`,
	HomeDirectory + `\Music`,
	`C:\Windows`,
	`C:\Windows\System32`,
	`C:\Program Files`,
	`C:\Program Files (x86)`,
}

var seedFiles = []struct {
	path    string
	content string
}{
	{
		path: HomeDirectory + `\Desktop\Welcome.txt`,
		content: "Welcome to Windows 11!\r\n\r\n" +
			"This desktop runs in your browser. Files you create here live in memory\r\n" +
			"and are reset when the server restarts.\r\n",
	},
	{
		path: HomeDirectory + `\Documents\README.md`,
		content: "# Documents\n\n" +
			"Use the terminal (PowerShell or Command Prompt) to explore the virtual drive:\n\n" +
			"- `dir` / `ls` to list files\n" +
			"- `cd` to change directory\n" +
			"- `type` to print a file\n" +
			"- `del` moves files to the Recycle Bin\n",
	},
}

// seed populates the default layout. Called once from NewFilesystem before
// the store is shared.
func (fs *Filesystem) seed() {
	for _, dir := range seedDirectories {
		fs.nodes[dir] = fs.newNode(dir, TypeDirectory, nil)
	}
	for _, f := range seedFiles {
		content := f.content
		fs.nodes[f.path] = fs.newNode(f.path, TypeFile, &content)
	}
}
