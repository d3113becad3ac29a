package filesystem

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
)

func TestWatch(t *testing.T) {
	testCases := []struct {
		name      string
		recursive bool
		expected  []string
	}{
		{
			name:      "direct children only",
			recursive: false,
			expected:  []string{`C:\w\a.txt`, `C:\w\sub`},
		},
		{
			name:      "recursive",
			recursive: true,
			expected:  []string{`C:\w\a.txt`, `C:\w\sub`, `C:\w\sub\b.txt`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fs := NewFilesystem()
			fs.CreateDirectory(`C:\w`)

			var got []string
			stop := fs.Watch(`C:\w`, tc.recursive, func(ev fsnotify.Event) {
				got = append(got, ev.Name)
			})
			fs.CreateFile(`C:\w\a.txt`, "")
			fs.CreateDirectory(`C:\w\sub`)
			fs.CreateFile(`C:\w\sub\b.txt`, "")
			fs.CreateFile(`C:\wx.txt`, "")

			stop()
			fs.CreateFile(`C:\w\late.txt`, "")

			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestWatch_Ops(t *testing.T) {
	fs := NewFilesystem()
	bin := NewRecycleBin(fs)

	var ops []fsnotify.Op
	stop := fs.Watch(`C:\`, false, func(ev fsnotify.Event) {
		ops = append(ops, ev.Op)
	})
	defer stop()

	_, _ = fs.WriteFile(`C:\x.txt`, "1")
	_, _ = fs.WriteFile(`C:\x.txt`, "2")
	_, _ = fs.MoveFile(`C:\x.txt`, `C:\y.txt`)
	bin.Recycle(`C:\y.txt`)

	assert.Equal(t, []fsnotify.Op{
		fsnotify.Create,
		fsnotify.Write,
		fsnotify.Rename,
		fsnotify.Create,
		fsnotify.Remove,
	}, ops)
}

func TestWatch_PanicIsContained(t *testing.T) {
	fs := NewFilesystem()
	stop := fs.Watch(`C:\`, true, func(fsnotify.Event) { panic("boom") })
	defer stop()

	assert.NotPanics(t, func() { fs.CreateFile(`C:\p.txt`, "") })
	assert.True(t, fs.FileExists(`C:\p.txt`))
}
