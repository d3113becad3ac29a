package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "relative backslash", input: `foo\bar`, expected: `C:\foo\bar`},
		{name: "relative slash", input: "foo/bar", expected: `C:\foo\bar`},
		{name: "absolute", input: `C:\foo\bar`, expected: `C:\foo\bar`},
		{name: "trailing separator", input: `C:\foo\`, expected: `C:\foo`},
		{name: "drive root kept", input: `C:\`, expected: `C:\`},
		{name: "bare drive", input: "D:", expected: `D:\`},
		{name: "empty", input: "", expected: `C:\`},
		{name: "leading separator", input: `\Windows`, expected: `C:\Windows`},
		{name: "double separators", input: `C:\\Users//User`, expected: `C:\Users\User`},
		{name: "case preserved", input: `c:\Users\USER`, expected: `c:\Users\USER`},
		{name: "dots untouched", input: `C:\a\..\b`, expected: `C:\a\..\b`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", `\`, "/", "x", `x\`, `C:`, `C:\`, `a//b\\c/`, `Z:\q\r\`, `..\x`, "C:foo"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestSegmentsAndName(t *testing.T) {
	assert.Equal(t, []string{"C:", "Users", "User"}, Segments(`C:\Users\User`))
	assert.Equal(t, []string{"C:"}, Segments(`C:\`))
	assert.Equal(t, "User", Name(`C:\Users\User\`))
	assert.Equal(t, "C:", Name(`C:\`))
}

func TestParent(t *testing.T) {
	assert.Equal(t, `C:\Users`, Parent(`C:\Users\User`))
	assert.Equal(t, `C:\`, Parent(`C:\Users`))
	assert.Equal(t, `C:\`, Parent(`C:\`))
}

func TestIsChildOf(t *testing.T) {
	assert.True(t, IsChildOf(`C:\Foo\a.txt`, `C:\Foo`))
	assert.True(t, IsChildOf(`C:\Foo`, `C:\`))
	assert.False(t, IsChildOf(`C:\Foobar`, `C:\Foo`))
	assert.False(t, IsChildOf(`C:\Foo\a\b`, `C:\Foo`))
	assert.False(t, IsChildOf(`C:\Foo`, `C:\Foo`))
}

func TestIsWithin(t *testing.T) {
	assert.True(t, IsWithin(`C:\Foo`, `C:\Foo`))
	assert.True(t, IsWithin(`C:\Foo\a\b`, `C:\Foo`))
	assert.False(t, IsWithin(`C:\Foobar\a`, `C:\Foo`))
	assert.True(t, IsWithin(`C:\anything`, `C:\`))
}

func TestRebase(t *testing.T) {
	assert.Equal(t, `C:\B\x\y.txt`, Rebase(`C:\A\x\y.txt`, `C:\A`, `C:\B`))
	assert.Equal(t, `C:\B`, Rebase(`C:\A`, `C:\A`, `C:\B`))
}

func TestResolve(t *testing.T) {
	cwd := `C:\Users\User\Desktop`
	testCases := []struct {
		name     string
		arg      string
		expected string
	}{
		{name: "relative", arg: "notes", expected: `C:\Users\User\Desktop\notes`},
		{name: "dot", arg: ".", expected: cwd},
		{name: "parent", arg: "..", expected: `C:\Users\User`},
		{name: "parent then child", arg: `..\Documents`, expected: `C:\Users\User\Documents`},
		{name: "slashes", arg: "../Documents/", expected: `C:\Users\User\Documents`},
		{name: "absolute", arg: `C:\Windows`, expected: `C:\Windows`},
		{name: "rooted", arg: `\Windows`, expected: `C:\Windows`},
		{name: "bare drive", arg: "C:", expected: `C:\`},
		{name: "above root", arg: `..\..\..\..\..`, expected: `C:\`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Resolve(cwd, tc.arg))
		})
	}
}
