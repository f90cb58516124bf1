package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToText(t *testing.T) {
	html := `<html><head><style>.x{}</style><script>var python = 1;</script></head>
<body><nav>Menu</nav><h1>Senior Engineer</h1>
<p>We use <b>Python</b> and   SQL.</p>
<ul><li>Docker</li><li>Kubernetes</li></ul></body></html>`

	text, err := HTMLToText(html)
	require.NoError(t, err)

	assert.Contains(t, text, "Senior Engineer")
	assert.Contains(t, text, "We use Python and SQL.")
	assert.Contains(t, text, "Docker\nKubernetes")
	assert.NotContains(t, text, "var python")
	assert.NotContains(t, text, "Menu")
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, LooksLikeHTML("<div>hello</div>"))
	assert.True(t, LooksLikeHTML("<!doctype html><HTML><body>x</body></HTML>"))
	assert.False(t, LooksLikeHTML("Need Python < 3 years? no."))
	assert.False(t, LooksLikeHTML("plain text"))
}

func TestIsTextFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"jd.txt", true},
		{"jd.MD", true},
		{"posting.html", true},
		{"posting.htm", true},
		{"scan.pdf", false},
		{"noext", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTextFile(tt.name))
		})
	}
}

func TestCheckInputFile(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "jd.txt")
	big := filepath.Join(dir, "big.txt")
	require.NoError(t, os.WriteFile(small, []byte("python"), 0600))
	require.NoError(t, os.WriteFile(big, []byte(strings.Repeat("a", 2048)), 0600))

	tests := []struct {
		name    string
		path    string
		maxSize int64
		wantErr error
		errText string
	}{
		{name: "readable file", path: small, maxSize: 1024},
		{name: "no limit", path: big},
		{name: "empty path", path: "", errText: "no input file"},
		{name: "directory", path: dir, wantErr: ErrNotRegularFile},
		{name: "missing", path: filepath.Join(dir, "missing.txt"), errText: "does not exist"},
		{name: "over limit", path: big, maxSize: 1024, wantErr: ErrFileTooLarge, errText: "2.0 KiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckInputFile(tt.path, tt.maxSize)
			if tt.wantErr == nil && tt.errText == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestEnsureParentDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "history.db")
	require.NoError(t, EnsureParentDir(target))
	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, EnsureParentDir("history.db"))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KiB", FormatFileSize(1536))
	assert.Equal(t, "1.0 MiB", FormatFileSize(1024*1024))
}
