package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/livecode/internal/config"
	"github.com/zjrosen/livecode/internal/testutil"
	"github.com/zjrosen/livecode/internal/theme"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadPlayback(t *testing.T) {
	goFile := writeFile(t, "main.go", "package main\n")

	tests := []struct {
		name     string
		args     []string
		stdin    string
		flagName string
		flagLang string
		want     playback
	}{
		{
			name: "no argument opens setup",
			want: playback{},
		},
		{
			name: "file infers name and language",
			args: []string{goFile},
			want: playback{Code: "package main\n", FileName: "main.go", Language: "go"},
		},
		{
			name:     "explicit name drives detection",
			args:     []string{goFile},
			flagName: "lib.rs",
			want:     playback{Code: "package main\n", FileName: "lib.rs", Language: "rust"},
		},
		{
			name:     "explicit language wins",
			args:     []string{goFile},
			flagLang: "c",
			want:     playback{Code: "package main\n", FileName: "main.go", Language: "c"},
		},
		{
			name:  "stdin has no name",
			args:  []string{"-"},
			stdin: "print(1)\n",
			want:  playback{Code: "print(1)\n"},
		},
		{
			name:     "stdin with name",
			args:     []string{"-"},
			stdin:    "print(1)\n",
			flagName: "demo.py",
			want:     playback{Code: "print(1)\n", FileName: "demo.py", Language: "python"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readPlayback(tt.args, strings.NewReader(tt.stdin), tt.flagName, tt.flagLang)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestReadPlayback_MissingFile(t *testing.T) {
	_, err := readPlayback([]string{filepath.Join(t.TempDir(), "nope.go")}, nil, "", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "nope.go")
}

func TestLanguagesTable(t *testing.T) {
	table := languagesTable()
	lines := strings.Split(strings.TrimSpace(table), "\n")

	require.Equal(t, "| Tag | Language | Lexer |", lines[0])
	require.Equal(t, "| --- | --- | --- |", lines[1])
	require.Contains(t, table, "| go | Go | go |")
	require.Contains(t, table, "| cpp | C++ | c++ |")
	require.Contains(t, table, "| csharp | C# | c# |")
}

func TestRunTheme(t *testing.T) {
	themes := theme.NewStore(testutil.NewStore(t))
	ctx := context.Background()
	dark := func() bool { return true }

	var out bytes.Buffer
	require.NoError(t, runTheme(ctx, &out, themes, nil, dark))
	require.Equal(t, "system (dark)\n", out.String())

	out.Reset()
	require.NoError(t, runTheme(ctx, &out, themes, []string{"Light"}, dark))
	require.Equal(t, "theme set to light\n", out.String())

	out.Reset()
	require.NoError(t, runTheme(ctx, &out, themes, nil, dark))
	require.Equal(t, "light\n", out.String())

	err := runTheme(ctx, &out, themes, []string{"sepia"}, dark)
	require.ErrorIs(t, err, theme.ErrInvalidMode)
}

func TestSetConfigValue(t *testing.T) {
	path := writeFile(t, "config.yaml", config.DefaultConfigTemplate())

	require.NoError(t, setConfigValue(path, "speed", "1.5"))
	require.NoError(t, setConfigValue(path, "chroma_style.dark", "monokai"))
	require.NoError(t, setConfigValue(path, "ui.show_line_numbers", "false"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "# livecode configuration")
	require.Contains(t, content, "speed: 1.5")
	require.Contains(t, content, "dark: monokai")
	require.Contains(t, content, "show_line_numbers: false")
}

func TestSetConfigValue_RejectsInvalid(t *testing.T) {
	path := writeFile(t, "config.yaml", config.DefaultConfigTemplate())

	tests := []struct {
		key, value string
	}{
		{"speed", "-1"},
		{"chroma_style.light", "no-such-style"},
		{"language", "klingon"},
		{"", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			require.Error(t, setConfigValue(path, tt.key, tt.value))
		})
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfigTemplate(), string(data))
}

func TestSetConfigValue_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, setConfigValue(path, "language", "go"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "language: go\n", string(data))
}
