package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdlint/internal/diag"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFileName), `
[analysis]
exclude = ["**/Generated/**"]
jobs = 2
max_diagnostics = 50

[format]
indent = "\t"

[rules]
ATSCG002 = "error"
ATSCG003 = "off"
`)
	sub := filepath.Join(root, "src", "Commands")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	cfg, err := Load(sub)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ConfigFileName), cfg.Path)
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, []string{"**/*.cs"}, cfg.Analysis.Include)
	assert.Equal(t, []string{"**/Generated/**"}, cfg.Analysis.Exclude)
	assert.Equal(t, 2, cfg.Analysis.Jobs)
	assert.Equal(t, 50, cfg.Analysis.MaxDiagnostics)
	assert.Equal(t, "\t", cfg.Format.Indent)

	ov, ignored, err := cfg.Overrides()
	require.NoError(t, err)
	assert.Empty(t, ignored)
	assert.Equal(t, diag.Override{Severity: diag.SevError}, ov[diag.CmdGeneratorAttributeMissing])
	assert.True(t, ov[diag.CmdRootCommandMissing].Disabled)
}

func TestLoadWithoutFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, Default(dir), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[analysis\n", "failed to parse TOML"},
		{"unknown key", "[analysis]\nthreads = 4\n", `unknown key "analysis.threads"`},
		{"unknown rule", "[rules]\nCA1000 = \"error\"\n", `unknown rule "CA1000"`},
		{"bad severity", "[rules]\nATSCG002 = \"fatal\"\n", `unknown severity "fatal"`},
		{"negative jobs", "[analysis]\njobs = -1\n", "jobs must not be negative"},
		{"bad glob", "[analysis]\ninclude = [\"src/[\"]\n", `invalid glob "src/["`},
		{"bad indent", "[format]\nindent = \"xx\"\n", "may only contain spaces or tabs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFileName)
			writeFile(t, path, tt.content)
			_, err := LoadFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOverridesIgnoreNonConfigurable(t *testing.T) {
	cfg := Default(".")
	cfg.Rules = map[string]string{"atscg001": "off", "ATSCG002": "info"}

	ov, ignored, err := cfg.Overrides()
	require.NoError(t, err)
	assert.Equal(t, []string{"ATSCG001"}, ignored)
	assert.NotContains(t, ov, diag.CmdBindHandlerMissing)
	assert.Equal(t, diag.SevInfo, ov[diag.CmdGeneratorAttributeMissing].Severity)
}

func TestMatch(t *testing.T) {
	cfg := Default(".")
	tests := []struct {
		rel  string
		want bool
	}{
		{"Hello.cs", true},
		{"src/Commands/Hello.cs", true},
		{"src/obj/Debug/Hello.cs", false},
		{"bin/Hello.cs", false},
		{"src/Hello.txt", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.Match(tt.rel), tt.rel)
	}
}

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"src/B.cs",
		"src/A.cs",
		"src/readme.md",
		"src/obj/Gen.cs",
		".git/Hooks.cs",
	} {
		writeFile(t, filepath.Join(root, rel), "class X {}\n")
	}
	cfg := Default(root)

	files, err := cfg.ListFiles(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "src", "A.cs"),
		filepath.Join(root, "src", "B.cs"),
	}, files)

	files, err = cfg.ListFiles([]string{
		filepath.Join(root, "src", "A.cs"),
		filepath.Join(root, "src", "*.cs"),
		filepath.Join(root, "src", "obj", "Gen.cs"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "src", "A.cs"),
		filepath.Join(root, "src", "B.cs"),
	}, files)

	_, err = cfg.ListFiles([]string{filepath.Join(root, "missing")})
	assert.Error(t, err)
}

func TestCombineIsPrefixFree(t *testing.T) {
	var d Digest
	assert.NotEqual(t, Combine(d, "ab", "c"), Combine(d, "a", "bc"))
	assert.Equal(t, Combine(d, "x"), Combine(d, "x"))
}
