package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdlint/internal/diag"
	"cmdlint/internal/fix"
	"cmdlint/internal/project"
)

const helloSource = `using System.CommandLine;

[GenerateCommandHandler]
public class HelloCommand : Command
{
    public HelloCommand() : base("hello")
    {
        Setup();
    }
}
`

func writeProject(t *testing.T, files map[string]string) *project.Config {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return project.Default(root)
}

func sampleProject(t *testing.T) *project.Config {
	return writeProject(t, map[string]string{
		"src/Hello.cs":    helloSource,
		"src/Plain.cs":    "public class PlainCommand : Command { }\n",
		"src/Gen.g.cs":    "[GenerateCommandHandler]\nclass GenCommand : Command { }\n",
		"src/obj/Skip.cs": "class SkipCommand : Command { }\n",
	})
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestAnalyze(t *testing.T) {
	cfg := sampleProject(t)
	res, err := Analyze(context.Background(), nil, Options{Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, []diag.Code{
		diag.CmdBindHandlerMissing,
		diag.CmdGeneratorAttributeMissing,
		diag.CmdRootCommandMissing,
	}, codes(res.Bag))
	assert.True(t, res.HasErrors())

	require.Len(t, res.Files, 3)
	assert.True(t, res.Files[0].Generated, res.Files[0].Path)
	assert.False(t, res.Files[1].Generated)
	assert.NotNil(t, res.Files[1].Tree)

	bind := res.Bag.Items()[0]
	assert.Equal(t, "BindHandler must be called in constructor of HelloCommand", bind.Message)
	require.Len(t, bind.Fixes, 1)
	assert.Equal(t, "Inject BindHandler call", bind.Fixes[0].Title)
	assert.True(t, bind.Fixes[0].IsPreferred)
	assert.Contains(t, bind.Fixes[0].ID, "ATSCG001-HelloCommand-")

	_, ok := res.Symbols.Lookup("GenCommand")
	assert.True(t, ok, "generated files still contribute symbols")
}

func TestAnalyzeThenFix(t *testing.T) {
	cfg := sampleProject(t)
	res, err := Analyze(context.Background(), nil, Options{Config: cfg})
	require.NoError(t, err)

	applied, err := fix.Apply(res.FileSet, res.Bag.Items(), fix.ApplyOptions{Mode: fix.ApplyModeAll})
	require.NoError(t, err)
	require.Len(t, applied.Applied, 1)

	data, err := os.ReadFile(filepath.Join(cfg.Root, "src", "Hello.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "    {\n        BindHandler();\n        Setup();\n    }\n")

	res, err = Analyze(context.Background(), nil, Options{Config: cfg})
	require.NoError(t, err)
	assert.NotContains(t, codes(res.Bag), diag.CmdBindHandlerMissing)
}

func TestAnalyzeOverrides(t *testing.T) {
	cfg := sampleProject(t)
	cfg.Rules = map[string]string{"ATSCG001": "off", "ATSCG002": "off", "ATSCG003": "error"}

	res, err := Analyze(context.Background(), nil, Options{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{
		diag.CmdBindHandlerMissing,
		diag.CmdRootCommandMissing,
		diag.CfgOverrideIgnored,
	}, codes(res.Bag))

	items := res.Bag.Items()
	assert.Equal(t, diag.SevError, items[0].Severity)
	assert.Equal(t, diag.SevError, items[1].Severity)
	assert.Contains(t, items[2].Message, "ATSCG001")
}

func TestAnalyzeLimit(t *testing.T) {
	res, err := Analyze(context.Background(), nil, Options{Config: sampleProject(t), MaxDiagnostics: 1})
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{diag.CmdBindHandlerMissing}, codes(res.Bag))
}

func TestAnalyzeWithCache(t *testing.T) {
	cfg := sampleProject(t)
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	opts := Options{Config: cfg, Cache: cache}

	first, err := Analyze(context.Background(), nil, opts)
	require.NoError(t, err)
	second, err := Analyze(context.Background(), nil, opts)
	require.NoError(t, err)

	for _, f := range second.Files {
		assert.True(t, f.Cached, f.Path)
		assert.Nil(t, f.Tree)
	}
	assert.True(t, second.Files[0].Generated)
	assert.Equal(t, codes(first.Bag), codes(second.Bag))
	assert.Equal(t, first.Symbols.Len(), second.Symbols.Len())

	bind := second.Bag.Items()[0]
	require.Len(t, bind.Fixes, 1)
	assert.Equal(t, first.Bag.Items()[0].Fixes[0].ID, bind.Fixes[0].ID)

	dry, err := fix.Apply(second.FileSet, second.Bag.Items(), fix.ApplyOptions{Mode: fix.ApplyModeAll, DryRun: true})
	require.NoError(t, err)
	require.Len(t, dry.FileChanges, 1)
	assert.Contains(t, string(dry.FileChanges[0].Content), "BindHandler();")

	require.NoError(t, cache.DropAll())
	third, err := Analyze(context.Background(), nil, opts)
	require.NoError(t, err)
	assert.False(t, third.Files[1].Cached)
}

func TestCacheSeparatesGeneratedPaths(t *testing.T) {
	const src = "[GenerateCommandHandler]\nclass GenCommand : Command { }\n"
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)

	plain := writeProject(t, map[string]string{"src/Gen.cs": src})
	res, err := Analyze(context.Background(), nil, Options{Config: plain, Cache: cache})
	require.NoError(t, err)
	assert.Contains(t, codes(res.Bag), diag.CmdBindHandlerMissing)

	generated := writeProject(t, map[string]string{"src/Gen.g.cs": src})
	res, err = Analyze(context.Background(), nil, Options{Config: generated, Cache: cache})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.False(t, res.Files[0].Cached)
	assert.True(t, res.Files[0].Generated)
	assert.Equal(t, []diag.Code{diag.CmdRootCommandMissing}, codes(res.Bag))

	// and back: the hand-written copy is not silenced by the generated entry
	again := writeProject(t, map[string]string{"src/Gen.cs": src})
	res, err = Analyze(context.Background(), nil, Options{Config: again, Cache: cache})
	require.NoError(t, err)
	assert.True(t, res.Files[0].Cached)
	assert.False(t, res.Files[0].Generated)
	assert.Contains(t, codes(res.Bag), diag.CmdBindHandlerMissing)
}

func TestNoFixForExpressionBodiedConstructor(t *testing.T) {
	cfg := writeProject(t, map[string]string{
		"A.cs": "[GenerateCommandHandler]\nclass A : RootCommand { A() => Setup(); }\n",
	})
	res, err := Analyze(context.Background(), nil, Options{Config: cfg})
	require.NoError(t, err)
	require.Equal(t, []diag.Code{diag.CmdBindHandlerMissing}, codes(res.Bag))
	assert.Empty(t, res.Bag.Items()[0].Fixes)
}

func TestAnalyzeEvents(t *testing.T) {
	events := make(chan Event, 64)
	_, err := Analyze(context.Background(), nil, Options{Config: sampleProject(t), Events: events, Jobs: 2})
	require.NoError(t, err)
	close(events)

	statuses := map[string]Status{}
	var compilationDone bool
	for ev := range events {
		if ev.File == "" {
			compilationDone = compilationDone || (ev.Stage == StageCompilation && ev.Status == StatusDone)
			continue
		}
		statuses[filepath.Base(ev.File)] = ev.Status
	}
	assert.True(t, compilationDone)
	assert.Equal(t, StatusSkipped, statuses["Gen.g.cs"])
	assert.Equal(t, StatusDone, statuses["Hello.cs"])
	assert.Equal(t, StatusDone, statuses["Plain.cs"])
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Analyze(ctx, nil, Options{Config: sampleProject(t)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatchRerunsOnChange(t *testing.T) {
	cfg := writeProject(t, map[string]string{"src/Hello.cs": helloSource})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	errStop := errors.New("stop")
	var runs atomic.Int32
	err := Watch(ctx, nil, Options{Config: cfg}, 20*time.Millisecond, func(res *Result, err error) error {
		require.NoError(t, err)
		switch runs.Add(1) {
		case 1:
			assert.Contains(t, codes(res.Bag), diag.CmdBindHandlerMissing)
			path := filepath.Join(cfg.Root, "src", "Hello.cs")
			return os.WriteFile(path, []byte("[GenerateCommandHandler]\nclass HelloCommand : RootCommand { HelloCommand() { BindHandler(); } }\n"), 0o600)
		default:
			assert.Empty(t, codes(res.Bag))
			return errStop
		}
	})
	assert.ErrorIs(t, err, errStop)
	assert.EqualValues(t, 2, runs.Load())
}
