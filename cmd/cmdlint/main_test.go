package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdlint/internal/diag"
	"cmdlint/internal/fix"
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

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.True(t, shouldUseTUI(uiModeOn, false))
	assert.False(t, shouldUseTUI(uiModeOff, true))
}

func TestSelectApplyOptions(t *testing.T) {
	tests := []struct {
		name    string
		all     bool
		once    bool
		id      string
		want    fix.ApplyMode
		wantErr bool
	}{
		{name: "default", want: fix.ApplyModeOnce},
		{name: "all", all: true, want: fix.ApplyModeAll},
		{name: "once", once: true, want: fix.ApplyModeOnce},
		{name: "id", id: "ATSCG001-A-10", want: fix.ApplyModeID},
		{name: "id and all", all: true, id: "x", wantErr: true},
		{name: "all and once", all: true, once: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectApplyOptions(tt.all, tt.once, tt.id, true)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Mode)
			assert.Equal(t, tt.id, got.TargetID)
			assert.True(t, got.DryRun)
		})
	}
}

func TestCollectRulesKeepsBindHandlerLocked(t *testing.T) {
	rows := collectRules(map[diag.Code]diag.Override{
		diag.CmdBindHandlerMissing:        {Disabled: true},
		diag.CmdGeneratorAttributeMissing: {Severity: diag.SevError},
	})
	byID := make(map[string]ruleRow, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	assert.Equal(t, "error", byID["ATSCG001"].Effective)
	assert.False(t, byID["ATSCG001"].Configurable)
	assert.Equal(t, "warning", byID["ATSCG002"].Default)
	assert.Equal(t, "error", byID["ATSCG002"].Effective)
	assert.Equal(t, "warning", byID["ATSCG003"].Effective)
}

func TestHandleApplyResultNoFixes(t *testing.T) {
	var out bytes.Buffer
	err := handleApplyResult(&out, &fix.ApplyResult{}, fix.ErrNoFixes, false)
	require.NoError(t, err)
	assert.Equal(t, "No applicable fixes found.\n", out.String())

	boom := errors.New("boom")
	err = handleApplyResult(&out, &fix.ApplyResult{}, boom, false)
	assert.ErrorIs(t, err, boom)
}

func TestDiagThenFix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Hello.cs")
	require.NoError(t, os.WriteFile(path, []byte(helloSource), 0o600))

	out, err := execute(t, "diag", "--format", "short", "--color", "off", "--ui", "off", dir)
	assert.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "ATSCG001")
	assert.Contains(t, out, "HelloCommand")

	out, err = execute(t, "fix", "--all", "--dry-run", "--ui", "off", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Would apply 1 fix(es)")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, helloSource, string(data))

	out, err = execute(t, "fix", "--all", "--dry-run=false", "--ui", "off", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 1 fix(es)")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BindHandler();")

	out, err = execute(t, "diag", "--format", "short", "--color", "off", "--ui", "off", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "ATSCG001")
}

func TestRulesJSON(t *testing.T) {
	out, err := execute(t, "rules", "--format", "json", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "ATSCG001"`)
	assert.Contains(t, out, `"configurable": false`)
}
