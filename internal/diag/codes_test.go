package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeIDs(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{CmdBindHandlerMissing, "ATSCG001"},
		{CmdGeneratorAttributeMissing, "ATSCG002"},
		{CmdRootCommandMissing, "ATSCG003"},
		{SynParseError, "SYN2001"},
		{IOLoadFileError, "IO4001"},
		{CfgOverrideIgnored, "CFG9001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestAnalyzerDescriptors(t *testing.T) {
	bind, ok := Lookup(CmdBindHandlerMissing)
	require.True(t, ok)
	assert.Equal(t, SevError, bind.DefaultSeverity)
	assert.True(t, bind.NotConfigurable)
	assert.Equal(t, "BindHandler must be called in constructor of FooCommand", bind.Format("FooCommand"))

	gen, ok := Lookup(CmdGeneratorAttributeMissing)
	require.True(t, ok)
	assert.Equal(t, SevWarning, gen.DefaultSeverity)
	assert.False(t, gen.NotConfigurable)
	assert.Equal(t, "No generator attribute is specified for Foo", gen.Format("Foo"))

	root, ok := Lookup(CmdRootCommandMissing)
	require.True(t, ok)
	assert.Equal(t, root.Title, root.Format())
	assert.Equal(t, SevWarning, root.DefaultSeverity)

	for _, d := range []Descriptor{bind, gen, root} {
		assert.Equal(t, UsageCategory, d.Category)
		assert.NotEmpty(t, d.Description)
		assert.True(t, d.EnabledByDefault)
	}
}

func TestDescriptorFormatSinglePass(t *testing.T) {
	d := Descriptor{MessageFormat: "{0} conflicts with {1}"}
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "plain", args: []string{"A", "B"}, want: "A conflicts with B"},
		{name: "placeholder in first arg", args: []string{"Gen{1}", "B"}, want: "Gen{1} conflicts with B"},
		{name: "placeholder in second arg", args: []string{"A", "{0}"}, want: "A conflicts with {0}"},
		{name: "missing arg", args: []string{"A"}, want: "A conflicts with {1}"},
		{name: "no args", want: "{0} conflicts with {1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Format(tt.args...))
		})
	}

	bind, _ := Lookup(CmdBindHandlerMissing)
	assert.Equal(t, "BindHandler must be called in constructor of Cmd{0}", bind.Format("Cmd{0}"))
}

func TestLookupID(t *testing.T) {
	d, ok := LookupID("atscg002")
	require.True(t, ok)
	assert.Equal(t, CmdGeneratorAttributeMissing, d.Code)

	_, ok = LookupID("E0000")
	assert.False(t, ok)
}

func TestDescriptorsSorted(t *testing.T) {
	all := Descriptors()
	require.NotEmpty(t, all)
	assert.Equal(t, "ATSCG001", all[0].Code.ID())
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Code.ID(), all[i].Code.ID())
	}
}

func TestParseSeverity(t *testing.T) {
	sev, on, err := ParseSeverity("Error")
	require.NoError(t, err)
	assert.Equal(t, SevError, sev)
	assert.True(t, on)

	_, on, err = ParseSeverity("off")
	require.NoError(t, err)
	assert.False(t, on)

	_, _, err = ParseSeverity("fatal")
	assert.Error(t, err)
}
