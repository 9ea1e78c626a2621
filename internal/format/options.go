package format

import "strings"

type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 4
	}
	return o
}

// OptionsFromIndent builds options from a literal indent unit such as "\t"
// or "  ". An empty unit yields the defaults.
func OptionsFromIndent(unit string) Options {
	if unit == "" {
		return Options{}.withDefaults()
	}
	if strings.Contains(unit, "\t") {
		return Options{IndentWidth: 4, UseTabs: true}
	}
	return Options{IndentWidth: len(unit)}
}

// unit returns one indentation step. Lines already indented with tabs keep
// using tabs.
func (o Options) unit(lineIndent string) string {
	if o.UseTabs || strings.HasPrefix(lineIndent, "\t") {
		return "\t"
	}
	return strings.Repeat(" ", o.IndentWidth)
}
