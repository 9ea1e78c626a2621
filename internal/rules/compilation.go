package rules

import (
	"context"
	"fmt"

	"cmdlint/internal/diag"
	"cmdlint/internal/source"
	"cmdlint/internal/symbols"
)

// CommandSymbols returns the walked types whose base class is a command type.
func CommandSymbols(ctx context.Context, table *symbols.Table) ([]*symbols.Symbol, error) {
	ids, err := symbols.NewWalker(table).Walk(ctx)
	if err != nil {
		return nil, fmt.Errorf("walk types: %w", err)
	}
	var out []*symbols.Symbol
	for _, id := range ids {
		s := table.Get(id)
		if base := table.Get(s.Base); base != nil && IsCommandBaseName(base.MetadataName) {
			out = append(out, s)
		}
	}
	return out, nil
}

// AnalyzeCompilation reports CmdRootCommandMissing once when the
// compilation has commands but none derives from RootCommand. Nothing is
// reported when ctx is canceled.
func AnalyzeCompilation(ctx context.Context, table *symbols.Table, r diag.Reporter) error {
	commands, err := CommandSymbols(ctx, table)
	if err != nil {
		return err
	}
	if len(commands) == 0 {
		return nil
	}
	for _, c := range commands {
		if table.Get(c.Base).MetadataName == RootCommandBase {
			return nil
		}
	}
	diag.ReportDescriptor(r, diag.CmdRootCommandMissing, source.NoSpan).Emit()
	return nil
}
