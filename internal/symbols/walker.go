package symbols

import (
	"context"
	"slices"
)

// Walker collects every distinct named type reachable from the global
// namespace, nested types included. A Walker owns its visited set; do not
// share one between goroutines.
type Walker struct {
	table *Table
	seen  map[SymbolID]struct{}
}

func NewWalker(t *Table) *Walker {
	return &Walker{table: t}
}

// Walk traverses the compilation depth first. Cancellation is checked at
// the start and before every namespace, member and nested type; when ctx is
// done the partial set is dropped and ctx.Err() returned.
func (w *Walker) Walk(ctx context.Context) ([]SymbolID, error) {
	w.seen = make(map[SymbolID]struct{})
	if err := w.visitAssembly(ctx); err != nil {
		w.seen = nil
		return nil, err
	}
	out := make([]SymbolID, 0, len(w.seen))
	for id := range w.seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out, nil
}

func (w *Walker) visitAssembly(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.visitNamespace(ctx, w.table.Global())
}

func (w *Walker) visitNamespace(ctx context.Context, ns SymbolID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, member := range w.table.Get(ns).Members {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		switch w.table.Get(member).Kind {
		case SymbolNamespace:
			err = w.visitNamespace(ctx, member)
		case SymbolType:
			err = w.visitNamedType(ctx, member)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) visitNamedType(ctx context.Context, typ SymbolID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := w.seen[typ]; ok {
		return nil
	}
	w.seen[typ] = struct{}{}
	for _, nested := range w.table.Get(typ).Members {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.visitNamedType(ctx, nested); err != nil {
			return err
		}
	}
	return nil
}
