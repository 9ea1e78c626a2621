// Package diag defines the diagnostic model shared by the frontend, the
// analyzer rules and the CLI.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric id with a stable string form (ATSCG001, SYN2001).
//     Every code has a Descriptor with title, message template, category,
//     default severity and description.
//   - Message: the descriptor template filled with positional arguments.
//   - Primary: the source.Span of the finding, or source.NoSpan for findings
//     about the compilation as a whole.
//   - Notes and Fixes: optional context and automated corrections.
//
// # Fix suggestions
//
// Fix is data only: a title, applicability, and TextEdits guarded by the text
// they expect to replace. Producers may attach a Thunk instead of edits; the
// fix engine calls Resolve/MaterializeFixes to build edits against the current
// file contents, so a fix computed for a stale file degrades to a skip.
//
// # Emitting diagnostics
//
// Analysis passes report through a Reporter. ReportDescriptor starts a
// ReportBuilder from a registered descriptor; chain WithNote/WithFix and call
// Emit. BagReporter collects into a Bag, which supports sorting, deduplication,
// filtering and merging. OverrideReporter applies user severity overrides and
// leaves NotConfigurable rules alone.
//
// Rendering lives in internal/diagfmt; applying fixes lives in internal/fix.
package diag
