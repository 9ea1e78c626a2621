// Package driver runs the analyzer over a set of C# files.
//
// Analyze lists the files selected by the project config, parses them in
// parallel (one tree-sitter parser per task, one diagnostics bag per file),
// runs the class rules on every tree, merges the declarations into a symbol
// table and runs the compilation rule once. Missing BindHandler calls get a
// lazy fix that re-parses the file when it is applied.
//
// Per-file results can be cached on disk keyed by content hash, and Watch
// re-runs the analysis when sources change.
package driver
