// Package symbols builds the declared-type graph of a compilation.
//
// Collect extracts plain declaration data from one syntax tree; Build merges
// the data of every file into a Table, resolving the first base reference of
// classes and records. Walker enumerates every type reachable from the
// global namespace for compilation-wide checks.
//
// Resolution is name based and deliberately shallow: types declared outside
// the compilation are represented by external symbols keyed by the text of
// the reference, so equal mentions share one symbol.
package symbols
