// Package csharp is the C# frontend. It parses source text with tree-sitter
// and converts the concrete tree into the full-fidelity syntax.Tree used by
// the analyzer: every byte of the input ends up either in a token or in the
// trivia attached to one, so printing the tree reproduces the file exactly.
//
// Comments and region/pragma directives become trivia. Identifiers used as
// names are wrapped in IdentifierName nodes; the declared name of a type or
// member stays a bare identifier token. Literals collapse into one token.
package csharp
