package csharp

import (
	"path/filepath"
	"strings"

	"cmdlint/internal/syntax"
)

var generatedSuffixes = []string{".g.cs", ".g.i.cs", ".designer.cs", ".generated.cs"}

// IsGeneratedPath reports file names that by convention hold generated code.
func IsGeneratedPath(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, suffix := range generatedSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

// IsGeneratedTree reports files whose header comment carries the
// <auto-generated> marker.
func IsGeneratedTree(tree *syntax.Tree) bool {
	first := tree.Root().FirstToken()
	if first == nil {
		return false
	}
	return strings.Contains(first.Green().LeadingTrivia(), "<auto-generated")
}
