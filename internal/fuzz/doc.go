// Package fuzztests holds fuzz harnesses for the C# frontend and the
// BindHandler rewrite. They guard against panics and broken tree
// invariants on arbitrary input; `go test` runs only the seeds.
package fuzztests
