// Package rules holds the analyzer rules for command classes.
//
// Per class (CheckClass/AnalyzeClass):
//
//   - a class is a command when its first base type is the bare identifier
//     Command or RootCommand; anything else is skipped silently;
//   - a command needs a generator attribute unless it is a root command or
//     declares a parent/child relationship (ATSCG002);
//   - a command with a generator attribute must call BindHandler() in one of
//     its own constructors (ATSCG001).
//
// Per compilation (AnalyzeCompilation): when commands exist, one of them must
// derive from RootCommand (ATSCG003).
//
// All matching is exact and case-sensitive against fixed name sets.
package rules
