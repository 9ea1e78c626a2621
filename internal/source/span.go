package source

import (
	"fmt"
	"math"
)

// Span is a half-open byte range inside one file.
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

// NoFileID marks diagnostics that are not bound to any file
// (compilation-scoped findings).
const NoFileID FileID = math.MaxUint32

// NoSpan is the location of a compilation-scoped finding.
var NoSpan = Span{File: NoFileID}

// IsValid reports whether the span points into a file.
func (s Span) IsValid() bool {
	return s.File != NoFileID
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	if !s.IsValid() {
		return "<compilation>"
	}
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}
