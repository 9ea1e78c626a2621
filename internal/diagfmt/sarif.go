package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"cmdlint/internal/diag"
	"cmdlint/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name,omitempty"`
	ShortDescription     sarifMessage    `json:"shortDescription"`
	FullDescription      *sarifMessage   `json:"fullDescription,omitempty"`
	DefaultConfiguration sarifRuleConfig `json:"defaultConfiguration"`
	Properties           map[string]any  `json:"properties,omitempty"`
}

type sarifRuleConfig struct {
	Level   string `json:"level"`
	Enabled bool   `json:"enabled"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
	Related   []sarifLocation `json:"relatedLocations,omitempty"`
	Fixes     []sarifFix      `json:"fixes,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
	Message          *sarifMessage `json:"message,omitempty"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

type sarifFix struct {
	Description     sarifMessage          `json:"description"`
	ArtifactChanges []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	ArtifactLocation sarifArtifact      `json:"artifactLocation"`
	Replacements     []sarifReplacement `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion   sarifRegion   `json:"deletedRegion"`
	InsertedContent *sarifMessage `json:"insertedContent,omitempty"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	}
	return "note"
}

// Sarif writes the diagnostics as a SARIF 2.1.0 log with one run. Every
// known rule is listed in the driver; compilation-scoped results have no
// locations.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           meta.ToolName,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
		}},
		Results: make([]sarifResult, 0, bag.Len()),
	}

	ruleIndex := make(map[diag.Code]int)
	for _, desc := range diag.Descriptors() {
		if desc.Code == diag.UnknownCode {
			continue
		}
		rule := sarifRule{
			ID:               desc.Code.ID(),
			Name:             desc.Title,
			ShortDescription: sarifMessage{Text: desc.Title},
			DefaultConfiguration: sarifRuleConfig{
				Level:   sarifLevel(desc.DefaultSeverity),
				Enabled: desc.EnabledByDefault,
			},
			Properties: map[string]any{"category": desc.Category},
		}
		if desc.Description != "" {
			rule.FullDescription = &sarifMessage{Text: desc.Description}
		}
		ruleIndex[desc.Code] = len(run.Tool.Driver.Rules)
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, rule)
	}

	if meta.InvocationArgs != nil {
		run.Invocations = []sarifInvocation{{
			Arguments:           meta.InvocationArgs,
			ExecutionSuccessful: !bag.HasErrors(),
		}}
	}

	ctx := diag.FixBuildContext{FileSet: fs}
	for _, d := range bag.Items() {
		idx, ok := ruleIndex[d.Code]
		if !ok {
			idx = -1
		}
		res := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: idx,
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
		}
		if loc, ok := sarifLocationOf(fs, d.Primary); ok {
			res.Locations = []sarifLocation{loc}
		}
		for _, n := range d.Notes {
			if loc, ok := sarifLocationOf(fs, n.Span); ok {
				loc.Message = &sarifMessage{Text: n.Msg}
				res.Related = append(res.Related, loc)
			}
		}
		for _, lazy := range d.Fixes {
			f, err := lazy.Resolve(ctx)
			if err != nil {
				continue
			}
			res.Fixes = append(res.Fixes, sarifFixOf(fs, f))
		}
		run.Results = append(run.Results, res)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}

func sarifURI(f *source.File) string {
	return filepath.ToSlash(f.Path)
}

func sarifRegionOf(fs *source.FileSet, span source.Span) sarifRegion {
	start, end := fs.Resolve(span)
	return sarifRegion{
		StartLine:   start.Line,
		StartColumn: start.Col,
		EndLine:     end.Line,
		EndColumn:   end.Col,
		ByteOffset:  span.Start,
		ByteLength:  span.End - span.Start,
	}
}

func sarifLocationOf(fs *source.FileSet, span source.Span) (sarifLocation, bool) {
	if !span.IsValid() {
		return sarifLocation{}, false
	}
	f := fs.Get(span.File)
	if f == nil {
		return sarifLocation{}, false
	}
	region := sarifRegionOf(fs, span)
	return sarifLocation{PhysicalLocation: sarifPhysical{
		ArtifactLocation: sarifArtifact{URI: sarifURI(f)},
		Region:           &region,
	}}, true
}

func sarifFixOf(fs *source.FileSet, f diag.Fix) sarifFix {
	out := sarifFix{Description: sarifMessage{Text: f.Title}}
	byFile := make(map[source.FileID]int)
	for _, e := range f.Edits {
		file := fs.Get(e.Span.File)
		if file == nil {
			continue
		}
		i, ok := byFile[e.Span.File]
		if !ok {
			i = len(out.ArtifactChanges)
			byFile[e.Span.File] = i
			out.ArtifactChanges = append(out.ArtifactChanges, sarifArtifactChange{
				ArtifactLocation: sarifArtifact{URI: sarifURI(file)},
			})
		}
		rep := sarifReplacement{DeletedRegion: sarifRegionOf(fs, e.Span)}
		if e.NewText != "" {
			rep.InsertedContent = &sarifMessage{Text: e.NewText}
		}
		out.ArtifactChanges[i].Replacements = append(out.ArtifactChanges[i].Replacements, rep)
	}
	return out
}
