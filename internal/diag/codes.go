package diag

import (
	"fmt"
	"sort"
	"strings"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Analyzer rules. These ids are public and must never be renumbered.
	CmdBindHandlerMissing        Code = 1
	CmdGeneratorAttributeMissing Code = 2
	CmdRootCommandMissing        Code = 3

	// Frontend
	SynParseError Code = 2001

	// IO
	IOLoadFileError Code = 4001

	// Configuration
	CfgOverrideIgnored Code = 9001
)

// UsageCategory groups every analyzer rule.
const UsageCategory = "Amusoft.Toolkit.System.CommandLine.Generator Usage"

// Descriptor is the static metadata of a diagnostic code.
type Descriptor struct {
	Code             Code
	Title            string
	MessageFormat    string // positional placeholders: {0}, {1}, ...
	Category         string
	DefaultSeverity  Severity
	EnabledByDefault bool
	Description      string
	// NotConfigurable rules ignore severity overrides and cannot be disabled.
	NotConfigurable bool
}

var descriptors = map[Code]Descriptor{
	UnknownCode: {
		Code:             UnknownCode,
		Title:            "Unknown error",
		MessageFormat:    "Unknown error",
		Category:         "Internal",
		DefaultSeverity:  SevError,
		EnabledByDefault: true,
	},
	CmdBindHandlerMissing: {
		Code:             CmdBindHandlerMissing,
		Title:            "BindHandler call missing",
		MessageFormat:    "BindHandler must be called in constructor of {0}",
		Category:         UsageCategory,
		DefaultSeverity:  SevError,
		EnabledByDefault: true,
		Description:      "BindHandler sets up the handler of a command with its arguments. Failing to do so would create a command with a handler that will not be executed.",
		NotConfigurable:  true,
	},
	CmdGeneratorAttributeMissing: {
		Code:             CmdGeneratorAttributeMissing,
		Title:            "Generator attribute missing",
		MessageFormat:    "No generator attribute is specified for {0}",
		Category:         UsageCategory,
		DefaultSeverity:  SevWarning,
		EnabledByDefault: true,
		Description:      "Neither GenerateExecuteHandlerAttribute nor GenerateCommandHandlerAttribute is specified.",
	},
	CmdRootCommandMissing: {
		Code:             CmdRootCommandMissing,
		Title:            "There is no command that inherits RootCommand",
		MessageFormat:    "There is no command that inherits RootCommand",
		Category:         UsageCategory,
		DefaultSeverity:  SevWarning,
		EnabledByDefault: true,
		Description:      "In order for the IRootCommandProvider to work there must be a command that implements RootCommand.",
	},
	SynParseError: {
		Code:             SynParseError,
		Title:            "Syntax error",
		MessageFormat:    "Syntax error: {0}",
		Category:         "Syntax",
		DefaultSeverity:  SevWarning,
		EnabledByDefault: true,
		Description:      "The file contains a region the C# grammar could not parse. Classes inside the region may be analyzed incompletely.",
	},
	IOLoadFileError: {
		Code:             IOLoadFileError,
		Title:            "File could not be loaded",
		MessageFormat:    "Cannot load {0}: {1}",
		Category:         "IO",
		DefaultSeverity:  SevError,
		EnabledByDefault: true,
		NotConfigurable:  true,
	},
	CfgOverrideIgnored: {
		Code:             CfgOverrideIgnored,
		Title:            "Severity override ignored",
		MessageFormat:    "Severity override for {0} is ignored: the rule is not configurable",
		Category:         "Configuration",
		DefaultSeverity:  SevInfo,
		EnabledByDefault: true,
		NotConfigurable:  true,
	},
}

// Lookup returns the descriptor registered for code.
func Lookup(code Code) (Descriptor, bool) {
	d, ok := descriptors[code]
	return d, ok
}

// LookupID finds a descriptor by its rendered id, e.g. "ATSCG002".
func LookupID(id string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Code != UnknownCode && strings.EqualFold(d.Code.ID(), id) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Descriptors lists every known descriptor ordered by id.
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(descriptors))
	for code, d := range descriptors {
		if code == UnknownCode {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code.ID() < out[j].Code.ID() })
	return out
}

// Format fills the positional placeholders of the message template.
// Missing arguments leave their placeholder untouched.
func (d Descriptor) Format(args ...string) string {
	if len(args) == 0 {
		return d.MessageFormat
	}
	// one pass, so placeholders inside an argument stay literal
	pairs := make([]string, 0, 2*len(args))
	for i, arg := range args {
		pairs = append(pairs, fmt.Sprintf("{%d}", i), arg)
	}
	return strings.NewReplacer(pairs...).Replace(d.MessageFormat)
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1 && ic < 1000:
		return fmt.Sprintf("ATSCG%03d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := descriptors[c]
	if !ok {
		return descriptors[UnknownCode].Title
	}
	return desc.Title
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
