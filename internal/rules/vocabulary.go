package rules

// Exact, case-sensitive spellings recognized by the analyzer.
const (
	CommandBase     = "Command"
	RootCommandBase = "RootCommand"
	BinderMethod    = "BindHandler"
)

type nameSet map[string]struct{}

func newNameSet(names ...string) nameSet {
	s := make(nameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s nameSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

var (
	commandBases = newNameSet(CommandBase, RootCommandBase)
	rootBases    = newNameSet(RootCommandBase)

	generatorMarkers = newNameSet(
		"GenerateExecuteHandler",
		"GenerateExecuteHandlerAttribute",
		"GenerateCommandHandler",
		"GenerateCommandHandlerAttribute",
	)

	relationshipMarkers = newNameSet(
		"HasParentCommand",
		"HasParentCommandAttribute",
		"HasChildCommand",
		"HasChildCommandAttribute",
	)
)

// IsCommandBaseName reports whether a resolved base metadata name denotes a command.
func IsCommandBaseName(metadataName string) bool {
	return commandBases.has(metadataName)
}
