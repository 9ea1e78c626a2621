package fuzztests

import "testing"

const maxFuzzInput = 1 << 16 // 64 KiB

var languageSeeds = []string{
	"",
	"class C { }",
	"class C : Command { C() { } }",
	"[GenerateCommandHandler]\npublic class Hello : Command\n{\n    public Hello()\n    {\n        Setup();\n    }\n}\n",
	"class C : Command { C() => Init(); }",
	"class C : RootCommand { public C() : base(\"root\") { BindHandler(); } }",
	"namespace A.B;\n[GenerateCommandHandler] partial class D : Command { }\n",
	"namespace A { namespace B { class E : System.CommandLine.Command { E() {\n\t// c\n\tX(); } } } }",
	"interface ICommand { }\nclass F : ICommand { F() { } }",
	"// <auto-generated/>\nclass G : Command { G() { } }",
	"class H : Command { H() { if (x) { BindHandler(); } } }",
	"class I : Command {\r\n    I()\r\n    {\r\n        Foo();\r\n    }\r\n}\r\n",
	"\ufeffclass J : Command { J() { } }",
	"class K : Command { K() { ",
	"class { } } ) ( ;",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
}

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
