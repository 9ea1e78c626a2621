package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cmdlint/internal/diagfmt"
	"cmdlint/internal/driver"
	"cmdlint/internal/source"
	"cmdlint/internal/version"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [file.cs|directory|glob]...",
	Short: "Report diagnostics for C# command classes",
	Long: `Analyze the given files, directories or globs (the project root when
omitted) and print every diagnostic. Exits with status 1 when errors are found.`,
	RunE: runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	diagCmd.Flags().String("path-mode", "auto", "how paths are printed (auto|relative|absolute|basename)")
	diagCmd.Flags().Bool("warnings-as-errors", false, "exit with status 1 on warnings too")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "preview fix edits (implies --suggest)")
}

type diagOutput struct {
	format           string
	pathMode         diagfmt.PathMode
	color            bool
	withNotes        bool
	showFixes        bool
	preview          bool
	warningsAsErrors bool
}

func readDiagOutput(cmd *cobra.Command) (diagOutput, error) {
	var out diagOutput
	var err error

	if out.format, err = cmd.Flags().GetString("format"); err != nil {
		return out, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch out.format {
	case "pretty", "short", "json", "sarif":
	default:
		return out, fmt.Errorf("unknown format: %s", out.format)
	}
	pathMode, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return out, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	out.pathMode = diagfmt.ParsePathMode(pathMode)
	if cmd.Flags().Lookup("warnings-as-errors") != nil {
		if out.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
			return out, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
		}
	}
	if out.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return out, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return out, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if out.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return out, fmt.Errorf("failed to get preview flag: %w", err)
	}
	out.showFixes = suggest || out.preview

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return out, fmt.Errorf("failed to get color flag: %w", err)
	}
	if out.color, err = readColor(colorFlag); err != nil {
		return out, err
	}
	return out, nil
}

func (o diagOutput) human() bool { return o.format == "pretty" || o.format == "short" }

func runDiagnose(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	out, err := readDiagOutput(cmd)
	if err != nil {
		return err
	}
	opts, err := buildDriverOptions(cmd, args)
	if err != nil {
		return err
	}

	result, err := analyze(cmd, args, opts, out.human())
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}
	if err := writeDiagnostics(cmd.OutOrStdout(), result, out); err != nil {
		return err
	}
	printTimings(cmd.ErrOrStderr(), opts.Timer)

	if failed(result, out.warningsAsErrors) {
		return errFindings
	}
	return nil
}

func failed(result *driver.Result, warningsAsErrors bool) bool {
	if result.HasErrors() {
		return true
	}
	return warningsAsErrors && result.Bag.HasWarnings()
}

func writeDiagnostics(w io.Writer, result *driver.Result, out diagOutput) error {
	fs := result.FileSet
	if fs == nil {
		fs = source.NewFileSet()
	}
	switch out.format {
	case "pretty":
		diagfmt.Pretty(w, result.Bag, fs, diagfmt.PrettyOpts{
			Color:       out.color,
			Context:     2,
			PathMode:    out.pathMode,
			ShowNotes:   out.withNotes,
			ShowFixes:   out.showFixes,
			ShowPreview: out.preview,
		})
	case "short":
		if err := diagfmt.Short(w, result.Bag, fs, out.pathMode, out.withNotes); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "json":
		err := diagfmt.JSON(w, result.Bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         out.pathMode,
			IncludeNotes:     out.withNotes,
			IncludeFixes:     out.showFixes,
			IncludePreviews:  out.preview,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "cmdlint",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
		}
		if err := diagfmt.Sarif(w, result.Bag, fs, meta); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	return nil
}
