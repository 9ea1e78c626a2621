package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cmdlint/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [file.cs|directory|glob]...",
	Short: "Apply available fixes",
	Long:  "Run diagnostics, surface available fixes, and apply them according to the chosen strategy.",
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every available fix")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply the fix with this identifier")
	fixCmd.Flags().Bool("dry-run", false, "report what would change without writing files")
}

func readApplyOptions(cmd *cobra.Command) (fix.ApplyOptions, error) {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	return selectApplyOptions(applyAll, applyOnce, targetID, dryRun)
}

func selectApplyOptions(applyAll, applyOnce bool, targetID string, dryRun bool) (fix.ApplyOptions, error) {
	if targetID != "" && (applyAll || applyOnce) {
		return fix.ApplyOptions{}, fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fix.ApplyOptions{}, fmt.Errorf("--all and --once are mutually exclusive")
	}
	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}
	return fix.ApplyOptions{Mode: mode, TargetID: targetID, DryRun: dryRun}, nil
}

func runFix(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	applyOpts, err := readApplyOptions(cmd)
	if err != nil {
		return err
	}
	opts, err := buildDriverOptions(cmd, args)
	if err != nil {
		return err
	}
	result, err := analyze(cmd, args, opts, true)
	if err != nil {
		return fmt.Errorf("fix: diagnose failed: %w", err)
	}

	res, applyErr := fix.Apply(result.FileSet, result.Bag.Items(), applyOpts)
	printTimings(cmd.ErrOrStderr(), opts.Timer)
	return handleApplyResult(cmd.OutOrStdout(), res, applyErr, applyOpts.DryRun)
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}

	if len(res.Applied) > 0 {
		verb := "Applied"
		if dryRun {
			verb = "Would apply"
		}
		if _, err := fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied)); err != nil {
			return err
		}
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			_, err := fmt.Fprintf(out, "  %s [%s] %s: %s (%d edits, %s)\n",
				item.Title, item.ID, item.Code.ID(), location, item.EditCount, item.Applicability.String())
			if err != nil {
				return err
			}
		}
	}

	if len(res.FileChanges) > 0 {
		header := "Updated files:"
		if dryRun {
			header = "Files that would change:"
		}
		if _, err := fmt.Fprintln(out, header); err != nil {
			return err
		}
		for _, change := range res.FileChanges {
			if _, err := fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount); err != nil {
				return err
			}
		}
	}

	if len(res.Skipped) > 0 {
		if _, err := fmt.Fprintln(out, "Skipped fixes:"); err != nil {
			return err
		}
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			var err error
			if skip.Title != "" {
				_, err = fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				_, err = fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
			if err != nil {
				return err
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			_, err := fmt.Fprintln(out, "No applicable fixes found.")
			return err
		}
		return applyErr
	}

	if len(res.Applied) == 0 {
		_, err := fmt.Fprintln(out, "No fixes applied.")
		return err
	}
	return nil
}
