package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"cmdlint/internal/diag"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [directory]",
	Short: "List diagnostic rules and their effective severity",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	rulesCmd.Flags().Bool("description", false, "print the long description of each rule")
}

type ruleRow struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Default      string `json:"default_severity"`
	Effective    string `json:"effective_severity"`
	Configurable bool   `json:"configurable"`
	Message      string `json:"message_format"`
	Description  string `json:"description,omitempty"`
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withDescription, err := cmd.Flags().GetBool("description")
	if err != nil {
		return fmt.Errorf("failed to get description flag: %w", err)
	}
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	overrides, _, err := cfg.Overrides()
	if err != nil {
		return err
	}

	rows := collectRules(overrides)
	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "pretty":
		colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		useColor, err := readColor(colorFlag)
		if err != nil {
			return err
		}
		return renderRules(cmd.OutOrStdout(), rows, useColor, withDescription)
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}

func collectRules(overrides map[diag.Code]diag.Override) []ruleRow {
	descs := diag.Descriptors()
	rows := make([]ruleRow, 0, len(descs))
	for _, d := range descs {
		effective := severityName(d.DefaultSeverity)
		if ov, ok := overrides[d.Code]; ok && !d.NotConfigurable {
			effective = severityName(ov.Severity)
			if ov.Disabled {
				effective = "off"
			}
		}
		rows = append(rows, ruleRow{
			ID:           d.Code.ID(),
			Title:        d.Title,
			Category:     d.Category,
			Default:      severityName(d.DefaultSeverity),
			Effective:    effective,
			Configurable: !d.NotConfigurable,
			Message:      d.MessageFormat,
			Description:  d.Description,
		})
	}
	return rows
}

func severityName(s diag.Severity) string { return strings.ToLower(s.String()) }

func renderRules(out io.Writer, rows []ruleRow, useColor, withDescription bool) error {
	idStyle := color.New(color.Bold)
	locked := color.New(color.FgHiBlack)
	for _, c := range []*color.Color{idStyle, locked} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	const idWidth, sevWidth = 9, 9
	for _, r := range rows {
		sev := runewidth.FillRight(r.Effective, sevWidth)
		if r.Effective != r.Default {
			sev = runewidth.FillRight(r.Effective+"*", sevWidth)
		}
		line := idStyle.Sprint(runewidth.FillRight(r.ID, idWidth)) + " " + sev + " " + r.Title
		if !r.Configurable {
			line += locked.Sprint(" (not configurable)")
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
		if withDescription && r.Description != "" {
			if _, err := fmt.Fprintf(out, "%s %s\n", strings.Repeat(" ", idWidth), r.Description); err != nil {
				return err
			}
		}
	}
	return nil
}
