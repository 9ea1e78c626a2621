package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"cmdlint/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show cmdlint build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		switch strings.ToLower(format) {
		case "pretty":
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		case "json":
			return renderVersionJSON(cmd.OutOrStdout())
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	},
}

func renderVersionJSON(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(versionPayload{
		Tool:      "cmdlint",
		Version:   version.Version,
		GitCommit: version.Commit(),
		BuildDate: version.BuildDate,
		GoVersion: runtime.Version(),
	})
}
