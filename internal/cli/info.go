package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-viewer/internal/app"
	"github.com/ironsheep/ocr-viewer/internal/settings"
)

func newThemesCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available window themes",
		Long: `List the theme catalog. The theme stored in the settings document is
marked with '*'; an unknown stored theme is reported and the default is
marked instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := settings.ResolveTheme(a.Settings.Theme())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}
			return printThemes(cmd.OutOrStdout(), current)
		},
	}
}

func printThemes(w io.Writer, current settings.Theme) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range settings.Themes() {
		mark := " "
		if t.Name == current {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\n", mark, t.Name, t.Variant)
	}
	return tw.Flush()
}

func newVersionCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and recognition backend information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")
			return printVersion(cmd.OutOrStdout(), a, jsonOutput)
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func printVersion(w io.Writer, a *app.App, jsonOutput bool) error {
	info := a.Engine.Info()

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Version   string `json:"version"`
			BuildTime string `json:"build_time"`
			GitCommit string `json:"git_commit"`
			Engine    any    `json:"engine"`
		}{a.Build.Version, a.Build.BuildTime, a.Build.GitCommit, info})
	}

	fmt.Fprintf(w, "ocr-viewer %s\n", a.Build.Version)
	fmt.Fprintf(w, "  Build time: %s\n", a.Build.BuildTime)
	fmt.Fprintf(w, "  Git commit: %s\n", a.Build.GitCommit)
	fmt.Fprintf(w, "  Backend:    %s\n", info.Backend)
	fmt.Fprintf(w, "  Languages:  %s\n", info.Languages)
	if info.Available {
		fmt.Fprintf(w, "  Tesseract:  %s\n", info.Version)
	} else {
		fmt.Fprintf(w, "  Tesseract:  unavailable (%s)\n", info.Error)
	}
	return nil
}
