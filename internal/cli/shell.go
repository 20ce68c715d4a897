package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"qaindex/internal/tui"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Ask questions interactively",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, _ []string) error {
	svc, _, err := loadService(cmd.Context(), false)
	if err != nil {
		return err
	}
	ix := svc.Index()
	summary := fmt.Sprintf("%d questions, %d terms, threshold %.2f", ix.Size(), ix.Encoder.Dimension(), svc.Threshold())
	m := tui.New(svc, summary, appConfig.Selector.SimilarTopK, svc.Threshold())
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
