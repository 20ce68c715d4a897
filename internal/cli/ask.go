package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askJSON      bool
	similarLimit int
	similarJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var similarCmd = &cobra.Command{
	Use:   "similar [question]",
	Short: "List the known questions closest to a question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSimilar,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 0, "maximum number of results (default selector.similar_top_k)")
	similarCmd.Flags().BoolVar(&similarJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(askCmd, similarCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	svc, _, err := loadService(cmd.Context(), false)
	if err != nil {
		return err
	}
	ans := svc.AnswerQuestion(strings.Join(args, " "))
	if askJSON {
		return printJSON(cmd, ans)
	}
	cmd.Printf("Answer: %s\n", ans.Text)
	cmd.Printf("Source: %s\n", ans.Source)
	cmd.Printf("Confidence: %.1f%%\n", ans.Confidence*100)
	return nil
}

func runSimilar(cmd *cobra.Command, args []string) error {
	svc, _, err := loadService(cmd.Context(), false)
	if err != nil {
		return err
	}
	limit := similarLimit
	if limit == 0 {
		limit = appConfig.Selector.SimilarTopK
	}
	results, err := svc.FindSimilar(strings.Join(args, " "), limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if similarJSON {
		return printJSON(cmd, results)
	}
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i, r := range results {
		cmd.Printf("  [%d] %s (%.1f%%)\n", i+1, r.Question, r.Similarity*100)
		cmd.Printf("      Source: %s\n", r.Source)
		cmd.Printf("      %s\n", r.Answer)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
