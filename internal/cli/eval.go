package cli

import (
	"github.com/spf13/cobra"

	"qaindex/internal/eval"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Replay the corpus and report accuracy per source",
	Long: `Asks every known question, checks the returned answer against the stored
one (case and whitespace insensitive) and reports accuracy and confidence
buckets per source.`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, _ []string) error {
	svc, _, err := loadService(cmd.Context(), false)
	if err != nil {
		return err
	}
	res := eval.Run(svc.Index().Corpus, svc)
	logger.Info("evaluation finished",
		"questions", res.Total.TotalQuestions, "correct", res.Total.TotalCorrect,
		"avg_confidence", res.Total.AvgConfidence)
	cmd.Print(eval.Render(res))
	return nil
}
