package cli

import (
	"github.com/spf13/cobra"
)

var trainForce bool

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Build and save the question index",
	Long: `Loads the saved index if one exists; otherwise ingests every configured
source file, fits the TF-IDF encoder and saves the result.
Use --force to ignore the saved index and rebuild from the sources.`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().BoolVarP(&trainForce, "force", "f", false, "rebuild even if a saved index exists")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, _ []string) error {
	svc, res, err := loadService(cmd.Context(), trainForce)
	if err != nil {
		return err
	}
	ix := svc.Index()
	if res.FromCache {
		cmd.Printf("Loaded saved index: %d questions, %d terms\n", ix.Size(), ix.Encoder.Dimension())
		return nil
	}
	cmd.Printf("Files loaded: %d (failed: %d)\n", res.Report.FilesLoaded, res.Report.FilesFailed)
	cmd.Printf("Records loaded: %d (skipped: %d)\n", res.Report.RecordsLoaded, res.Report.RecordsSkipped)
	cmd.Printf("Trained index: %d questions, %d terms\n", ix.Size(), ix.Encoder.Dimension())
	if res.SaveErr != nil {
		cmd.Printf("Warning: index not saved: %v\n", res.SaveErr)
	}
	return nil
}
