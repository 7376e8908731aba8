package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/sahte/internal/dataset"
	"github.com/ppiankov/sahte/internal/pipeline"
)

var (
	reportJSON   string
	trainTimeout time.Duration
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train <dataset>",
	Short: "Train the classifier on a labelled corpus",
	Long: `Train loads a labelled corpus, fits the vectorizer, scaler and Tsetlin
machine on a shuffled split, evaluates on the held-out part and saves the
three artifacts.

The corpus is either a CSV file with "text" and "label" columns (0 = fake,
1 = real) or a folder holding Fake/ and Real/ subdirectories of .txt or
.html files.

Example:
  sahte train data/haberler.csv
  sahte train data/corpus --epochs 100 --clauses 800
  sahte train data/haberler.csv --store sqlite --report report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().Int("epochs", 0, "training epochs")
	trainCmd.Flags().Int("clauses", 0, "clauses per class")
	trainCmd.Flags().Int("max-features", 0, "maximum lexical vocabulary")
	trainCmd.Flags().Float64("test-size", 0, "held-out fraction of the corpus")
	trainCmd.Flags().StringVar(&reportJSON, "report", "", "write the training report as JSON to this path")
	trainCmd.Flags().DurationVar(&trainTimeout, "timeout", 2*time.Hour, "overall training timeout")

	_ = viper.BindPFlag("tsetlin.epochs", trainCmd.Flags().Lookup("epochs"))
	_ = viper.BindPFlag("tsetlin.clauses", trainCmd.Flags().Lookup("clauses"))
	_ = viper.BindPFlag("features.max_vocabulary", trainCmd.Flags().Lookup("max-features"))
	_ = viper.BindPFlag("split.test_size", trainCmd.Flags().Lookup("test-size"))
}

func runTrain(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), trainTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Sahte Training\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Dataset:      %s\n", path)
	fmt.Fprintf(os.Stderr, "  Clauses:      %d\n", cfg.Tsetlin.Clauses)
	fmt.Fprintf(os.Stderr, "  Epochs:       %d\n", cfg.Tsetlin.Epochs)
	fmt.Fprintf(os.Stderr, "  Vocabulary:   %d\n", cfg.Features.MaxVocabulary)
	fmt.Fprintf(os.Stderr, "  Store:        %s\n", cfg.Artifacts.Backend)
	fmt.Fprintf(os.Stderr, "\n")

	// 1. Load corpus
	docs, err := dataset.NewLoader(logger).Load(path)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d documents\n", len(docs))

	// 2. Train
	p, store, err := openPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	fmt.Fprintf(os.Stderr, "⚙️  Training...\n")
	result, err := p.Train(ctx, docs)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Trained in %v\n\n", result.Duration.Round(time.Millisecond))

	// 3. Report
	renderer := pipeline.NewRenderer(cfg.Output.Verbose)
	if err := renderer.RenderTrainReport(os.Stdout, result.Report); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if reportJSON != "" {
		if err := renderer.RenderJSON(result.Report, reportJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", reportJSON)
	}

	return nil
}
