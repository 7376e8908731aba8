package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/sahte/internal/cache"
	"github.com/ppiankov/sahte/internal/score"
	"github.com/ppiankov/sahte/internal/worker"
)

var (
	batchOutput  string
	batchTimeout time.Duration
	noCache      bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Classify many texts from a file in parallel",
	Long: `Batch classifies one text per line:
- Blank lines and lines starting with # are skipped
- Texts are classified in parallel with a configurable worker count
- Predictions are cached per model, so reruns skip known texts
- Results are written as JSON lines in input order

Example:
  sahte batch haberler.txt
  sahte batch haberler.txt --concurrency 8 --output sonuclar.jsonl
  sahte batch haberler.txt --no-cache`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("concurrency", 0, "number of concurrent workers")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write JSON lines to this path (default: stdout)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the prediction cache")

	_ = viper.BindPFlag("concurrency.workers", batchCmd.Flags().Lookup("concurrency"))
}

// batchLine is one JSON line of batch output
type batchLine struct {
	Index      int    `json:"index"`
	Text       string `json:"text"`
	Prediction any    `json:"prediction,omitempty"`
	Cached     bool   `json:"cached,omitempty"`
	Error      string `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Sahte Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Cache:        %v\n", cfg.Cache.Enabled)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	// Load model
	p, store, err := openPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := p.Load(ctx); err != nil {
		return fmt.Errorf("%w (run 'sahte train' first)", err)
	}

	var predictionCache cache.Cache
	if cfg.Cache.Enabled {
		predictionCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	// Process texts
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, predictionCache, logger)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	// Write output
	var out io.Writer = os.Stdout
	if batchOutput != "" {
		f, createErr := os.Create(batchOutput)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		out = f
	}

	enc := json.NewEncoder(out)
	successCount, failureCount, cachedCount, fakeCount := 0, 0, 0, 0
	for _, result := range results {
		line := batchLine{Index: result.Index, Text: result.Text, Cached: result.Cached}
		if result.Error != nil {
			failureCount++
			line.Error = result.Error.Error()
			fmt.Fprintf(os.Stderr, "✗ line %d: %v\n", result.Index+1, result.Error)
		} else {
			successCount++
			line.Prediction = result.Prediction
			if result.Cached {
				cachedCount++
			}
			if result.Prediction.FuzzyScore >= score.FakeThreshold {
				fakeCount++
			}
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:        %d texts\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:      %d (%d cached)\n", successCount, cachedCount)
	fmt.Fprintf(os.Stderr, "  Failures:     %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Likely fake:  %d\n", fakeCount)
	if r, ok := predictionCache.(cache.StatsReporter); ok {
		fmt.Fprintf(os.Stderr, "  Cache hits:   %.0f%%\n", r.Stats().HitRate()*100)
	}
	if batchOutput != "" {
		fmt.Fprintf(os.Stderr, "  Output:       %s\n", batchOutput)
	}
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
