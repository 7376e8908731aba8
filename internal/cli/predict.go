package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sahte/internal/pipeline"
)

var (
	predictJSON    bool
	predictTimeout time.Duration
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict <text>",
	Short: "Classify a single news text",
	Long: `Predict loads the trained artifacts and classifies one text.

It prints the fuzzy fake-likelihood with its verdict ("likely FAKE" at 0.5
and above), the model label (0 = fake, 1 = real) and the vote-margin
confidence. With --verbose the four fuzzy inputs are printed as well.

Example:
  sahte predict "Sağlık Bakanlığı yeni aşı kampanyasını duyurdu."
  sahte predict "ŞOK! Gizli deneyde insanlar görünmez oldu!!!" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "print the prediction as JSON")
	predictCmd.Flags().DurationVar(&predictTimeout, "timeout", time.Minute, "prediction timeout")
}

func runPredict(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	ctx, cancel := context.WithTimeout(context.Background(), predictTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, store, err := openPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := p.Load(ctx); err != nil {
		return fmt.Errorf("%w (run 'sahte train' first)", err)
	}

	pred, err := p.Predict(ctx, text)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.Verbose)
	if predictJSON {
		return renderer.WriteJSON(os.Stdout, pred)
	}
	return renderer.RenderPrediction(os.Stdout, pred)
}
