package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/industry-codes/internal/output"
	"github.com/crimson-sun/industry-codes/internal/output/async"
	"github.com/crimson-sun/industry-codes/internal/output/file"
	"github.com/crimson-sun/industry-codes/internal/output/multi"
	"github.com/crimson-sun/industry-codes/internal/output/stdout"
	"github.com/crimson-sun/industry-codes/internal/output/webhook"
	"github.com/crimson-sun/industry-codes/internal/pipeline"
)

var (
	batchOut       string
	batchWebhook   string
	batchTop       int
	batchField     string
	batchVerbosity string
)

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Match queries read one per line",
	Long: `Reads queries from a file or stdin, one per line. A line is either plain
text or a JSON object {"query", "top_n", "search_field"}. Results are
written as NDJSON in input order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchOut, "out", "", "NDJSON output file (default stdout)")
	batchCmd.Flags().StringVar(&batchWebhook, "webhook", "", "also POST result batches to this URL")
	batchCmd.Flags().IntVar(&batchTop, "top", 0, "default number of matches per query (default from config)")
	batchCmd.Flags().StringVar(&batchField, "field", "", "default search field (default from config)")
	batchCmd.Flags().StringVar(&batchVerbosity, "verbosity", "", "minimal, standard or full (default from config)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	topN := cfg.Engine.TopN
	if cmd.Flags().Changed("top") {
		topN = batchTop
	}
	field := cfg.Engine.Field
	if batchField != "" {
		field = batchField
	}
	verbosity, err := resolveVerbosity(batchVerbosity)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cmd.Context())
	if err != nil {
		return err
	}
	out, err := batchOutput(cmd.OutOrStdout(), verbosity)
	if err != nil {
		return err
	}

	p := pipeline.New(eng, out,
		pipeline.WithBatchSize(cfg.Pipeline.BatchSize),
		pipeline.WithDefaults(topN, field),
	)
	stats, runErr := p.Run(cmd.Context(), in)
	closeErr := p.Close()

	slog.Info("batch finished",
		"queries", stats.Queries,
		"errors", stats.Errors,
		"batches", stats.Batches,
	)
	if runErr != nil {
		return runErr
	}
	return closeErr
}

// batchOutput builds the result sink: an NDJSON file when --out or the
// config names one, stdout otherwise, plus an async webhook when set.
func batchOutput(w io.Writer, verbosity output.Verbosity) (output.Output, error) {
	var outs []output.Output

	path := cfg.Output.Path
	if batchOut != "" {
		path = batchOut
	}
	if path != "" {
		f, err := file.New(path, verbosity, file.WithMaxSize(cfg.Output.MaxSize))
		if err != nil {
			return nil, err
		}
		outs = append(outs, f)
	} else {
		outs = append(outs, stdout.NewWriter(w, verbosity, cfg.Output.Pretty))
	}

	if batchWebhook != "" {
		wh := webhook.New(batchWebhook, webhook.WithVerbosity(verbosity))
		outs = append(outs, async.New(wh))
	}

	if len(outs) == 1 {
		return outs[0], nil
	}
	return multi.New(outs...), nil
}
