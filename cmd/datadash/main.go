package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mmrzaf/datadash/internal/app"
	"github.com/mmrzaf/datadash/internal/config"
	"github.com/mmrzaf/datadash/internal/dataset"
	"github.com/mmrzaf/datadash/internal/domain"
	"github.com/mmrzaf/datadash/internal/generators"
	"github.com/mmrzaf/datadash/internal/infra/repos/history"
	"github.com/mmrzaf/datadash/internal/infra/repos/presets"
	"github.com/mmrzaf/datadash/internal/infra/repos/sinks"
	"github.com/mmrzaf/datadash/internal/logging"
	"github.com/mmrzaf/datadash/internal/registry"
	"github.com/spf13/cobra"
)

var (
	presetsDir string
	sinksDir   string
	historyDB  string
	noHistory  bool
	logLevel   string
	batchSize  int
)

func main() {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:          "datadash",
		Short:        "Synthetic dashboard dataset generator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&presetsDir, "presets-dir", cfg.PresetsDir, "Presets directory")
	rootCmd.PersistentFlags().StringVar(&sinksDir, "sinks-dir", cfg.SinksDir, "Sinks directory")
	rootCmd.PersistentFlags().StringVar(&historyDB, "history-db", cfg.HistoryDSN, "Generation history database (sqlite path or postgres URL)")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "Do not record generations")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level")
	rootCmd.PersistentFlags().IntVar(&batchSize, "batch-size", cfg.BatchSize, "Insert batch size for push")

	rootCmd.AddCommand(kindsCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(chartCmd())
	rootCmd.AddCommand(pushCmd(cfg.DefaultMode))
	rootCmd.AddCommand(presetCmd())
	rootCmd.AddCommand(sinkCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newService builds the dataset service from the persistent flags. The returned
// close func releases the history store.
func newService() (*app.DatasetService, func(), error) {
	// Logs go to stderr so generated data can be piped from stdout.
	logger := logging.NewLoggerWithWriter(logLevel, os.Stderr)

	var historyRepo history.Repository
	closeFn := func() {}
	if !noHistory && historyDB != "" {
		repo, err := history.Open(historyDB)
		if err != nil {
			return nil, nil, fmt.Errorf("open history: %w", err)
		}
		historyRepo = repo
		closeFn = func() { _ = repo.Close() }
	}

	svc := app.NewDatasetService(
		registry.DefaultGeneratorRegistry(),
		presets.NewFileRepository(presetsDir),
		sinks.NewFileRepository(sinksDir),
		historyRepo,
		logger,
		batchSize,
	)
	return svc, closeFn, nil
}

// requestFlags are the dataset selection flags shared by generate, stats, chart and push.
type requestFlags struct {
	preset     string
	params     []string
	seed       int64
	minValue   float64
	maxValue   float64
	categories []string
	from       string
	to         string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preset, "preset", "", "Preset id or name")
	cmd.Flags().StringArrayVarP(&f.params, "param", "p", nil, "Generator parameter (key=value), repeatable")
	cmd.Flags().Int64VarP(&f.seed, "seed", "s", 0, "Seed for the random generator")
	cmd.Flags().Float64Var(&f.minValue, "min-value", 0, "Drop rows whose value is below this")
	cmd.Flags().Float64Var(&f.maxValue, "max-value", 0, "Drop rows whose value is above this")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "Keep only these categories")
	cmd.Flags().StringVar(&f.from, "from", "", "Earliest timestamp (RFC3339 or offset like -7d)")
	cmd.Flags().StringVar(&f.to, "to", "", "Latest timestamp (RFC3339 or offset like +0d)")
}

// request builds the dataset request. kind may be empty when a preset is given.
func (f *requestFlags) request(cmd *cobra.Command, kind string) (*domain.DatasetRequest, error) {
	req := &domain.DatasetRequest{Kind: kind, PresetID: f.preset}
	if kind == "" && f.preset == "" {
		return nil, fmt.Errorf("either a kind argument or --preset is required")
	}
	if len(f.params) > 0 {
		req.Params = generators.Params{}
		for _, p := range f.params {
			key, value, ok := strings.Cut(p, "=")
			if !ok || strings.TrimSpace(key) == "" {
				return nil, fmt.Errorf("invalid param %q, expected key=value", p)
			}
			req.Params[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		seed := f.seed
		req.Seed = &seed
	}
	if flags.Changed("min-value") {
		v := f.minValue
		req.Filters.MinValue = &v
	}
	if flags.Changed("max-value") {
		v := f.maxValue
		req.Filters.MaxValue = &v
	}
	req.Filters.Categories = f.categories
	if f.from != "" || f.to != "" {
		req.Filters.DateRange = &dataset.DateRange{From: f.from, To: f.to}
	}
	return req, nil
}

func kindArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
