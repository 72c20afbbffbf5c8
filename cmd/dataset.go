package main

import (
	"go.uber.org/zap"

	"github.com/sells-group/esg-insight/internal/dataset"
)

// dataFlag overrides the configured dataset path when set.
var dataFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "", "dataset CSV path (default from config)")
}

// loadStore loads the record store named by config or the --data flag.
func loadStore() (*dataset.Store, *dataset.LoadReport, error) {
	path := cfg.Dataset.Path
	if dataFlag != "" {
		path = dataFlag
	}

	opts := dataset.LoadOptions{
		Charset: cfg.Dataset.Charset,
		Strict:  cfg.Dataset.Strict,
	}
	if cfg.Dataset.Delimiter != "" {
		opts.Delimiter = []rune(cfg.Dataset.Delimiter)[0]
	}

	store, report, err := dataset.Load(path, opts)
	if err != nil {
		return nil, nil, err
	}

	if report.RowsDropped > 0 {
		zap.L().Warn("invalid rows dropped during load",
			zap.String("path", path),
			zap.Int("dropped", report.RowsDropped))
	}
	return store, report, nil
}
