package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/config"
	"github.com/ajitpratap0/tabula/pkg/logger"
	"github.com/ajitpratap0/tabula/pkg/progress"
	"github.com/ajitpratap0/tabula/pkg/sinks"
	hdf5sink "github.com/ajitpratap0/tabula/pkg/sinks/hdf5"
	"github.com/ajitpratap0/tabula/pkg/tabular"
)

var version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tabula: %v\n", err)
		os.Exit(1)
	}

	var logLevel string

	root := &cobra.Command{
		Use:   "tabula",
		Short: "Tabula - hierarchical tabular output library",
		Long: `Tabula streams rows of typed scalar columns from hierarchically
structured tables into text and HDF5 sinks.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logLevel
			if level == "" {
				level = cfg.LogLevel
			}
			return logger.Init(logger.Config{Level: level, Encoding: "console"})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Tabula v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var (
		urls []string
		rows int
	)
	demo := &cobra.Command{
		Use:   "demo",
		Short: "Stream a synthetic time series into the given sinks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cfg, urls, rows)
		},
	}
	demo.Flags().StringSliceVar(&urls, "url", []string{"stdout:-"}, "sink URLs to bind")
	demo.Flags().IntVar(&rows, "rows", 100, "number of rows to emit")
	root.AddCommand(demo)

	root.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the demo table schema as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, _, cleanup, err := demoTable()
			if err != nil {
				return err
			}
			defer cleanup()
			return ts.GenerateSchema(os.Stdout)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tabula: %v\n", err)
		os.Exit(1)
	}
}

// demoState is the live program state the demo table traces.
type demoState struct {
	step  int64
	value float64
	phase string
}

// demoTable builds the demo time series: a computed clock, a reference
// trace on a float variable, a plain counter and a phase label.
func demoTable() (*tabular.TimeSeries[int64], *demoState, func(), error) {
	state := &demoState{phase: "warmup"}

	ts, err := tabular.NewTimeSeries("demo", "%d", func() int64 {
		return state.step
	})
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() { ts.Close() }

	if _, err := tabular.NewRef(&ts.Group, "value", "%g", &state.value); err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	stats, err := tabular.NewGroup(&ts.Group, "stats")
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	if _, err := tabular.NewScalar[int64](stats, "emitted", "%d"); err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	if _, err := tabular.NewStringRef(&ts.Group, "phase", 15, "%s", &state.phase); err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return ts, state, cleanup, nil
}

func runDemo(cfg *config.Config, urls []string, rows int) error {
	ts, state, cleanup, err := demoTable()
	if err != nil {
		return err
	}
	defer cleanup()

	opened := make([]tabular.Sink, 0, len(urls))
	defer func() {
		for _, s := range opened {
			if err := sinks.Release(s); err != nil {
				logger.Warn("releasing sink", zap.Error(err))
			}
		}
	}()
	for _, url := range urls {
		s, err := sinks.Open(url)
		if err != nil {
			return err
		}
		opened = append(opened, s)
		if h, ok := s.(*hdf5sink.Sink); ok {
			h.SetChunk(cfg.HDF5Chunk)
		}
		if _, err := ts.Bind(s); err != nil {
			return err
		}
	}

	emitted, err := ts.ColumnByName("stats/emitted")
	if err != nil {
		return err
	}

	if err := ts.Prolog(); err != nil {
		return err
	}
	bar := progress.NewBar(os.Stderr, 40, "emitting rows")
	bar.Start(uint64(rows))
	for i := 0; i < rows; i++ {
		state.step = int64(i)
		state.value = float64(i) * 1.5
		if i >= rows/2 {
			state.phase = "steady"
		}
		if err := emitted.SetFloat(float64(i)); err != nil {
			return err
		}
		if err := ts.EmitRow(); err != nil {
			return err
		}
		bar.Tick(1)
	}
	bar.Finish()
	if err := ts.Epilog(); err != nil {
		return err
	}

	logger.Info("demo finished",
		zap.Int("rows", rows),
		zap.Int("sinks", len(opened)))
	return logger.Sync()
}
