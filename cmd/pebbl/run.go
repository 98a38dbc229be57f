// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	// Registers the sqlite3 driver used by --db.
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"github.com/uber-go/tally"
	"go.uber.org/multierr"
	"go.uber.org/pebbl"
	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/api/transport"
	"go.uber.org/pebbl/bnb"
	"go.uber.org/pebbl/bnb/knapsack"
	"go.uber.org/pebbl/incumbent"
	"go.uber.org/pebbl/pebblconfig"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/transport/local"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type runOptions struct {
	configPath      string
	items           int
	constraints     int
	seed            int64
	dbPath          string
	earlyOutput     time.Duration
	rank            int
	metricsInterval time.Duration
}

func newRunCmd(out io.Writer) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Solve a random knapsack problem",
		Long: `Solve a random multidimensional knapsack problem and print the best
solutions found.

    $ pebbl run --config pebbl.yaml --items 30 --constraints 3 --seed 7
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, out)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration; defaults to two local ranks")
	flags.IntVar(&opts.items, "items", 20, "number of items")
	flags.IntVar(&opts.constraints, "constraints", 2, "number of weight constraints")
	flags.Int64Var(&opts.seed, "seed", 1, "seed of the random problem")
	flags.StringVar(&opts.dbPath, "db", "", "sqlite database the solutions are recorded to")
	flags.DurationVar(&opts.earlyOutput, "early-output", 0, "overrides the configured early output interval")
	flags.IntVar(&opts.rank, "rank", 0, "rank run by this process with the redis transport")
	flags.DurationVar(&opts.metricsInterval, "metrics-interval", 10*time.Second, "interval between two metrics reports")
	return cmd
}

func loadConfig(opts runOptions) (cfg pebblconfig.Config, err error) {
	if opts.configPath == "" {
		cfg, err = pebblconfig.Load(map[string]interface{}{
			"transport": map[string]interface{}{"local": map[string]interface{}{}},
		})
	} else {
		cfg, err = loadConfigFile(opts.configPath)
	}
	if err != nil {
		return cfg, err
	}

	if opts.earlyOutput > 0 {
		cfg.EarlyOutput.Interval = opts.earlyOutput
	}
	return cfg, cfg.Validate()
}

func loadConfigFile(path string) (pebblconfig.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return pebblconfig.Config{}, err
	}
	defer f.Close()
	return pebblconfig.LoadYAML(f)
}

func run(ctx context.Context, opts runOptions, out io.Writer) (err error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if opts.items < 1 || opts.constraints < 1 {
		return pebblerrors.InvalidArgumentErrorf("a problem needs at least one item and one constraint")
	}

	logger, err := cfg.Logging.BuildLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	scope, closer := tally.NewRootScope(tally.ScopeOptions{Reporter: newZapReporter(logger)}, opts.metricsInterval)
	defer func() {
		err = multierr.Append(err, closer.Close())
	}()

	problem := knapsack.Random(opts.items, opts.constraints, opts.seed)
	logger.Info("solving random knapsack",
		zap.Int("items", opts.items),
		zap.Int("constraints", opts.constraints),
		zap.Int64("seed", opts.seed),
		zap.Int("ranks", cfg.Ranks))

	var repo *incumbent.Repository
	if cfg.Transport.Local != nil {
		repo, err = runLocal(ctx, cfg, problem, logger, scope)
	} else {
		repo, err = runRank(ctx, cfg, opts.rank, problem, logger, scope)
	}
	if err != nil || repo == nil {
		return err
	}

	if err := printRepository(out, repo); err != nil {
		return err
	}
	if opts.dbPath != "" {
		return record(opts.dbPath, repo)
	}
	return nil
}

// rank is one wired rank of the search.
type rank struct {
	node   *pebbl.Node
	worker *bnb.Worker
}

func newRank(cfg pebblconfig.Config, r int, in transport.Inbound, out transport.Outbound, problem bnb.Problem, logger *zap.Logger, scope tally.Scope) (*rank, error) {
	node := pebbl.NewNode(pebbl.Config{
		Rank:                r,
		Size:                cfg.Ranks,
		IORank:              cfg.IORank,
		SynchronousPrinting: cfg.SynchronousPrinting,
		Sense:               problem.Sense(),
		Inbound:             in,
		Outbound:            out,
		Logging:             pebbl.LoggingConfig{Zap: logger},
		Metrics:             pebbl.MetricsConfig{Tally: scope},
	})
	if path := solutionPath(cfg, r); path != "" {
		node.Search().Writer = search.NewFileSolutionWriter(path, node.Logger())
	}

	s := &rank{node: node}
	if node.Search().IAmFirstHub() {
		_, err := bnb.NewHub(node, problem, cfg.SearchOptions()...)
		return s, err
	}
	w, err := bnb.NewWorker(node, problem, cfg.SearchOptions()...)
	s.worker = w
	return s, err
}

// solutionPath returns the file rank writes early output to, if any.
func solutionPath(cfg pebblconfig.Config, r int) string {
	switch {
	case cfg.EarlyOutput.Interval == 0:
		return ""
	case r == cfg.IORank:
		return cfg.EarlyOutput.Path
	case !cfg.SynchronousPrinting:
		return fmt.Sprintf("%s.%d", cfg.EarlyOutput.Path, r)
	default:
		return ""
	}
}

func wait(ctx context.Context, n *pebbl.Node) error {
	select {
	case <-n.Done():
		return n.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func runLocal(ctx context.Context, cfg pebblconfig.Config, problem bnb.Problem, logger *zap.Logger, scope tally.Scope) (_ *incumbent.Repository, err error) {
	mesh := local.NewMesh(cfg.Ranks)
	ranks := make([]*rank, cfg.Ranks)
	for r := range ranks {
		if ranks[r], err = newRank(cfg, r, mesh.Inbound(r), mesh.Outbound(r), problem, logger, scope); err != nil {
			return nil, err
		}
	}

	defer func() {
		for _, s := range ranks {
			err = multierr.Append(err, s.node.Stop())
		}
	}()
	for _, s := range ranks {
		if err := s.node.Start(); err != nil {
			return nil, err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range ranks {
		n := s.node
		g.Go(func() error { return wait(gctx, n) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e := cfg.Enumeration
	limit := e.Limit
	if limit < 1 {
		limit = 1
	}
	merged := incumbent.New(problem.Sense(),
		incumbent.Limit(limit),
		incumbent.RelTolerance(e.RelTolerance),
		incumbent.AbsTolerance(e.AbsTolerance),
		incumbent.ValueTolerance(e.ValueTolerance),
		incumbent.Logger(logger))
	for _, s := range ranks {
		if s.worker != nil {
			merged.Merge(s.worker.Repository())
		}
	}
	return merged, nil
}

// runRank runs a single rank against redis. Only workers return a
// repository; the hub only learns the incumbent value.
func runRank(ctx context.Context, cfg pebblconfig.Config, r int, problem bnb.Problem, logger *zap.Logger, scope tally.Scope) (_ *incumbent.Repository, err error) {
	if r < 0 || r >= cfg.Ranks {
		return nil, pebblerrors.InvalidArgumentErrorf("rank %d is not in [0, %d)", r, cfg.Ranks)
	}
	in, out, err := cfg.Transport.Redis.Build(r, logger)
	if err != nil {
		return nil, err
	}
	s, err := newRank(cfg, r, in, out, problem, logger, scope)
	if err != nil {
		return nil, err
	}

	if err := s.node.Start(); err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, s.node.Stop())
	}()

	if err := wait(ctx, s.node); err != nil {
		return nil, err
	}
	if s.worker == nil {
		logger.Info("search finished", zap.Float64("incumbent", s.node.Search().IncumbentValue))
		return nil, nil
	}
	return s.worker.Repository(), nil
}

func printRepository(w io.Writer, repo *incumbent.Repository) error {
	if _, err := fmt.Fprintf(w, "best: %v\n", repo.BestValue()); err != nil {
		return err
	}
	for i, b := range repo.Buckets() {
		for _, pt := range b.Points() {
			if _, err := fmt.Fprintf(w, "%d\t%v\t%v\n", i+1, b.Value(), pt); err != nil {
				return err
			}
		}
	}
	return nil
}

func record(path string, repo *incumbent.Repository) (err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, db.Close())
	}()

	rec, err := incumbent.NewSQLRecorder(db)
	if err != nil {
		return err
	}
	return rec.RecordAll(repo)
}
