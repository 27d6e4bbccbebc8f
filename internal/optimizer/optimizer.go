// Package optimizer runs the configured armor solvers over a catalog,
// applying the candidate filter first and cross-checking the solvers when
// more than one is selected.
package optimizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/max-defense/internal/armor"
	"github.com/iwvelando/max-defense/internal/config"
	"github.com/iwvelando/max-defense/pkg/constants"
	"github.com/iwvelando/max-defense/pkg/mathutil"
	"github.com/iwvelando/max-defense/pkg/optimization"
	"go.uber.org/zap"
)

// ErrSolverMismatch indicates the dynamic and exhaustive solvers disagreed on
// the optimal defense, or a solver exceeded the budget.
var ErrSolverMismatch = errors.New("optimizer: solver results disagree")

// ErrLimitExceeded indicates the filtered catalog and budget are larger than
// the Runner's Limits allow.
var ErrLimitExceeded = errors.New("optimizer: input exceeds limit")

// Limits caps the work a single run may do. Zero fields are unlimited.
type Limits struct {
	MaxTableCells      int
	MaxExhaustiveItems int
}

// Runner executes solver runs for one configuration.
type Runner struct {
	logger *zap.Logger
	conf   *config.Configuration
	limits Limits
}

// Report is the outcome of one solver.
type Report struct {
	Solver   string
	Solution armor.Solution
	Totals   armor.Totals
	Duration time.Duration
}

// Summary converts the report to its serializable form.
func (r Report) Summary(budget int) optimization.Summary {
	items := make([]optimization.ItemSummary, 0, r.Solution.Len())
	for _, item := range r.Solution.Items {
		items = append(items, optimization.ItemSummary{
			Description: item.Description(),
			Cost:        item.Cost(),
			Defense:     item.Defense(),
		})
	}
	return optimization.Summary{
		Solver:       r.Solver,
		Budget:       budget,
		Items:        items,
		TotalCost:    r.Totals.Cost,
		TotalDefense: r.Totals.Defense,
		Duration:     r.Duration.String(),
	}
}

// Result holds every report produced by a run.
type Result struct {
	Budget       int
	CatalogSize  int
	FilteredSize int
	Reports      []Report

	// Table is the dynamic-programming table when the dynamic solver ran.
	Table *armor.Table
}

// Report returns the report for solver, if it ran.
func (r *Result) Report(solver string) (Report, bool) {
	for _, report := range r.Reports {
		if report.Solver == solver {
			return report, true
		}
	}
	return Report{}, false
}

// Summaries returns the serializable form of every report.
func (r *Result) Summaries() []optimization.Summary {
	summaries := make([]optimization.Summary, 0, len(r.Reports))
	for _, report := range r.Reports {
		summaries = append(summaries, report.Summary(r.Budget))
	}
	return summaries
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	conf.Normalize()
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Runner{logger: logger, conf: conf}, nil
}

// WithLimits sets the caps checked against the filtered catalog before any
// solver runs.
func (r *Runner) WithLimits(limits Limits) *Runner {
	r.limits = limits
	return r
}

// Candidates returns the items the solvers will see after filtering.
func (r *Runner) Candidates(items armor.Catalog) armor.Catalog {
	if !r.conf.Filter.Enabled {
		return items
	}
	lo, hi, limit := r.conf.Filter.Bounds()
	candidates := armor.Filter(items, lo, hi, limit)
	r.logger.Debug("filtered catalog",
		zap.String("op", "optimizer.Candidates"),
		zap.Float64("minDefense", lo),
		zap.Float64("maxDefense", hi),
		zap.Int("limit", limit),
		zap.Int("before", len(items)),
		zap.Int("after", len(candidates)),
	)
	return candidates
}

func (r *Runner) checkLimits(candidates int) error {
	if r.runsDynamic() {
		cells, err := armor.TableCells(candidates, r.conf.Budget)
		if err != nil {
			return fmt.Errorf("%w: dynamic table exceeds limit: %v", ErrLimitExceeded, err)
		}
		if r.limits.MaxTableCells > 0 && cells > r.limits.MaxTableCells {
			return fmt.Errorf("%w: dynamic table of %d cells exceeds limit of %d",
				ErrLimitExceeded, cells, r.limits.MaxTableCells)
		}
	}
	if r.runsExhaustive() && r.limits.MaxExhaustiveItems > 0 && candidates > r.limits.MaxExhaustiveItems {
		return fmt.Errorf("%w: exhaustive search is limited to %d items, got %d; add a filter limit",
			ErrLimitExceeded, r.limits.MaxExhaustiveItems, candidates)
	}
	return nil
}

// Run filters items and executes the configured solvers.
func (r *Runner) Run(items armor.Catalog) (*Result, error) {
	candidates := r.Candidates(items)
	if err := r.checkLimits(len(candidates)); err != nil {
		return nil, err
	}

	result := &Result{
		Budget:       r.conf.Budget,
		CatalogSize:  len(items),
		FilteredSize: len(candidates),
	}

	if r.runsDynamic() {
		start := time.Now()
		table, err := armor.BuildTable(candidates, r.conf.Budget)
		if err != nil {
			return nil, fmt.Errorf("dynamic solver failed: %w", err)
		}
		solution := table.Solution()
		result.Table = table
		result.Reports = append(result.Reports, r.report(constants.SolverDynamic, solution, time.Since(start)))
	}

	if r.runsExhaustive() {
		start := time.Now()
		solution, err := armor.ExhaustiveMaxDefense(candidates, float64(r.conf.Budget))
		if err != nil {
			return nil, fmt.Errorf("exhaustive solver failed: %w", err)
		}
		result.Reports = append(result.Reports, r.report(constants.SolverExhaustive, solution, time.Since(start)))
	}

	if err := r.crossCheck(result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Runner) runsDynamic() bool {
	return r.conf.Solver == constants.SolverDynamic || r.conf.Solver == constants.SolverBoth
}

func (r *Runner) runsExhaustive() bool {
	return r.conf.Solver == constants.SolverExhaustive || r.conf.Solver == constants.SolverBoth
}

func (r *Runner) report(solver string, solution armor.Solution, elapsed time.Duration) Report {
	report := Report{
		Solver:   solver,
		Solution: solution,
		Totals:   solution.Totals(),
		Duration: elapsed,
	}

	r.logger.Info("solver finished",
		zap.String("op", "optimizer.Run"),
		zap.String("solver", solver),
		zap.Int("budget", r.conf.Budget),
		zap.Int("chosen", solution.Len()),
		zap.Int("totalCost", report.Totals.Cost),
		zap.Float64("totalDefense", report.Totals.Defense),
		zap.Duration("duration", elapsed),
	)

	return report
}

// crossCheck enforces the budget on every report and, when both solvers
// ran, that they reached the same defense.
func (r *Runner) crossCheck(result *Result) error {
	for _, report := range result.Reports {
		if report.Totals.Cost > result.Budget {
			return fmt.Errorf("%w: %s solution costs %d over budget %d",
				ErrSolverMismatch, report.Solver, report.Totals.Cost, result.Budget)
		}
	}

	dynamic, okDynamic := result.Report(constants.SolverDynamic)
	exhaustive, okExhaustive := result.Report(constants.SolverExhaustive)
	if !okDynamic || !okExhaustive {
		return nil
	}

	if !mathutil.WithinRelativeTolerance(dynamic.Totals.Defense, exhaustive.Totals.Defense, constants.DefenseTolerance) {
		r.logger.Error("solvers disagree",
			zap.String("op", "optimizer.crossCheck"),
			zap.Float64("dynamicDefense", dynamic.Totals.Defense),
			zap.Float64("exhaustiveDefense", exhaustive.Totals.Defense),
		)
		return fmt.Errorf("%w: dynamic defense %g, exhaustive defense %g",
			ErrSolverMismatch, dynamic.Totals.Defense, exhaustive.Totals.Defense)
	}

	return nil
}
