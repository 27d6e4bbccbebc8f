package optimizer

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/max-defense/internal/armor"
	"github.com/iwvelando/max-defense/internal/config"
	"github.com/iwvelando/max-defense/pkg/constants"
	"github.com/iwvelando/max-defense/pkg/testutil"
	"go.uber.org/zap"
)

func floatPtr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func testCatalog() armor.Catalog {
	return armor.Catalog{
		armor.MustNewItem("broken buckler", 1, 0),
		armor.MustNewItem("helmet", 3, 4),
		armor.MustNewItem("shield", 4, 5),
		armor.MustNewItem("boots", 2, 3),
		armor.MustNewItem("cursed ring", 1, -2),
	}
}

func TestRunnerBothSolversAgree(t *testing.T) {
	conf := &config.Configuration{
		Budget: 5,
		Solver: constants.SolverBoth,
		Filter: config.FilterConfig{Enabled: true, MinDefense: floatPtr(0), MaxDefense: floatPtr(100), Limit: intPtr(10)},
	}

	runner, err := NewRunner(zap.NewNop(), conf)
	if err != nil {
		t.Fatalf("failed to create optimizer runner: %v", err)
	}

	result, err := runner.Run(testCatalog())
	if err != nil {
		t.Fatalf("optimizer run failed: %v", err)
	}

	if result.CatalogSize != 5 || result.FilteredSize != 3 {
		t.Fatalf("expected catalog sizes 5/3, got %d/%d", result.CatalogSize, result.FilteredSize)
	}
	if len(result.Reports) != 2 {
		t.Fatalf("expected two reports, got %d", len(result.Reports))
	}
	if result.Table == nil {
		t.Fatal("expected dynamic table to be retained")
	}

	for _, solver := range []string{constants.SolverDynamic, constants.SolverExhaustive} {
		report, ok := result.Report(solver)
		if !ok {
			t.Fatalf("missing %s report", solver)
		}
		if math.Abs(report.Totals.Defense-7) > 1e-9 {
			t.Errorf("%s: expected defense 7, got %g", solver, report.Totals.Defense)
		}
		if report.Totals.Cost != 5 {
			t.Errorf("%s: expected cost 5, got %d", solver, report.Totals.Cost)
		}
	}

	summaries := result.Summaries()
	if len(summaries) != 2 {
		t.Fatalf("expected two summaries, got %d", len(summaries))
	}
	if summaries[0].Solver != constants.SolverDynamic || len(summaries[0].Items) != 2 || summaries[0].Budget != 5 {
		t.Errorf("unexpected dynamic summary %+v", summaries[0])
	}
}

func TestRunnerSingleSolver(t *testing.T) {
	tests := []struct {
		solver    string
		wantTable bool
	}{
		{solver: constants.SolverDynamic, wantTable: true},
		{solver: constants.SolverExhaustive, wantTable: false},
	}

	for _, tt := range tests {
		t.Run(tt.solver, func(t *testing.T) {
			runner, err := NewRunner(nil, &config.Configuration{Budget: 7, Solver: tt.solver})
			if err != nil {
				t.Fatalf("failed to create optimizer runner: %v", err)
			}
			result, err := runner.Run(testCatalog())
			if err != nil {
				t.Fatalf("optimizer run failed: %v", err)
			}
			if len(result.Reports) != 1 || result.Reports[0].Solver != tt.solver {
				t.Fatalf("expected single %s report, got %+v", tt.solver, result.Reports)
			}
			if (result.Table != nil) != tt.wantTable {
				t.Errorf("table presence = %v, want %v", result.Table != nil, tt.wantTable)
			}
			if result.FilteredSize != result.CatalogSize {
				t.Errorf("filter disabled, but sizes differ: %d vs %d", result.FilteredSize, result.CatalogSize)
			}
		})
	}
}

func TestRunnerExhaustiveTooManyItems(t *testing.T) {
	items := make(armor.Catalog, armor.MaxExhaustiveItems+1)
	for i := range items {
		items[i] = armor.MustNewItem("ring", 1, 1)
	}

	runner, err := NewRunner(zap.NewNop(), &config.Configuration{Budget: 10, Solver: constants.SolverExhaustive})
	if err != nil {
		t.Fatalf("failed to create optimizer runner: %v", err)
	}
	if _, err := runner.Run(items); !errors.Is(err, armor.ErrTooManyItems) {
		t.Fatalf("expected ErrTooManyItems, got %v", err)
	}

	conf := &config.Configuration{
		Budget: 10,
		Solver: constants.SolverBoth,
		Filter: config.FilterConfig{Enabled: true, Limit: intPtr(12)},
	}
	runner, err = NewRunner(zap.NewNop(), conf)
	if err != nil {
		t.Fatalf("failed to create optimizer runner: %v", err)
	}
	result, err := runner.Run(items)
	if err != nil {
		t.Fatalf("filtered run failed: %v", err)
	}
	if result.FilteredSize != 12 {
		t.Errorf("expected 12 filtered items, got %d", result.FilteredSize)
	}
}

func TestRunnerEmptyCatalog(t *testing.T) {
	runner, err := NewRunner(zap.NewNop(), &config.Configuration{Budget: 100})
	if err != nil {
		t.Fatalf("failed to create optimizer runner: %v", err)
	}
	result, err := runner.Run(nil)
	if err != nil {
		t.Fatalf("optimizer run failed: %v", err)
	}
	for _, report := range result.Reports {
		if !report.Solution.Empty() || report.Totals.Defense != 0 {
			t.Errorf("%s: expected empty solution, got %+v", report.Solver, report.Totals)
		}
	}
}

func TestNewRunnerRejectsInvalidConfiguration(t *testing.T) {
	if _, err := NewRunner(zap.NewNop(), nil); err == nil {
		t.Error("expected error for nil configuration")
	}
	if _, err := NewRunner(zap.NewNop(), &config.Configuration{Budget: -1}); err == nil {
		t.Error("expected error for negative budget")
	}
	if _, err := NewRunner(zap.NewNop(), &config.Configuration{Solver: "greedy"}); err == nil {
		t.Error("expected error for unknown solver")
	}
}

func TestCrossCheckDetectsMismatch(t *testing.T) {
	runner, err := NewRunner(zap.NewNop(), &config.Configuration{Budget: 5})
	if err != nil {
		t.Fatalf("failed to create optimizer runner: %v", err)
	}

	helmet := armor.MustNewItem("helmet", 3, 4)
	shield := armor.MustNewItem("shield", 4, 5)

	mismatch := &Result{
		Budget: 5,
		Reports: []Report{
			{Solver: constants.SolverDynamic, Totals: armor.Totals{Cost: 3, Defense: 4}},
			{Solver: constants.SolverExhaustive, Totals: armor.Totals{Cost: 4, Defense: 5}},
		},
	}
	if err := runner.crossCheck(mismatch); !errors.Is(err, ErrSolverMismatch) {
		t.Errorf("expected ErrSolverMismatch for differing defense, got %v", err)
	}

	overBudget := &Result{
		Budget: 5,
		Reports: []Report{
			{
				Solver:   constants.SolverDynamic,
				Solution: armor.Solution{Items: armor.Catalog{helmet, shield}},
				Totals:   armor.Totals{Cost: 7, Defense: 9},
			},
		},
	}
	if err := runner.crossCheck(overBudget); !errors.Is(err, ErrSolverMismatch) {
		t.Errorf("expected ErrSolverMismatch for over-budget solution, got %v", err)
	}
}

func TestRunnerZeroFilterLimit(t *testing.T) {
	conf := &config.Configuration{
		Budget: 10,
		Solver: constants.SolverBoth,
		Filter: config.FilterConfig{Enabled: true, Limit: intPtr(0)},
	}
	runner, err := NewRunner(zap.NewNop(), conf)
	if err != nil {
		t.Fatalf("failed to create optimizer runner: %v", err)
	}

	if got := runner.Candidates(testutil.SampleCatalog()); len(got) != 0 {
		t.Fatalf("expected no candidates for limit 0, got %d", len(got))
	}

	result, err := runner.Run(testutil.SampleCatalog())
	if err != nil {
		t.Fatalf("optimizer run failed: %v", err)
	}
	if result.FilteredSize != 0 {
		t.Errorf("expected filtered size 0, got %d", result.FilteredSize)
	}
	for _, report := range result.Reports {
		if !report.Solution.Empty() {
			t.Errorf("%s: expected empty solution, got %v", report.Solver, report.Solution.Items)
		}
	}
}

func TestRunnerCandidates(t *testing.T) {
	conf := &config.Configuration{
		Budget: 5,
		Filter: config.FilterConfig{Enabled: true, MinDefense: floatPtr(3), MaxDefense: floatPtr(5)},
	}
	runner, err := NewRunner(zap.NewNop(), conf)
	if err != nil {
		t.Fatalf("failed to create optimizer runner: %v", err)
	}

	items := testutil.SampleCatalog()
	candidates := runner.Candidates(items)
	if len(candidates) != 2 || candidates[0] != items[0] || candidates[1] != items[1] {
		t.Fatalf("expected helmet and shield, got %v", candidates)
	}

	conf.Filter.Enabled = false
	if got := runner.Candidates(items); len(got) != len(items) {
		t.Errorf("disabled filter should pass every item, got %d", len(got))
	}
}

func TestRunnerLimits(t *testing.T) {
	tests := []struct {
		name    string
		budget  int
		solver  string
		limits  Limits
		wantErr string
	}{
		{
			name:    "budget overflows table size",
			budget:  math.MaxInt,
			solver:  constants.SolverDynamic,
			wantErr: "dynamic table exceeds limit",
		},
		{
			name:    "table size wraps to zero",
			budget:  1 << 62,
			solver:  constants.SolverDynamic,
			limits:  Limits{MaxTableCells: 1000},
			wantErr: "dynamic table exceeds limit",
		},
		{
			name:    "table cells over cap",
			budget:  1000,
			solver:  constants.SolverBoth,
			limits:  Limits{MaxTableCells: 1000},
			wantErr: "dynamic table of 5005 cells exceeds limit of 1000",
		},
		{
			name:    "exhaustive items over cap",
			budget:  10,
			solver:  constants.SolverExhaustive,
			limits:  Limits{MaxExhaustiveItems: 3},
			wantErr: "exhaustive search is limited to 3 items, got 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, err := NewRunner(zap.NewNop(), &config.Configuration{Budget: tt.budget, Solver: tt.solver})
			if err != nil {
				t.Fatalf("failed to create optimizer runner: %v", err)
			}

			_, err = runner.WithLimits(tt.limits).Run(testutil.SampleCatalog())
			if !errors.Is(err, ErrLimitExceeded) {
				t.Fatalf("expected ErrLimitExceeded, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}

	runner, err := NewRunner(zap.NewNop(), &config.Configuration{Budget: 5})
	if err != nil {
		t.Fatalf("failed to create optimizer runner: %v", err)
	}
	result, err := runner.WithLimits(Limits{MaxTableCells: 30, MaxExhaustiveItems: 4}).Run(testutil.SampleCatalog())
	if err != nil {
		t.Fatalf("run within limits failed: %v", err)
	}
	if len(result.Reports) != 2 {
		t.Errorf("expected two reports, got %d", len(result.Reports))
	}
}
