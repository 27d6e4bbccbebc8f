package integration

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/max-defense/internal/armor"
	"github.com/iwvelando/max-defense/internal/catalog"
	"github.com/iwvelando/max-defense/internal/config"
	"github.com/iwvelando/max-defense/internal/optimizer"
	"github.com/iwvelando/max-defense/pkg/constants"
	"github.com/iwvelando/max-defense/pkg/output"
	"github.com/iwvelando/max-defense/pkg/testutil"
	"go.uber.org/zap"
)

const testConfigPath = "../test_config.yaml"

func loadTestInputs(t *testing.T) (*config.Configuration, armor.Catalog) {
	t.Helper()

	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	items, err := catalog.LoadFile(zap.NewNop(), filepath.Join("..", conf.Catalog.Path))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	return conf, items
}

// TestMainIntegration runs the same pipeline as main() against the sample catalog.
func TestMainIntegration(t *testing.T) {
	logger := zap.NewNop()
	conf, items := loadTestInputs(t)

	if len(items) != 30 {
		t.Fatalf("expected 30 valid catalog items, got %d", len(items))
	}

	runner, err := optimizer.NewRunner(logger, conf)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	result, err := runner.Run(items)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.FilteredSize != 16 {
		t.Errorf("expected 16 filtered items, got %d", result.FilteredSize)
	}

	dynamic, ok := result.Report(constants.SolverDynamic)
	if !ok {
		t.Fatal("missing dynamic report")
	}
	exhaustive, ok := result.Report(constants.SolverExhaustive)
	if !ok {
		t.Fatal("missing exhaustive report")
	}

	if math.Abs(dynamic.Totals.Defense-exhaustive.Totals.Defense) > 1e-9 {
		t.Errorf("solvers disagree: dynamic %g, exhaustive %g", dynamic.Totals.Defense, exhaustive.Totals.Defense)
	}
	for _, report := range result.Reports {
		if report.Totals.Cost > conf.Budget {
			t.Errorf("%s exceeds budget: %d > %d", report.Solver, report.Totals.Cost, conf.Budget)
		}
		if report.Totals.Defense <= 0 {
			t.Errorf("%s found no armor within budget", report.Solver)
		}
	}

	summaries := result.Summaries()
	if summary := testutil.FindSummary(summaries, constants.SolverDynamic); summary == nil || summary.Budget != conf.Budget {
		t.Errorf("expected dynamic summary with budget %d, got %+v", conf.Budget, summary)
	}

	csv := output.CsvString(result)
	if !strings.HasPrefix(csv, "solver,description,cost,defense") {
		t.Errorf("unexpected CSV header: %q", csv)
	}
}

// TestFilteringNeverBeatsFullCatalog checks the dynamic solver over the whole
// catalog is at least as good as any filtered run.
func TestFilteringNeverBeatsFullCatalog(t *testing.T) {
	conf, items := loadTestInputs(t)

	full, err := armor.DynamicMaxDefense(items, conf.Budget)
	if err != nil {
		t.Fatalf("DynamicMaxDefense() error = %v", err)
	}

	lo, hi, _ := conf.Filter.Bounds()
	for limit := 0; limit <= 20; limit += 4 {
		filtered := armor.Filter(items, lo, hi, limit)
		sol, err := armor.ExhaustiveMaxDefense(filtered, float64(conf.Budget))
		if err != nil {
			t.Fatalf("ExhaustiveMaxDefense() error = %v", err)
		}
		if sol.TotalDefense() > full.TotalDefense()+1e-9 {
			t.Errorf("limit %d: filtered defense %g beats full catalog %g", limit, sol.TotalDefense(), full.TotalDefense())
		}
	}
}

// TestBudgetSweep checks both solvers agree and are monotone across budgets.
func TestBudgetSweep(t *testing.T) {
	_, items := loadTestInputs(t)
	filtered := armor.Filter(items, 0, 1000, 14)

	previous := 0.0
	for budget := 0; budget <= 400; budget += 25 {
		dp, err := armor.DynamicMaxDefense(filtered, budget)
		if err != nil {
			t.Fatalf("DynamicMaxDefense() error = %v", err)
		}
		ex, err := armor.ExhaustiveMaxDefense(filtered, float64(budget))
		if err != nil {
			t.Fatalf("ExhaustiveMaxDefense() error = %v", err)
		}

		if math.Abs(dp.TotalDefense()-ex.TotalDefense()) > 1e-9 {
			t.Errorf("budget %d: dynamic %g, exhaustive %g", budget, dp.TotalDefense(), ex.TotalDefense())
		}
		if dp.TotalDefense()+1e-9 < previous {
			t.Errorf("budget %d: defense decreased from %g to %g", budget, previous, dp.TotalDefense())
		}
		previous = dp.TotalDefense()
	}
}
