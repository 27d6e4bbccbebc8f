// Package catalog loads armor catalogs from the caret-delimited text format:
//
//	description^cost^defense
//	new enchanted helmet^31^12.5
//
// The first line is a header and is ignored.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/max-defense/internal/armor"
	"github.com/iwvelando/max-defense/pkg/constants"
	"go.uber.org/zap"
)

// ErrFieldCount indicates a catalog row without exactly three fields.
var ErrFieldCount = errors.New("catalog: invalid field count")

const fieldsPerRow = 3

// LoadFile opens path and loads the catalog it contains.
func LoadFile(logger *zap.Logger, path string) (armor.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open armor catalog: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	items, err := Load(logger, f)
	if err != nil {
		return nil, fmt.Errorf("failed to load armor catalog %s: %w", path, err)
	}
	return items, nil
}

// Load reads every valid armor item from r. A row with the wrong number of
// fields aborts the load; rows whose values cannot form a valid item are
// skipped.
func Load(logger *zap.Logger, r io.Reader) (armor.Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reader := csv.NewReader(r)
	reader.Comma = constants.CatalogDelimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	items := make(armor.Catalog, 0)
	header := true
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if header {
			header = false
			continue
		}

		if len(record) != fieldsPerRow {
			return nil, fmt.Errorf("%w at line %d: want %d but got %d", ErrFieldCount, line, fieldsPerRow, len(record))
		}

		item, err := parseItem(record)
		if err != nil {
			skipped++
			logger.Debug("skipping invalid catalog row",
				zap.String("op", "catalog.Load"),
				zap.Int("line", line),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}

	logger.Debug("catalog loaded",
		zap.String("op", "catalog.Load"),
		zap.Int("items", len(items)),
		zap.Int("skipped", skipped),
	)

	return items, nil
}

func parseItem(record []string) (*armor.Item, error) {
	description := strings.TrimSpace(record[0])

	cost, err := ParseCost(record[1])
	if err != nil {
		return nil, err
	}

	defense, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid defense %q: %w", record[2], err)
	}
	if math.IsNaN(defense) || math.IsInf(defense, 0) {
		return nil, fmt.Errorf("invalid defense %q: not finite", record[2])
	}

	return armor.NewItem(description, cost, defense)
}

// ParseCost parses a gold cost. Whole numbers written in decimal notation
// ("12.0") are accepted; fractional, non-positive or costs above
// armor.MaxItemCost are rejected.
func ParseCost(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return checkCost(value, float64(n))
	}

	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cost %q: %w", value, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid cost %q: not a whole number of gold", value)
	}
	return checkCost(value, f)
}

func checkCost(value string, cost float64) (int, error) {
	if cost <= 0 {
		return 0, fmt.Errorf("%w: %q", armor.ErrNonPositiveCost, value)
	}
	if cost > armor.MaxItemCost {
		return 0, fmt.Errorf("%w: %q, limit %d", armor.ErrCostTooLarge, value, armor.MaxItemCost)
	}
	return int(cost), nil
}
