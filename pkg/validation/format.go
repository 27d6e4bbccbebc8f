// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/max-defense/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateSolver checks if the solver name is one of the supported solvers.
func ValidateSolver(solver string) error {
	switch solver {
	case constants.SolverDynamic, constants.SolverExhaustive, constants.SolverBoth:
		return nil
	}
	return fmt.Errorf("expected solver of %s, %s or %s, got %s",
		constants.SolverDynamic, constants.SolverExhaustive, constants.SolverBoth, solver)
}
