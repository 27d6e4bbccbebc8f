package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/max-defense/internal/armor"
	"github.com/iwvelando/max-defense/internal/catalog"
	"github.com/iwvelando/max-defense/internal/config"
	"github.com/iwvelando/max-defense/internal/optimizer"
	"github.com/iwvelando/max-defense/pkg/constants"
	"github.com/iwvelando/max-defense/pkg/optimization"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	maxExhaustive int
	version       string
}

// NewHandler constructs the HTTP handler that serves the solver API.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	maxUploadSize := cfg.UploadSizeBytes()
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}
	maxExhaustive := cfg.MaxExhaustiveItems
	if maxExhaustive <= 0 || maxExhaustive > armor.MaxExhaustiveItems {
		maxExhaustive = constants.DefaultServerExhaustiveLimit
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		maxExhaustive: maxExhaustive,
		version:       trimmedVersion,
	}

	mux := http.NewServeMux()

	// Solve from a JSON item list
	mux.HandleFunc("/api/solve", h.handleSolve)

	// Solve from an uploaded catalog file
	mux.HandleFunc("/api/solve/upload", h.handleSolveUpload)

	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type itemPayload struct {
	Description string  `json:"description"`
	Cost        int     `json:"cost"`
	Defense     float64 `json:"defense"`
}

type filterPayload struct {
	MinDefense *float64 `json:"minDefense,omitempty"`
	MaxDefense *float64 `json:"maxDefense,omitempty"`
	Limit      *int     `json:"limit,omitempty"`
}

type solveRequest struct {
	Items  []itemPayload  `json:"items"`
	Budget *int           `json:"budget"`
	Solver string         `json:"solver,omitempty"`
	Filter *filterPayload `json:"filter,omitempty"`
}

type solveResponse struct {
	Budget       int                    `json:"budget"`
	CatalogSize  int                    `json:"catalogSize"`
	FilteredSize int                    `json:"filteredSize"`
	Results      []optimization.Summary `json:"results"`
	Warnings     []string               `json:"warnings,omitempty"`
	Duration     string                 `json:"duration"`
}

func (h *handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSolve"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}
	if req.Budget == nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing budget", op)
		return
	}

	items := make(armor.Catalog, 0, len(req.Items))
	var warnings []string
	for idx, payload := range req.Items {
		item, err := armor.NewItem(payload.Description, payload.Cost, payload.Defense)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped item %d: %v", idx, err))
			continue
		}
		items = append(items, item)
	}

	conf := &config.Configuration{
		Budget: *req.Budget,
		Solver: req.Solver,
	}
	if req.Filter != nil {
		conf.Filter = config.FilterConfig{
			Enabled:    true,
			MinDefense: req.Filter.MinDefense,
			MaxDefense: req.Filter.MaxDefense,
			Limit:      req.Filter.Limit,
		}
	}

	h.runSolve(w, conf, items, warnings, start, op)
}

func (h *handler) handleSolveUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSolveUpload"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing catalog file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	budget, err := strconv.Atoi(strings.TrimSpace(r.FormValue("budget")))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid budget: %v", err), op)
		return
	}

	conf := &config.Configuration{
		Budget: budget,
		Solver: r.FormValue("solver"),
	}
	if limit := strings.TrimSpace(r.FormValue("limit")); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid limit: %v", err), op)
			return
		}
		conf.Filter = config.FilterConfig{Enabled: true, Limit: &n}
	}

	items, err := catalog.Load(h.logger, file)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.runSolve(w, conf, items, nil, start, op)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) runSolve(w http.ResponseWriter, conf *config.Configuration, items armor.Catalog, warnings []string, start time.Time, op string) {
	runner, err := optimizer.NewRunner(h.logger, conf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	runner.WithLimits(optimizer.Limits{
		MaxTableCells:      constants.DefaultServerMaxTableCells,
		MaxExhaustiveItems: h.maxExhaustive,
	})

	result, err := runner.Run(items)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, optimizer.ErrSolverMismatch) {
			status = http.StatusInternalServerError
		}
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	response := solveResponse{
		Budget:       result.Budget,
		CatalogSize:  result.CatalogSize,
		FilteredSize: result.FilteredSize,
		Results:      result.Summaries(),
		Warnings:     warnings,
		Duration:     elapsed.String(),
	}

	h.logger.Info("solve computed",
		zap.String("op", op),
		zap.Int("items", result.CatalogSize),
		zap.Int("candidates", result.FilteredSize),
		zap.Int("budget", result.Budget),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("solve request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
