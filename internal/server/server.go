package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/iwvelando/coverage-calculator/internal/config"
	"github.com/iwvelando/coverage-calculator/internal/coverage"
	"github.com/iwvelando/coverage-calculator/internal/sheet"
	"github.com/iwvelando/coverage-calculator/internal/summary"
	"github.com/iwvelando/coverage-calculator/pkg/format"
	"github.com/iwvelando/coverage-calculator/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger               *zap.Logger
	householdUploadLimit int64
	locale               string
	version              string
	metrics              *serverMetrics
}

// NewHandler constructs the HTTP handler that serves the coverage API. A nil
// cfg uses DefaultConfig.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:               logger,
		householdUploadLimit: cfg.HouseholdUploadLimit(),
		locale:               cfg.Locale,
		version:              trimmedVersion,
		metrics:              newServerMetrics(),
	}

	mux := http.NewServeMux()

	// Single person calculation for interactive editing
	mux.HandleFunc("/api/calculate", h.metrics.instrument("calculate", h.handleCalculate))

	// Default pension levels for a given income
	mux.HandleFunc("/api/defaults", h.metrics.instrument("defaults", h.handleDefaults))

	// Household configuration upload
	mux.HandleFunc("/api/household", h.metrics.instrument("household", h.handleHousehold))

	// Config serialization for editor downloads
	mux.HandleFunc("/api/export", h.metrics.instrument("export", h.handleConfigExport))

	mux.HandleFunc("/api/version", h.handleVersion)
	mux.Handle("/metrics", h.metrics.handler())

	return mux
}

type calculateRequest struct {
	sheet.Profile
	PensionLevels []float64 `json:"pensionLevels,omitempty"`
	Locale        string    `json:"locale,omitempty"`
}

type personResponse struct {
	summary.Summary
	Formatted formattedSummary `json:"formatted"`
}

type calculateResponse struct {
	Person   personResponse `json:"person"`
	Warnings []string       `json:"warnings,omitempty"`
}

type formattedSummary struct {
	PensionLevels   [coverage.LevelCount]string `json:"pensionLevels"`
	PensionPercents [coverage.LevelCount]string `json:"pensionPercents"`
	Death           string                      `json:"death"`
	Invalidity      []formattedInvalidity       `json:"invalidity"`
	PermanentInjury string                      `json:"permanentInjury"`
	WorkDisability  string                      `json:"workDisability"`
	Hospitalization string                      `json:"hospitalization"`
	Injury          string                      `json:"injury"`
}

type formattedInvalidity struct {
	Total          string `json:"total"`
	Constant       string `json:"constant"`
	Variable       string `json:"variable"`
	ExpectedIncome string `json:"expectedIncome"`
}

type defaultsRequest struct {
	Income float64 `json:"income"`
}

type defaultsResponse struct {
	PensionLevels   coverage.PensionLevels       `json:"pensionLevels"`
	PensionPercents [coverage.LevelCount]float64 `json:"pensionPercents"`
}

type householdResponse struct {
	Persons  []personResponse `json:"persons"`
	CSV      string           `json:"csv"`
	Warnings []string         `json:"warnings,omitempty"`
	Duration string           `json:"duration"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req calculateRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	f, err := h.formatter(req.Locale)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	person := config.Person{
		Name:          req.Name,
		Income:        req.Income,
		OtherIncome:   req.OtherIncome,
		OSVC:          req.OSVC,
		Expenses:      req.Expenses,
		PassiveIncome: req.PassiveIncome,
		PensionLevels: req.PensionLevels,
	}
	s, err := person.Sheet()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	conf := config.Configuration{Persons: []config.Person{person}}
	result := summary.FromSheet(s)
	h.metrics.calculations.Inc()

	h.logger.Debug("coverage computed",
		zap.String("op", op),
		zap.Float64("income", req.Income),
		zap.Bool("osvc", req.OSVC),
	)

	h.writeJSON(w, http.StatusOK, calculateResponse{
		Person:   newPersonResponse(result, f),
		Warnings: conf.ValidateConfiguration(),
	})
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDefaults"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req defaultsRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	s := sheet.New(sheet.Profile{Income: req.Income})
	h.writeJSON(w, http.StatusOK, defaultsResponse{
		PensionLevels:   s.PensionLevels(),
		PensionPercents: s.PensionPercents(),
	})
}

func (h *handler) handleHousehold(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleHousehold"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.householdUploadLimit)
	if err := r.ParseMultipartForm(h.householdUploadLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.householdUploadLimit), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
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

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	conf, err := config.LoadConfigurationFromReader(&buf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	f, err := h.formatter(conf.Output.Locale)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := conf.ValidateConfiguration()
	summaries, err := summary.GetSummaries(r.Context(), h.logger, *conf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute coverage: %v", err), op)
		return
	}
	h.metrics.calculations.Add(float64(len(summaries)))

	persons := make([]personResponse, 0, len(summaries))
	for _, s := range summaries {
		persons = append(persons, newPersonResponse(s, f))
	}

	elapsed := time.Since(start)
	h.logger.Info("household coverage computed",
		zap.String("op", op),
		zap.Int("persons", len(persons)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, householdResponse{
		Persons:  persons,
		CSV:      output.CsvString(summaries),
		Warnings: warnings,
		Duration: elapsed.String(),
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var conf config.Configuration
	if !h.decodeJSON(w, r, &conf, op) {
		return
	}
	if err := conf.Validate(); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	yamlBytes, err := yaml.Marshal(conf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"configYaml": string(yamlBytes),
		"warnings":   conf.ValidateConfiguration(),
	})
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

// formatter falls back to the server locale when the request names none.
func (h *handler) formatter(locale string) (*format.Formatter, error) {
	if strings.TrimSpace(locale) == "" {
		locale = h.locale
	}
	return format.NewFormatter(locale)
}

func newPersonResponse(s summary.Summary, f *format.Formatter) personResponse {
	r := s.Results
	formatted := formattedSummary{
		Death:           f.Currency(r.Death),
		Invalidity:      make([]formattedInvalidity, 0, len(r.Invalidity)),
		PermanentInjury: f.Currency(r.PermanentInjury),
		WorkDisability:  f.DailyRate(r.WorkDisability),
		Hospitalization: f.DailyRate(r.Hospitalization),
		Injury:          f.Currency(r.Injury),
	}
	for i, level := range s.Input.PensionLevels {
		formatted.PensionLevels[i] = f.Currency(level)
		formatted.PensionPercents[i] = f.Percent(s.PensionPercents[i])
	}
	for _, inv := range r.Invalidity {
		formatted.Invalidity = append(formatted.Invalidity, formattedInvalidity{
			Total:          f.Currency(inv.Total),
			Constant:       f.Currency(inv.Constant),
			Variable:       f.Currency(inv.Variable),
			ExpectedIncome: f.Currency(inv.ExpectedIncome),
		})
	}
	return personResponse{Summary: s, Formatted: formatted}
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.householdUploadLimit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("coverage request failed",
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
