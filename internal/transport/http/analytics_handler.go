package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"crashlens/internal/analytics"
	apierrors "crashlens/internal/errors"
	"crashlens/pkg/contracts/domain"
)

// AnalyticsHandler exposes the query engine over HTTP. Every endpoint takes
// the filter specification as query parameters (year_min, year_max,
// operator, location) with the dataset-wide match-all filter as default.
type AnalyticsHandler struct {
	service      AnalyticsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewAnalyticsHandler creates the analytics handler.
func NewAnalyticsHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the analytics routes.
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/dataset", h.GetDatasetInfo)
	r.Get("/filters", h.GetFilterOptions)
	r.Get("/summary", h.GetSummary)
	r.Get("/trends/yearly", h.GetYearlyTrend)
	r.Get("/trends/decades", h.GetDecadeTrend)
	r.Get("/rankings/{category}", h.GetRankings)
	r.Get("/missing", h.GetMissingReport)
	r.Get("/sample", h.GetSample)

	return r
}

// filterQuery is the validated query-parameter form of a FilterSpec.
type filterQuery struct {
	YearMin  int    `validate:"min=0"`
	YearMax  int    `validate:"gtefield=YearMin"`
	Operator string `validate:"max=200"`
	Location string `validate:"max=200"`
	Limit    int    `validate:"min=1,max=1000"`
}

const (
	defaultRankingLimit = 10
	defaultSampleLimit  = 100
)

// parseFilter builds the filter specification from query parameters,
// falling back to the dataset-wide defaults for absent bounds.
func (h *AnalyticsHandler) parseFilter(r *http.Request, defaultLimit int) (analytics.FilterSpec, int, *apierrors.APIError) {
	spec := h.service.DefaultFilter(r.Context())
	q := r.URL.Query()

	parseInt := func(name string, dest *int) *apierrors.APIError {
		raw := q.Get(name)
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return apierrors.InvalidParameter(name, err)
		}
		*dest = n
		return nil
	}

	limit := defaultLimit
	for name, dest := range map[string]*int{
		"year_min": &spec.YearMin,
		"year_max": &spec.YearMax,
		"limit":    &limit,
	} {
		if apiErr := parseInt(name, dest); apiErr != nil {
			return spec, 0, apiErr
		}
	}
	if op := q.Get("operator"); op != "" {
		spec.Operator = op
	}
	if loc := q.Get("location"); loc != "" {
		spec.Location = loc
	}

	fq := filterQuery{
		YearMin:  spec.YearMin,
		YearMax:  spec.YearMax,
		Operator: spec.Operator,
		Location: spec.Location,
		Limit:    limit,
	}
	if err := h.validate.Struct(fq); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return spec, 0, apierrors.ErrValidation(fe.Field(), "failed constraint "+fe.Tag())
		}
		return spec, 0, apierrors.ErrValidationFailed
	}
	return spec, limit, nil
}

// GetDatasetInfo handles GET /api/dataset.
func (h *AnalyticsHandler) GetDatasetInfo(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Info(r.Context()))
}

// GetFilterOptions handles GET /api/filters.
func (h *AnalyticsHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.FilterOptions(r.Context()))
}

// GetSummary handles GET /api/summary.
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	spec, _, apiErr := h.parseFilter(r, defaultSampleLimit)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	render.JSON(w, r, h.service.Summary(r.Context(), spec))
}

// GetYearlyTrend handles GET /api/trends/yearly.
func (h *AnalyticsHandler) GetYearlyTrend(w http.ResponseWriter, r *http.Request) {
	spec, _, apiErr := h.parseFilter(r, defaultSampleLimit)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	render.JSON(w, r, h.service.YearlyTrend(r.Context(), spec))
}

// GetDecadeTrend handles GET /api/trends/decades.
func (h *AnalyticsHandler) GetDecadeTrend(w http.ResponseWriter, r *http.Request) {
	spec, _, apiErr := h.parseFilter(r, defaultSampleLimit)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	render.JSON(w, r, h.service.DecadeTrend(r.Context(), spec))
}

// GetRankings handles GET /api/rankings/{category} for operators and
// locations. A category the source cannot serve returns an empty ranking
// with an advisory, never an error.
func (h *AnalyticsHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	spec, limit, apiErr := h.parseFilter(r, defaultRankingLimit)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	category := chi.URLParam(r, "category")
	ranking, err := h.service.Rankings(r.Context(), spec, category, limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("ranking category "+category))
		return
	}
	render.JSON(w, r, ranking)
}

// GetMissingReport handles GET /api/missing.
func (h *AnalyticsHandler) GetMissingReport(w http.ResponseWriter, r *http.Request) {
	spec, _, apiErr := h.parseFilter(r, defaultSampleLimit)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	report := h.service.MissingValues(r.Context(), spec)
	if report == nil {
		report = []domain.MissingColumn{}
	}
	render.JSON(w, r, report)
}

// GetSample handles GET /api/sample.
func (h *AnalyticsHandler) GetSample(w http.ResponseWriter, r *http.Request) {
	spec, limit, apiErr := h.parseFilter(r, defaultSampleLimit)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	render.JSON(w, r, h.service.Sample(r.Context(), spec, limit))
}
