package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/umar-b/BSMS-2/internal/domain"
)

// DefaultHistoryWindow is used when /api/readings has no start parameter
const DefaultHistoryWindow = time.Hour

// ReadingView is a stored reading as the dashboard sees it
type ReadingView struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"`
	domain.Reading
}

// Handler serves stored telemetry over HTTP
type Handler struct {
	repo domain.ReadingRepository
}

// NewHandler creates the HTTP handler
func NewHandler(repo domain.ReadingRepository) *Handler {
	return &Handler{repo: repo}
}

// NewRouter wires the routes and wraps them in panic recovery and CORS for
// the given origins. An empty origin list allows any origin.
func NewRouter(repo domain.ReadingRepository, allowedOrigins []string) http.Handler {
	h := NewHandler(repo)

	router := mux.NewRouter()
	router.HandleFunc("/data", h.HandleDeviceData).Methods(http.MethodGet)
	router.HandleFunc("/api/readings/latest", h.HandleLatest).Methods(http.MethodGet)
	router.HandleFunc("/api/readings", h.HandleHistory).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.HandleHealth).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Content-Type"},
	})
	recovered := handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))(router)
	return c.Handler(recovered)
}

// HandleDeviceData answers like the ESP32 does, with the latest stored reading
func (h *Handler) HandleDeviceData(w http.ResponseWriter, r *http.Request) {
	reading, ok := h.latest(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, reading)
}

// HandleLatest returns the latest stored reading with its metadata
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	reading, ok := h.latest(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, newReadingView(reading))
}

// HandleHistory returns readings in [start, end), given as unix seconds.
// start defaults to an hour before end, end defaults to now.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	end := time.Now()
	if v := r.URL.Query().Get("end"); v != "" {
		sec, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, ErrorCodeBadRequest, "end must be unix seconds")
			return
		}
		end = time.Unix(sec, 0)
	}

	start := end.Add(-DefaultHistoryWindow)
	if v := r.URL.Query().Get("start"); v != "" {
		sec, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, ErrorCodeBadRequest, "start must be unix seconds")
			return
		}
		start = time.Unix(sec, 0)
	}

	if end.Before(start) {
		respondWithError(w, http.StatusBadRequest, ErrorCodeInvalidRange, "end is before start")
		return
	}

	readings, err := h.repo.GetReadingsInRange(r.Context(), start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to get readings")
		respondWithError(w, http.StatusInternalServerError, ErrorCodeInternal, "failed to get readings")
		return
	}

	views := make([]ReadingView, len(readings))
	for i, reading := range readings {
		views[i] = newReadingView(reading)
	}
	respondWithJSON(w, http.StatusOK, views)
}

// HandleHealth reports liveness
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Handler) latest(w http.ResponseWriter, r *http.Request) (*domain.Reading, bool) {
	reading, err := h.repo.GetLatestReading(r.Context())
	if errors.Is(err, domain.ErrReadingNotFound) {
		respondWithError(w, http.StatusNotFound, ErrorCodeNotFound, "no readings recorded yet")
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to get latest reading")
		respondWithError(w, http.StatusInternalServerError, ErrorCodeInternal, "failed to get reading")
		return nil, false
	}
	return reading, true
}

func newReadingView(r *domain.Reading) ReadingView {
	return ReadingView{
		ID:        r.ID,
		Timestamp: r.Timestamp,
		Category:  r.LightCategory(),
		Reading:   *r,
	}
}

// recoveryLogger routes recovered panics to zerolog
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...any) {
	log.Error().Interface("panic", v).Msg("recovered from panic in HTTP handler")
}
