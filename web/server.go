package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"house_crush/models"
	"house_crush/providers"
	"house_crush/services"
	"house_crush/storage"
)

// Collector is the scheduler surface the web layer can trigger.
type Collector interface {
	TriggerNow(ctx context.Context) error
}

type Server struct {
	httpServer *http.Server
	search     *services.SearchService
	qa         *services.QAService
	store      *storage.SQLiteStore
	archive    *storage.PostgresStore
	coll       Collector
}

func NewServer(addr string, search *services.SearchService, qa *services.QAService, store *storage.SQLiteStore, archive *storage.PostgresStore, coll Collector) *Server {
	s := &Server{
		search:  search,
		qa:      qa,
		store:   store,
		archive: archive,
		coll:    coll,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Post("/search", s.handleSearchForm)
	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/status", s.handleStatus)
		r.Post("/qa", s.handleQA)
		r.Post("/collect", s.handleCollect)
		r.Post("/feedback", s.handleFeedback)
		r.Get("/archive", s.handleArchive)
	})

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

func (s *Server) Start() error {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	log.Println("Stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}

type searchRequest struct {
	Provider string               `json:"provider"`
	Filters  models.SearchFilters `json:"filters"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Provider == "" {
		req.Provider = "google"
	}

	result := s.search.Search(r.Context(), req.Provider, req.Filters)
	writeJSON(w, http.StatusOK, result)
}

// handleSearchForm accepts a classic form POST so the demo page can
// submit without JavaScript. Responds with the same JSON envelope.
func (s *Server) handleSearchForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	filters := models.SearchFilters{
		Location: r.FormValue("location"),
	}
	if v := formInt(r, "min_price"); v != nil {
		filters.MinPrice = v
	}
	if v := formInt(r, "max_price"); v != nil {
		filters.MaxPrice = v
	}
	if v := formInt(r, "bedrooms"); v != nil {
		filters.Bedrooms = v
	}
	if raw := r.FormValue("amenities"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				filters.Amenities = append(filters.Amenities, a)
			}
		}
	}
	if raw := strings.TrimSpace(r.FormValue("lifestyle")); raw != "" {
		filters.Lifestyle = models.LifestyleList{raw}
	}

	provider := r.FormValue("provider")
	if provider == "" {
		provider = "google"
	}

	result := s.search.Search(r.Context(), provider, filters)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		Providers []models.ProviderStatus `json:"providers"`
		Runs      []models.CollectRun     `json:"recent_runs,omitempty"`
		Stats     []models.ProviderStats  `json:"provider_stats,omitempty"`
	}{
		Providers: s.search.Statuses(),
	}

	if s.store != nil {
		runs, err := s.store.RecentRuns(r.Context(), 10)
		if err != nil {
			log.Printf("web: recent runs: %v", err)
		} else {
			resp.Runs = runs
		}

		for _, p := range resp.Providers {
			stats, err := s.store.ProviderStats(r.Context(), p.Name)
			if err != nil {
				log.Printf("web: stats for %s: %v", p.Name, err)
				continue
			}
			if stats.TotalRuns > 0 {
				resp.Stats = append(resp.Stats, *stats)
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleArchive serves the Postgres listing archive, newest first.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "the listings archive is not configured")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	listings, err := s.archive.RecentListings(r.Context(), r.URL.Query().Get("location"), limit)
	if err != nil {
		log.Printf("web: archive: %v", err)
		writeError(w, http.StatusBadGateway, "could not read the listings archive")
		return
	}

	writeJSON(w, http.StatusOK, models.SearchResult{
		Provider: "archive",
		Listings: listings,
		Count:    len(listings),
	})
}

type qaRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleQA(w http.ResponseWriter, r *http.Request) {
	var req qaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := s.qa.Ask(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, providers.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "the Q&A assistant is not configured")
			return
		}
		log.Printf("web: qa: %v", err)
		writeError(w, http.StatusBadGateway, "could not answer the question right now")
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

type feedbackRequest struct {
	Message string `json:"message"`
}

// handleFeedback records user feedback. It always lands in the
// process log; the SQLite store keeps it queryable when present.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "feedback message is required")
		return
	}

	log.Printf("feedback: %s", req.Message)
	if s.store != nil {
		entry := &models.Feedback{
			Message:   req.Message,
			UserAgent: r.UserAgent(),
		}
		if err := s.store.AddFeedback(r.Context(), entry); err != nil {
			log.Printf("web: save feedback: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Thank you for your feedback!"})
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	if s.coll == nil {
		writeError(w, http.StatusServiceUnavailable, "collection is not enabled")
		return
	}
	if err := s.coll.TriggerNow(r.Context()); err != nil {
		log.Printf("web: collect: %v", err)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("collection failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func formInt(r *http.Request, field string) *int {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
