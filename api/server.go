// Package api provides the HTTP REST API server for MandiWatch.
//
// It exposes endpoints for commodity prices, trend histories, market
// analysis, crop suitability, regional reference data, and WebSocket
// price streaming.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/agrisage/mandiwatch/internal/agridata"
	marketanalysis "github.com/agrisage/mandiwatch/internal/analysis/market"
	"github.com/agrisage/mandiwatch/internal/analysis/suitability"
	"github.com/agrisage/mandiwatch/internal/catalog"
	"github.com/agrisage/mandiwatch/internal/config"
	"github.com/agrisage/mandiwatch/internal/source"
	"github.com/agrisage/mandiwatch/internal/synthetic"
	"github.com/agrisage/mandiwatch/pkg/models"
)

// defaultState anchors requests that do not name a state.
const defaultState = "Delhi"

// maxTrendDays bounds the history length a caller may request; the
// generator allocates one point per day.
const maxTrendDays = 365

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	catalog *catalog.Catalog
	crops   *agridata.DB
	chain   *source.Chain
	synth   *synthetic.Generator
	scorer  *suitability.Scorer
	wsHub   *WSHub
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, cat *catalog.Catalog, crops *agridata.DB, chain *source.Chain, synth *synthetic.Generator) *Server {
	srv := &Server{
		cfg:     cfg,
		catalog: cat,
		crops:   crops,
		chain:   chain,
		synth:   synth,
		scorer:  suitability.New(crops),
		wsHub:   NewWSHub(),
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// WebSocket hub and price tick broadcaster
	tickCtx, cancelTicks := context.WithCancel(context.Background())
	go s.wsHub.Run()
	go s.priceTickLoop(tickCtx)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")
	cancelTicks()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// priceTickLoop periodically resolves a full catalog batch and
// broadcasts it to connected WebSocket clients.
func (s *Server) priceTickLoop(ctx context.Context) {
	interval := time.Duration(s.cfg.API.TickIntervalSec) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.wsHub.ClientCount() == 0 {
				continue
			}
			prices := s.chain.GetPrices(ctx, models.Location{State: defaultState}, nil)
			s.wsHub.Broadcast(WSMessage{Type: "price_tick", Data: prices})
		}
	}
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Prices
		r.Get("/commodities", s.handleCommodities)
		r.Get("/prices", s.handlePrices)
		r.Get("/trend/{commodity}", s.handleTrend)

		// Analysis
		r.Post("/analysis", s.handleAnalysis)
		r.Post("/suitability", s.handleSuitability)

		// Reference data
		r.Get("/regions/{state}", s.handleRegion)
		r.Get("/crops/seasonal", s.handleSeasonalCrops)

		// WebSocket price stream
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalysisRequest is the body for POST /api/v1/analysis.
type AnalysisRequest struct {
	State       string   `json:"state,omitempty"`
	Commodities []string `json:"commodities,omitempty"` // empty = whole catalog
}

// AnalysisResponse pairs the resolved batch with its summary.
type AnalysisResponse struct {
	Prices  []models.CommodityPrice `json:"prices"`
	Summary *models.MarketSummary   `json:"summary"`
}

// SuitabilityRequest is the body for POST /api/v1/suitability.
// Weather fields are pointers so an omitted reading falls back to the
// scorer's defaults instead of scoring against zero.
type SuitabilityRequest struct {
	Crop    string `json:"crop"`
	State   string `json:"state"`
	Weather struct {
		Temperature *float64 `json:"temperature"`
		Rainfall    *float64 `json:"rainfall"`
		Humidity    *float64 `json:"humidity"`
	} `json:"weather"`
}

// SuitabilityResponse carries the computed score.
type SuitabilityResponse struct {
	Crop  string  `json:"crop"`
	State string  `json:"state"`
	Score float64 `json:"score"` // in [0, 1]
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":      "ok",
			"commodities": s.catalog.Len(),
			"ws_clients":  s.wsHub.ClientCount(),
			"time":        time.Now().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleCommodities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: s.catalog.Commodities()})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	loc := models.Location{State: stateOrDefault(r.URL.Query().Get("state"))}

	var commodities []string
	if raw := r.URL.Query().Get("commodities"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				commodities = append(commodities, c)
			}
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	prices := s.chain.GetPrices(ctx, loc, commodities)
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: prices})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	commodity := chi.URLParam(r, "commodity")
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 1 || d > maxTrendDays {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("days must be an integer between 1 and %d", maxTrendDays))
			return
		}
		days = d
	}

	report, err := s.synth.TrendHistory(commodity, days)
	if err != nil {
		if errors.Is(err, synthetic.ErrCommodityNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("commodity %q not found", commodity))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: report})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	loc := models.Location{State: stateOrDefault(req.State)}
	prices := s.chain.GetPrices(ctx, loc, req.Commodities)

	summary, err := marketanalysis.Analyze(prices)
	if err != nil {
		if errors.Is(err, marketanalysis.ErrNoPrices) {
			writeError(w, http.StatusNotFound, "no price data available")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    AnalysisResponse{Prices: prices, Summary: summary},
	})
}

func (s *Server) handleSuitability(w http.ResponseWriter, r *http.Request) {
	var req SuitabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Crop == "" || req.State == "" {
		writeError(w, http.StatusBadRequest, "crop and state are required")
		return
	}

	weather := models.WeatherConditions{
		Temperature: orDefault(req.Weather.Temperature, suitability.DefaultTemperature),
		Rainfall:    orDefault(req.Weather.Rainfall, suitability.DefaultRainfall),
		Humidity:    orDefault(req.Weather.Humidity, suitability.DefaultHumidity),
	}

	score := s.scorer.Score(req.Crop, req.State, weather)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    SuitabilityResponse{Crop: req.Crop, State: req.State, Score: score},
	})
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	state := chi.URLParam(r, "state")
	region, ok := agridata.Region(state)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no regional data for %q", state))
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: region})
}

func (s *Server) handleSeasonalCrops(w http.ResponseWriter, r *http.Request) {
	season := models.Season(strings.ToLower(r.URL.Query().Get("season")))
	profile, ok := agridata.SeasonInfo(season)
	if !ok {
		writeError(w, http.StatusBadRequest, "season must be one of: kharif, rabi, zaid")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"season": profile,
			"crops":  s.crops.SeasonalCrops(season),
		},
	})
}

// ============================================================
// Helpers
// ============================================================

func stateOrDefault(state string) string {
	if state == "" {
		return defaultState
	}
	return state
}

func orDefault(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{Success: false, Error: msg})
}
