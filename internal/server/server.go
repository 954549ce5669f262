package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"parkchat/internal/cache"
	"parkchat/internal/domain"
	"parkchat/internal/resolver"
	"parkchat/internal/store"
	"parkchat/internal/weather"
)

// TranslationStats reports the translation memo size for the
// performance endpoint.
type TranslationStats interface {
	CacheSize() int
}

// EventPublisher forwards resolution events to the ops broker.
type EventPublisher interface {
	PublishResolution(event domain.ResolutionEvent) error
}

// Server owns the HTTP surface: chat, performance, cache admin,
// weather, health.
type Server struct {
	resolver   *resolver.Service
	cache      *cache.ResponseCache
	translator TranslationStats
	store      *store.Store
	publisher  EventPublisher
	weather    *weather.Client
	logger     *slog.Logger
	startedAt  time.Time

	totalRequests atomic.Int64
	cacheHits     atomic.Int64
	errorCount    atomic.Int64
}

func New(res *resolver.Service, responseCache *cache.ResponseCache, logger *slog.Logger) *Server {
	return &Server{
		resolver:  res,
		cache:     responseCache,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Optional collaborators; nil disables the feature.

func (s *Server) WithStore(st *store.Store) *Server {
	s.store = st
	return s
}

func (s *Server) WithPublisher(p EventPublisher) *Server {
	s.publisher = p
	return s
}

func (s *Server) WithWeather(w *weather.Client) *Server {
	s.weather = w
	return s
}

func (s *Server) WithTranslationStats(t TranslationStats) *Server {
	s.translator = t
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Get("/api/chat", s.handleChatDocs)
	r.Post("/api/chat", s.handleChat)
	r.Get("/api/performance", s.handlePerformance)
	r.Post("/api/cache/clear", s.handleCacheClear)
	r.Get("/api/weather", s.handleWeather)
	return r
}

func (s *Server) handleChatDocs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Bale Mountains National Park Chat API",
		"documentation": map[string]any{
			"POST /api/chat": map[string]any{
				"description": "Process chat messages",
				"parameters": map[string]string{
					"message": "String containing user query",
				},
				"example_request": map[string]string{
					"message": "What's the history of Bale Mountains?",
				},
			},
		},
	})
}

func (s *Server) handleChat(w http.ResponseWriter, req *http.Request) {
	var chatReq domain.ChatRequest
	if err := json.NewDecoder(req.Body).Decode(&chatReq); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}
	message := strings.TrimSpace(chatReq.Message)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Message cannot be empty"})
		return
	}

	start := time.Now()
	s.totalRequests.Add(1)

	normalized := strings.ToLower(message)
	var resolved domain.ResolvedIntent
	doc, cached := s.cache.GetOrCompute(normalized, func() (domain.ResponseDocument, bool) {
		var fresh domain.ResponseDocument
		fresh, resolved = s.resolver.Respond(req.Context(), message)
		// Error documents are served but never stored: the next request
		// for the same text must re-run the pipeline.
		return fresh, fresh.Intent != "error"
	})
	if cached {
		s.cacheHits.Add(1)
		resolved = domain.ResolvedIntent{Tag: doc.Intent, Confidence: doc.Confidence, Source: "cache"}
	}
	if doc.Intent == "error" {
		s.errorCount.Add(1)
	}

	latency := time.Since(start).Milliseconds()
	s.recordExchange(message, doc, resolved, cached, latency)

	writeJSON(w, http.StatusOK, domain.ChatResponse{
		Parts:        doc.Parts,
		Confidence:   doc.Confidence,
		Intent:       doc.Intent,
		ResponseText: doc.FirstText(),
	})
}

// recordExchange persists and publishes off the request path; a slow
// database or broker must never delay the chat response.
func (s *Server) recordExchange(message string, doc domain.ResponseDocument, resolved domain.ResolvedIntent, cached bool, latencyMS int64) {
	if s.store == nil && s.publisher == nil {
		return
	}
	requestID := uuid.NewString()

	go func() {
		if s.store != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err := s.store.SaveExchange(ctx, store.Exchange{
				RequestID:  requestID,
				Message:    message,
				Intent:     doc.Intent,
				Source:     resolved.Source,
				Confidence: doc.Confidence,
				Cached:     cached,
				LatencyMS:  latencyMS,
			})
			if err != nil {
				s.logger.Warn("save exchange failed", "error", err)
			}
		}
		if s.publisher != nil {
			err := s.publisher.PublishResolution(domain.ResolutionEvent{
				RequestID:  requestID,
				Intent:     doc.Intent,
				Source:     resolved.Source,
				Confidence: doc.Confidence,
				Cached:     cached,
				LatencyMS:  latencyMS,
				TS:         time.Now().UTC().Format(time.RFC3339),
			})
			if err != nil {
				s.logger.Warn("publish resolution event failed", "error", err)
			}
		}
	}()
}

func (s *Server) handlePerformance(w http.ResponseWriter, req *http.Request) {
	stats := s.cache.Stats()
	payload := map[string]any{
		"uptime_s": int64(time.Since(s.startedAt).Seconds()),
		"requests": map[string]int64{
			"total":      s.totalRequests.Load(),
			"cache_hits": s.cacheHits.Load(),
			"errors":     s.errorCount.Load(),
		},
		"cache": map[string]int{
			"response_cache_size":    stats.ResponseCacheSize,
			"max_entries":            stats.MaxEntries,
			"translation_cache_size": s.translationCacheSize(),
		},
	}

	if s.store != nil {
		counts, err := s.store.CountByIntent(req.Context(), time.Now().Add(-24*time.Hour), 20)
		if err != nil {
			s.logger.Warn("intent counts query failed", "error", err)
		} else {
			payload["intents_24h"] = counts
		}
	}

	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, _ *http.Request) {
	s.cache.Clear()
	s.logger.Info("response cache cleared")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleWeather(w http.ResponseWriter, req *http.Request) {
	if s.weather == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "Weather data unavailable"})
		return
	}
	location := req.URL.Query().Get("location")
	report, err := s.weather.Current(req.Context(), location)
	if err != nil {
		s.logger.Warn("weather lookup failed", "location", location, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "Weather data unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) translationCacheSize() int {
	if s.translator == nil {
		return 0
	}
	return s.translator.CacheSize()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
