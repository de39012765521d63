package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"finsight-backend/internal/advisor"
	"finsight-backend/internal/calc"
	"finsight-backend/internal/config"
	"finsight-backend/internal/db"
	"finsight-backend/internal/store"
	"finsight-backend/internal/types"
)

// conversationStarters is the fixed list served by GET /suggestions.
var conversationStarters = []string{
	"How can I create a budget as a student?",
	"What's the best way to start investing with limited money?",
	"How do I build an emergency fund?",
	"What are some tips for paying off student loans?",
	"How much should I save each month?",
	"What investment apps are good for beginners?",
	"How can I improve my credit score?",
	"What's the 50/30/20 budgeting rule?",
	"Should I invest or pay off debt first?",
	"How do I set financial goals?",
}

type Server struct {
	router   *chi.Mux
	advisor  *advisor.Advisor
	cfg      config.Config
	database *db.DB
}

func NewServer(cfg config.Config) (*Server, error) {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	sessions := store.NewMemoryStore(cfg.MaxSessionTurns)

	// Contexts go to Postgres when DB_URL is set, process memory otherwise.
	var contexts store.ContextStore = sessions
	var database *db.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.EnsureSchema(); err != nil {
			database.Close()
			return nil, err
		}
		log.Println("database connection established")
		contexts = store.NewDatabaseStore(database)
	} else {
		log.Println("warning: DB_URL not provided, contexts are in-memory only")
	}

	fallback := advisor.NewFallbackLibrary()
	if cfg.FallbackFile != "" {
		loaded, err := advisor.LoadFallbackLibrary(cfg.FallbackFile)
		if err != nil {
			log.Printf("warning: could not load fallback library %s: %v", cfg.FallbackFile, err)
		} else {
			fallback = loaded
		}
	}

	var provider advisor.Provider
	if p := advisor.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.Model); p != nil {
		provider = p
	}

	adv := advisor.New(sessions, advisor.NewContextManager(contexts), provider, fallback, cfg.ChatTimeout)

	s := &Server{router: r, advisor: adv, cfg: cfg, database: database}
	s.routes()
	return s, nil
}

// NewServerWithAdvisor wires a prebuilt advisor; used by tests to inject a
// stub capability.
func NewServerWithAdvisor(cfg config.Config, adv *advisor.Advisor) *Server {
	r := chi.NewRouter()
	s := &Server{router: r, advisor: adv, cfg: cfg}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Post("/chat", s.handleChat)
	s.router.Post("/context", s.handleContext)
	s.router.Get("/history/{session_id}", s.handleHistory)
	s.router.Get("/sessions/{user_id}", s.handleSessions)
	s.router.Delete("/session/{session_id}", s.handleDeleteSession)
	s.router.Get("/suggestions", s.handleSuggestions)
	// Calculators
	s.router.Post("/calculator/emi", s.handleEMI)
	s.router.Post("/calculator/fire", s.handleFIRE)
	s.router.Post("/calculator/health", s.handleHealthScore)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) Close() error {
	if s.database != nil {
		return s.database.Close()
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, types.HealthResponse{
		Success:        true,
		AIAvailable:    s.advisor.Available(),
		ActiveSessions: s.advisor.Sessions().Len(),
		Timestamp:      time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	if !s.advisor.Available() {
		fallbackText, _ := s.advisor.FallbackResponse(req.Message)
		s.writeJSON(w, http.StatusServiceUnavailable, types.ErrorResponse{
			Success:          false,
			Error:            "AI service is not available",
			FallbackResponse: fallbackText,
		})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		// Sticky sessions for browser clients that do not echo session_id.
		if sid, err := GetSessionCookie(r); err == nil {
			sessionID = sid
		}
	}

	result, err := s.advisor.Chat(r.Context(), advisor.ChatInput{
		Message:   req.Message,
		UserID:    req.UserID,
		SessionID: sessionID,
		Overrides: req.Context,
	})
	if err != nil {
		if errors.Is(err, advisor.ErrEmptyMessage) {
			s.writeError(w, http.StatusBadRequest, "Message is required")
			return
		}
		log.Printf("[chat] advisory turn failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	SetSessionCookie(w, result.SessionID)
	w.Header().Set("X-Session-Id", result.SessionID)
	s.writeJSON(w, http.StatusOK, types.ChatResponse{
		Success:      result.Success,
		Response:     result.Response,
		Suggestions:  result.Suggestions,
		QuickReplies: result.QuickReplies,
		Intent:       string(result.Intent),
		SessionID:    result.SessionID,
		Timestamp:    result.Timestamp.Format(time.RFC3339),
	})
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	var req types.ContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}
	if _, err := s.advisor.Contexts().Resolve(userID, req.Context); err != nil {
		log.Printf("[context] update failed for %s: %v", userID, err)
		s.writeError(w, http.StatusInternalServerError, "Failed to update context")
		return
	}
	s.writeJSON(w, http.StatusOK, types.MessageResponse{
		Success: true,
		Message: "Context updated successfully",
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	s.writeJSON(w, http.StatusOK, types.HistoryResponse{
		Success:   true,
		History:   s.advisor.Sessions().History(sessionID, 0),
		SessionID: sessionID,
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	s.writeJSON(w, http.StatusOK, types.SessionsResponse{
		Success:  true,
		Sessions: s.advisor.Sessions().ListForUser(userID),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	s.advisor.Sessions().Delete(sessionID)
	s.writeJSON(w, http.StatusOK, types.MessageResponse{
		Success: true,
		Message: "Session deleted successfully",
	})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, types.SuggestionsResponse{
		Success:     true,
		Suggestions: conversationStarters,
	})
}

func (s *Server) handleEMI(w http.ResponseWriter, r *http.Request) {
	var req types.EMIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	res, err := calc.EMI(req.Principal, req.AnnualRate, req.TenureMonths)
	if err != nil {
		s.writeCalcError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleFIRE(w http.ResponseWriter, r *http.Request) {
	var req types.FIRERequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	expectedReturn := 7.0
	if req.ExpectedReturn != nil {
		expectedReturn = *req.ExpectedReturn
	}
	withdrawalRate := 4.0
	if req.WithdrawalRate != nil {
		withdrawalRate = *req.WithdrawalRate
	}
	res, err := calc.FIRE(req.AnnualExpenses, req.CurrentSavings, req.MonthlySavings, expectedReturn, withdrawalRate)
	if err != nil {
		s.writeCalcError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	var req types.HealthScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.writeJSON(w, http.StatusOK, calc.HealthScore(req.MonthlyIncome, req.MonthlySpending))
}

// writeCalcError maps calculator validation faults to 400, anything else 500.
func (s *Server) writeCalcError(w http.ResponseWriter, err error) {
	var verr *calc.ValidationError
	if errors.As(err, &verr) {
		s.writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	log.Printf("[calculator] unexpected error: %v", err)
	s.writeError(w, http.StatusInternalServerError, "Internal server error")
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, types.ErrorResponse{Success: false, Error: msg})
}
