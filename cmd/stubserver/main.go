// stubserver is a development fixture: it serves the platform API shape
// in memory so the client can be exercised without the real backend. It
// is not the production server.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pro4tech/assistant/internal/domain"
)

type store struct {
	mu       sync.Mutex
	agents   []domain.Agent
	users    []domain.User
	assigned map[int]bool // user id -> enabled
	history  map[string]*domain.HistoryEntry
	accesses []domain.AccessRecord
	nextID   int
}

func newStore() *store {
	now := time.Now()
	return &store{
		agents: []domain.Agent{
			{ID: 1, Sector: "RH", Subject: "férias"},
			{ID: 2, Sector: "TI", Subject: "acesso a sistemas"},
			{ID: 3, Sector: "Financeiro", Subject: "reembolsos"},
		},
		users: []domain.User{
			{ID: 1, Name: "Ana Souza", Email: "ana@pro4tech.local", Role: "admin", Active: true},
			{ID: 2, Name: "Bruno Lima", Email: "bruno@pro4tech.local", Role: "usuario", Active: true},
		},
		assigned: map[int]bool{1: true, 2: true},
		history:  map[string]*domain.HistoryEntry{},
		accesses: []domain.AccessRecord{
			{ID: 1, UserID: 2, AgentID: 1, Timestamp: now.Add(-48 * time.Hour)},
			{ID: 2, UserID: 2, AgentID: 1, Timestamp: now.Add(-24 * time.Hour)},
			{ID: 3, UserID: 1, AgentID: 2, Timestamp: now},
		},
		nextID: 100,
	}
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := os.Getenv("STUB_PORT")
	if port == "" {
		port = "3000"
	}

	s := newStore()
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// The dashboard endpoint is unauthenticated, matching the platform.
	r.Get("/acessos", s.listAccesses)

	r.Group(func(r chi.Router) {
		r.Use(requireBearer)

		r.Get("/usuarios/buscar/agentes", s.listAssignedAgents)
		r.Get("/agentes", s.listAgents)
		r.Post("/cadastro/agente", s.createAgent)
		r.Put("/agentes/{id}", s.updateAgent)
		r.Delete("/agentes/{id}", s.deleteAgent)

		r.Get("/historico/chat", s.listHistory)
		r.Post("/mensagens", s.sendMessage)
		r.Delete("/chats/{id}", s.deleteChat)

		r.Get("/usuarios", s.listUsers)
		r.Post("/cadastro/usuario", s.createUser)
		r.Put("/atualizar/usuarios/{id}", s.updateUser)
		r.Put("/usuarios/{id}/status", s.toggleUserStatus)

		r.Get("/agentes/{id}/usuarios", s.listAgentUsers)
		r.Put("/agentes/{id}/habilitar", s.enableUser)
		r.Put("/agentes/{id}/desabilitar", s.disableUser)
	})

	log.Info().Str("port", port).Msg("stub server listening")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal().Err(err).Msg("stub server failed")
	}
}

// requireBearer rejects requests without a bearer token. Any token is
// accepted; the stub does not verify signatures.
func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func urlID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

func (s *store) listAssignedAgents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.agents)
}

func (s *store) listAgents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.agents)
}

func (s *store) createAgent(w http.ResponseWriter, r *http.Request) {
	var input domain.AgentCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	agent := domain.Agent{ID: s.nextID, Sector: input.Sector, Subject: input.Subject}
	s.agents = append(s.agents, agent)
	writeJSON(w, http.StatusCreated, agent)
}

func (s *store) updateAgent(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid agent id")
		return
	}
	var input domain.Agent
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.agents {
		if s.agents[i].ID == id {
			s.agents[i].Sector = input.Sector
			s.agents[i].Subject = input.Subject
			writeJSON(w, http.StatusOK, s.agents[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "agente não encontrado")
}

func (s *store) deleteAgent(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid agent id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.agents[:0]
	for _, a := range s.agents {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.agents = kept
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *store) listHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]domain.HistoryEntry, 0, len(s.history))
	for _, e := range s.history {
		entries = append(entries, *e)
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *store) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req domain.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.history[req.ChatID]
	if !ok {
		title := "Conversa"
		for _, a := range s.agents {
			if a.ID == req.AgentID {
				title = a.Subject
			}
		}
		entry = &domain.HistoryEntry{
			StorageID: fmt.Sprintf("st-%s", req.ChatID),
			ChatID:    req.ChatID,
			AgentID:   req.AgentID,
			Title:     title,
			CreatedAt: time.Now(),
		}
		s.history[req.ChatID] = entry
	}

	reply := fmt.Sprintf("Entendido! Você perguntou: %q", req.Question)
	agentID := req.AgentID
	now := time.Now()
	entry.Turns = append(entry.Turns,
		domain.StoredTurn{ID: len(entry.Turns), UserID: req.UserID, Text: req.Question, Timestamp: now},
		domain.StoredTurn{ID: len(entry.Turns) + 1, UserID: req.UserID, AgentID: &agentID, Text: reply, Timestamp: now},
	)
	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (s *store) deleteChat(w http.ResponseWriter, r *http.Request) {
	storageID := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for chatID, e := range s.history {
		if e.StorageID == storageID {
			delete(s.history, chatID)
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
			return
		}
	}
	writeError(w, http.StatusNotFound, "chat não encontrado")
}

func (s *store) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.users)
}

func (s *store) createUser(w http.ResponseWriter, r *http.Request) {
	var input domain.UserCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	role := input.Role
	if role == "" {
		role = "usuario"
	}
	user := domain.User{ID: s.nextID, Name: input.Name, Email: input.Email, Role: role, Active: true}
	s.users = append(s.users, user)
	writeJSON(w, http.StatusCreated, user)
}

func (s *store) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var input domain.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Name = input.Name
			s.users[i].Email = input.Email
			writeJSON(w, http.StatusOK, s.users[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "usuário não encontrado")
}

func (s *store) toggleUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var body struct {
		Active bool `json:"ativo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Active = body.Active
			writeJSON(w, http.StatusOK, s.users[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "usuário não encontrado")
}

func (s *store) listAgentUsers(w http.ResponseWriter, r *http.Request) {
	if _, err := urlID(r); err != nil {
		writeError(w, http.StatusBadRequest, "invalid agent id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]domain.PermissionEntry, 0, len(s.users))
	for _, u := range s.users {
		entries = append(entries, domain.PermissionEntry{ID: u.ID, Name: u.Name, Assigned: s.assigned[u.ID]})
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *store) enableUser(w http.ResponseWriter, r *http.Request) {
	s.setAssignment(w, r, true)
}

func (s *store) disableUser(w http.ResponseWriter, r *http.Request) {
	s.setAssignment(w, r, false)
}

func (s *store) setAssignment(w http.ResponseWriter, r *http.Request, assigned bool) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assigned[id] = assigned
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *store) listAccesses(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.accesses)
}
