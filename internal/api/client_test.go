package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pro4tech/assistant/internal/apierr"
	"github.com/pro4tech/assistant/internal/auth"
	"github.com/pro4tech/assistant/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	authCtx := auth.NewStaticContext("test-token", 42, "usuario")
	return NewClient(srv.URL, authCtx, 5*time.Second, zerolog.Nop())
}

func TestClient_ListAssigned(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/usuarios/buscar/agentes", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer test-token", req.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"setor":"RH","assunto":"férias"}]`))
	})

	client := newTestClient(t, r)
	agents, err := client.ListAssigned(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Agent{{ID: 1, Sector: "RH", Subject: "férias"}}, agents)
}

func TestClient_ListAssigned_RemoteError(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/usuarios/buscar/agentes", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"sem permissão"}`))
	})

	client := newTestClient(t, r)
	_, err := client.ListAssigned(context.Background())

	var re *apierr.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusForbidden, re.Status)
	assert.Equal(t, "sem permissão", re.Message)
}

func TestClient_ListAssigned_MalformedBody(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/usuarios/buscar/agentes", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	})

	client := newTestClient(t, r)
	_, err := client.ListAssigned(context.Background())

	var me *apierr.MalformedResponseError
	assert.ErrorAs(t, err, &me)
}

func TestClient_ListAssigned_RejectsInvalidRecords(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/usuarios/buscar/agentes", func(w http.ResponseWriter, req *http.Request) {
		// Second record has no sector/subject.
		w.Write([]byte(`[{"id":1,"setor":"RH","assunto":"férias"},{"id":2}]`))
	})

	client := newTestClient(t, r)
	_, err := client.ListAssigned(context.Background())

	var me *apierr.MalformedResponseError
	assert.ErrorAs(t, err, &me)
}

func TestClient_Unauthenticated(t *testing.T) {
	store := auth.NewTokenStore(t.TempDir()+"/missing.json", "")
	client := NewClient("http://127.0.0.1:1", auth.NewContext(store), time.Second, zerolog.Nop())

	// Aborts before any request is issued.
	_, err := client.ListAssigned(context.Background())
	assert.ErrorIs(t, err, apierr.ErrUnauthenticated)

	_, err = client.ListHistory(context.Background())
	assert.ErrorIs(t, err, apierr.ErrUnauthenticated)
}

func TestClient_NetworkError(t *testing.T) {
	authCtx := auth.NewStaticContext("test-token", 42, "usuario")
	client := NewClient("http://127.0.0.1:1", authCtx, 500*time.Millisecond, zerolog.Nop())

	_, err := client.ListAssigned(context.Background())

	var ne *apierr.NetworkError
	assert.ErrorAs(t, err, &ne)
}

func TestClient_ListHistory(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/historico/chat", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "42", req.URL.Query().Get("usuario_id"))
		w.Write([]byte(`[{"_id":"st-1","id":"chat-1","agente_id":7,"title":"acesso",
			"created_at":"2026-08-29T10:00:00Z",
			"messages":[{"id":0,"usuario_id":42,"agente_id":null,"text":"hi","timestamp":"2026-08-29T10:00:01Z"},
			            {"id":1,"usuario_id":42,"agente_id":7,"text":"hello","timestamp":"2026-08-29T10:00:02Z"}]}]`))
	})

	client := newTestClient(t, r)
	entries, err := client.ListHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "st-1", entry.StorageID)
	assert.Equal(t, "chat-1", entry.ChatID)
	assert.Equal(t, 7, entry.AgentID)
	require.Len(t, entry.Turns, 2)
	assert.Nil(t, entry.Turns[0].AgentID)
	require.NotNil(t, entry.Turns[1].AgentID)
	assert.Equal(t, 7, *entry.Turns[1].AgentID)
}

func TestClient_ListHistory_Empty(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/historico/chat", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`[]`))
	})

	client := newTestClient(t, r)
	entries, err := client.ListHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClient_SendMessage(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/mensagens", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"response":"tudo certo"}`))
	})

	client := newTestClient(t, r)
	reply, err := client.SendMessage(context.Background(), domain.SendRequest{
		Question: "oi", ChatID: "c1", UserID: 42, AgentID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "tudo certo", reply)
}

func TestClient_SendMessage_EmptyResponseField(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/mensagens", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{}`))
	})

	client := newTestClient(t, r)
	_, err := client.SendMessage(context.Background(), domain.SendRequest{Question: "oi", ChatID: "c1"})

	var me *apierr.MalformedResponseError
	assert.ErrorAs(t, err, &me)
}

func TestClient_DeleteSession_NotFound(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/chats/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("chat não encontrado"))
	})

	client := newTestClient(t, r)
	err := client.DeleteSession(context.Background(), "st-missing")

	var re *apierr.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusNotFound, re.Status)
	// Plain-text error bodies are surfaced too.
	assert.Equal(t, "chat não encontrado", re.Message)
}

func TestClient_ListAccesses_WithoutToken(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/acessos", func(w http.ResponseWriter, req *http.Request) {
		// Public endpoint: no Authorization header without a stored token.
		assert.Empty(t, req.Header.Get("Authorization"))
		w.Write([]byte(`[{"id":1,"usuario_id":42,"agente_id":7,"timestamp":"2026-08-29T10:00:00Z"}]`))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	store := auth.NewTokenStore(t.TempDir()+"/missing.json", "")
	client := NewClient(srv.URL, auth.NewContext(store), 5*time.Second, zerolog.Nop())

	records, err := client.ListAccesses(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 42, records[0].UserID)
	assert.Equal(t, 7, records[0].AgentID)
}

func TestClient_ListAccesses_SendsTokenWhenPresent(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/acessos", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer test-token", req.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})

	client := newTestClient(t, r)
	records, err := client.ListAccesses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClient_ListAccesses_RejectsInvalidRecords(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/acessos", func(w http.ResponseWriter, req *http.Request) {
		// Second record has no user or agent reference.
		w.Write([]byte(`[{"id":1,"usuario_id":42,"agente_id":7,"timestamp":"2026-08-29T10:00:00Z"},{"id":2}]`))
	})

	client := newTestClient(t, r)
	_, err := client.ListAccesses(context.Background())

	var me *apierr.MalformedResponseError
	assert.ErrorAs(t, err, &me)
}

func TestClient_SendMessage_ContextCancelled(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/mensagens", func(w http.ResponseWriter, req *http.Request) {
		// The server only watches for client disconnects once the request
		// body has been consumed, so drain it before blocking on the context.
		io.Copy(io.Discard, req.Body)
		<-req.Context().Done()
	})

	client := newTestClient(t, r)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.SendMessage(ctx, domain.SendRequest{Question: "oi", ChatID: "c1"})

	var ne *apierr.NetworkError
	assert.ErrorAs(t, err, &ne)
}
