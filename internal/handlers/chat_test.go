package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/listoapp/listo/internal/engine"
	"github.com/listoapp/listo/internal/models"
	"github.com/listoapp/listo/internal/services/assistant"
	"github.com/listoapp/listo/internal/services/nlp"
)

// fixedExtractor returns the same fields for every utterance.
type fixedExtractor struct {
	fields models.TaskFields
	err    error
}

func (f fixedExtractor) ExtractTaskFields(context.Context, string) (models.TaskFields, error) {
	return f.fields, f.err
}

// capturingExtractor records the utterance it is handed.
type capturingExtractor struct {
	fields models.TaskFields
	seen   string
}

func (c *capturingExtractor) ExtractTaskFields(_ context.Context, utterance string) (models.TaskFields, error) {
	c.seen = utterance
	return c.fields, nil
}

func newChatRouter(extractor nlp.Extractor) (*mux.Router, *engine.Store) {
	store := engine.NewStore(0)
	svc := assistant.NewService(extractor, store, nil, zap.NewNop())
	r := mux.NewRouter()
	NewChatHandler(svc).RegisterRoutes(r)
	NewTasksHandler(store).RegisterRoutes(r)
	return r, store
}

func postJSON(t *testing.T, r http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSendMessage_CreatesTask(t *testing.T) {
	t.Parallel()

	router, store := newChatRouter(fixedExtractor{fields: models.TaskFields{
		TaskName: "Comprar leche",
		DueDate:  "mañana",
		ItemType: models.ItemTypeTask,
	}})

	rec := postJSON(t, router, "/chat/message", map[string]string{"message": "comprar leche mañana"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Success bool               `json:"success"`
		Data    assistant.Response `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if !envelope.Success {
		t.Error("success should be true")
	}
	if envelope.Data.Outcome == nil || envelope.Data.Outcome.Action != engine.ActionCreated {
		t.Errorf("outcome = %+v", envelope.Data.Outcome)
	}
	if len(store.Tasks()) != 1 {
		t.Errorf("tasks = %d, want 1", len(store.Tasks()))
	}
}

func TestSendMessage_SanitizesInput(t *testing.T) {
	t.Parallel()

	extractor := &capturingExtractor{fields: models.TaskFields{
		TaskName: "Llamar al médico",
		DueDate:  "el lunes",
		ItemType: models.ItemTypeTask,
	}}
	router, _ := newChatRouter(extractor)

	rec := postJSON(t, router, "/chat/message", map[string]string{
		"message": "  llamar al médico\x00\x07 el lunes\t",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if want := "llamar al médico el lunes"; extractor.seen != want {
		t.Errorf("extractor received %q, want %q", extractor.seen, want)
	}
}

func TestSendMessage_BadRequests(t *testing.T) {
	t.Parallel()

	router, _ := newChatRouter(fixedExtractor{})

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: "{not json"},
		{name: "missing message", body: "{}"},
		{name: "oversized message", body: `{"message": "` + strings.Repeat("a", 2001) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("POST", "/chat/message", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestSendMessage_ExtractionFailure(t *testing.T) {
	t.Parallel()

	router, store := newChatRouter(fixedExtractor{err: nlp.ErrExtractionFailed})

	rec := postJSON(t, router, "/chat/message", map[string]string{"message": "comprar leche"})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if len(store.Tasks()) != 0 {
		t.Error("failed extraction must not create tasks")
	}
}

func TestCancelEndpoint(t *testing.T) {
	t.Parallel()

	router, _ := newChatRouter(fixedExtractor{fields: models.TaskFields{
		TaskName: "Comprar leche",
		ItemType: models.ItemTypeTask,
	}})

	rec := postJSON(t, router, "/chat/message", map[string]string{"message": "comprar leche"})
	if rec.Code != http.StatusOK {
		t.Fatalf("park status = %d", rec.Code)
	}

	rec = postJSON(t, router, "/chat/cancel", map[string]string{})
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel status = %d", rec.Code)
	}

	var envelope struct {
		Data assistant.Response `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Data.State != "idle" {
		t.Errorf("state = %q, want idle", envelope.Data.State)
	}
}
