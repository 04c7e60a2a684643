package funnel

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(cache *mapCache) *chi.Mux {
	store := NewSnapshotStore(cache, time.Hour)
	h := NewHandler(store, time.UTC, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Post("/api/funnel/session", h.Save)
	r.Get("/api/funnel/session/{sessionID}", h.Resume)
	r.Delete("/api/funnel/session/{sessionID}", h.Discard)
	return r
}

func postSave(t *testing.T, router http.Handler, reason string, s *Session) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(saveRequest{Reason: reason, Session: *s})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/funnel/session", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeSaveResponse(t *testing.T, rec *httptest.ResponseRecorder) saveResponse {
	t.Helper()
	var resp saveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestSaveSkipsOffCadenceSteps(t *testing.T) {
	cache := newMapCache()
	router := newTestRouter(cache)

	s := NewSession("sess-http-1")
	s.TCPAConsent = true
	s.SMSConsent = true
	s.CurrentStep = 8

	rec := postSave(t, router, SaveReasonAutosave, s)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp := decodeSaveResponse(t, rec); resp.Saved {
		t.Error("off-cadence autosave must be skipped")
	}
	if len(cache.entries) != 0 {
		t.Error("cache should stay empty after a skipped save")
	}
}

func TestSaveResumeDiscardRoundtrip(t *testing.T) {
	cache := newMapCache()
	router := newTestRouter(cache)

	s := NewSession("sess-http-2")
	s.Zip = "62701"
	s.Phone = "2175551234"
	s.TCPAConsent = true
	s.SMSConsent = true
	s.CurrentStep = 9

	rec := postSave(t, router, SaveReasonAutosave, s)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, want 200", rec.Code)
	}
	if resp := decodeSaveResponse(t, rec); !resp.Saved {
		t.Fatal("cadence-step autosave must be stored")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/funnel/session/sess-http-2", nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, req)
	if getRec.Code != http.StatusOK {
		t.Fatalf("resume status = %d, want 200", getRec.Code)
	}
	var restored Session
	if err := json.Unmarshal(getRec.Body.Bytes(), &restored); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if restored.SessionID != "sess-http-2" || restored.Zip != "62701" || restored.CurrentStep != 9 {
		t.Fatalf("restored session mismatch: %+v", restored)
	}

	delReq := httptest.NewRequest(http.MethodDelete, "/api/funnel/session/sess-http-2", nil)
	delRec := httptest.NewRecorder()
	router.ServeHTTP(delRec, delReq)
	if delRec.Code != http.StatusOK {
		t.Fatalf("discard status = %d, want 200", delRec.Code)
	}

	missReq := httptest.NewRequest(http.MethodGet, "/api/funnel/session/sess-http-2", nil)
	missRec := httptest.NewRecorder()
	router.ServeHTTP(missRec, missReq)
	if missRec.Code != http.StatusNotFound {
		t.Fatalf("resume after discard status = %d, want 404", missRec.Code)
	}
}

func TestSaveUnloadRequiresPhone(t *testing.T) {
	cache := newMapCache()
	router := newTestRouter(cache)

	s := NewSession("sess-http-3")
	s.TCPAConsent = true
	s.SMSConsent = true
	s.CurrentStep = 8

	rec := postSave(t, router, SaveReasonUnload, s)
	if resp := decodeSaveResponse(t, rec); resp.Saved {
		t.Error("unload flush without a phone number must be skipped")
	}

	s.Phone = "2175551234"
	rec = postSave(t, router, SaveReasonUnload, s)
	if resp := decodeSaveResponse(t, rec); !resp.Saved {
		t.Error("unload flush with phone and consents must be stored")
	}
}

func TestSaveRejectsBadRequests(t *testing.T) {
	router := newTestRouter(newMapCache())

	s := NewSession("")
	s.SessionID = ""
	rec := postSave(t, router, SaveReasonAutosave, s)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing session id: status = %d, want 400", rec.Code)
	}

	s2 := NewSession("sess-http-4")
	rec = postSave(t, router, "hourly", s2)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown reason: status = %d, want 400", rec.Code)
	}
}
