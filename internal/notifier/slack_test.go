package notifier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/coverletter/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRecord() model.Record {
	return model.Record{
		URL:         "https://jobs.acme.test/1",
		CompanyName: "Acme Corp",
		PostTitle:   "Backend Engineer",
		PlacedPath:  "/home/u/Downloads/cover_letter_Acme_Corp.pdf",
		CreatedAt:   time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestSlackNotifier_SendsBlocks(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	if got := payload.Blocks[0].Text.Text; got != "📄 Acme Corp: Backend Engineer" {
		t.Errorf("header text = %q", got)
	}
	if got := payload.Blocks[1].Fields[0].Text; got != "*File:*\ncover_letter_Acme_Corp.pdf" {
		t.Errorf("file field = %q", got)
	}
	if got := payload.Blocks[2].Elements[0].URL; got != "https://jobs.acme.test/1" {
		t.Errorf("button URL = %q", got)
	}
}

func TestSlackNotifier_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify(context.Background(), sampleRecord()); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestSlackNotifier_RetriesOnceAfter429(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("Notify() = %v, want nil after retry", err)
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("calls = %d, want 2", c)
	}
}

func TestSendTestMessage(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := SendTestMessage(context.Background(), n); err != nil {
		t.Fatalf("SendTestMessage() = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}
