package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func serveWithTimeout(d time.Duration, h http.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	Timeout(d)(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	return rec
}

func TestTimeout_Success(t *testing.T) {
	rec := serveWithTimeout(time.Second, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Page", "index")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("success"))
	})

	if rec.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rec.Code)
	}
	if rec.Body.String() != "success" {
		t.Errorf("expected body 'success', got '%s'", rec.Body.String())
	}
	if rec.Header().Get("X-Page") != "index" {
		t.Errorf("expected buffered header to be copied, got %v", rec.Header())
	}
}

func TestTimeout_Timeout(t *testing.T) {
	rec := serveWithTimeout(50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("partial "))
		<-r.Context().Done()
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte("too late"))
	})

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "timed out") || strings.Contains(body, "partial") {
		t.Errorf("expected only the timeout message, got '%s'", body)
	}
}

func TestTimeout_ContextHasDeadline(t *testing.T) {
	var ok bool
	serveWithTimeout(time.Second, func(w http.ResponseWriter, r *http.Request) {
		_, ok = r.Context().Deadline()
	})

	if !ok {
		t.Error("expected context to have deadline")
	}
}

func TestTimeout_ZeroDisables(t *testing.T) {
	var ok bool
	rec := serveWithTimeout(0, func(w http.ResponseWriter, r *http.Request) {
		_, ok = r.Context().Deadline()
		_, _ = w.Write([]byte("direct"))
	})

	if ok {
		t.Error("expected no deadline when the timeout is zero")
	}
	if rec.Body.String() != "direct" {
		t.Errorf("expected body 'direct', got '%s'", rec.Body.String())
	}
}

func TestTimeout_MultipleWrites(t *testing.T) {
	rec := serveWithTimeout(time.Second, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("first "))
		_, _ = w.Write([]byte("second "))
		_, _ = w.Write([]byte("third"))
	})

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "first second third" {
		t.Errorf("expected combined body, got '%s'", rec.Body.String())
	}
}

func TestTimeout_PanicPropagates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected the handler panic to reach the caller")
		}
	}()

	serveWithTimeout(time.Second, func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
}
