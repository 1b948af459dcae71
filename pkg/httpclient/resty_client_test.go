package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestRestyClientSendReturnsBodyAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("expected GET, got %s", r.Method)
		}
		if r.ProtoMajor != 1 || r.ProtoMinor != 1 {
			t.Fatalf("expected HTTP/1.1, got %s", r.Proto)
		}
		_, _ = w.Write([]byte("120"))
	}))
	defer srv.Close()

	client := NewRestyClient(0)
	resp, err := client.Send(context.Background(), RequestSpec{URL: srv.URL + "/balance", Method: http.MethodGet})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if string(resp.Body()) != "120" {
		t.Fatalf("body = %q", resp.Body())
	}
}

func TestRestyClientSendPostWithoutBody(t *testing.T) {
	var gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewRestyClient(0)
	if _, err := client.Send(context.Background(), RequestSpec{URL: srv.URL + "/transaction/id0/id1/10", Method: http.MethodPost}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotPath != "/transaction/id0/id1/10" {
		t.Fatalf("path = %q", gotPath)
	}
	if len(gotBody) != 0 {
		t.Fatalf("expected empty body, got %q", gotBody)
	}
}

func TestRestyClientSendNon2xxIsNotTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	resp, err := NewRestyClient(0).Send(context.Background(), RequestSpec{URL: srv.URL, Method: http.MethodGet})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.StatusCode() != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if !strings.Contains(string(resp.Body()), "nope") {
		t.Fatalf("body = %q", resp.Body())
	}
}

func TestRestyClientFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/older", http.StatusFound)
	})
	mux.HandleFunc("/older", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/balance", http.StatusFound)
	})
	mux.HandleFunc("/balance", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("7"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := NewRestyClient(0).Send(context.Background(), RequestSpec{URL: srv.URL + "/old", Method: http.MethodGet})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if string(resp.Body()) != "7" {
		t.Fatalf("body = %q", resp.Body())
	}
}

func TestRestyClientRedirectLoopIsTransportError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Redirect(w, r, r.URL.Path, http.StatusFound)
	}))
	defer srv.Close()

	_, err := NewRestyClient(0).Send(context.Background(), RequestSpec{URL: srv.URL + "/loop", Method: http.MethodGet})
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if n := hits.Load(); n > MaxRedirects+1 {
		t.Fatalf("followed too many redirects: %d", n)
	}
}

func TestRestyClientConnectionRefusedIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := NewRestyClient(0).Send(context.Background(), RequestSpec{URL: addr + "/balance", Method: http.MethodGet})
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if tErr.Method != http.MethodGet || tErr.URL != addr+"/balance" {
		t.Fatalf("unexpected error fields: %#v", tErr)
	}
}

func TestRestyClientRejectsInvalidSpec(t *testing.T) {
	_, err := NewRestyClient(0).Send(context.Background(), RequestSpec{URL: "/relative", Method: http.MethodGet})
	if err == nil {
		t.Fatalf("expected error for relative url")
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		t.Fatalf("invalid spec must not be reported as transport failure")
	}
}

func TestNewRequestSpecNormalizesMethod(t *testing.T) {
	spec, err := NewRequestSpec(" post ", "http://node:58080/balance")
	if err != nil {
		t.Fatalf("NewRequestSpec: %v", err)
	}
	if spec.Method != http.MethodPost {
		t.Fatalf("method = %q", spec.Method)
	}
	if _, err := NewRequestSpec("DELETE", "http://node:58080/balance"); err == nil {
		t.Fatalf("expected DELETE to be rejected")
	}
}
