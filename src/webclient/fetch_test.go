package webclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
)

func TestGetJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("missing Accept header")
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), "test/1.0")
	body := f.GetJSON(context.Background(), srv.URL, nil)
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %s", body)
	}
}

func TestGetJSONClientErrorNoRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), "")
	if body := f.GetJSON(context.Background(), srv.URL, nil); body != nil {
		t.Errorf("expected nil body, got %s", body)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("4xx retried: %d requests", n)
	}
}

func TestGetJSONServerErrorExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), "")
	if body := f.GetJSON(context.Background(), srv.URL, nil); body != nil {
		t.Errorf("expected nil body after exhaustion, got %s", body)
	}
	if n := atomic.LoadInt32(&calls); n != fetchAttempts {
		t.Errorf("got %d requests, want %d", n, fetchAttempts)
	}
}

func TestGetJSONServerErrorThenSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), "")
	if body := f.GetJSON(context.Background(), srv.URL, nil); string(body) != `[]` {
		t.Errorf("expected recovery on second attempt, got %s", body)
	}
}

func TestGetJSONNetworkErrorReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	f := NewFetcher(nil, "")
	if body := f.GetJSON(context.Background(), srv.URL, nil); body != nil {
		t.Errorf("expected nil body for dead server, got %s", body)
	}
}

func TestGetJSONAppendsParams(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	params := url.Values{}
	params.Set("q", "Paris")
	params.Set("limit", "1")
	f := NewFetcher(srv.Client(), "")
	f.GetJSON(context.Background(), srv.URL, params)

	if gotQuery.Get("q") != "Paris" || gotQuery.Get("limit") != "1" {
		t.Errorf("query params not forwarded: %v", gotQuery)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		status int
		err    error
		want   failureClass
	}{
		{"ok", 200, nil, classOK},
		{"not found", 404, nil, classPermanent},
		{"rate limited", 429, nil, classPermanent},
		{"server error", 500, nil, classTransient},
		{"bad gateway", 502, nil, classTransient},
		{"network", 0, &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded}, classTransient},
	}
	for _, tc := range cases {
		if got := classify(tc.status, tc.err); got != tc.want {
			t.Errorf("%s: classify(%d, %v) = %d, want %d", tc.name, tc.status, tc.err, got, tc.want)
		}
	}
}
