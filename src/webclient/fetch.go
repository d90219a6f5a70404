package webclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	fetchAttempts  = 2
	fetchBaseDelay = 1 * time.Second
	fetchTimeout   = 30 * time.Second
)

// failureClass buckets a request outcome for the retry loop.
type failureClass int

const (
	classOK failureClass = iota
	classPermanent
	classTransient
)

func classify(status int, err error) failureClass {
	if err != nil {
		// Transport-level failures (connect, timeout, reset) are worth a retry.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return classTransient
		}
		return classPermanent
	}
	switch {
	case status >= 400 && status < 500:
		return classPermanent
	case status >= 500 && status < 600:
		return classTransient
	}
	return classOK
}

// Fetcher issues resilient JSON GETs against third-party lookup APIs.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher wraps the given client; a nil client gets the default 30s one.
func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	if client == nil {
		client = NewDefault(fetchTimeout)
	}
	return &Fetcher{client: client, userAgent: userAgent}
}

// GetJSON fetches rawURL with the given query parameters. Transient failures
// (5xx, network, timeout) are retried with exponential backoff; 4xx and
// anything else fail immediately. Exhaustion yields nil rather than an error:
// callers treat "no data" as a normal outcome and degrade their output.
func (f *Fetcher) GetJSON(ctx context.Context, rawURL string, params url.Values) json.RawMessage {
	delay := fetchBaseDelay
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		status, body, err := f.do(ctx, rawURL, params)
		switch classify(status, err) {
		case classOK:
			return body
		case classPermanent:
			log.Printf("webclient: permanent failure for %s: status=%d err=%v", rawURL, status, err)
			return nil
		}
		if attempt == fetchAttempts-1 {
			log.Printf("webclient: giving up on %s after %d attempts: status=%d err=%v", rawURL, fetchAttempts, status, err)
			return nil
		}
		log.Printf("webclient: transient failure for %s (attempt %d/%d), retrying in %s", rawURL, attempt+1, fetchAttempts, delay)
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
		delay *= 2
	}
	return nil
}

func (f *Fetcher) do(ctx context.Context, rawURL string, params url.Values) (int, []byte, error) {
	target := rawURL
	if len(params) > 0 {
		sep := "?"
		if u, err := url.Parse(rawURL); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		target = rawURL + sep + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
