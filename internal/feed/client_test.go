package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldadfux/isAWSback/internal/constants"
)

func TestClientSendsExpectedHeaders(t *testing.T) {
	var gotAccept, gotCharset, gotUserAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get(constants.HeaderAccept)
		gotCharset = r.Header.Get(constants.HeaderAcceptCharset)
		gotUserAgent = r.Header.Get(constants.HeaderUserAgent)
		w.Header().Set(constants.HeaderContentType, "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "test-agent/1.0", time.Second)
	body, contentType, err := client.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, constants.ContentTypeJSON, gotAccept)
	assert.Equal(t, "utf-8", gotCharset)
	assert.Equal(t, "test-agent/1.0", gotUserAgent)
	assert.Equal(t, "[]", string(body))
	assert.Equal(t, "application/json; charset=utf-8", contentType)
}

func TestClientNon2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "test-agent/1.0", time.Second)
	_, _, err := client.Fetch(context.Background())
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusBadGateway, netErr.StatusCode)
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		ts.Close()
	}()

	client := NewClient(ts.URL, "test-agent/1.0", 50*time.Millisecond)
	start := time.Now()
	_, _, err := client.Fetch(context.Background())
	require.Error(t, err)

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClientContextCancellation(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		ts.Close()
	}()

	client := NewClient(ts.URL, "test-agent/1.0", time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, _, err := client.Fetch(ctx)
	assert.Error(t, err)
}

func TestClientUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-agent/1.0", 200*time.Millisecond)
	_, _, err := client.Fetch(context.Background())
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}
