package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
)

func TestGet_SetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := NewHTTPClient(HTTPOptions{UserAgent: "parkapi-test/1.0"})
	body, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer body.Close()

	payload, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(payload))
	assert.Equal(t, "parkapi-test/1.0", gotUA)
}

func TestGetAuth_SetsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	client := NewHTTPClient(HTTPOptions{})
	body, err := client.GetAuth(context.Background(), srv.URL, "secret-token")
	require.NoError(t, err)
	body.Close()

	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestPostJSON_SendsBody(t *testing.T) {
	var gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		payload, _ := io.ReadAll(r.Body)
		gotBody = string(payload)
	}))
	defer srv.Close()

	client := NewHTTPClient(HTTPOptions{})
	body, err := client.PostJSON(context.Background(), srv.URL, map[string]string{"action": "capacity"})
	require.NoError(t, err)
	body.Close()

	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"action": "capacity"}`, gotBody)
}

func TestGet_ClientErrorIsFatal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewHTTPClient(HTTPOptions{MaxRetries: 2})
	_, err := client.Get(context.Background(), srv.URL)
	require.Error(t, err)

	var fe *model.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.Status)
	// 4xx is not retried.
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_RetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	client := NewHTTPClient(HTTPOptions{MaxRetries: 1})
	body, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer body.Close()

	payload, _ := io.ReadAll(body)
	assert.Equal(t, "recovered", string(payload))
	assert.Equal(t, int32(2), calls.Load())
}

func TestGet_ExhaustedRetriesReturnFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewHTTPClient(HTTPOptions{MaxRetries: 1})
	_, err := client.Get(context.Background(), srv.URL)
	require.Error(t, err)

	var fe *model.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusServiceUnavailable, fe.Status)
}
