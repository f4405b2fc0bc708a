package practicum_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"homework-bot/practicum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_HomeworkStatuses(t *testing.T) {
	t.Run("sends token and from_date", func(t *testing.T) {
		var gotAuth, gotFromDate, gotMethod string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotAuth = r.Header.Get("Authorization")
			gotFromDate = r.URL.Query().Get("from_date")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"homeworks":[{"homework_name":"hw1","status":"approved"}],"current_date":1700000600}`))
		}))
		defer server.Close()

		client := practicum.NewClient(server.URL, "secret", time.Second)
		body, err := client.HomeworkStatuses(context.Background(), 1700000000)

		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, gotMethod)
		assert.Equal(t, "OAuth secret", gotAuth)
		assert.Equal(t, "1700000000", gotFromDate)

		homeworks, err := practicum.CheckResponse(body)
		require.NoError(t, err)
		require.Len(t, homeworks, 1)

		date, ok := practicum.CurrentDate(body)
		assert.True(t, ok)
		assert.Equal(t, int64(1700000600), date)
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":"not_authenticated"}`))
		}))
		defer server.Close()

		client := practicum.NewClient(server.URL, "bad", time.Second)
		body, err := client.HomeworkStatuses(context.Background(), 0)

		assert.Nil(t, body)
		assert.ErrorIs(t, err, practicum.ErrUpstream)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("invalid json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance</html>`))
		}))
		defer server.Close()

		client := practicum.NewClient(server.URL, "secret", time.Second)
		body, err := client.HomeworkStatuses(context.Background(), 0)

		assert.Nil(t, body)
		assert.ErrorIs(t, err, practicum.ErrUpstream)
		var syntaxErr *json.SyntaxError
		assert.ErrorAs(t, err, &syntaxErr)
	})

	t.Run("trailing data after json", func(t *testing.T) {
		bodies := []string{
			`{"homeworks":[],"current_date":5}<html>oops</html>`,
			`{"homeworks":[],"current_date":5}{"homeworks":[]}`,
		}
		for _, b := range bodies {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(b))
			}))

			client := practicum.NewClient(server.URL, "secret", time.Second)
			body, err := client.HomeworkStatuses(context.Background(), 0)
			server.Close()

			assert.Nil(t, body, b)
			assert.ErrorIs(t, err, practicum.ErrUpstream, b)
		}
	})

	t.Run("trailing whitespace is fine", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{\"homeworks\":[],\"current_date\":5}\n"))
		}))
		defer server.Close()

		client := practicum.NewClient(server.URL, "secret", time.Second)
		_, err := client.HomeworkStatuses(context.Background(), 0)

		assert.NoError(t, err)
	})

	t.Run("oversized body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"homeworks":[],"current_date":5,"pad":"`))
			w.Write([]byte(strings.Repeat("x", 5<<20)))
			w.Write([]byte(`"}`))
		}))
		defer server.Close()

		client := practicum.NewClient(server.URL, "secret", time.Second)
		body, err := client.HomeworkStatuses(context.Background(), 0)

		assert.Nil(t, body)
		assert.ErrorIs(t, err, practicum.ErrUpstream)
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		client := practicum.NewClient(url, "secret", time.Second)
		_, err := client.HomeworkStatuses(context.Background(), 0)

		assert.ErrorIs(t, err, practicum.ErrUpstream)
		assert.Equal(t, practicum.KindUpstream, practicum.KindOf(err))
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		client := practicum.NewClient(server.URL, "secret", 50*time.Millisecond)
		_, err := client.HomeworkStatuses(context.Background(), 0)

		assert.ErrorIs(t, err, practicum.ErrUpstream)
	})

	t.Run("error body is truncated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(strings.Repeat("x", 4096)))
		}))
		defer server.Close()

		client := practicum.NewClient(server.URL, "secret", time.Second)
		_, err := client.HomeworkStatuses(context.Background(), 0)

		require.Error(t, err)
		assert.Less(t, len(err.Error()), 1024)
	})
}
