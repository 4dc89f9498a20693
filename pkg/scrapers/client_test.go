package scrapers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

func testClient(budget int) *Client {
	return NewClient("testsource", 5*time.Second, 0, budget)
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "EasyInterns")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	body, err := testClient(0).Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestClient_RetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	body, err := testClient(0).Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "recovered", string(body))
	assert.Equal(t, 3, attempts)
}

func TestClient_GivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(0).Get(context.Background(), server.URL)
	require.Error(t, err)

	var unavailable *models.SourceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "testsource", unavailable.SourceID)
	assert.Equal(t, 3, attempts)
}

func TestClient_ClientErrorIsFormatChanged(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(0).Get(context.Background(), server.URL)
	require.Error(t, err)

	var formatChanged *models.SourceFormatChangedError
	require.ErrorAs(t, err, &formatChanged)
	// 4xx is not retried.
	assert.Equal(t, 1, attempts)
}

func TestClient_TooManyRequestsRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	_, err := testClient(0).Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestClient_BudgetExhausted(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := testClient(2)
	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
	}

	_, err := client.Get(context.Background(), server.URL)
	require.ErrorIs(t, err, ErrBudgetExhausted)
	assert.Equal(t, 2, requests)
}

func TestClient_BudgetCountsRetryAttempts(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	// Budget 2 with a persistently failing endpoint: the retry loop must stop
	// at 2 upstream requests, not 3, and surface the failure.
	_, err := testClient(2).Get(context.Background(), server.URL)
	require.Error(t, err)

	var unavailable *models.SourceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 2, requests)
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(0).Get(ctx, server.URL)
	require.Error(t, err)

	var unavailable *models.SourceUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestClient_GetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jobs":[{"title":"Intern"}]}`))
	}))
	defer server.Close()

	var out struct {
		Jobs []struct {
			Title string `json:"title"`
		} `json:"jobs"`
	}
	require.NoError(t, testClient(0).GetJSON(context.Background(), server.URL, &out))
	require.Len(t, out.Jobs, 1)
	assert.Equal(t, "Intern", out.Jobs[0].Title)

	t.Run("malformed payload is a format change", func(t *testing.T) {
		broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer broken.Close()

		var out map[string]any
		err := testClient(0).GetJSON(context.Background(), broken.URL, &out)
		var formatChanged *models.SourceFormatChangedError
		require.ErrorAs(t, err, &formatChanged)
	})
}
