package linkly

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/linkstat/internal/model"
)

const testKey = "sk_test_123"

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(testKey, "ws1", append([]Option{WithBaseURL(srv.URL)}, opts...)...)
	require.NotNil(t, c)
	return c
}

func testWindow(t *testing.T) model.Window {
	t.Helper()
	start, _ := model.ParseDay("2024-01-01")
	end, _ := model.ParseDay("2024-01-31")
	w, err := model.NewWindow(start, end)
	require.NoError(t, err)
	return w
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if NewClient("", "ws") != nil {
		t.Fatal("NewClient with empty key should return nil")
	}
	if NewClient("key", "  ") != nil {
		t.Fatal("NewClient with blank workspace should return nil")
	}
}

func TestListLinks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/workspace/ws1/links/export", r.URL.Path)
		assert.Equal(t, testKey, r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 101, "name": "docs", "url": "https://example.com/docs", "clicks_count": 100},
			{"id": "abc", "name": "", "url": "https://example.com/blog", "clicks_count": 50},
			{"id": 7, "name": "fresh", "url": "https://example.com/new", "clicks_count": null},
			{"id": 8, "name": "odd", "url": "https://example.com/odd", "clicks_count": -3}
		]`))
	})

	links, err := c.ListLinks(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 4)

	assert.Equal(t, model.TrackedLink{ID: "101", Name: "docs", URL: "https://example.com/docs", LifetimeClicks: 100}, links[0])
	assert.Equal(t, "abc", links[1].ID)
	assert.Equal(t, "https://example.com/blog", links[1].Name, "empty name falls back to URL")
	assert.Equal(t, int64(0), links[2].LifetimeClicks)
	assert.Equal(t, int64(0), links[3].LifetimeClicks)
}

func TestFetchTraffic(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/workspace/ws1/clicks", r.URL.Path)
		assert.Equal(t, "42", q.Get("link_ids[]"))
		assert.Equal(t, "2024-01-01", q.Get("start"))
		assert.Equal(t, "2024-01-31", q.Get("end"))
		assert.Equal(t, "ws1", q.Get("workspace_id"))
		assert.Equal(t, testKey, q.Get("api_key"))

		_, _ = w.Write([]byte(`{"traffic": [
			{"t": "2024-01-01", "y": 5},
			{"t": "2024-01-03", "y": 2},
			{"t": "Jan 4", "y": 1},
			{"t": "2024-01-05", "y": -1},
			{"t": "2024-01-06", "y": 2.5},
			{"t": "2024-01-07", "y": 0}
		]}`))
	})

	points, err := c.FetchTraffic(context.Background(), "42", testWindow(t))
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, "2024-01-01", model.DayKey(points[0].Day))
	assert.Equal(t, int64(5), points[0].Count)
	assert.Equal(t, "2024-01-03", model.DayKey(points[1].Day))
	assert.Equal(t, int64(2), points[1].Count)
	assert.Equal(t, int64(0), points[2].Count)
}

func TestFetchTrafficMistypedPointsDropped(t *testing.T) {
	bodies := map[string]string{
		"numeric date":  `{"traffic":[{"t":"2024-01-01","y":5},{"t":20240102,"y":2}]}`,
		"string count":  `{"traffic":[{"t":"2024-01-01","y":5},{"t":"2024-01-02","y":"n/a"}]}`,
		"boolean count": `{"traffic":[{"t":"2024-01-01","y":5},{"t":"2024-01-02","y":true}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			points, err := c.FetchTraffic(context.Background(), "42", testWindow(t))
			require.NoError(t, err)
			require.Len(t, points, 1)
			assert.Equal(t, "2024-01-01", model.DayKey(points[0].Day))
			assert.Equal(t, int64(5), points[0].Count)
		})
	}
}

func TestConvertPointMistypedElement(t *testing.T) {
	_, err := convertPoint("42", 3, json.RawMessage(`{"t":"2024-01-02","y":true}`))
	require.Error(t, err)

	var shapeErr *DataShapeError
	require.True(t, errors.As(err, &shapeErr), "error %T is not a *DataShapeError", err)
	assert.Equal(t, 3, shapeErr.Index)
	assert.ErrorIs(t, err, ErrBadPoint)
}

func TestFetchTrafficEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	points, err := c.FetchTraffic(context.Background(), "1", testWindow(t))
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestProviderErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, sentinel: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, sentinel: ErrUnauthorized},
		{name: "rate limited", status: http.StatusTooManyRequests, sentinel: ErrRateLimited},
		{name: "server error", status: http.StatusBadGateway},
		{name: "bad json", status: http.StatusOK, body: `{"traffic": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.FetchTraffic(context.Background(), "9", testWindow(t))
			require.Error(t, err)

			var pe *ProviderError
			require.True(t, errors.As(err, &pe), "error %T is not a *ProviderError", err)
			if tt.status != http.StatusOK {
				assert.Equal(t, tt.status, pe.Status)
			}
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			assert.NotContains(t, err.Error(), testKey)
		})
	}
}

func TestTimeoutIsProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := c.ListLinks(context.Background())
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, strings.Contains(err.Error(), testKey), "error leaks api key: %v", err)
}

func TestDataShapeErrorTruncates(t *testing.T) {
	err := &DataShapeError{LinkID: "1", Index: 3, Raw: strings.Repeat("x", 200), Err: ErrBadPoint}
	msg := err.Error()
	assert.Less(t, len(msg), 150)
	assert.ErrorIs(t, err, ErrBadPoint)
}

func TestConvertPointRejectsNegative(t *testing.T) {
	_, err := convertPoint("1", 0, json.RawMessage(`{"t":"2024-01-01","y":-4}`))
	var dse *DataShapeError
	require.ErrorAs(t, err, &dse)
	assert.Equal(t, "-4", dse.Raw)
}
