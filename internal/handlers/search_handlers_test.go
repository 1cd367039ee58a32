package handlers

import (
	"net/http"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// newOfflineESClient builds a client without contacting any server;
// tests below only hit branches that return before a request is made.
func newOfflineESClient(t *testing.T) *elasticsearch.Client {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://127.0.0.1:1"},
	})
	require.NoError(t, err)
	return client
}

func TestSearchWithoutClient(t *testing.T) {
	e := echo.New()
	h := &SearchHandler{Index: "reservation"}

	c, _ := jsonContext(e, http.MethodGet, "/reservation/search?q=doctor", nil)
	err := h.Search(c)
	requireHTTPError(t, err, http.StatusServiceUnavailable, "search is not configured")
}

func TestSearchMissingQuery(t *testing.T) {
	e := echo.New()
	h := &SearchHandler{ES: newOfflineESClient(t), Index: "reservation"}

	for _, target := range []string{"/reservation/search", "/reservation/search?q="} {
		c, _ := jsonContext(e, http.MethodGet, target, nil)
		err := h.Search(c)
		requireHTTPError(t, err, http.StatusBadRequest, "query error")
	}
}
