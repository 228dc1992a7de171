package qbittorrent

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSearch(t *testing.T) {
	fs := newFakeServer(t, "v5.0.1")
	var form map[string][]string
	fs.Mux.HandleFunc("/api/v2/search/start", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form = r.PostForm
		fmt.Fprint(w, `{"id":42}`)
	})
	client := newTestClient(t, fs)

	id, err := client.StartSearch(context.Background(), "debian", []string{"piratebay", "limetorrents"}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "debian", form["pattern"][0])
	assert.Equal(t, "piratebay|limetorrents", form["plugins"][0])
	assert.Equal(t, "all", form["category"][0])
}

func TestStartSearchDefaultsToEnabledPlugins(t *testing.T) {
	fs := newFakeServer(t, "v5.0.1")
	var plugins string
	fs.Mux.HandleFunc("/api/v2/search/start", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		plugins = r.PostFormValue("plugins")
		fmt.Fprint(w, `{"id":1}`)
	})
	client := newTestClient(t, fs)

	_, err := client.StartSearch(context.Background(), "debian", nil, "movies")
	require.NoError(t, err)
	assert.Equal(t, "enabled", plugins)
}

func TestSearchResultsPage(t *testing.T) {
	fs := newFakeServer(t, "v5.0.1")
	fs.Mux.HandleFunc("/api/v2/search/results", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", r.URL.Query().Get("id"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{
			"results": [
				{"fileName":"debian-12.iso","fileUrl":"magnet:?xt=urn:btih:aaa","fileSize":4000000,"nbSeeders":120,"nbLeechers":5}
			],
			"status": "Stopped",
			"total": 1
		}`)
	})
	client := newTestClient(t, fs)

	page, err := client.SearchResultsPage(context.Background(), 42, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, "Stopped", page.Status)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "debian-12.iso", page.Results[0].FileName)
	assert.Equal(t, 120, page.Results[0].Seeders)
}

func TestSearchJobStatusNotFound(t *testing.T) {
	fs := newFakeServer(t, "v5.0.1")
	fs.Mux.HandleFunc("/api/v2/search/status", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	})
	client := newTestClient(t, fs)

	_, err := client.SearchJobStatus(context.Background(), 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
