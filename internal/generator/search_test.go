package generator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const searchResultsHTML = `<html><body>
<div class="result">
  <a class="result__a" href="https://example.com/1">Energia solar cresce no Nordeste</a>
  <div class="result__snippet">A capacidade instalada dobrou em dois anos.</div>
</div>
<div class="result">
  <a class="result__a" href="https://example.com/2">Matriz energética brasileira</a>
  <div class="result__snippet">Participação renovável segue acima de 80%.</div>
</div>
<div class="result"></div>
</body></html>`

func TestDuckDuckGoSearcher_ParsesResults(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header")
		}
		w.Write([]byte(searchResultsHTML))
	}))
	defer server.Close()

	searcher := NewDuckDuckGoSearcher()
	searcher.endpoint = server.URL + "/"

	results, err := searcher.Search(context.Background(), "energia solar 2026")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if gotQuery != "energia solar 2026" {
		t.Errorf("expected query forwarded, got %q", gotQuery)
	}
	if !strings.Contains(results, "Energia solar cresce no Nordeste: A capacidade instalada dobrou em dois anos.") {
		t.Errorf("expected first result in output, got %q", results)
	}
	if !strings.Contains(results, "Matriz energética brasileira") {
		t.Errorf("expected second result in output, got %q", results)
	}
	if got := len(strings.Split(results, "\n")); got != 2 {
		t.Errorf("expected 2 result lines, got %d", got)
	}
}

func TestDuckDuckGoSearcher_CapsResultCount(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 20; i++ {
		sb.WriteString(`<div class="result"><a class="result__a">Título</a><div class="result__snippet">Trecho.</div></div>`)
	}
	sb.WriteString("</body></html>")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sb.String()))
	}))
	defer server.Close()

	searcher := NewDuckDuckGoSearcher()
	searcher.endpoint = server.URL + "/"

	results, err := searcher.Search(context.Background(), "qualquer coisa")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got := len(strings.Split(results, "\n")); got != maxSearchResults {
		t.Errorf("expected %d result lines, got %d", maxSearchResults, got)
	}
}

func TestDuckDuckGoSearcher_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	searcher := NewDuckDuckGoSearcher()
	searcher.endpoint = server.URL + "/"

	if _, err := searcher.Search(context.Background(), "qualquer coisa"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestDuckDuckGoSearcher_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><div id='links'></div></body></html>"))
	}))
	defer server.Close()

	searcher := NewDuckDuckGoSearcher()
	searcher.endpoint = server.URL + "/"

	results, err := searcher.Search(context.Background(), "tema sem resultados")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if results != "" {
		t.Errorf("expected empty results, got %q", results)
	}
}
