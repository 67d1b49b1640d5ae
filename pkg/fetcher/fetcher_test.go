package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatforge/rag/pkg/fetcher"
)

const page = `<!DOCTYPE html>
<html>
<head>
  <title>Cat Facts</title>
  <style>body { color: red; }</style>
</head>
<body>
  <nav>Home | About</nav>
  <script>console.log("ignore me");</script>
  <h1>Feline Animals</h1>
  <p>Cats are   mammals that
  groom themselves.</p>
  <footer>Copyright</footer>
</body>
</html>`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	f := fetcher.New()
	title, text, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "Cat Facts", title)
	assert.Contains(t, text, "Feline Animals")
	assert.Contains(t, text, "Cats are mammals that groom themselves.")
	assert.NotContains(t, text, "console.log")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "Home | About")
	assert.NotContains(t, text, "Copyright")
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	f := fetcher.New()
	_, _, err := f.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestFetch_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := fetcher.New()
	_, _, err := f.Fetch(ctx, "http://example.invalid/")

	assert.Error(t, err)
}
