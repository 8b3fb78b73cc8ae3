package library

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pexelsimport/pkg/logger"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}))
	return buf.Bytes()
}

// newImageServer serves a JPEG for every path under /photos/ and 404 elsewhere
func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	body := testJPEG(t, 300, 200)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/photos/") {
			http.NotFound(w, r)
			return
		}
		if strings.Contains(r.URL.Path, "slow") {
			time.Sleep(50 * time.Millisecond)
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestLibrary(t *testing.T, log logger.Logger, opts Options) (*Library, *Store, *FileStore) {
	t.Helper()
	store := setupTestStore(t)
	files, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	lib := New(store, files, opts, log)
	lib.now = func() time.Time { return fixedNow }
	return lib, store, files
}

// newTextServer serves plain text that no image decoder accepts
func newTextServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("not an image"))
	}))
	t.Cleanup(server.Close)
	return server
}
