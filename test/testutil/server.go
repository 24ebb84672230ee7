package testutil

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FileServer serves in-memory files over HTTP and counts requests per path.
// Unknown paths answer 404.
type FileServer struct {
	*httptest.Server

	mu      sync.Mutex
	files   map[string][]byte
	hits    map[string]int
	blocked map[string]bool
}

// NewFileServer starts a FileServer that is closed when the test ends.
func NewFileServer(t *testing.T, files map[string][]byte) *FileServer {
	t.Helper()
	fs := &FileServer{
		files:   make(map[string][]byte),
		hits:    make(map[string]int),
		blocked: make(map[string]bool),
	}
	for p, data := range files {
		fs.files[normalize(p)] = data
	}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(fs.Close)
	return fs
}

func normalize(p string) string {
	return "/" + strings.TrimPrefix(p, "/")
}

func (fs *FileServer) serve(w http.ResponseWriter, r *http.Request) {
	p := normalize(r.URL.Path)
	fs.mu.Lock()
	fs.hits[p]++
	data, ok := fs.files[p]
	block := fs.blocked[p]
	fs.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if block {
		// Send a first chunk, then stall until the client goes away.
		w.Header().Set("Content-Length", "1048576")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Put adds or replaces a file.
func (fs *FileServer) Put(p string, data []byte) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[normalize(p)] = data
}

// Block makes requests for p stall after the first chunk until canceled.
func (fs *FileServer) Block(p string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.blocked[normalize(p)] = true
}

// Hits returns how many requests were made for p.
func (fs *FileServer) Hits(p string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hits[normalize(p)]
}

// TotalHits returns the number of requests served so far.
func (fs *FileServer) TotalHits() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	n := 0
	for _, h := range fs.hits {
		n += h
	}
	return n
}

// FileURL returns the absolute URL of p.
func (fs *FileServer) FileURL(p string) string {
	return fs.URL + normalize(p)
}

// SHA1 returns the hex SHA-1 digest of data, as manifests spell it.
func SHA1(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
