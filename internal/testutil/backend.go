package testutil

import (
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sims-ims/sims-client/internal/server"
)

// Backend is an in-process inventory service backed by a throwaway database.
type Backend struct {
	Store   *server.Store
	Server  *httptest.Server
	Address string
}

// StartBackend boots the reference service for the duration of the test.
func StartBackend(t *testing.T) *Backend {
	t.Helper()
	store, err := server.OpenStore(filepath.Join(t.TempDir(), "sims.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	srv := httptest.NewServer(server.NewRouter(store))
	t.Cleanup(func() {
		srv.Close()
		_ = store.Close()
	})
	return &Backend{
		Store:   store,
		Server:  srv,
		Address: strings.TrimPrefix(srv.URL, "http://"),
	}
}
