// Package server is a reference implementation of the inventory service the
// client talks to. It is used by cmd/sims-server and by integration tests.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/sims-ims/sims-client/internal/logging"
	"github.com/sims-ims/sims-client/internal/rpc"
)

const headerUser = "X-Sims-User"

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createShelfRequest struct {
	ShelfID   string `json:"shelf_id"`
	SlotCount uint32 `json:"slot_count"`
}

type createItemRequest struct {
	ShelfID  string `json:"shelf_id"`
	ItemName string `json:"item_name"`
	Count    uint32 `json:"count"`
}

type handler struct {
	store *Store
}

// NewRouter wires the HTTP routes onto store.
func NewRouter(store *Store) *mux.Router {
	h := &handler{store: store}
	r := mux.NewRouter()
	r.HandleFunc("/v1/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/v1/auth/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/v1/auth/login", h.login).Methods(http.MethodPost)

	authed := r.PathPrefix("/v1").Subrouter()
	authed.Use(h.requireToken)
	authed.HandleFunc("/shelves", h.listShelves).Methods(http.MethodGet)
	authed.HandleFunc("/shelves", h.createShelf).Methods(http.MethodPost)
	authed.HandleFunc("/items", h.listItems).Methods(http.MethodGet)
	authed.HandleFunc("/items", h.createItem).Methods(http.MethodPost)
	return r
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.store.Register(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	token, err := h.store.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": string(token)})
}

func (h *handler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := r.Header.Get(headerUser)
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if err := h.store.Verify(r.Context(), user, rpc.Token(token)); err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) listShelves(w http.ResponseWriter, r *http.Request) {
	shelves, err := h.store.Shelves(r.Context(), r.URL.Query().Get("shelf_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shelves)
}

func (h *handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.Items(r.Context(), r.URL.Query().Get("shelf_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handler) createShelf(w http.ResponseWriter, r *http.Request) {
	var req createShelfRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.store.CreateShelf(r.Context(), req.ShelfID, req.SlotCount); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := h.store.CreateItem(r.Context(), req.ShelfID, req.ItemName, req.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"item_id": id})
}

func decode(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrExists):
		status = http.StatusConflict
	default:
		logging.Error(err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error(err)
	}
}
