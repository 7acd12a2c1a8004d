package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	headerUser = "X-Sims-User"

	pathHealth   = "/v1/health"
	pathRegister = "/v1/auth/register"
	pathLogin    = "/v1/auth/login"
	pathShelves  = "/v1/shelves"
	pathItems    = "/v1/items"
)

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenBody struct {
	Token string `json:"token"`
}

type createShelfBody struct {
	ShelfID   string `json:"shelf_id"`
	SlotCount uint32 `json:"slot_count"`
}

type createItemBody struct {
	ShelfID  string `json:"shelf_id"`
	ItemName string `json:"item_name"`
	Count    uint32 `json:"count"`
}

type errorBody struct {
	Error string `json:"error"`
}

// httpConn speaks the JSON contract over a dedicated http.Client. Each
// httpConn owns its transport so closing it drops the underlying sockets.
type httpConn struct {
	base      string
	client    *http.Client
	transport *http.Transport
}

// DialHTTP probes the health endpoint at address and returns a Conn bound to
// it. Addresses without a scheme are treated as plain http host:port values.
func DialHTTP(ctx context.Context, address string) (Conn, error) {
	base, err := BaseURL(address)
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 1
	c := &httpConn{
		base:      base,
		client:    &http.Client{Transport: transport},
		transport: transport,
	}
	if err := c.do(ctx, http.MethodGet, pathHealth, nil, Credentials{}, nil); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// BaseURL normalises a configured address into a URL prefix.
func BaseURL(address string) (string, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return "", fmt.Errorf("server address required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse server address %q: %w", address, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("server address %q has no host", address)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func (c *httpConn) Authenticate(ctx context.Context, username, password string) (Token, error) {
	var out tokenBody
	body := credentialsBody{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, pathLogin, body, Credentials{}, &out); err != nil {
		return "", err
	}
	return Token(out.Token), nil
}

func (c *httpConn) Register(ctx context.Context, username, password string) error {
	body := credentialsBody{Username: username, Password: password}
	return c.do(ctx, http.MethodPost, pathRegister, body, Credentials{}, nil)
}

func (c *httpConn) ListShelves(ctx context.Context, q ListQuery) ([]ShelfInfo, error) {
	var out []ShelfInfo
	if err := c.do(ctx, http.MethodGet, scopedPath(pathShelves, q.ShelfID), nil, q.Credentials, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *httpConn) ListItems(ctx context.Context, q ListQuery) ([]ItemInfo, error) {
	var out []ItemInfo
	if err := c.do(ctx, http.MethodGet, scopedPath(pathItems, q.ShelfID), nil, q.Credentials, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *httpConn) CreateShelf(ctx context.Context, req CreateShelfRequest) error {
	body := createShelfBody{ShelfID: req.ShelfID, SlotCount: req.SlotCount}
	return c.do(ctx, http.MethodPost, pathShelves, body, req.Credentials, nil)
}

func (c *httpConn) CreateItem(ctx context.Context, req CreateItemRequest) error {
	body := createItemBody{ShelfID: req.ShelfID, ItemName: req.ItemName, Count: req.Count}
	return c.do(ctx, http.MethodPost, pathItems, body, req.Credentials, nil)
}

func (c *httpConn) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}

func scopedPath(path, shelfID string) string {
	if shelfID == "" {
		return path
	}
	return path + "?" + url.Values{"shelf_id": {shelfID}}.Encode()
}

func (c *httpConn) do(ctx context.Context, method, path string, in interface{}, creds Credentials, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds.Username != "" {
		req.Header.Set(headerUser, creds.Username)
	}
	if creds.Token != "" {
		req.Header.Set("Authorization", "Bearer "+string(creds.Token))
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &eb) != nil || eb.Error == "" {
			eb.Error = strings.TrimSpace(string(data))
		}
		return &StatusError{Code: resp.StatusCode, Message: eb.Error}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: "decode " + path, Err: err}
	}
	return nil
}
