// Package rpc defines the contract between the client and the inventory
// service, together with the HTTP/JSON transport used to reach it.
package rpc

import (
	"context"
	"io"
)

// Token is the opaque session token handed out by Authenticate.
type Token string

// Credentials identify the caller on every authenticated request.
type Credentials struct {
	Username string
	Token    Token
}

// ShelfInfo describes one shelf as reported by ListShelves.
type ShelfInfo struct {
	ShelfID   string `json:"shelf_id"`
	SlotCount uint32 `json:"slot_count"`
}

// ItemInfo describes one item as reported by ListItems.
type ItemInfo struct {
	ShelfID     string  `json:"shelf_id"`
	ItemID      string  `json:"item_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       uint32  `json:"stock"`
}

// ListQuery scopes a list call. An empty ShelfID lists everything.
type ListQuery struct {
	ShelfID string
	Credentials
}

type CreateShelfRequest struct {
	ShelfID   string
	SlotCount uint32
	Credentials
}

type CreateItemRequest struct {
	ShelfID  string
	ItemName string
	Count    uint32
	Credentials
}

// Conn is an established connection to the inventory service. A Conn is not
// safe for concurrent use; callers borrow it through conn.Guard.
type Conn interface {
	Authenticate(ctx context.Context, username, password string) (Token, error)
	Register(ctx context.Context, username, password string) error
	ListShelves(ctx context.Context, q ListQuery) ([]ShelfInfo, error)
	ListItems(ctx context.Context, q ListQuery) ([]ItemInfo, error)
	CreateShelf(ctx context.Context, req CreateShelfRequest) error
	CreateItem(ctx context.Context, req CreateItemRequest) error
	io.Closer
}

// Dialer establishes a Conn to the service listening on address.
type Dialer func(ctx context.Context, address string) (Conn, error)
