package server

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/sims-ims/sims-client/internal/rpc"
)

//go:embed schema.sql
var schemaSQL string

var (
	// ErrExists is returned when creating a record whose key is taken.
	ErrExists = errors.New("already exists")
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned for bad credentials or unknown tokens.
	ErrUnauthorized = errors.New("invalid credentials")
	// ErrInvalid is returned when input fails validation.
	ErrInvalid = errors.New("invalid input")
)

// Store persists users, tokens, shelves and items in a SQLite database.
type Store struct {
	// SQLite allows one writer; serialise writes rather than surface
	// SQLITE_BUSY to clients.
	mu sync.Mutex
	db *sql.DB
}

// OpenStore opens (creating when missing) the database at path and applies
// the schema.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Register creates a user with a bcrypt password hash.
func (s *Store) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password required", ErrInvalid)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE username = ?`, username).Scan(&exists); err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("user %q: %w", username, ErrExists)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, string(hash), now())
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Login checks the password and issues a fresh token.
func (s *Store) Login(ctx context.Context, username, password string) (rpc.Token, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE username = ?`, username).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", ErrUnauthorized
	}
	token := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO tokens (token, username, created_at) VALUES (?, ?, ?)`,
		token, username, now()); err != nil {
		return "", fmt.Errorf("insert token: %w", err)
	}
	return rpc.Token(token), nil
}

// Verify reports whether token was issued to username.
func (s *Store) Verify(ctx context.Context, username string, token rpc.Token) error {
	if username == "" || token == "" {
		return ErrUnauthorized
	}
	var owner string
	err := s.db.QueryRowContext(ctx, `SELECT username FROM tokens WHERE token = ?`, string(token)).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != username) {
		return ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("lookup token: %w", err)
	}
	return nil
}

// Shelves lists shelves in creation order, optionally scoped to one id.
func (s *Store) Shelves(ctx context.Context, shelfID string) ([]rpc.ShelfInfo, error) {
	query := `SELECT shelf_id, slot_count FROM shelves`
	var args []interface{}
	if shelfID != "" {
		query += ` WHERE shelf_id = ?`
		args = append(args, shelfID)
	}
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("list shelves: %w", err)
	}
	defer rows.Close()
	shelves := []rpc.ShelfInfo{}
	for rows.Next() {
		var info rpc.ShelfInfo
		if err := rows.Scan(&info.ShelfID, &info.SlotCount); err != nil {
			return nil, fmt.Errorf("scan shelf: %w", err)
		}
		shelves = append(shelves, info)
	}
	return shelves, rows.Err()
}

// Items lists items in creation order, optionally scoped to one shelf.
func (s *Store) Items(ctx context.Context, shelfID string) ([]rpc.ItemInfo, error) {
	query := `SELECT shelf_id, item_id, name, description, price, stock FROM items`
	var args []interface{}
	if shelfID != "" {
		query += ` WHERE shelf_id = ?`
		args = append(args, shelfID)
	}
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	items := []rpc.ItemInfo{}
	for rows.Next() {
		var info rpc.ItemInfo
		if err := rows.Scan(&info.ShelfID, &info.ItemID, &info.Name, &info.Description, &info.Price, &info.Stock); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, info)
	}
	return items, rows.Err()
}

// CreateShelf adds a shelf with slotCount slots.
func (s *Store) CreateShelf(ctx context.Context, shelfID string, slotCount uint32) error {
	shelfID = strings.TrimSpace(shelfID)
	if shelfID == "" {
		return fmt.Errorf("%w: shelf id required", ErrInvalid)
	}
	if slotCount == 0 {
		return fmt.Errorf("%w: shelf must have at least 1 slot", ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok, err := s.shelfExists(ctx, shelfID); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("shelf %q: %w", shelfID, ErrExists)
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO shelves (shelf_id, slot_count) VALUES (?, ?)`, shelfID, slotCount); err != nil {
		return fmt.Errorf("insert shelf: %w", err)
	}
	return nil
}

// CreateItem stocks count units of a new item on shelfID and returns its id.
func (s *Store) CreateItem(ctx context.Context, shelfID, name string, count uint32) (string, error) {
	name = strings.TrimSpace(name)
	if shelfID == "" || name == "" {
		return "", fmt.Errorf("%w: shelf id and item name required", ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok, err := s.shelfExists(ctx, shelfID); err != nil {
		return "", err
	} else if !ok {
		return "", fmt.Errorf("shelf %q: %w", shelfID, ErrNotFound)
	}
	itemID := uuid.New().String()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO items (item_id, shelf_id, name, stock) VALUES (?, ?, ?, ?)`,
		itemID, shelfID, name, count); err != nil {
		return "", fmt.Errorf("insert item: %w", err)
	}
	return itemID, nil
}

func (s *Store) shelfExists(ctx context.Context, shelfID string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM shelves WHERE shelf_id = ?`, shelfID).Scan(&n); err != nil {
		return false, fmt.Errorf("lookup shelf: %w", err)
	}
	return n > 0, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
