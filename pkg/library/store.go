package library

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Errors returned by the attachment store
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate entry")
)

//go:embed schema.sql
var schema string

// Attachment is one imported file and its metadata
type Attachment struct {
	ID            int64
	GUID          string
	SourceURL     string
	Path          string
	ThumbnailPath string
	MimeType      string
	Width         int
	Height        int
	FileSize      int64
	Title         string
	Caption       string
	Alt           string
	Description   string
	PostID        *int64
	CreatedAt     time.Time
}

// querier abstracts *sql.DB and *sql.Tx for shared query logic
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store persists attachment records in SQLite
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the database at path and applies the schema.
// ":memory:" opens a private in-memory database.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one connection keeps in-memory databases shared and serialises writers
	db.SetMaxOpenConns(1)

	s := NewStore(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an open database
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the tables if they are missing
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin starts a transaction
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a database transaction with the same methods as Store
type Tx struct {
	tx *sql.Tx
}

// Commit commits the transaction
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// mapSQLiteError converts SQLite errors to package errors
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}

func addAttachment(ctx context.Context, q querier, a *Attachment) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	result, err := q.ExecContext(ctx, `
		INSERT INTO attachments (guid, source_url, path, thumbnail_path, mime_type, width, height,
			file_size, title, caption, alt, description, post_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.GUID, a.SourceURL, a.Path, a.ThumbnailPath, a.MimeType, a.Width, a.Height,
		a.FileSize, a.Title, a.Caption, a.Alt, a.Description, a.PostID, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert attachment: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	a.ID = id
	return nil
}

// AddAttachment inserts a record and sets its ID
func (s *Store) AddAttachment(ctx context.Context, a *Attachment) error {
	return addAttachment(ctx, s.db, a)
}

// AddAttachment inserts a record within the transaction
func (t *Tx) AddAttachment(ctx context.Context, a *Attachment) error {
	return addAttachment(ctx, t.tx, a)
}

const attachmentColumns = `id, guid, source_url, path, thumbnail_path, mime_type, width, height,
	file_size, title, caption, alt, description, post_id, created_at`

func scanAttachment(row interface{ Scan(...any) error }) (*Attachment, error) {
	a := &Attachment{}
	var postID sql.NullInt64
	err := row.Scan(&a.ID, &a.GUID, &a.SourceURL, &a.Path, &a.ThumbnailPath, &a.MimeType,
		&a.Width, &a.Height, &a.FileSize, &a.Title, &a.Caption, &a.Alt, &a.Description,
		&postID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if postID.Valid {
		a.PostID = &postID.Int64
	}
	return a, nil
}

// GetAttachment returns the record with id or ErrNotFound
func (s *Store) GetAttachment(ctx context.Context, id int64) (*Attachment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+attachmentColumns+` FROM attachments WHERE id = ?`, id)
	a, err := scanAttachment(row)
	if err != nil {
		return nil, fmt.Errorf("get attachment %d: %w", id, mapSQLiteError(err))
	}
	return a, nil
}

// ListAttachments returns records in ID order, optionally only those attached to postID
func (s *Store) ListAttachments(ctx context.Context, postID *int64) ([]*Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM attachments`
	var args []any
	if postID != nil {
		query += ` WHERE post_id = ?`
		args = append(args, *postID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var list []*Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func setFeaturedImage(ctx context.Context, q querier, postID, attachmentID int64) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO featured_images (post_id, attachment_id, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(post_id) DO UPDATE SET attachment_id = excluded.attachment_id, updated_at = excluded.updated_at`,
		postID, attachmentID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set featured image for post %d: %w", postID, mapSQLiteError(err))
	}
	return nil
}

// SetFeaturedImage marks attachmentID as the featured image of postID
func (s *Store) SetFeaturedImage(ctx context.Context, postID, attachmentID int64) error {
	return setFeaturedImage(ctx, s.db, postID, attachmentID)
}

// SetFeaturedImage marks attachmentID as the featured image of postID within the transaction
func (t *Tx) SetFeaturedImage(ctx context.Context, postID, attachmentID int64) error {
	return setFeaturedImage(ctx, t.tx, postID, attachmentID)
}

// FeaturedImage returns the attachment ID featured on postID or ErrNotFound
func (s *Store) FeaturedImage(ctx context.Context, postID int64) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT attachment_id FROM featured_images WHERE post_id = ?`, postID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("get featured image for post %d: %w", postID, mapSQLiteError(err))
	}
	return id, nil
}

// FeaturedImages returns the featured attachment ID of every post that has one
func (s *Store) FeaturedImages(ctx context.Context) (map[int64]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT post_id, attachment_id FROM featured_images`)
	if err != nil {
		return nil, fmt.Errorf("list featured images: %w", err)
	}
	defer rows.Close()

	featured := make(map[int64]int64)
	for rows.Next() {
		var postID, attachmentID int64
		if err := rows.Scan(&postID, &attachmentID); err != nil {
			return nil, fmt.Errorf("scan featured image: %w", err)
		}
		featured[postID] = attachmentID
	}
	return featured, rows.Err()
}
