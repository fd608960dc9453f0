package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/linkstash/linkstash/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

const bookmarkColumns = `id, owner_id, url, title, summary, type, status, starred, read,
       preview, favicon_url, og_image_url, og_description, metadata,
       title_embedding, summary_embedding, created_at, updated_at`

// rowScanner abstracts *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBookmark reads a full bookmark row in bookmarkColumns order
func scanBookmark(row rowScanner) (*types.Bookmark, error) {
	var bm types.Bookmark
	var title, summary sql.NullString
	var titleVec, summaryVec []byte

	err := row.Scan(
		&bm.ID, &bm.OwnerID, &bm.URL, &title, &summary, &bm.Type, &bm.Status,
		&bm.Starred, &bm.Read, &bm.Preview, &bm.FaviconURL, &bm.OGImageURL,
		&bm.OGDescription, &bm.Metadata, &titleVec, &summaryVec,
		&bm.CreatedAt, &bm.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if title.Valid {
		bm.Title = &title.String
	}
	if summary.Valid {
		bm.Summary = &summary.String
	}
	if titleVec != nil {
		if bm.TitleEmbedding, err = deserializeVector(titleVec); err != nil {
			return nil, fmt.Errorf("title embedding for bookmark %d: %w", bm.ID, err)
		}
	}
	if summaryVec != nil {
		if bm.SummaryEmbedding, err = deserializeVector(summaryVec); err != nil {
			return nil, fmt.Errorf("summary embedding for bookmark %d: %w", bm.ID, err)
		}
	}
	return &bm, nil
}

// Bookmark operations

func (s *SQLiteStorage) CreateBookmark(ctx context.Context, bm *types.Bookmark) error {
	if bm.Type == "" {
		bm.Type = types.TypeOther
	}
	if bm.Status == "" {
		bm.Status = types.StatusPending
	}
	if bm.Metadata == "" {
		bm.Metadata = "{}"
	}

	query := `
		INSERT INTO bookmarks (
			owner_id, url, title, summary, type, status, starred, read,
			preview, favicon_url, og_image_url, og_description, metadata,
			title_embedding, summary_embedding, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := s.db.ExecContext(ctx, query,
		bm.OwnerID, bm.URL, bm.Title, bm.Summary, bm.Type, bm.Status,
		bm.Starred, bm.Read, bm.Preview, bm.FaviconURL, bm.OGImageURL,
		bm.OGDescription, bm.Metadata,
		nullableVector(bm.TitleEmbedding), nullableVector(bm.SummaryEmbedding),
		now, now)
	if err != nil {
		return fmt.Errorf("failed to create bookmark: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	bm.ID = id
	bm.CreatedAt = now
	bm.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) GetBookmark(ctx context.Context, ownerID string, id int64) (*types.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE owner_id = ? AND id = ?`
	return scanBookmark(s.db.QueryRowContext(ctx, query, ownerID, id))
}

func (s *SQLiteStorage) UpdateBookmark(ctx context.Context, bm *types.Bookmark) error {
	query := `
		UPDATE bookmarks
		SET url = ?, title = ?, summary = ?, type = ?, status = ?, starred = ?, read = ?,
		    preview = ?, favicon_url = ?, og_image_url = ?, og_description = ?, metadata = ?,
		    updated_at = ?
		WHERE owner_id = ? AND id = ?
	`
	now := time.Now()
	result, err := s.db.ExecContext(ctx, query,
		bm.URL, bm.Title, bm.Summary, bm.Type, bm.Status, bm.Starred, bm.Read,
		bm.Preview, bm.FaviconURL, bm.OGImageURL, bm.OGDescription, bm.Metadata,
		now, bm.OwnerID, bm.ID)
	if err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	bm.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) DeleteBookmark(ctx context.Context, ownerID string, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) SetBookmarkStatus(ctx context.Context, ownerID string, id int64, status types.BookmarkStatus) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE bookmarks SET status = ?, updated_at = ? WHERE owner_id = ? AND id = ?`,
		status, time.Now(), ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to set bookmark status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) SetBookmarkEmbeddings(ctx context.Context, ownerID string, id int64, title, summary []float32) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE bookmarks SET title_embedding = ?, summary_embedding = ?, updated_at = ? WHERE owner_id = ? AND id = ?`,
		nullableVector(title), nullableVector(summary), time.Now(), ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to set bookmark embeddings: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) GetBookmarksByIDs(ctx context.Context, ownerID string, ids []int64) (map[int64]*types.Bookmark, error) {
	result := make(map[int64]*types.Bookmark, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, ownerID)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE owner_id = ? AND id IN (` +
		strings.Join(placeholders, ",") + `)`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookmarks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		bm, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		result[bm.ID] = bm
	}
	return result, rows.Err()
}

// Tag operations

func (s *SQLiteStorage) UpsertTag(ctx context.Context, tag *types.Tag) error {
	if tag.Kind == "" {
		tag.Kind = types.TagKindUser
	}
	query := `
		INSERT INTO tags (owner_id, name, kind, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner_id, name) DO UPDATE SET kind = excluded.kind
		RETURNING id, created_at
	`
	err := s.db.QueryRowContext(ctx, query, tag.OwnerID, tag.Name, tag.Kind, time.Now()).
		Scan(&tag.ID, &tag.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert tag: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) TagBookmark(ctx context.Context, ownerID string, bookmarkID, tagID int64) error {
	// Ownership check guards against cross-tenant joins
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookmarks b, tags t
		WHERE b.id = ? AND t.id = ? AND b.owner_id = ? AND t.owner_id = ?
	`, bookmarkID, tagID, ownerID, ownerID).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bookmark_tags (bookmark_id, tag_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(bookmark_id, tag_id) DO NOTHING
	`, bookmarkID, tagID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to tag bookmark: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) UntagBookmark(ctx context.Context, ownerID string, bookmarkID, tagID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM bookmark_tags
		WHERE bookmark_id = ? AND tag_id = ?
		AND bookmark_id IN (SELECT id FROM bookmarks WHERE owner_id = ?)
	`, bookmarkID, tagID, ownerID)
	return err
}

func (s *SQLiteStorage) ListTags(ctx context.Context, ownerID string) ([]*types.Tag, error) {
	query := `SELECT id, owner_id, name, kind, created_at FROM tags WHERE owner_id = ? ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tags := make([]*types.Tag, 0)
	for rows.Next() {
		var tag types.Tag
		if err := rows.Scan(&tag.ID, &tag.OwnerID, &tag.Name, &tag.Kind, &tag.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}

func (s *SQLiteStorage) ListTagsByBookmark(ctx context.Context, ownerID string, bookmarkID int64) ([]*types.Tag, error) {
	query := `
		SELECT t.id, t.owner_id, t.name, t.kind, t.created_at
		FROM tags t
		JOIN bookmark_tags bt ON bt.tag_id = t.id
		JOIN bookmarks b ON b.id = bt.bookmark_id
		WHERE b.owner_id = ? AND b.id = ?
		ORDER BY t.name
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID, bookmarkID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tags := make([]*types.Tag, 0)
	for rows.Next() {
		var tag types.Tag
		if err := rows.Scan(&tag.ID, &tag.OwnerID, &tag.Name, &tag.Kind, &tag.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}

// Share links

// CreateShareLink registers a public token resolving to an owner
func (s *SQLiteStorage) CreateShareLink(ctx context.Context, token, ownerID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO share_links (token, owner_id, created_at) VALUES (?, ?, ?)`,
		token, ownerID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create share link: %w", err)
	}
	return nil
}

// ResolveShareLink returns the owner a public token belongs to
func (s *SQLiteStorage) ResolveShareLink(ctx context.Context, token string) (string, error) {
	var ownerID string
	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id FROM share_links WHERE token = ?`, token).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return ownerID, nil
}

// Status operations

func (s *SQLiteStorage) GetStatus(ctx context.Context, ownerID string) (*OwnerStatus, error) {
	status := &OwnerStatus{}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'READY' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'ERROR' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN title_embedding IS NOT NULL OR summary_embedding IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM bookmarks WHERE owner_id = ?
	`, ownerID).Scan(&status.BookmarksTotal, &status.BookmarksReady, &status.BookmarksErrors, &status.WithEmbeddings)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags WHERE owner_id = ?`, ownerID).Scan(&status.TagsTotal)
	if err != nil {
		return nil, err
	}

	// Select the column directly rather than MAX(created_at): the
	// aggregate loses the declared type and arrives as a bare string
	var lastCreated time.Time
	err = s.db.QueryRowContext(ctx, `
		SELECT created_at FROM bookmarks WHERE owner_id = ? ORDER BY id DESC LIMIT 1
	`, ownerID).Scan(&lastCreated)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if err == nil {
		status.LastCreatedAt = lastCreated
	}

	var pageCount, pageSize int
	err = s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	if err == nil {
		_ = s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.StoreSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	return status, nil
}
