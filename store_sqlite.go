package photoengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore wraps a SQLite database and implements PhotoStore.
// Timestamps are stored as unix nanoseconds so ordering is numeric.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the grid read while the admin writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS photos (
    id TEXT PRIMARY KEY,
    id_short TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL DEFAULT '',
    caption TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '',
    make TEXT NOT NULL DEFAULT '',
    model TEXT NOT NULL DEFAULT '',
    camera_key TEXT NOT NULL DEFAULT '',
    lens_model TEXT NOT NULL DEFAULT '',
    focal_length INTEGER NOT NULL DEFAULT 0,
    f_number REAL NOT NULL DEFAULT 0,
    iso INTEGER NOT NULL DEFAULT 0,
    exposure_time TEXT NOT NULL DEFAULT '',
    filename TEXT NOT NULL,
    thumb_filename TEXT NOT NULL DEFAULT '',
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    taken_at INTEGER NOT NULL,
    hidden INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_photos_taken_at ON photos(taken_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_photos_camera_key ON photos(camera_key);
`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLitePhoto(row rowScanner) (Photo, error) {
	var p Photo
	var tags string
	var takenAt, createdAt, updatedAt int64
	var hidden int
	err := row.Scan(
		&p.ID, &p.IDShort, &p.Title, &p.Caption, &tags, &p.Make, &p.Model, &p.LensModel,
		&p.FocalLength, &p.FNumber, &p.ISO, &p.ExposureTime, &p.Filename, &p.ThumbFilename,
		&p.Width, &p.Height, &takenAt, &hidden, &createdAt, &updatedAt,
	)
	if err != nil {
		return Photo{}, err
	}
	p.Tags = ParseTags(tags)
	p.TakenAt = time.Unix(0, takenAt).UTC()
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	p.UpdatedAt = time.Unix(0, updatedAt).UTC()
	p.Hidden = hidden == 1
	return p, nil
}

func (s *SQLiteStore) queryPhotos(ctx context.Context, query string, args ...any) ([]Photo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		p, err := scanSQLitePhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// GetPhoto returns a photo by full or short id, hidden or not.
func (s *SQLiteStore) GetPhoto(ctx context.Context, id string) (Photo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = ? OR id_short = ? LIMIT 1`, id, id)
	p, err := scanSQLitePhoto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Photo{}, ErrNotFound
	}
	if err != nil {
		return Photo{}, fmt.Errorf("get photo: %w", err)
	}
	return p, nil
}

// GetPhotosTakenBeforePhoto returns visible photos preceding photo in feed
// order, nearest first.
func (s *SQLiteStore) GetPhotosTakenBeforePhoto(ctx context.Context, photo Photo, limit int) ([]Photo, error) {
	taken := photo.TakenAt.UnixNano()
	photos, err := s.queryPhotos(ctx, `SELECT `+photoColumns+` FROM photos
WHERE hidden = 0 AND (taken_at > ? OR (taken_at = ? AND id > ?))
ORDER BY taken_at ASC, id ASC
LIMIT ?`, taken, taken, photo.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("photos before %s: %w", photo.ID, err)
	}
	return photos, nil
}

// GetPhotosTakenAfterPhotoInclusive returns photo followed by the visible
// photos after it in feed order.
func (s *SQLiteStore) GetPhotosTakenAfterPhotoInclusive(ctx context.Context, photo Photo, limit int) ([]Photo, error) {
	taken := photo.TakenAt.UnixNano()
	photos, err := s.queryPhotos(ctx, `SELECT `+photoColumns+` FROM photos
WHERE id = ? OR (hidden = 0 AND (taken_at < ? OR (taken_at = ? AND id < ?)))
ORDER BY taken_at DESC, id DESC
LIMIT ?`, photo.ID, taken, taken, photo.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("photos after %s: %w", photo.ID, err)
	}
	return photos, nil
}

// GetPhotos returns a page of photos ordered by capture time descending.
func (s *SQLiteStore) GetPhotos(ctx context.Context, q PhotoQuery) ([]Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE 1=1`
	var args []any
	if !q.IncludeHidden {
		query += ` AND hidden = 0`
	}
	if q.Camera != "" {
		query += ` AND camera_key = ?`
		args = append(args, q.Camera)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	query += ` ORDER BY taken_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, max(q.Offset, 0))
	photos, err := s.queryPhotos(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

// CountPhotos counts visible photos, optionally restricted to one camera.
func (s *SQLiteStore) CountPhotos(ctx context.Context, camera string) (int, error) {
	var n int
	var err error
	if camera == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photos WHERE hidden = 0`).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photos WHERE hidden = 0 AND camera_key = ?`, camera).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return n, nil
}

// ListCameras returns the cameras of visible photos, most used first.
func (s *SQLiteStore) ListCameras(ctx context.Context) ([]CameraCount, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT make, model, COUNT(*) AS n FROM photos
WHERE hidden = 0 AND camera_key != ''
GROUP BY camera_key
ORDER BY n DESC, camera_key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list cameras: %w", err)
	}
	defer rows.Close()

	var cameras []CameraCount
	for rows.Next() {
		var cc CameraCount
		if err := rows.Scan(&cc.Camera.Make, &cc.Camera.Model, &cc.Count); err != nil {
			return nil, err
		}
		cameras = append(cameras, cc)
	}
	return cameras, rows.Err()
}

// SavePhoto upserts a photo. Tags are normalized to lowercase.
func (s *SQLiteStore) SavePhoto(ctx context.Context, p Photo) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	hidden := 0
	if p.Hidden {
		hidden = 1
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO photos (
    id, id_short, title, caption, tags, make, model, camera_key, lens_model,
    focal_length, f_number, iso, exposure_time, filename, thumb_filename,
    width, height, taken_at, hidden, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    id_short = excluded.id_short, title = excluded.title, caption = excluded.caption,
    tags = excluded.tags, make = excluded.make, model = excluded.model,
    camera_key = excluded.camera_key, lens_model = excluded.lens_model,
    focal_length = excluded.focal_length, f_number = excluded.f_number, iso = excluded.iso,
    exposure_time = excluded.exposure_time, filename = excluded.filename,
    thumb_filename = excluded.thumb_filename, width = excluded.width, height = excluded.height,
    taken_at = excluded.taken_at, hidden = excluded.hidden, updated_at = excluded.updated_at`,
		p.ID, p.IDShort, p.Title, p.Caption, joinTags(p.Tags), p.Make, p.Model, p.Camera().Key(), p.LensModel,
		p.FocalLength, p.FNumber, p.ISO, p.ExposureTime, p.Filename, p.ThumbFilename,
		p.Width, p.Height, p.TakenAt.UnixNano(), hidden, p.CreatedAt.UnixNano(), now.UnixNano())
	if err != nil {
		return fmt.Errorf("save photo %s: %w", p.ID, err)
	}
	return nil
}

// DeletePhoto removes a photo by id.
func (s *SQLiteStore) DeletePhoto(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete photo %s: %w", id, err)
	}
	return nil
}
