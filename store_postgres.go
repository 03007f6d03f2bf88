package photoengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
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
    f_number DOUBLE PRECISION NOT NULL DEFAULT 0,
    iso INTEGER NOT NULL DEFAULT 0,
    exposure_time TEXT NOT NULL DEFAULT '',
    filename TEXT NOT NULL,
    thumb_filename TEXT NOT NULL DEFAULT '',
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    taken_at TIMESTAMPTZ NOT NULL,
    hidden BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_photos_taken_at ON photos(taken_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_photos_camera_key ON photos(camera_key);
`

// PostgresStore implements PhotoStore using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn, verifies the connection and applies the schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("exec migration: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases all pooled connections.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanPostgresPhoto(row pgx.Row) (Photo, error) {
	var p Photo
	var tags string
	err := row.Scan(
		&p.ID, &p.IDShort, &p.Title, &p.Caption, &tags, &p.Make, &p.Model, &p.LensModel,
		&p.FocalLength, &p.FNumber, &p.ISO, &p.ExposureTime, &p.Filename, &p.ThumbFilename,
		&p.Width, &p.Height, &p.TakenAt, &p.Hidden, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return Photo{}, err
	}
	p.Tags = ParseTags(tags)
	p.TakenAt = p.TakenAt.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (s *PostgresStore) queryPhotos(ctx context.Context, q string, args ...any) ([]Photo, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		p, err := scanPostgresPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return photos, nil
}

func (s *PostgresStore) GetPhoto(ctx context.Context, id string) (Photo, error) {
	const q = `SELECT ` + photoColumns + ` FROM photos WHERE id = $1 OR id_short = $1 LIMIT 1`
	p, err := scanPostgresPhoto(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Photo{}, ErrNotFound
		}
		return Photo{}, fmt.Errorf("get photo: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) GetPhotosTakenBeforePhoto(ctx context.Context, photo Photo, limit int) ([]Photo, error) {
	const q = `SELECT ` + photoColumns + ` FROM photos
WHERE NOT hidden AND (taken_at, id) > ($1, $2)
ORDER BY taken_at ASC, id ASC
LIMIT $3`
	return s.queryPhotos(ctx, q, photo.TakenAt, photo.ID, limit)
}

func (s *PostgresStore) GetPhotosTakenAfterPhotoInclusive(ctx context.Context, photo Photo, limit int) ([]Photo, error) {
	const q = `SELECT ` + photoColumns + ` FROM photos
WHERE id = $2 OR (NOT hidden AND (taken_at, id) < ($1, $2))
ORDER BY taken_at DESC, id DESC
LIMIT $3`
	return s.queryPhotos(ctx, q, photo.TakenAt, photo.ID, limit)
}

func (s *PostgresStore) GetPhotos(ctx context.Context, pq PhotoQuery) ([]Photo, error) {
	q := `SELECT ` + photoColumns + ` FROM photos WHERE 1=1`
	args := []any{}
	idx := 1
	if !pq.IncludeHidden {
		q += ` AND NOT hidden`
	}
	if pq.Camera != "" {
		q += fmt.Sprintf(" AND camera_key = $%d", idx)
		args = append(args, pq.Camera)
		idx++
	}
	q += ` ORDER BY taken_at DESC, id DESC`
	if pq.Limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d", idx)
		args = append(args, pq.Limit)
		idx++
	}
	q += fmt.Sprintf(" OFFSET $%d", idx)
	args = append(args, max(pq.Offset, 0))
	return s.queryPhotos(ctx, q, args...)
}

func (s *PostgresStore) CountPhotos(ctx context.Context, camera string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM photos WHERE NOT hidden AND ($1 = '' OR camera_key = $1)`, camera).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) ListCameras(ctx context.Context) ([]CameraCount, error) {
	rows, err := s.pool.Query(ctx, `SELECT MIN(make), MIN(model), COUNT(*) AS n FROM photos
WHERE NOT hidden AND camera_key <> ''
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
			return nil, fmt.Errorf("scan camera: %w", err)
		}
		cameras = append(cameras, cc)
	}
	return cameras, rows.Err()
}

func (s *PostgresStore) SavePhoto(ctx context.Context, p Photo) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	const q = `
INSERT INTO photos (id, id_short, title, caption, tags, make, model, camera_key, lens_model,
                    focal_length, f_number, iso, exposure_time, filename, thumb_filename,
                    width, height, taken_at, hidden, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
ON CONFLICT (id) DO UPDATE SET
    id_short = EXCLUDED.id_short, title = EXCLUDED.title, caption = EXCLUDED.caption,
    tags = EXCLUDED.tags, make = EXCLUDED.make, model = EXCLUDED.model,
    camera_key = EXCLUDED.camera_key, lens_model = EXCLUDED.lens_model,
    focal_length = EXCLUDED.focal_length, f_number = EXCLUDED.f_number, iso = EXCLUDED.iso,
    exposure_time = EXCLUDED.exposure_time, filename = EXCLUDED.filename,
    thumb_filename = EXCLUDED.thumb_filename, width = EXCLUDED.width, height = EXCLUDED.height,
    taken_at = EXCLUDED.taken_at, hidden = EXCLUDED.hidden, updated_at = EXCLUDED.updated_at`
	_, err := s.pool.Exec(ctx, q,
		p.ID, p.IDShort, p.Title, p.Caption, joinTags(p.Tags), p.Make, p.Model, p.Camera().Key(), p.LensModel,
		p.FocalLength, p.FNumber, p.ISO, p.ExposureTime, p.Filename, p.ThumbFilename,
		p.Width, p.Height, p.TakenAt.UTC(), p.Hidden, p.CreatedAt, now,
	)
	if err != nil {
		return fmt.Errorf("save photo %s: %w", p.ID, err)
	}
	return nil
}

func (s *PostgresStore) DeletePhoto(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete photo %s: %w", id, err)
	}
	return nil
}
