package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/retain/internal/model"
)

// ReviewRecord is one logged review with the pre-review snapshot the
// optimizer needs. DifficultyBefore/StabilityBefore are zero on an
// item's first-ever review.
type ReviewRecord struct {
	ID               string       `json:"id"`
	ItemID           string       `json:"item_id"`
	Rating           model.Rating `json:"rating"`
	ElapsedDays      int          `json:"elapsed_days"`
	DifficultyBefore float64      `json:"difficulty_before"`
	StabilityBefore  float64      `json:"stability_before"`
	ReviewedAt       time.Time    `json:"reviewed_at"`
}

// SQLiteLog implements Log using SQLite.
type SQLiteLog struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteLog opens or creates a review log database at the given path.
func NewSQLiteLog(dbPath string) (*SQLiteLog, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	l := &SQLiteLog{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return l, nil
}

func (l *SQLiteLog) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), l.entropy).String()
}

func (l *SQLiteLog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reviews (
		id                TEXT PRIMARY KEY,
		item_id           TEXT NOT NULL,
		rating            INTEGER NOT NULL,
		elapsed_days      INTEGER NOT NULL,
		difficulty_before REAL NOT NULL,
		stability_before  REAL NOT NULL,
		reviewed_at       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reviews_item ON reviews(item_id);
	CREATE INDEX IF NOT EXISTS idx_reviews_time ON reviews(reviewed_at);
	`
	_, err := l.db.Exec(schema)
	return err
}

func (l *SQLiteLog) Append(ctx context.Context, rec ReviewRecord) (ReviewRecord, error) {
	if rec.ID == "" {
		rec.ID = l.newID()
	}
	if rec.ReviewedAt.IsZero() {
		rec.ReviewedAt = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO reviews (id, item_id, rating, elapsed_days, difficulty_before, stability_before, reviewed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ItemID, int(rec.Rating), rec.ElapsedDays,
		rec.DifficultyBefore, rec.StabilityBefore,
		rec.ReviewedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return ReviewRecord{}, &model.PersistenceError{Op: "append review", Err: err}
	}
	return rec, nil
}

func (l *SQLiteLog) All(ctx context.Context) ([]ReviewRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, item_id, rating, elapsed_days, difficulty_before, stability_before, reviewed_at
		 FROM reviews ORDER BY reviewed_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (l *SQLiteLog) ByItem(ctx context.Context, itemID string, limit int) ([]ReviewRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, item_id, rating, elapsed_days, difficulty_before, stability_before, reviewed_at
		 FROM reviews WHERE item_id = ? ORDER BY reviewed_at DESC, id DESC LIMIT ?`,
		itemID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (l *SQLiteLog) Close() error {
	return l.db.Close()
}

func scanRecords(rows *sql.Rows) ([]ReviewRecord, error) {
	var recs []ReviewRecord
	for rows.Next() {
		var rec ReviewRecord
		var rating int
		var reviewedAt string
		if err := rows.Scan(&rec.ID, &rec.ItemID, &rating, &rec.ElapsedDays,
			&rec.DifficultyBefore, &rec.StabilityBefore, &reviewedAt); err != nil {
			return nil, err
		}
		rec.Rating = model.Rating(rating)
		rec.ReviewedAt, _ = time.Parse(time.RFC3339, reviewedAt)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
