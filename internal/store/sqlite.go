package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"blocktree/internal/model"

	_ "modernc.org/sqlite"
)

const sqliteSchemaVersion = 1

// SQLiteStore is a BlockStore backed by a single SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("missing sqlite path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	// The CLI and the browser may hold the file at the same time.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	s := &SQLiteStore{db: db, path: path, now: func() time.Time { return time.Now().UTC() }}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		// parent_id has no foreign key; dangling references are reported by Check.
		`CREATE TABLE IF NOT EXISTS blocks (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			type TEXT NOT NULL,
			parent_id TEXT,
			depth INTEGER NOT NULL,
			ord INTEGER NOT NULL,
			is_visible INTEGER NOT NULL,
			content_json TEXT,
			style_json TEXT,
			config_json TEXT,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_owner ON blocks(owner_id);`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_parent ON blocks(owner_id, parent_id, ord);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES('schema_version', ?)`, strconv.Itoa(sqliteSchemaVersion))
	return err
}

const blockColumns = `id, owner_id, type, parent_id, depth, ord, is_visible, content_json, style_json, config_json, created_at_unixms, updated_at_unixms`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlock(r rowScanner) (model.Block, error) {
	var (
		b         model.Block
		typ       string
		parent    sql.NullString
		visible   int
		createdMs int64
		updatedMs int64
	)
	if err := r.Scan(&b.ID, &b.OwnerID, &typ, &parent, &b.Depth, &b.Order, &visible,
		&b.Content, &b.Style, &b.Config, &createdMs, &updatedMs); err != nil {
		return model.Block{}, err
	}
	b.Type = model.BlockType(typ)
	if parent.Valid && parent.String != "" {
		b.ParentID = model.StrPtr(parent.String)
	}
	b.IsVisible = visible != 0
	b.CreatedAt = time.UnixMilli(createdMs).UTC()
	b.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return b, nil
}

func (s *SQLiteStore) FetchBlocksByOwner(ctx context.Context, ownerID string) ([]model.Block, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+blockColumns+` FROM blocks WHERE owner_id = ? ORDER BY rowid`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Block{}
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) CreateBlock(ctx context.Context, in model.NewBlock) (model.Block, error) {
	if err := validateNew(in); err != nil {
		return model.Block{}, err
	}
	now := s.now()
	b := model.Block{
		ID:        newBlockID(),
		OwnerID:   in.OwnerID,
		Type:      in.Type,
		Content:   in.Content.Clone(),
		Style:     in.Style.Clone(),
		Config:    in.Config.Clone(),
		Depth:     in.Depth,
		Order:     in.Order,
		IsVisible: in.IsVisible,
		// Round-trip through unix millis so the returned value matches a later fetch.
		CreatedAt: time.UnixMilli(now.UnixMilli()).UTC(),
		UpdatedAt: time.UnixMilli(now.UnixMilli()).UTC(),
	}
	if in.ParentID != nil && *in.ParentID != "" {
		b.ParentID = model.StrPtr(*in.ParentID)
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO blocks(`+blockColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.OwnerID, string(b.Type), nullableString(b.ParentID), b.Depth, b.Order, boolToInt(b.IsVisible),
		b.Content, b.Style, b.Config, b.CreatedAt.UnixMilli(), b.UpdatedAt.UnixMilli(),
	); err != nil {
		return model.Block{}, err
	}
	return b, nil
}

func (s *SQLiteStore) UpdateBlock(ctx context.Context, id string, patch model.Patch) (model.Block, error) {
	if err := validatePatch(patch); err != nil {
		return model.Block{}, err
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return model.Block{}, err
	}
	defer func() { _ = tx.Rollback() }()

	b, err := scanBlock(tx.QueryRowContext(ctx, `SELECT `+blockColumns+` FROM blocks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Block{}, notFound(id)
		}
		return model.Block{}, err
	}
	patch.Apply(&b)
	b.UpdatedAt = time.UnixMilli(s.now().UnixMilli()).UTC()

	if _, err := tx.ExecContext(ctx, `UPDATE blocks SET
			parent_id = ?, depth = ?, ord = ?, is_visible = ?,
			content_json = ?, style_json = ?, config_json = ?,
			updated_at_unixms = ?
		WHERE id = ?`,
		nullableString(b.ParentID), b.Depth, b.Order, boolToInt(b.IsVisible),
		b.Content, b.Style, b.Config,
		b.UpdatedAt.UnixMilli(), id,
	); err != nil {
		return model.Block{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Block{}, err
	}
	return b, nil
}

func (s *SQLiteStore) DeleteBlock(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blocks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

// Owners lists the distinct owner ids present in the database.
func (s *SQLiteStore) Owners(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT owner_id FROM blocks ORDER BY owner_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func nullableString(p *string) any {
	if p == nil || *p == "" {
		return nil
	}
	return *p
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
