package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/jacl/pkg/core"
)

// Row kinds.
const (
	KindEntry    = "entry"
	KindProperty = "property"
)

// DeclaredKind is the value kind of an entry declared without a body.
const DeclaredKind = "Declared"

// ErrNoSnapshot is returned when a file has never been indexed.
var ErrNoSnapshot = errors.New("no snapshot for file")

// Row is one flattened node of a tree. Path is the dotted path from the root.
// For entries ValueKind is the structure kind, for properties the value kind.
type Row struct {
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	ValueKind string `json:"value_kind"`
	Value     string `json:"value,omitempty"`
}

// Snapshot is the indexed state of one file.
type Snapshot struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	RootKind  string    `json:"root_kind"`
	CreatedAt time.Time `json:"created_at"`
	Rows      []Row     `json:"rows"`
}

// Find returns the row at path.
func (s *Snapshot) Find(path string) (Row, bool) {
	for _, r := range s.Rows {
		if r.Path == path {
			return r, true
		}
	}
	return Row{}, false
}

// Flatten lists st depth-first in declaration order, properties before entries.
func Flatten(st *core.Struct) []Row {
	var rows []Row
	flatten(st, "", &rows)
	return rows
}

func flatten(st *core.Struct, prefix string, rows *[]Row) {
	join := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "." + name
	}
	for name, v := range st.Props.All() {
		*rows = append(*rows, Row{
			Path:      join(name),
			Kind:      KindProperty,
			Name:      name,
			ValueKind: v.Kind.String(),
			Value:     v.String(),
		})
	}
	for name, child := range st.Entries.All() {
		path := join(name)
		if child == nil {
			*rows = append(*rows, Row{Path: path, Kind: KindEntry, Name: name, ValueKind: DeclaredKind})
			continue
		}
		*rows = append(*rows, Row{Path: path, Kind: KindEntry, Name: name, ValueKind: child.Kind.String()})
		flatten(child, path, rows)
	}
}

// WriteSnapshot stores a new snapshot of file in a single transaction and
// returns its ID.
func (s *Store) WriteSnapshot(ctx context.Context, file string, st *core.Struct) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := generateID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, file, root_kind, created_at) VALUES (?, ?, ?, ?)`,
		id, file, st.Kind.String(), time.Now().UTC(),
	); err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_rows (snapshot_id, position, path, kind, name, value_kind, value)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range Flatten(st) {
		if _, err := stmt.ExecContext(ctx, id, i, r.Path, r.Kind, r.Name, r.ValueKind, r.Value); err != nil {
			return "", fmt.Errorf("insert row %s: %w", r.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// Lookup returns the latest snapshot of file.
func (s *Store) Lookup(ctx context.Context, file string) (*Snapshot, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	snap := &Snapshot{File: file}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, root_kind, created_at FROM snapshots
		WHERE file = ?
		ORDER BY seq DESC
		LIMIT 1
	`, file).Scan(&snap.ID, &snap.RootKind, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", file, ErrNoSnapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, kind, name, value_kind, value FROM snapshot_rows
		WHERE snapshot_id = ?
		ORDER BY position
	`, snap.ID)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Path, &r.Kind, &r.Name, &r.ValueKind, &r.Value); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		snap.Rows = append(snap.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return snap, nil
}

// FileSummary describes the latest snapshot of an indexed file.
type FileSummary struct {
	File       string    `json:"file"`
	SnapshotID string    `json:"snapshot_id"`
	Snapshots  int       `json:"snapshots"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Files lists every indexed file, sorted by path.
func (s *Store) Files(ctx context.Context) ([]FileSummary, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.file, s.id, c.n, s.created_at
		FROM snapshots s
		JOIN (SELECT file, MAX(seq) AS seq, COUNT(*) AS n FROM snapshots GROUP BY file) c
		  ON c.file = s.file AND c.seq = s.seq
		ORDER BY s.file
	`)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []FileSummary
	for rows.Next() {
		var f FileSummary
		if err := rows.Scan(&f.File, &f.SnapshotID, &f.Snapshots, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// Prune deletes all but the newest keep snapshots of file.
func (s *Store) Prune(ctx context.Context, file string, keep int) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	if keep < 1 {
		return 0, fmt.Errorf("keep must be at least 1, got %d", keep)
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE file = ? AND seq NOT IN (
			SELECT seq FROM snapshots WHERE file = ? ORDER BY seq DESC LIMIT ?
		)
	`, file, file, keep)
	if err != nil {
		return 0, fmt.Errorf("delete old snapshots: %w", err)
	}
	return res.RowsAffected()
}

// byPrefix keeps the rows at or below path.
func byPrefix(rows []Row, path string) []Row {
	var out []Row
	for _, r := range rows {
		if r.Path == path || strings.HasPrefix(r.Path, path+".") {
			out = append(out, r)
		}
	}
	return out
}

// Subtree returns the rows at or below path in the latest snapshot of file.
func (s *Store) Subtree(ctx context.Context, file, path string) ([]Row, error) {
	snap, err := s.Lookup(ctx, file)
	if err != nil {
		return nil, err
	}
	return byPrefix(snap.Rows, path), nil
}
