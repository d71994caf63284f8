// Package store keeps document revisions in SQLite.  Every write stores
// a new revision of the whole document under a fresh _rev.  Drafts of a
// document are stored under the id "drafts." followed by its id.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/signadot/transdoc/debug"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/mergeop"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrExists   = errors.New("document exists")
	ErrNoID     = errors.New("document has no _id")
)

const DraftPrefix = "drafts."

type Store struct {
	db  *sql.DB
	log *slog.Logger
}

func (s *Store) Close() error {
	return s.db.Close()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Put stores doc as the latest revision of its _id and returns the new
// revision.
func (s *Store) Put(ctx context.Context, doc *ir.Node) (string, error) {
	return put(ctx, s.db, doc)
}

func put(ctx context.Context, q querier, doc *ir.Node) (string, error) {
	id := doc.ID()
	if id == "" {
		return "", ErrNoID
	}
	rev := uuid.NewString()
	body := doc.Clone()
	body.Set(ir.RevField, ir.FromString(rev))
	_, err := q.ExecContext(ctx,
		`INSERT INTO revisions (id, rev, body, created_at) VALUES (?, ?, ?, ?)`,
		id, rev, string(ir.ToJSON(body)), time.Now().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("storing %s: %w", id, err)
	}
	if debug.Patch() {
		debug.Logf("store: %s at %s\n", id, rev)
	}
	return rev, nil
}

// Create stores doc if no revision of its _id exists.
func (s *Store) Create(ctx context.Context, doc *ir.Node) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()
	if _, err := latest(ctx, tx, doc.ID()); err == nil {
		return "", fmt.Errorf("%w: %s", ErrExists, doc.ID())
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}
	rev, err := put(ctx, tx, doc)
	if err != nil {
		return "", err
	}
	return rev, tx.Commit()
}

// Get returns the latest revision of id.
func (s *Store) Get(ctx context.Context, id string) (*ir.Node, error) {
	return latest(ctx, s.db, id)
}

func latest(ctx context.Context, q querier, id string) (*ir.Node, error) {
	row := q.QueryRowContext(ctx,
		`SELECT body FROM revisions WHERE id = ? ORDER BY seq DESC LIMIT 1`, id)
	return scan(row, id)
}

// AtRevision returns revision rev of id.
func (s *Store) AtRevision(ctx context.Context, id, rev string) (*ir.Node, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT body FROM revisions WHERE id = ? AND rev = ?`, id, rev)
	return scan(row, id+"@"+rev)
}

// LatestDraft returns the latest revision of the draft of id, or of id
// itself if it has no draft.
func (s *Store) LatestDraft(ctx context.Context, id string) (*ir.Node, error) {
	if !strings.HasPrefix(id, DraftPrefix) {
		doc, err := s.Get(ctx, DraftPrefix+id)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Revisions returns the revisions of id, oldest first.
func (s *Store) Revisions(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT rev FROM revisions WHERE id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []string
	for rows.Next() {
		var rev string
		if err := rows.Scan(&rev); err != nil {
			return nil, err
		}
		res = append(res, rev)
	}
	return res, rows.Err()
}

// Commit applies ps to the latest revision of id and stores the result.
func (s *Store) Commit(ctx context.Context, id string, ps mergeop.PatchSet) (string, error) {
	return s.update(ctx, id, ps.Apply)
}

// ApplyOps applies ops to the latest revision of id and stores the
// result.
func (s *Store) ApplyOps(ctx context.Context, id string, ops mergeop.Ops) (string, error) {
	return s.update(ctx, id, ops.Apply)
}

func (s *Store) update(ctx context.Context, id string, f func(*ir.Node) (*ir.Node, error)) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()
	doc, err := latest(ctx, tx, id)
	if err != nil {
		return "", err
	}
	res, err := f(doc)
	if err != nil {
		return "", err
	}
	rev, err := put(ctx, tx, res)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	s.log.Debug("committed patch", "id", id, "from", doc.Rev(), "rev", rev)
	return rev, nil
}

func scan(row *sql.Row, what string) (*ir.Node, error) {
	var body string
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, what)
		}
		return nil, err
	}
	return ir.FromJSON([]byte(body))
}
