package links

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
)

// LinkRepository defines data access for links. All operations are scoped
// to an owner; a link id from another user behaves as if it did not exist.
type LinkRepository interface {
	ListByUser(ctx context.Context, userID string) ([]Link, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, link *Link) error
	Update(ctx context.Context, userID string, linkID int64, title, url string) error
	Delete(ctx context.Context, userID string, linkID int64) error
	Reorder(ctx context.Context, userID string, items []ReorderItem) error
}

type linkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a MySQL-backed link repository.
func NewLinkRepository(db *sql.DB) LinkRepository {
	return &linkRepository{db: db}
}

const linkColumns = "id, user_id, title, url, position, created_at"

func (r *linkRepository) ListByUser(ctx context.Context, userID string) ([]Link, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+linkColumns+" FROM links WHERE user_id = ? ORDER BY position ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}
	defer rows.Close()

	links := []Link{}
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.ID, &l.UserID, &l.Title, &l.URL, &l.Position, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *linkRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM links WHERE user_id = ?", userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting links: %w", err)
	}
	return count, nil
}

func (r *linkRepository) Create(ctx context.Context, link *Link) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO links (user_id, title, url, position, created_at) VALUES (?, ?, ?, ?, ?)",
		link.UserID, link.Title, link.URL, link.Position, link.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating link: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading link id: %w", err)
	}
	link.ID = id
	return nil
}

func (r *linkRepository) Update(ctx context.Context, userID string, linkID int64, title, url string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE links SET title = ?, url = ? WHERE id = ? AND user_id = ?",
		title, url, linkID, userID,
	)
	if err != nil {
		return fmt.Errorf("updating link: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating link: %w", err)
	}
	if affected == 0 {
		// Either the link does not exist or it belongs to someone else;
		// unchanged values also report zero, so check existence explicitly.
		exists, err := r.linkExists(ctx, userID, linkID)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NewNotFound("link not found")
		}
	}
	return nil
}

// Delete removes the link and closes the gap so positions stay dense.
func (r *linkRepository) Delete(ctx context.Context, userID string, linkID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting delete: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRowContext(ctx,
		"SELECT position FROM links WHERE id = ? AND user_id = ?", linkID, userID,
	).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NewNotFound("link not found")
	}
	if err != nil {
		return fmt.Errorf("locating link: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM links WHERE id = ? AND user_id = ?", linkID, userID,
	); err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE links SET position = position - 1 WHERE user_id = ? AND position > ?",
		userID, position,
	); err != nil {
		return fmt.Errorf("compacting positions: %w", err)
	}

	return tx.Commit()
}

// Reorder applies the {id, position} rows in one transaction. The row set
// must exactly cover the user's links.
func (r *linkRepository) Reorder(ctx context.Context, userID string, items []ReorderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting reorder: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM links WHERE user_id = ?", userID,
	).Scan(&total); err != nil {
		return fmt.Errorf("counting links: %w", err)
	}
	if total != len(items) {
		return apperror.NewBadRequest("reorder must cover every link exactly once")
	}

	stmt, err := tx.PrepareContext(ctx,
		"UPDATE links SET position = ? WHERE id = ? AND user_id = ?",
	)
	if err != nil {
		return fmt.Errorf("preparing reorder: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		result, err := stmt.ExecContext(ctx, item.Position, item.ID, userID)
		if err != nil {
			return fmt.Errorf("reordering link %d: %w", item.ID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("reordering link %d: %w", item.ID, err)
		}
		if affected == 0 {
			// Zero rows means an unknown or foreign id, or a row already at
			// the requested position; check existence to tell them apart.
			exists, err := r.linkExistsTx(ctx, tx, userID, item.ID)
			if err != nil {
				return err
			}
			if !exists {
				return apperror.NewBadRequest("reorder contains an unknown link")
			}
		}
	}

	return tx.Commit()
}

func (r *linkRepository) linkExists(ctx context.Context, userID string, linkID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM links WHERE id = ? AND user_id = ?", linkID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking link: %w", err)
	}
	return true, nil
}

func (r *linkRepository) linkExistsTx(ctx context.Context, tx *sql.Tx, userID string, linkID int64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM links WHERE id = ? AND user_id = ?", linkID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking link: %w", err)
	}
	return true, nil
}
