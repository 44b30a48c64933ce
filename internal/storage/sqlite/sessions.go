package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkolev/groupify/internal/models"
)

// SaveSession persists a session, replacing any previous state under the
// same ID. Decimals are stored as their exact string form.
func (s *SQLiteStore) SaveSession(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if session.CreatedAt == 0 {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	if session.Name == "" {
		session.Name = generateName(session.People)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Replace-on-save: cascading deletes clear people, items and
	// assignments from the previous save.
	if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", session.ID); err != nil {
		return fmt.Errorf("failed to clear previous session: %w", err)
	}

	currency := ""
	tip := decimal.Zero
	originalTotal := decimal.Zero
	if session.Receipt != nil {
		currency = session.Receipt.Currency
		tip = session.Receipt.TipAmount
		originalTotal = session.Receipt.OriginalTotal
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO sessions (id, name, currency, tip_amount, original_total, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		session.ID, session.Name, currency, tip.String(), originalTotal.String(), session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	for i, name := range session.People {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO session_people (session_id, name, position) VALUES (?, ?, ?)",
			session.ID, name, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}
	}

	if session.Receipt != nil {
		for i := range session.Receipt.Items {
			item := &session.Receipt.Items[i]
			if item.ID == "" {
				item.ID = uuid.New().String()
			}

			_, err = tx.ExecContext(ctx,
				"INSERT INTO items (id, session_id, name, quantity, unit_price, price, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
				item.ID, session.ID, item.Name, item.Quantity, item.UnitPrice.String(), item.Price.String(), i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item: %w", err)
			}

			for j, person := range item.AssignedTo {
				_, err = tx.ExecContext(ctx,
					"INSERT INTO item_assignments (item_id, person, position) VALUES (?, ?, ?)",
					item.ID, person, j,
				)
				if err != nil {
					return fmt.Errorf("failed to insert item assignment: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID, including roster, items and
// assignments in their saved order.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	var currency, tipStr, originalTotalStr string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, currency, tip_amount, original_total, created_at, updated_at FROM sessions WHERE id = ?",
		sessionID,
	).Scan(&session.ID, &session.Name, &currency, &tipStr, &originalTotalStr, &session.CreatedAt, &session.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	tip, err := decimal.NewFromString(tipStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tip amount: %w", err)
	}
	originalTotal, err := decimal.NewFromString(originalTotalStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse original total: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM session_people WHERE session_id = ? ORDER BY position",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get people: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		session.People = append(session.People, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}

	receipt := &models.Receipt{
		Currency:      currency,
		TipAmount:     tip,
		OriginalTotal: originalTotal,
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT id, name, quantity, unit_price, price FROM items WHERE session_id = ? ORDER BY position",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.Item
		var unitPriceStr, priceStr string
		if err := itemRows.Scan(&item.ID, &item.Name, &item.Quantity, &unitPriceStr, &priceStr); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if item.UnitPrice, err = decimal.NewFromString(unitPriceStr); err != nil {
			return nil, fmt.Errorf("failed to parse unit price: %w", err)
		}
		if item.Price, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("failed to parse price: %w", err)
		}

		assignRows, err := s.db.QueryContext(ctx,
			"SELECT person FROM item_assignments WHERE item_id = ? ORDER BY position",
			item.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get item assignments: %w", err)
		}
		for assignRows.Next() {
			var person string
			if err := assignRows.Scan(&person); err != nil {
				assignRows.Close()
				return nil, fmt.Errorf("failed to scan assignment: %w", err)
			}
			item.AssignedTo = append(item.AssignedTo, person)
		}
		assignRows.Close()
		if err := assignRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate assignments: %w", err)
		}

		receipt.Items = append(receipt.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	receipt.Total = receipt.OriginalTotal.Add(receipt.TipAmount)
	if len(receipt.Items) > 0 || currency != "" {
		session.Receipt = receipt
	}
	return session, nil
}

// ListSessions returns summaries of all saved sessions, most recently
// updated first.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]models.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.created_at, s.updated_at,
		       (SELECT COUNT(*) FROM session_people p WHERE p.session_id = s.id),
		       (SELECT COUNT(*) FROM items i WHERE i.session_id = s.id)
		FROM sessions s
		ORDER BY s.updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var summaries []models.SessionSummary
	for rows.Next() {
		var sum models.SessionSummary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.CreatedAt, &sum.UpdatedAt, &sum.PeopleCount, &sum.ItemsCount); err != nil {
			return nil, fmt.Errorf("failed to scan session summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return summaries, nil
}

// DeleteSession removes a session; people, items and assignments cascade.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	return nil
}
