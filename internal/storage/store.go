// Package storage provides abstractions for persistent session storage.
package storage

import (
	"context"

	"github.com/dkolev/groupify/internal/models"
)

// Store defines the interface for shell session persistence. This
// abstraction allows swapping storage backends without changing the shell.
// The settlement engine never touches a Store: persistence belongs to the
// interactive session, not to the computation.
type Store interface {
	// SaveSession persists a session, replacing any previous state under
	// the same ID. A missing ID is populated by the store.
	SaveSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves a session by ID, including the receipt, its
	// items and assignments, and the roster in its original order.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// ListSessions returns summaries of all saved sessions, most
	// recently updated first.
	ListSessions(ctx context.Context) ([]models.SessionSummary, error)

	// DeleteSession removes a session and everything attached to it.
	DeleteSession(ctx context.Context, sessionID string) error

	// Close releases any resources held by the store.
	Close() error
}
