package storage

import "context"

// UserStore defines the interface for the compliance state the module keeps
// per user. Only the application status is read here; compliance decisioning
// itself is external.
type UserStore interface {
	// GetApplicationStatus retrieves a user's compliance application status.
	GetApplicationStatus(ctx context.Context, userID string) (string, error)

	// SetApplicationStatus records a user's compliance application status,
	// typically from a webhook delivery. Repeated writes of the same status
	// are harmless.
	SetApplicationStatus(ctx context.Context, userID, status string) error
}
