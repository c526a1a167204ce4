package auth

import "cabinbooking/internal/domain"

// SnapshotSource exposes the last synced booking set.
type SnapshotSource interface {
	Snapshot() domain.Snapshot
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateToken(userID, role, name string) (string, error)
}
