package models

import "time"

type PendingKind string

const (
	PendingKindLoginFailure      PendingKind = "LOGIN_FAILURE"
	PendingKindInvalidIdentifier PendingKind = "INVALID_ID_LUHN"
	PendingKindInvalidCert       PendingKind = "INVALID_CERT"
)

type PendingStatus string

const (
	PendingStatusPending  PendingStatus = "PENDING"
	PendingStatusApproved PendingStatus = "APPROVED"
	PendingStatusRejected PendingStatus = "REJECTED"
)

// PendingItem is one exception record awaiting a reviewer decision.
type PendingItem struct {
	ID        string        `json:"id"`
	Kind      PendingKind   `json:"kind"`
	Detail    string        `json:"detail"`
	CreatedAt time.Time     `json:"createdAt"`
	Status    PendingStatus `json:"status"`
}
