// Package domain contains core concepts of the notification system.
// This file defines User identities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

// User represents a connected identity.
// The ID is opaque and unique; display names may collide.
// Users are minted on registration, held in memory only, never persisted.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
