package domain

import "time"

// DirectoryEntry is the public, denormalized projection of a user keyed by a
// role identifier. OwnerID is a back-reference to the authoritative record.
type DirectoryEntry struct {
	Identifier string    `json:"identifier" bson:"_id"`
	Role       Role      `json:"role" bson:"role"`
	OwnerID    string    `json:"ownerId" bson:"owner_id"`
	Profile    Profile   `json:"profile" bson:"profile"`
	Ledger     *Ledger   `json:"ledger,omitempty" bson:"ledger,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updated_at"`
}
