package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SequenceDocumentID is the _id of the singleton counter record.
const SequenceDocumentID = "user_sequences"

// Counters holds the last issued sequence number per role.
type Counters struct {
	FreelancerCount int64 `json:"freelancerCount" bson:"freelancer_count"`
	ClientCount     int64 `json:"clientCount" bson:"client_count"`
}

// Get returns the counter for role.
func (c Counters) Get(role Role) int64 {
	if role == RoleClient {
		return c.ClientCount
	}
	return c.FreelancerCount
}

// Set overwrites the counter for role.
func (c *Counters) Set(role Role, v int64) {
	if role == RoleClient {
		c.ClientCount = v
		return
	}
	c.FreelancerCount = v
}

// FormatIdentifier renders the public identifier for the n-th issuance of
// role, e.g. F-001. Numbers past 999 keep all their digits.
func FormatIdentifier(role Role, n int64) string {
	return fmt.Sprintf("%s-%03d", role.Prefix(), n)
}

// FirstIdentifier is the identifier checked by the self-healing check.
func FirstIdentifier(role Role) string {
	return FormatIdentifier(role, 1)
}

// ParseIdentifier splits an identifier such as "C-012" into its role and
// sequence number.
func ParseIdentifier(id string) (Role, int64, error) {
	prefix, num, ok := strings.Cut(id, "-")
	if !ok || len(num) < 3 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	var role Role
	for _, r := range allRoles {
		if r.Prefix() == prefix {
			role = r
		}
	}
	if role == "" {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil || n <= 0 || FormatIdentifier(role, n) != id {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return role, n, nil
}
