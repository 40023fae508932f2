package domain

import "time"

// Account roles carried in access tokens.
const (
	AccountRoleAdmin  = "admin"
	AccountRoleMember = "member"
)

// Account models an authenticated login. Its ID doubles as the user record key.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile holds the free-form public fields copied into directory entries.
type Profile struct {
	Name       string   `json:"name" bson:"name"`
	Email      string   `json:"email" bson:"email"`
	Title      string   `json:"title,omitempty" bson:"title,omitempty"`
	Bio        string   `json:"bio,omitempty" bson:"bio,omitempty"`
	Skills     []string `json:"skills,omitempty" bson:"skills,omitempty"`
	HourlyRate int64    `json:"hourlyRate,omitempty" bson:"hourly_rate,omitempty"`
	Company    string   `json:"company,omitempty" bson:"company,omitempty"`
	Location   string   `json:"location,omitempty" bson:"location,omitempty"`
	PhotoURL   string   `json:"photoUrl,omitempty" bson:"photo_url,omitempty"`
}

// Merge overwrites fields of p with the non-empty fields of other.
func (p Profile) Merge(other Profile) Profile {
	if other.Name != "" {
		p.Name = other.Name
	}
	if other.Email != "" {
		p.Email = other.Email
	}
	if other.Title != "" {
		p.Title = other.Title
	}
	if other.Bio != "" {
		p.Bio = other.Bio
	}
	if len(other.Skills) > 0 {
		p.Skills = append([]string(nil), other.Skills...)
	}
	if other.HourlyRate > 0 {
		p.HourlyRate = other.HourlyRate
	}
	if other.Company != "" {
		p.Company = other.Company
	}
	if other.Location != "" {
		p.Location = other.Location
	}
	if other.PhotoURL != "" {
		p.PhotoURL = other.PhotoURL
	}
	return p
}

// User is the authoritative marketplace record for one account.
//
// Roles only grow, Onboarded only flips false→true, and each role identifier
// is written at most once. Ledger is present iff the freelancer role is held.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Roles        RoleSet   `json:"roles" bson:"roles"`
	Onboarded    bool      `json:"onboarded" bson:"onboarded"`
	FreelancerID string    `json:"freelancerId,omitempty" bson:"freelancer_id,omitempty"`
	ClientID     string    `json:"clientId,omitempty" bson:"client_id,omitempty"`
	Ledger       *Ledger   `json:"ledger,omitempty" bson:"ledger,omitempty"`
	Profile      Profile   `json:"profile" bson:"profile"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// NewUser returns the record created at sign-up: no roles, not onboarded.
func NewUser(id string, profile Profile, now time.Time) *User {
	return &User{
		ID:        id,
		Roles:     RoleSet{},
		Profile:   profile,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Identifier returns the public identifier issued for role, if any.
func (u *User) Identifier(role Role) string {
	if role == RoleClient {
		return u.ClientID
	}
	return u.FreelancerID
}

// SetIdentifier records the identifier issued for role.
func (u *User) SetIdentifier(role Role, id string) {
	if role == RoleClient {
		u.ClientID = id
		return
	}
	u.FreelancerID = id
}

// Clone returns a deep copy of the record.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append(RoleSet{}, u.Roles...)
	c.Ledger = u.Ledger.Clone()
	c.Profile.Skills = append([]string(nil), u.Profile.Skills...)
	return &c
}
