package tenantapi

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Team roles as reported on the wire.
const (
	RoleOwner   = "owner"
	RoleNormal  = "normal"
	RoleInvite  = "invite"
	RolePending = "pending"
)

// Application decisions accepted by HandleApplication.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// Timestamp keeps an upstream date as display text whether it arrives as a
// JSON string or a number.
type Timestamp string

// UnmarshalJSON accepts string, number and null values.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = ""
		return nil
	}
	if trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*t = Timestamp(strings.TrimSpace(value))
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return err
	}
	*t = Timestamp(number.String())
	return nil
}

// String returns the display text.
func (t Timestamp) String() string {
	return string(t)
}

// Team is one joinable team from the all-teams listing.
type Team struct {
	TenantID   string    `json:"tenant_id"`
	Name       string    `json:"name"`
	OwnerName  string    `json:"owner_name"`
	OwnerEmail string    `json:"owner_email"`
	CreateDate Timestamp `json:"create_date"`
	UpdateDate Timestamp `json:"update_date"`
	HasApplied bool      `json:"has_applied"`
}

// Member is one user row in a team's member listing.
type Member struct {
	UserID     string    `json:"user_id"`
	Nickname   string    `json:"nickname"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	JoinDate   Timestamp `json:"join_date"`
	UpdateDate Timestamp `json:"update_date"`
}

// Tenancy is the viewer's membership of one team.
type Tenancy struct {
	TenantID   string `json:"tenant_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`
}

// CreatedTeam is the payload returned by CreateTeam.
type CreatedTeam struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
}

// User is the signed-in user profile.
type User struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

// Session is a successful sign-in.
type Session struct {
	Token string
	User  User
}
