package domain

import "time"

// User represents a registered fan-site account and its coin balance
type User struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Balance     int64      `json:"balance"`
	BannedUntil *time.Time `json:"banned_until,omitempty"`
	BanReason   string     `json:"ban_reason,omitempty"`
	IsAdmin     bool       `json:"is_admin"`
	Verified    bool       `json:"verified"`
	Badge       string     `json:"badge,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsBanned reports whether the user is banned at the given instant
func (u *User) IsBanned(now time.Time) bool {
	return u.BannedUntil != nil && u.BannedUntil.After(now)
}

// PublicProfile is the subset of a user that other visitors may see
type PublicProfile struct {
	Username  string    `json:"username"`
	Balance   int64     `json:"balance"`
	Banned    bool      `json:"banned"`
	Verified  bool      `json:"verified"`
	Badge     string    `json:"badge,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile returns the public view of the user
func (u *User) Profile(now time.Time) PublicProfile {
	return PublicProfile{
		Username:  u.Username,
		Balance:   u.Balance,
		Banned:    u.IsBanned(now),
		Verified:  u.Verified,
		Badge:     u.Badge,
		CreatedAt: u.CreatedAt,
	}
}

// RegisterUserRequest is the body of a registration call
type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20,excludesall=!@#$%^&*()<>/\\ "`
}

// AwardPointsRequest is the body of a ledger credit call
type AwardPointsRequest struct {
	Amount int64 `json:"amount" validate:"required,ne=0"`
}

// BanUserRequest is the body of an admin ban call
type BanUserRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Hours  int    `json:"hours" validate:"required,min=1,max=8760"`
	Reason string `json:"reason" validate:"max=200"`
}

// UnbanUserRequest is the body of an admin unban call
type UnbanUserRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// VerifyUserRequest is the body of an admin verification call. The badge
// is dropped when verified is false.
type VerifyUserRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	Verified bool   `json:"verified"`
	Badge    string `json:"badge" validate:"max=32"`
}

// SetRoleRequest is the body of an admin role change
type SetRoleRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,oneof=admin user"`
}

// Account roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UserPage is one page of the admin user listing
type UserPage struct {
	Users  []User `json:"users"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// BalanceResult is returned after a ledger credit
type BalanceResult struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"points"`
}
