package models

import "time"

const (
	AdminRoleFull     = "FULL"
	AdminRoleViewOnly = "VIEW_ONLY"
	AdminRoleLimited  = "LIMITED"
)

// Admin is a node in the invite tree. InvitedByID is set once at creation
// and never re-pointed, so the parent chain stays acyclic.
type Admin struct {
	BaseModel

	Email        string `json:"email" gorm:"uniqueIndex"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`

	TotpEnabled bool   `json:"totp_enabled"`
	TotpSecret  string `json:"-"`

	InvitedByID *uint  `json:"invited_by_id"`
	InvitedBy   *Admin `json:"-" gorm:"foreignKey:InvitedByID"`

	InviteToken     *string    `json:"-" gorm:"uniqueIndex"`
	InviteExpiresAt *time.Time `json:"-"`
	ResetToken      *string    `json:"-"`
	ResetExpiresAt  *time.Time `json:"-"`
}

// Pending reports whether the admin was invited but has not set a password yet.
func (a Admin) Pending() bool {
	return a.PasswordHash == ""
}
