package models

import "time"

// Onboarding states for User. A user created with a server-assigned
// password stays in OnboardingMustChangePassword until they set their own.
const (
	OnboardingActive             = "active"
	OnboardingMustChangePassword = "must_change_password"
)

// InteractionTypes is the closed set of accepted interaction_type values.
var InteractionTypes = []string{"Discussion", "Disagreement", "Debate", "Confrontation"}

// ValidInteractionType reports whether t is one of the enumerated types.
func ValidInteractionType(t string) bool {
	for _, v := range InteractionTypes {
		if v == t {
			return true
		}
	}
	return false
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"not null;default:client;size:20" json:"role"`
	Onboarding   string `gorm:"not null;default:active;size:30" json:"-"`
	// Single outstanding reset token; a newer request overwrites it.
	ResetToken          *string    `gorm:"index;size:64" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type Interaction struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	Date            string    `gorm:"not null;size:10" json:"date"`
	Time            string    `gorm:"not null;size:5" json:"time"`
	Person          string    `gorm:"not null;size:100" json:"person"`
	InteractionType string    `gorm:"not null;size:20" json:"interaction_type"`
	Context         string    `gorm:"size:500;not null;default:''" json:"context"`
	Response        string    `gorm:"size:500;not null;default:''" json:"response"`
	Reflection      string    `gorm:"size:500;not null;default:''" json:"reflection"`
	CreatedAt       time.Time `json:"created_at"`
}

// Session is a server-side login session referenced by an opaque cookie.
// ExpiresAt slides forward on every authenticated request.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ShareLink is a revocable read-only grant on one user's interactions.
// The therapist-facing token is a signed JWT whose jti is this row's ID.
type ShareLink struct {
	ID        string     `gorm:"primaryKey;size:64" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Label     string     `gorm:"size:100;not null;default:''" json:"label"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	Action    string    `gorm:"not null;size:50" json:"action"`
	Metadata  JSONB     `gorm:"type:jsonb" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}
