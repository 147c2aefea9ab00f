package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the single live refresh token of a user.
//
// The unique index on UserID keeps at most one row per user: every login
// overwrites Token and Expiry instead of inserting a new row. Rows are never
// revoked, they simply stop being accepted once Expiry passes or a newer
// login replaces Token.
type RefreshToken struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	UserID uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	User   *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Token  string    `json:"-" gorm:"size:1024;index;not null"`
	Expiry time.Time `json:"expiry" gorm:"index;not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (RefreshToken) TableName() string { return "tokens" }
