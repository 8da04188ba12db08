package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like marks a user's like on a post. The (UserID, PostID) pair is unique.
type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;uniqueIndex:idx_like_user_post"`
	PostID    uuid.UUID `json:"postId" gorm:"type:char(36);not null;uniqueIndex:idx_like_user_post;index"`
	CreatedAt time.Time `json:"createdAt"`

	User *UserSummary `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
