package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is either a top-level comment on a post (ParentID nil) or a reply
// to another comment. ParentID carries no foreign key: deleting a parent
// leaves its replies pointing at a missing row.
type Comment struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	AuthorID  uuid.UUID  `json:"authorId" gorm:"type:char(36);not null;index"`
	PostID    uuid.UUID  `json:"postId" gorm:"type:char(36);not null;index"`
	ParentID  *uuid.UUID `json:"parentId" gorm:"type:char(36);index"`
	CreatedAt time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time  `json:"updatedAt"`

	// Relations
	Author *UserSummary `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// IsOwnedBy reports whether userID authored the comment.
func (c *Comment) IsOwnedBy(userID uuid.UUID) bool {
	return c.AuthorID == userID
}
