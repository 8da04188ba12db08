package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow records that FollowerID follows FollowingID.
type Follow struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FollowerID  uuid.UUID `json:"followerId" gorm:"type:char(36);not null;uniqueIndex:idx_follow_pair"`
	FollowingID uuid.UUID `json:"followingId" gorm:"type:char(36);not null;uniqueIndex:idx_follow_pair;index"`
	CreatedAt   time.Time `json:"createdAt"`

	Follower  *UserSummary `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Following *UserSummary `json:"-" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Models lists every persisted model in dependency order for migrations.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Comment{},
		&Like{},
		&Follow{},
	}
}
