package model

import "time"

// Registration 即参赛作品，对外以报名编号标识，发布后才可被评审和投票
type Registration struct {
	Model
	RegistrationNumber string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"registration_number"`
	CompetitionID      uint       `gorm:"not null;index" json:"competition_id"`
	UserID             uint       `gorm:"not null;index" json:"user_id"`
	Category           string     `gorm:"type:varchar(50);index" json:"category"`
	Title              string     `gorm:"type:varchar(100)" json:"title"`
	Thumbnail          string     `gorm:"type:varchar(255)" json:"thumbnail"` // 对象存储 key 或完整 URL
	Published          bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt        *time.Time `json:"published_at"`

	User partialUser `gorm:"foreignKey:UserID;references:ID" json:"user"`
}
