package model

import "time"

// SubmissionVotingStats 作品评分/投票汇总缓存
// jury_* 由评委评分重算，public_vote_count 由公众投票重算，两边互不覆盖
type SubmissionVotingStats struct {
	RegistrationID   uint      `gorm:"primaryKey;autoIncrement:false" json:"registration_id"`
	JuryVoteCount    int64     `gorm:"not null;default:0" json:"jury_vote_count"`
	JuryScoreTotal   float64   `gorm:"type:double;not null;default:0" json:"jury_score_total"`
	JuryScoreAverage *float64  `gorm:"type:double" json:"jury_score_average"`
	PublicVoteCount  int64     `gorm:"not null;default:0;index" json:"public_vote_count"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PublicVote 公众投票，每人每件作品一票
type PublicVote struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_user_registration" json:"user_id"`
	RegistrationID uint      `gorm:"not null;uniqueIndex:idx_user_registration;index" json:"registration_id"`
	CreatedAt      time.Time `json:"created_at"`
}
