package vote

import (
	"context"
	"errors"
	"time"

	"competition-jury-system/internal/global/database"
	"competition-jury-system/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errDuplicateVote = errors.New("duplicate vote")

// Store 公众投票的持久化接口
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// AddVote 重复投票返回 errDuplicateVote
	AddVote(ctx context.Context, userID, registrationID uint) error
	// RemoveVote 没有可删除的投票时返回 false
	RemoveVote(ctx context.Context, userID, registrationID uint) (bool, error)
	HasVoted(ctx context.Context, userID, registrationID uint) (bool, error)
	CountVotes(ctx context.Context, registrationID uint) (int64, error)

	PublicCount(ctx context.Context, registrationID uint) (int64, error)
	// SavePublicCount 只写 public_vote_count，不覆盖评委汇总列
	SavePublicCount(ctx context.Context, registrationID uint, count int64, now time.Time) error
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) AddVote(ctx context.Context, userID, registrationID uint) error {
	err := s.db.WithContext(ctx).Create(&model.PublicVote{UserID: userID, RegistrationID: registrationID}).Error
	if database.IsDuplicateKey(err) {
		return errDuplicateVote
	}
	return err
}

func (s *gormStore) RemoveVote(ctx context.Context, userID, registrationID uint) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND registration_id = ?", userID, registrationID).
		Delete(&model.PublicVote{})
	return result.RowsAffected > 0, result.Error
}

func (s *gormStore) HasVoted(ctx context.Context, userID, registrationID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.PublicVote{}).
		Where("user_id = ? AND registration_id = ?", userID, registrationID).
		Count(&n).Error
	return n > 0, err
}

func (s *gormStore) CountVotes(ctx context.Context, registrationID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.PublicVote{}).
		Where("registration_id = ?", registrationID).
		Count(&n).Error
	return n, err
}

func (s *gormStore) PublicCount(ctx context.Context, registrationID uint) (int64, error) {
	var stats model.SubmissionVotingStats
	err := s.db.WithContext(ctx).Where("registration_id = ?", registrationID).Limit(1).Find(&stats).Error
	return stats.PublicVoteCount, err
}

func (s *gormStore) SavePublicCount(ctx context.Context, registrationID uint, count int64, now time.Time) error {
	stats := model.SubmissionVotingStats{
		RegistrationID:  registrationID,
		PublicVoteCount: count,
		UpdatedAt:       now,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "registration_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"public_vote_count", "updated_at"}),
	}).Create(&stats).Error
}
