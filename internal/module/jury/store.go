package jury

import (
	"context"

	"competition-jury-system/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 评审数据的持久化接口，查询不到时返回 gorm.ErrRecordNotFound
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	FindMember(ctx context.Context, id uint) (*model.JuryMember, error)
	FindMemberByUser(ctx context.Context, userID uint) (*model.JuryMember, error)
	ListMembers(ctx context.Context) ([]model.JuryMember, error)
	// ListMembersInScope 评审范围包含该比赛的评委（含不限比赛的评委）
	ListMembersInScope(ctx context.Context, competitionID uint) ([]model.JuryMember, error)
	DeleteMember(ctx context.Context, id uint) error

	FindPublishedRegistration(ctx context.Context, registrationNumber string) (*model.Registration, error)
	// CountPublished competitionID 为 nil 时统计全部比赛
	CountPublished(ctx context.Context, competitionID *uint) (int64, error)
	CompetitionIDs(ctx context.Context, registrationIDs []uint) ([]uint, error)

	UpsertScore(ctx context.Context, score *model.JuryScore) error
	FindScore(ctx context.Context, memberID, registrationID uint) (*model.JuryScore, error)
	ScoresByMember(ctx context.Context, memberID uint) ([]model.JuryScore, error)
	ScoresByRegistration(ctx context.Context, registrationID uint) ([]model.JuryScore, error)
	// StatsRegistrationIDs 有评分或已有汇总行的作品
	StatsRegistrationIDs(ctx context.Context) ([]uint, error)

	SaveProgress(ctx context.Context, p *model.JuryScoringProgress) error
	SaveJuryStats(ctx context.Context, s *model.SubmissionVotingStats) error
}

var scoreUpdateColumns = []string{
	"concept_score",
	"relevance_score",
	"composition_score",
	"balance_score",
	"colour_score",
	"design_relativity_score",
	"aesthetic_appeal_score",
	"unconventional_materials_score",
	"overall_material_score",
	"comments",
	"total_score",
	"submitted_at",
	"updated_at",
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

func (s *gormStore) FindMember(ctx context.Context, id uint) (*model.JuryMember, error) {
	var m model.JuryMember
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) FindMemberByUser(ctx context.Context, userID uint) (*model.JuryMember, error) {
	var m model.JuryMember
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) ListMembers(ctx context.Context) ([]model.JuryMember, error) {
	var members []model.JuryMember
	err := s.db.WithContext(ctx).Order("id ASC").Find(&members).Error
	return members, err
}

func (s *gormStore) ListMembersInScope(ctx context.Context, competitionID uint) ([]model.JuryMember, error) {
	var members []model.JuryMember
	err := s.db.WithContext(ctx).
		Where("competition_id IS NULL OR competition_id = ?", competitionID).
		Order("id ASC").
		Find(&members).Error
	return members, err
}

// DeleteMember 硬删除评委及其评分、进度
func (s *gormStore) DeleteMember(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("jury_member_id = ?", id).Delete(&model.JuryScore{}).Error; err != nil {
		return err
	}
	if err := db.Where("jury_member_id = ?", id).Delete(&model.JuryScoringProgress{}).Error; err != nil {
		return err
	}
	return db.Unscoped().Delete(&model.JuryMember{}, id).Error
}

func (s *gormStore) FindPublishedRegistration(ctx context.Context, registrationNumber string) (*model.Registration, error) {
	var r model.Registration
	err := s.db.WithContext(ctx).
		Where("registration_number = ? AND published = ?", registrationNumber, true).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *gormStore) CountPublished(ctx context.Context, competitionID *uint) (int64, error) {
	var count int64
	db := s.db.WithContext(ctx).Model(&model.Registration{}).Where("published = ?", true)
	if competitionID != nil {
		db = db.Where("competition_id = ?", *competitionID)
	}
	err := db.Count(&count).Error
	return count, err
}

func (s *gormStore) CompetitionIDs(ctx context.Context, registrationIDs []uint) ([]uint, error) {
	var ids []uint
	if len(registrationIDs) == 0 {
		return ids, nil
	}
	err := s.db.WithContext(ctx).
		Model(&model.Registration{}).
		Unscoped().
		Where("id IN ?", registrationIDs).
		Distinct().
		Pluck("competition_id", &ids).Error
	return ids, err
}

// UpsertScore 以 (jury_member_id, registration_id) 唯一索引覆盖写入
func (s *gormStore) UpsertScore(ctx context.Context, score *model.JuryScore) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "jury_member_id"}, {Name: "registration_id"}},
		DoUpdates: clause.AssignmentColumns(scoreUpdateColumns),
	}).Create(score).Error
}

func (s *gormStore) FindScore(ctx context.Context, memberID, registrationID uint) (*model.JuryScore, error) {
	var score model.JuryScore
	err := s.db.WithContext(ctx).
		Where("jury_member_id = ? AND registration_id = ?", memberID, registrationID).
		First(&score).Error
	if err != nil {
		return nil, err
	}
	return &score, nil
}

func (s *gormStore) ScoresByMember(ctx context.Context, memberID uint) ([]model.JuryScore, error) {
	var scores []model.JuryScore
	err := s.db.WithContext(ctx).Where("jury_member_id = ?", memberID).Find(&scores).Error
	return scores, err
}

func (s *gormStore) ScoresByRegistration(ctx context.Context, registrationID uint) ([]model.JuryScore, error) {
	var scores []model.JuryScore
	err := s.db.WithContext(ctx).Where("registration_id = ?", registrationID).Find(&scores).Error
	return scores, err
}

func (s *gormStore) StatsRegistrationIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Raw(
		"SELECT registration_id FROM jury_score UNION SELECT registration_id FROM submission_voting_stats",
	).Scan(&ids).Error
	return ids, err
}

func (s *gormStore) SaveProgress(ctx context.Context, p *model.JuryScoringProgress) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "jury_member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_assigned", "submitted_scores", "completion_percentage",
			"average_score_given", "last_scored_at", "updated_at",
		}),
	}).Create(p).Error
}

// SaveJuryStats 只覆盖评委相关列，public_vote_count 由投票模块维护
func (s *gormStore) SaveJuryStats(ctx context.Context, st *model.SubmissionVotingStats) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "registration_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"jury_vote_count", "jury_score_total", "jury_score_average", "updated_at",
		}),
	}).Create(st).Error
}
