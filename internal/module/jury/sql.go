package jury

import (
	"context"
	"time"

	"competition-jury-system/internal/global/database"
	"competition-jury-system/internal/model"

	"gorm.io/gorm"
)

type scoreView struct {
	model.JuryScore
	RegistrationNumber string `json:"registration_number"`
	Title              string `json:"title"`
	Category           string `json:"category"`
}

func scoreViewQuery(ctx context.Context, memberID uint) *gorm.DB {
	return database.DB.WithContext(ctx).
		Table("jury_score").
		Select("jury_score.*, registration.registration_number, registration.title, registration.category").
		Joins("JOIN registration ON registration.id = jury_score.registration_id").
		Where("jury_score.jury_member_id = ?", memberID)
}

func selectOwnScore(ctx context.Context, memberID uint, registrationNumber string) (*scoreView, bool, error) {
	var rows []scoreView
	err := scoreViewQuery(ctx, memberID).
		Where("registration.registration_number = ?", registrationNumber).
		Limit(1).
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, false, err
	}
	return &rows[0], true, nil
}

func selectOwnScores(ctx context.Context, memberID uint, offset, limit int) ([]scoreView, int64, error) {
	var total int64
	if err := database.DB.WithContext(ctx).Model(&model.JuryScore{}).
		Where("jury_member_id = ?", memberID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]scoreView, 0)
	err := scoreViewQuery(ctx, memberID).
		Order("jury_score.submitted_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	return rows, total, err
}

// assignedSubmission 评委可评审的作品，未评分时 total_score 为空
type assignedSubmission struct {
	RegistrationID     uint       `json:"registration_id"`
	RegistrationNumber string     `json:"registration_number"`
	CompetitionID      uint       `json:"competition_id"`
	Title              string     `json:"title"`
	Category           string     `json:"category"`
	Thumbnail          string     `json:"thumbnail"`
	TotalScore         *float64   `json:"total_score"`
	SubmittedAt        *time.Time `json:"submitted_at"`
}

func selectAssigned(ctx context.Context, member *model.JuryMember, scored *bool, offset, limit int) ([]assignedSubmission, int64, error) {
	db := database.DB.WithContext(ctx).
		Table("registration").
		Joins("LEFT JOIN jury_score ON jury_score.registration_id = registration.id AND jury_score.jury_member_id = ?", member.ID).
		Where("registration.published = ? AND registration.deleted_at IS NULL", true)
	if member.CompetitionID != nil {
		db = db.Where("registration.competition_id = ?", *member.CompetitionID)
	}
	if scored != nil {
		if *scored {
			db = db.Where("jury_score.id IS NOT NULL")
		} else {
			db = db.Where("jury_score.id IS NULL")
		}
	}

	db = db.Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]assignedSubmission, 0)
	err := db.Select(`
			registration.id AS registration_id,
			registration.registration_number,
			registration.competition_id,
			registration.title,
			registration.category,
			registration.thumbnail,
			jury_score.total_score,
			jury_score.submitted_at
		`).
		Order("registration.created_at ASC, registration.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	return rows, total, err
}

type progressView struct {
	model.JuryScoringProgress
	Title         string `json:"title"`
	Active        bool   `json:"active"`
	CompetitionID *uint  `json:"competition_id"`
	UserID        uint   `json:"user_id"`
	NickName      string `json:"nick_name"`
}

func selectProgress(ctx context.Context, competitionID *uint) ([]progressView, error) {
	db := database.DB.WithContext(ctx).
		Table("jury_scoring_progress p").
		Select("p.*, m.title, m.active, m.competition_id, m.user_id, u.nick_name").
		Joins("JOIN jury_member m ON m.id = p.jury_member_id AND m.deleted_at IS NULL").
		Joins("LEFT JOIN user u ON u.id = m.user_id")
	if competitionID != nil {
		db = db.Where("m.competition_id IS NULL OR m.competition_id = ?", *competitionID)
	}
	rows := make([]progressView, 0)
	err := db.Order("p.completion_percentage DESC, p.jury_member_id ASC").Scan(&rows).Error
	return rows, err
}

type statsView struct {
	RegistrationID     uint     `json:"registration_id"`
	RegistrationNumber string   `json:"registration_number"`
	Title              string   `json:"title"`
	Category           string   `json:"category"`
	Published          bool     `json:"published"`
	JuryVoteCount      int64    `json:"jury_vote_count"`
	JuryScoreTotal     float64  `json:"jury_score_total"`
	JuryScoreAverage   *float64 `json:"jury_score_average"`
	PublicVoteCount    int64    `json:"public_vote_count"`
}

func selectStats(ctx context.Context, competitionID uint, offset, limit int) ([]statsView, int64, error) {
	db := database.DB.WithContext(ctx).
		Table("registration").
		Joins("LEFT JOIN submission_voting_stats s ON s.registration_id = registration.id").
		Where("registration.competition_id = ? AND registration.deleted_at IS NULL", competitionID).
		Session(&gorm.Session{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]statsView, 0)
	err := db.Select(`
			registration.id AS registration_id,
			registration.registration_number,
			registration.title,
			registration.category,
			registration.published,
			COALESCE(s.jury_vote_count, 0) AS jury_vote_count,
			COALESCE(s.jury_score_total, 0) AS jury_score_total,
			s.jury_score_average,
			COALESCE(s.public_vote_count, 0) AS public_vote_count
		`).
		Order("s.jury_score_average IS NULL, s.jury_score_average DESC, registration.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	return rows, total, err
}

type scoreExportRow struct {
	RegistrationNumber           string    `excel:"报名编号"`
	Title                        string    `excel:"作品名称"`
	Category                     string    `excel:"类别"`
	JuryTitle                    string    `excel:"评委"`
	NickName                     string    `excel:"评委昵称"`
	ConceptScore                 float64   `excel:"Concept"`
	RelevanceScore               float64   `excel:"Relevance"`
	CompositionScore             float64   `excel:"Composition"`
	BalanceScore                 float64   `excel:"Balance"`
	ColourScore                  float64   `excel:"Colour"`
	DesignRelativityScore        float64   `excel:"Design Relativity"`
	AestheticAppealScore         float64   `excel:"Aesthetic Appeal"`
	UnconventionalMaterialsScore float64   `excel:"Unconventional Materials"`
	OverallMaterialScore         float64   `excel:"Overall Material"`
	TotalScore                   float64   `excel:"总分"`
	Comments                     string    `excel:"评语"`
	SubmittedAt                  time.Time `excel:"提交时间"`
}

func selectExportRows(ctx context.Context, competitionID uint) ([]scoreExportRow, error) {
	rows := make([]scoreExportRow, 0)
	err := database.DB.WithContext(ctx).
		Table("jury_score").
		Select(`
			registration.registration_number,
			registration.title,
			registration.category,
			m.title AS jury_title,
			u.nick_name,
			jury_score.concept_score,
			jury_score.relevance_score,
			jury_score.composition_score,
			jury_score.balance_score,
			jury_score.colour_score,
			jury_score.design_relativity_score,
			jury_score.aesthetic_appeal_score,
			jury_score.unconventional_materials_score,
			jury_score.overall_material_score,
			jury_score.total_score,
			jury_score.comments,
			jury_score.submitted_at
		`).
		Joins("JOIN registration ON registration.id = jury_score.registration_id").
		Joins("JOIN jury_member m ON m.id = jury_score.jury_member_id").
		Joins("LEFT JOIN user u ON u.id = m.user_id").
		Where("registration.competition_id = ?", competitionID).
		Order("registration.registration_number ASC, jury_score.submitted_at ASC").
		Scan(&rows).Error
	return rows, err
}
