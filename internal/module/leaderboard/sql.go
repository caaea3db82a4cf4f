package leaderboard

import (
	"context"

	"competition-jury-system/internal/global/database"
	"competition-jury-system/internal/model"
)

func selectCandidates(ctx context.Context, competitionID uint, category string) ([]candidate, error) {
	var cands []candidate
	db := database.DB.WithContext(ctx).
		Model(&model.Registration{}).
		Select(`
			registration.id AS registration_id,
			registration.registration_number,
			registration.title,
			registration.category,
			registration.thumbnail,
			registration.created_at,
			COALESCE(s.public_vote_count, 0) AS public_vote_count,
			COALESCE(s.jury_vote_count, 0) AS jury_vote_count,
			s.jury_score_average
		`).
		Joins("LEFT JOIN submission_voting_stats s ON s.registration_id = registration.id").
		Where("registration.competition_id = ? AND registration.published = ?", competitionID, true)
	if category != "" {
		db = db.Where("registration.category = ?", category)
	}
	if err := db.Order("registration.created_at ASC, registration.id ASC").Scan(&cands).Error; err != nil {
		log.Error("数据库 查询排行榜失败", "error", err, "competition_id", competitionID)
		return nil, err
	}
	return cands, nil
}

func competitionExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&model.Competition{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
