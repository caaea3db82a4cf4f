package jury

import (
	"context"
	"errors"
	"time"

	"competition-jury-system/internal/global/response"
	"competition-jury-system/internal/model"

	"gorm.io/gorm"
)

// ScoreInput 一次评分提交
type ScoreInput struct {
	RegistrationNumber string
	model.Criteria
	Comments string
}

// Service 评分写入与缓存重算。进度和作品汇总都从 JuryScore 全量重算，可随时重跑
type Service struct {
	store    Store
	now      func() time.Time
	onChange func(ctx context.Context, competitionID uint)
}

func NewService(store Store, onChange func(ctx context.Context, competitionID uint)) *Service {
	if onChange == nil {
		onChange = func(context.Context, uint) {}
	}
	return &Service{store: store, now: time.Now, onChange: onChange}
}

func notFound(err error, tips string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.ErrNotFound.WithTips(tips)
	}
	return response.ErrDatabase.WithOrigin(err)
}

// wrapDB 业务错误原样返回，其余视为数据库错误
func wrapDB(err error) error {
	var e *response.Error
	if err == nil || errors.As(err, &e) {
		return err
	}
	return response.ErrDatabase.WithOrigin(err)
}

// ActiveMember 当前用户对应的有效评委，停用视为不存在
func (s *Service) ActiveMember(ctx context.Context, userID uint) (*model.JuryMember, error) {
	m, err := s.store.FindMemberByUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "当前用户不是评委")
	}
	if !m.Active {
		return nil, response.ErrNotFound.WithTips("评委已停用")
	}
	return m, nil
}

// SubmitScore 校验后覆盖写入评分，并在同一事务内重算评委进度和作品汇总
func (s *Service) SubmitScore(ctx context.Context, memberID uint, in ScoreInput) (*model.JuryScore, error) {
	if err := ValidateCriteria(in.Criteria); err != nil {
		return nil, err
	}

	member, err := s.store.FindMember(ctx, memberID)
	if err != nil {
		return nil, notFound(err, "评委不存在")
	}
	if !member.Active {
		return nil, response.ErrNotFound.WithTips("评委已停用")
	}
	reg, err := s.store.FindPublishedRegistration(ctx, in.RegistrationNumber)
	if err != nil {
		return nil, notFound(err, "作品不存在或未发布")
	}
	if !member.InScope(reg.CompetitionID) {
		return nil, response.ErrNotFound.WithTips("作品不在评审范围内")
	}

	now := s.now()
	score := &model.JuryScore{
		JuryMemberID:   member.ID,
		RegistrationID: reg.ID,
		Criteria:       in.Criteria,
		Comments:       in.Comments,
		TotalScore:     TotalScore(in.Criteria),
		SubmittedAt:    now,
	}

	var saved *model.JuryScore
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.UpsertScore(ctx, score); err != nil {
			return err
		}
		if _, err := s.recomputeProgress(ctx, tx, member); err != nil {
			return err
		}
		if _, err := s.recomputeSubmissionStats(ctx, tx, reg.ID); err != nil {
			return err
		}
		found, err := tx.FindScore(ctx, member.ID, reg.ID)
		saved = found
		return err
	})
	if err != nil {
		return nil, wrapDB(err)
	}

	s.onChange(ctx, reg.CompetitionID)
	return saved, nil
}

// BuildProgress totalAssigned 为 0 时完成率为 0；没有评分时平均分和最后评分时间为 nil
func BuildProgress(memberID uint, totalAssigned int64, scores []model.JuryScore, now time.Time) *model.JuryScoringProgress {
	p := &model.JuryScoringProgress{
		JuryMemberID:    memberID,
		TotalAssigned:   totalAssigned,
		SubmittedScores: int64(len(scores)),
		UpdatedAt:       now,
	}
	if totalAssigned > 0 {
		p.CompletionPercentage = float64(p.SubmittedScores) / float64(totalAssigned) * 100
	}
	if len(scores) == 0 {
		return p
	}

	var sum float64
	last := scores[0].SubmittedAt
	for _, sc := range scores {
		sum += sc.TotalScore
		if sc.SubmittedAt.After(last) {
			last = sc.SubmittedAt
		}
	}
	avg := sum / float64(len(scores))
	p.AverageScoreGiven = &avg
	p.LastScoredAt = &last
	return p
}

// BuildJuryStats 没有评分时平均分为 nil
func BuildJuryStats(registrationID uint, scores []model.JuryScore, now time.Time) *model.SubmissionVotingStats {
	st := &model.SubmissionVotingStats{
		RegistrationID: registrationID,
		JuryVoteCount:  int64(len(scores)),
		UpdatedAt:      now,
	}
	var sum float64
	for _, sc := range scores {
		sum += sc.TotalScore
	}
	st.JuryScoreTotal = sum
	if len(scores) > 0 {
		avg := sum / float64(len(scores))
		st.JuryScoreAverage = &avg
	}
	return st
}

func (s *Service) recomputeProgress(ctx context.Context, store Store, member *model.JuryMember) (*model.JuryScoringProgress, error) {
	total, err := store.CountPublished(ctx, member.CompetitionID)
	if err != nil {
		return nil, err
	}
	scores, err := store.ScoresByMember(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	p := BuildProgress(member.ID, total, scores, s.now())
	if err := store.SaveProgress(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) recomputeSubmissionStats(ctx context.Context, store Store, registrationID uint) (*model.SubmissionVotingStats, error) {
	scores, err := store.ScoresByRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	st := BuildJuryStats(registrationID, scores, s.now())
	if err := store.SaveJuryStats(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// RecomputeProgress 重算单个评委的进度
func (s *Service) RecomputeProgress(ctx context.Context, memberID uint) (*model.JuryScoringProgress, error) {
	member, err := s.store.FindMember(ctx, memberID)
	if err != nil {
		return nil, notFound(err, "评委不存在")
	}
	p, err := s.recomputeProgress(ctx, s.store, member)
	return p, wrapDB(err)
}

// RecomputeCompetition 比赛的已发布作品数变化后，重算相关评委的进度
func (s *Service) RecomputeCompetition(ctx context.Context, competitionID uint) error {
	members, err := s.store.ListMembersInScope(ctx, competitionID)
	if err != nil {
		return wrapDB(err)
	}
	for i := range members {
		if _, err := s.recomputeProgress(ctx, s.store, &members[i]); err != nil {
			return wrapDB(err)
		}
	}
	s.onChange(ctx, competitionID)
	return nil
}

type RecomputeResult struct {
	Members     int `json:"members"`
	Submissions int `json:"submissions"`
}

// RecomputeAll 从评分原始数据重建全部进度和作品汇总
func (s *Service) RecomputeAll(ctx context.Context) (*RecomputeResult, error) {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, wrapDB(err)
	}
	regIDs, err := s.store.StatsRegistrationIDs(ctx)
	if err != nil {
		return nil, wrapDB(err)
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		for i := range members {
			if _, err := s.recomputeProgress(ctx, tx, &members[i]); err != nil {
				return err
			}
		}
		for _, id := range regIDs {
			if _, err := s.recomputeSubmissionStats(ctx, tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapDB(err)
	}

	competitionIDs, err := s.store.CompetitionIDs(ctx, regIDs)
	if err != nil {
		return nil, wrapDB(err)
	}
	for _, id := range competitionIDs {
		s.onChange(ctx, id)
	}
	return &RecomputeResult{Members: len(members), Submissions: len(regIDs)}, nil
}

// DeleteMember 硬删除评委，其评分一并删除并重算受影响作品的汇总
func (s *Service) DeleteMember(ctx context.Context, memberID uint) error {
	if _, err := s.store.FindMember(ctx, memberID); err != nil {
		return notFound(err, "评委不存在")
	}
	scores, err := s.store.ScoresByMember(ctx, memberID)
	if err != nil {
		return wrapDB(err)
	}
	regIDs := make([]uint, 0, len(scores))
	for _, sc := range scores {
		regIDs = append(regIDs, sc.RegistrationID)
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.DeleteMember(ctx, memberID); err != nil {
			return err
		}
		for _, id := range regIDs {
			if _, err := s.recomputeSubmissionStats(ctx, tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrapDB(err)
	}

	competitionIDs, err := s.store.CompetitionIDs(ctx, regIDs)
	if err != nil {
		return wrapDB(err)
	}
	for _, id := range competitionIDs {
		s.onChange(ctx, id)
	}
	return nil
}
