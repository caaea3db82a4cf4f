package vote

import (
	"context"
	"errors"
	"time"

	"competition-jury-system/internal/global/response"
	"competition-jury-system/internal/model"
)

// Service 投票写入后按投票记录全量重算 public_vote_count
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

func (s *Service) recount(ctx context.Context, tx Store, registrationID uint) (int64, error) {
	count, err := tx.CountVotes(ctx, registrationID)
	if err != nil {
		return 0, err
	}
	return count, tx.SavePublicCount(ctx, registrationID, count, s.now())
}

// Cast 每位用户对每件作品只能投一票
func (s *Service) Cast(ctx context.Context, userID uint, reg *model.Registration) (int64, error) {
	var count int64
	err := s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.AddVote(ctx, userID, reg.ID); err != nil {
			return err
		}
		var err error
		count, err = s.recount(ctx, tx, reg.ID)
		return err
	})
	switch {
	case errors.Is(err, errDuplicateVote):
		return 0, response.ErrAlreadyExists.WithTips("已经投过票")
	case err != nil:
		return 0, response.ErrDatabase.WithOrigin(err)
	}
	s.onChange(ctx, reg.CompetitionID)
	return count, nil
}

func (s *Service) Retract(ctx context.Context, userID uint, reg *model.Registration) (int64, error) {
	var count int64
	errNoVote := errors.New("no vote")
	err := s.store.Transaction(ctx, func(tx Store) error {
		removed, err := tx.RemoveVote(ctx, userID, reg.ID)
		if err != nil {
			return err
		}
		if !removed {
			return errNoVote
		}
		count, err = s.recount(ctx, tx, reg.ID)
		return err
	})
	switch {
	case errors.Is(err, errNoVote):
		return 0, response.ErrNotFound.WithTips("尚未投票")
	case err != nil:
		return 0, response.ErrDatabase.WithOrigin(err)
	}
	s.onChange(ctx, reg.CompetitionID)
	return count, nil
}

// Status 返回作品公众票数以及当前用户是否已投
func (s *Service) Status(ctx context.Context, userID uint, reg *model.Registration) (int64, bool, error) {
	count, err := s.store.PublicCount(ctx, reg.ID)
	if err != nil {
		return 0, false, response.ErrDatabase.WithOrigin(err)
	}
	voted, err := s.store.HasVoted(ctx, userID, reg.ID)
	if err != nil {
		return 0, false, response.ErrDatabase.WithOrigin(err)
	}
	return count, voted, nil
}
