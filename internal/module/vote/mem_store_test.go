package vote

import (
	"context"
	"time"
)

type voteKey struct {
	user         uint
	registration uint
}

// memStore 基于 map 的 Store，事务出错时整体回滚
type memStore struct {
	votes  map[voteKey]bool
	counts map[uint]int64

	failSave error
}

func newMemStore() *memStore {
	return &memStore{votes: map[voteKey]bool{}, counts: map[uint]int64{}}
}

func (m *memStore) rows(registrationID uint) int64 {
	var n int64
	for k := range m.votes {
		if k.registration == registrationID {
			n++
		}
	}
	return n
}

func (m *memStore) Transaction(_ context.Context, fn func(tx Store) error) error {
	votes := make(map[voteKey]bool, len(m.votes))
	for k, v := range m.votes {
		votes[k] = v
	}
	counts := make(map[uint]int64, len(m.counts))
	for k, v := range m.counts {
		counts[k] = v
	}
	if err := fn(m); err != nil {
		m.votes, m.counts = votes, counts
		return err
	}
	return nil
}

func (m *memStore) AddVote(_ context.Context, userID, registrationID uint) error {
	k := voteKey{userID, registrationID}
	if m.votes[k] {
		return errDuplicateVote
	}
	m.votes[k] = true
	return nil
}

func (m *memStore) RemoveVote(_ context.Context, userID, registrationID uint) (bool, error) {
	k := voteKey{userID, registrationID}
	if !m.votes[k] {
		return false, nil
	}
	delete(m.votes, k)
	return true, nil
}

func (m *memStore) HasVoted(_ context.Context, userID, registrationID uint) (bool, error) {
	return m.votes[voteKey{userID, registrationID}], nil
}

func (m *memStore) CountVotes(_ context.Context, registrationID uint) (int64, error) {
	return m.rows(registrationID), nil
}

func (m *memStore) PublicCount(_ context.Context, registrationID uint) (int64, error) {
	return m.counts[registrationID], nil
}

func (m *memStore) SavePublicCount(_ context.Context, registrationID uint, count int64, _ time.Time) error {
	if m.failSave != nil {
		return m.failSave
	}
	m.counts[registrationID] = count
	return nil
}
