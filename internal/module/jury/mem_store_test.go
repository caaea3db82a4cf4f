package jury

import (
	"context"
	"sort"

	"competition-jury-system/internal/model"

	"gorm.io/gorm"
)

type scoreKey struct {
	member       uint
	registration uint
}

// memStore 基于 map 的 Store，事务出错时整体回滚
type memStore struct {
	members  map[uint]*model.JuryMember
	regs     map[uint]*model.Registration
	scores   map[scoreKey]model.JuryScore
	progress map[uint]model.JuryScoringProgress
	stats    map[uint]model.SubmissionVotingStats

	nextScoreID   uint
	failSaveStats error
}

func newMemStore() *memStore {
	return &memStore{
		members:  map[uint]*model.JuryMember{},
		regs:     map[uint]*model.Registration{},
		scores:   map[scoreKey]model.JuryScore{},
		progress: map[uint]model.JuryScoringProgress{},
		stats:    map[uint]model.SubmissionVotingStats{},
	}
}

func (m *memStore) addMember(id, userID uint, competitionID *uint) *model.JuryMember {
	member := &model.JuryMember{UserID: userID, Active: true, CompetitionID: competitionID}
	member.ID = id
	m.members[id] = member
	return member
}

func (m *memStore) addRegistration(id, competitionID uint, number string, published bool) *model.Registration {
	reg := &model.Registration{RegistrationNumber: number, CompetitionID: competitionID, Published: published}
	reg.ID = id
	m.regs[id] = reg
	return reg
}

func (m *memStore) scoresFor(memberID, registrationID uint) int {
	n := 0
	for k := range m.scores {
		if k.member == memberID && k.registration == registrationID {
			n++
		}
	}
	return n
}

func (m *memStore) Transaction(_ context.Context, fn func(tx Store) error) error {
	scores := make(map[scoreKey]model.JuryScore, len(m.scores))
	for k, v := range m.scores {
		scores[k] = v
	}
	progress := make(map[uint]model.JuryScoringProgress, len(m.progress))
	for k, v := range m.progress {
		progress[k] = v
	}
	stats := make(map[uint]model.SubmissionVotingStats, len(m.stats))
	for k, v := range m.stats {
		stats[k] = v
	}
	members := make(map[uint]*model.JuryMember, len(m.members))
	for k, v := range m.members {
		members[k] = v
	}
	nextID := m.nextScoreID

	if err := fn(m); err != nil {
		m.scores, m.progress, m.stats, m.members, m.nextScoreID = scores, progress, stats, members, nextID
		return err
	}
	return nil
}

func (m *memStore) FindMember(_ context.Context, id uint) (*model.JuryMember, error) {
	member, ok := m.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *member
	return &cp, nil
}

func (m *memStore) FindMemberByUser(_ context.Context, userID uint) (*model.JuryMember, error) {
	for _, member := range m.members {
		if member.UserID == userID {
			cp := *member
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) ListMembers(_ context.Context) ([]model.JuryMember, error) {
	out := make([]model.JuryMember, 0, len(m.members))
	for _, member := range m.members {
		out = append(out, *member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) ListMembersInScope(ctx context.Context, competitionID uint) ([]model.JuryMember, error) {
	all, _ := m.ListMembers(ctx)
	out := all[:0]
	for _, member := range all {
		if member.InScope(competitionID) {
			out = append(out, member)
		}
	}
	return out, nil
}

func (m *memStore) DeleteMember(_ context.Context, id uint) error {
	for k := range m.scores {
		if k.member == id {
			delete(m.scores, k)
		}
	}
	delete(m.progress, id)
	delete(m.members, id)
	return nil
}

func (m *memStore) FindPublishedRegistration(_ context.Context, number string) (*model.Registration, error) {
	for _, reg := range m.regs {
		if reg.RegistrationNumber == number && reg.Published {
			cp := *reg
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) CountPublished(_ context.Context, competitionID *uint) (int64, error) {
	var n int64
	for _, reg := range m.regs {
		if reg.Published && (competitionID == nil || reg.CompetitionID == *competitionID) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CompetitionIDs(_ context.Context, registrationIDs []uint) ([]uint, error) {
	seen := map[uint]bool{}
	var out []uint
	for _, id := range registrationIDs {
		reg, ok := m.regs[id]
		if ok && !seen[reg.CompetitionID] {
			seen[reg.CompetitionID] = true
			out = append(out, reg.CompetitionID)
		}
	}
	return out, nil
}

func (m *memStore) UpsertScore(_ context.Context, score *model.JuryScore) error {
	key := scoreKey{score.JuryMemberID, score.RegistrationID}
	row := *score
	if prev, ok := m.scores[key]; ok {
		row.ID = prev.ID
		row.CreatedAt = prev.CreatedAt
	} else {
		m.nextScoreID++
		row.ID = m.nextScoreID
		row.CreatedAt = score.SubmittedAt
	}
	row.UpdatedAt = score.SubmittedAt
	m.scores[key] = row
	return nil
}

func (m *memStore) FindScore(_ context.Context, memberID, registrationID uint) (*model.JuryScore, error) {
	row, ok := m.scores[scoreKey{memberID, registrationID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (m *memStore) ScoresByMember(_ context.Context, memberID uint) ([]model.JuryScore, error) {
	var out []model.JuryScore
	for k, v := range m.scores {
		if k.member == memberID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memStore) ScoresByRegistration(_ context.Context, registrationID uint) ([]model.JuryScore, error) {
	var out []model.JuryScore
	for k, v := range m.scores {
		if k.registration == registrationID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memStore) StatsRegistrationIDs(_ context.Context) ([]uint, error) {
	seen := map[uint]bool{}
	for k := range m.scores {
		seen[k.registration] = true
	}
	for id := range m.stats {
		seen[id] = true
	}
	out := make([]uint, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (m *memStore) SaveProgress(_ context.Context, p *model.JuryScoringProgress) error {
	m.progress[p.JuryMemberID] = *p
	return nil
}

func (m *memStore) SaveJuryStats(_ context.Context, st *model.SubmissionVotingStats) error {
	if m.failSaveStats != nil {
		return m.failSaveStats
	}
	row := *st
	if prev, ok := m.stats[st.RegistrationID]; ok {
		row.PublicVoteCount = prev.PublicVoteCount
	}
	m.stats[st.RegistrationID] = row
	return nil
}
