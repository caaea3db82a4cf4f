package jury

import (
	"context"
	"errors"
	"testing"
	"time"

	"competition-jury-system/internal/global/response"
	"competition-jury-system/internal/model"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *memStore
	svc     *Service
	clock   time.Time
	changed []uint
}

// newFixture 评委 1 不限比赛；比赛 1 下 A、B 已发布，C 未发布；比赛 2 下 D 已发布
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: newMemStore(), clock: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	f.svc = NewService(f.store, func(_ context.Context, competitionID uint) {
		f.changed = append(f.changed, competitionID)
	})
	f.svc.now = func() time.Time { return f.clock }

	f.store.addMember(1, 100, nil)
	f.store.addRegistration(10, 1, "A", true)
	f.store.addRegistration(11, 1, "B", true)
	f.store.addRegistration(12, 1, "C", false)
	f.store.addRegistration(13, 2, "D", true)
	return f
}

func (f *fixture) tick() {
	f.clock = f.clock.Add(time.Minute)
}

func input(number string, c model.Criteria) ScoreInput {
	return ScoreInput{RegistrationNumber: number, Criteria: c, Comments: "ok"}
}

func TestSubmitScoreScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	score, err := f.svc.SubmitScore(ctx, 1, input("A", sampleCriteria()))
	require.NoError(t, err)
	require.Equal(t, 79.0, score.TotalScore)
	require.Equal(t, uint(10), score.RegistrationID)
	require.Equal(t, f.clock, score.SubmittedAt)
	require.Equal(t, "ok", score.Comments)

	p := f.store.progress[1]
	require.Equal(t, int64(3), p.TotalAssigned)
	require.Equal(t, int64(1), p.SubmittedScores)
	require.InDelta(t, 100.0/3, p.CompletionPercentage, 1e-9)
	require.NotNil(t, p.AverageScoreGiven)
	require.Equal(t, 79.0, *p.AverageScoreGiven)
	require.NotNil(t, p.LastScoredAt)
	require.Equal(t, f.clock, *p.LastScoredAt)

	st := f.store.stats[10]
	require.Equal(t, int64(1), st.JuryVoteCount)
	require.Equal(t, 79.0, st.JuryScoreTotal)
	require.NotNil(t, st.JuryScoreAverage)
	require.Equal(t, 79.0, *st.JuryScoreAverage)

	require.Equal(t, []uint{1}, f.changed)
}

func TestResubmitOverwritesSingleRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.SubmitScore(ctx, 1, input("A", sampleCriteria()))
	require.NoError(t, err)
	f.tick()
	second, err := f.svc.SubmitScore(ctx, 1, input("A", maxCriteria()))
	require.NoError(t, err)

	require.Equal(t, 1, f.store.scoresFor(1, 10))
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 100.0, second.TotalScore)
	require.Equal(t, f.clock, second.SubmittedAt)

	st := f.store.stats[10]
	require.Equal(t, int64(1), st.JuryVoteCount)
	require.Equal(t, 100.0, st.JuryScoreTotal)
	require.Equal(t, 100.0, *st.JuryScoreAverage)
	require.Equal(t, int64(1), f.store.progress[1].SubmittedScores)
}

func TestInvalidScoreWritesNothing(t *testing.T) {
	f := newFixture(t)
	c := sampleCriteria()
	c.AestheticAppealScore = 25

	_, err := f.svc.SubmitScore(context.Background(), 1, input("A", c))
	require.ErrorIs(t, err, response.ErrInvalidScore)
	require.Empty(t, f.store.scores)
	require.Empty(t, f.store.progress)
	require.Empty(t, f.store.stats)
	require.Empty(t, f.changed)
}

func TestInvalidScoreKeepsPreviousScore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SubmitScore(ctx, 1, input("A", sampleCriteria()))
	require.NoError(t, err)

	c := maxCriteria()
	c.OverallMaterialScore = 5.5
	_, err = f.svc.SubmitScore(ctx, 1, input("A", c))
	require.ErrorIs(t, err, response.ErrInvalidScore)

	row, err := f.store.FindScore(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 79.0, row.TotalScore)
}

func TestSubmitScoreNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inactive := f.store.addMember(2, 200, nil)
	inactive.Active = false

	cases := []struct {
		name     string
		memberID uint
		number   string
	}{
		{"unknown judge", 99, "A"},
		{"inactive judge", 2, "A"},
		{"unknown submission", 1, "NOPE"},
		{"unpublished submission", 1, "C"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.SubmitScore(ctx, tc.memberID, input(tc.number, sampleCriteria()))
			require.ErrorIs(t, err, response.ErrNotFound)
		})
	}
	require.Empty(t, f.store.scores)
	require.Empty(t, f.store.progress)
}

func TestSubmitScoreOutsideScope(t *testing.T) {
	f := newFixture(t)
	competition := uint(2)
	f.store.addMember(3, 300, &competition)

	_, err := f.svc.SubmitScore(context.Background(), 3, input("A", sampleCriteria()))
	require.ErrorIs(t, err, response.ErrNotFound)

	_, err = f.svc.SubmitScore(context.Background(), 3, input("D", sampleCriteria()))
	require.NoError(t, err)
	p := f.store.progress[3]
	require.Equal(t, int64(1), p.TotalAssigned)
	require.Equal(t, 100.0, p.CompletionPercentage)
}

func TestFailedRecomputeRollsBackScore(t *testing.T) {
	f := newFixture(t)
	f.store.failSaveStats = errors.New("connection reset")

	_, err := f.svc.SubmitScore(context.Background(), 1, input("A", sampleCriteria()))
	require.ErrorIs(t, err, response.ErrDatabase)
	require.Empty(t, f.store.scores)
	require.Empty(t, f.store.progress)
	require.Empty(t, f.changed)
}

func TestAggregateAcrossJudges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.addMember(2, 200, nil)

	_, err := f.svc.SubmitScore(ctx, 1, input("A", sampleCriteria()))
	require.NoError(t, err)
	_, err = f.svc.SubmitScore(ctx, 2, input("A", maxCriteria()))
	require.NoError(t, err)
	_, err = f.svc.SubmitScore(ctx, 2, input("B", sampleCriteria()))
	require.NoError(t, err)

	st := f.store.stats[10]
	require.Equal(t, int64(2), st.JuryVoteCount)
	require.Equal(t, 179.0, st.JuryScoreTotal)
	require.InDelta(t, st.JuryScoreTotal/float64(st.JuryVoteCount), *st.JuryScoreAverage, 1e-9)

	for memberID := range f.store.members {
		scores, _ := f.store.ScoresByMember(ctx, memberID)
		require.Equal(t, int64(len(scores)), f.store.progress[memberID].SubmittedScores)
	}
	require.InDelta(t, 89.5, *f.store.progress[2].AverageScoreGiven, 1e-9)
}

func TestBuildProgress(t *testing.T) {
	now := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	empty := BuildProgress(1, 0, nil, now)
	require.Zero(t, empty.CompletionPercentage)
	require.Nil(t, empty.AverageScoreGiven)
	require.Nil(t, empty.LastScoredAt)

	// 未分配作品但已有历史评分，完成率仍为 0
	orphan := BuildProgress(1, 0, []model.JuryScore{{TotalScore: 50, SubmittedAt: now}}, now)
	require.Zero(t, orphan.CompletionPercentage)
	require.Equal(t, 50.0, *orphan.AverageScoreGiven)

	later := now.Add(time.Hour)
	p := BuildProgress(1, 4, []model.JuryScore{
		{TotalScore: 100, SubmittedAt: later},
		{TotalScore: 79, SubmittedAt: now},
	}, now)
	require.Equal(t, int64(2), p.SubmittedScores)
	require.Equal(t, 50.0, p.CompletionPercentage)
	require.Equal(t, 89.5, *p.AverageScoreGiven)
	require.Equal(t, later, *p.LastScoredAt)
}

func TestBuildJuryStats(t *testing.T) {
	now := time.Now()
	none := BuildJuryStats(7, nil, now)
	require.Zero(t, none.JuryVoteCount)
	require.Zero(t, none.JuryScoreTotal)
	require.Nil(t, none.JuryScoreAverage)

	st := BuildJuryStats(7, []model.JuryScore{{TotalScore: 70}, {TotalScore: 75}, {TotalScore: 81}}, now)
	require.Equal(t, int64(3), st.JuryVoteCount)
	require.Equal(t, 226.0, st.JuryScoreTotal)
	require.InDelta(t, 226.0/3, *st.JuryScoreAverage, 1e-9)

	// 平均分不做舍入，31/3 不能存成 10.33
	thirds := BuildJuryStats(8, []model.JuryScore{{TotalScore: 10}, {TotalScore: 10}, {TotalScore: 11}}, now)
	require.InDelta(t, thirds.JuryScoreTotal/float64(thirds.JuryVoteCount), *thirds.JuryScoreAverage, 1e-9)
	require.NotEqual(t, 10.33, *thirds.JuryScoreAverage)
}

func TestBuildProgressKeepsExactPercentage(t *testing.T) {
	p := BuildProgress(1, 3, []model.JuryScore{{TotalScore: 10}}, time.Now())
	require.InDelta(t, 100.0/3, p.CompletionPercentage, 1e-9)
	require.NotEqual(t, 33.33, p.CompletionPercentage)
}

func TestStoredCriteriaAddUpToTotal(t *testing.T) {
	f := newFixture(t)
	c := model.Criteria{
		ConceptScore:                 8.15,
		RelevanceScore:               12.3,
		CompositionScore:             7.05,
		BalanceScore:                 6.99,
		ColourScore:                  0.01,
		DesignRelativityScore:        9.5,
		AestheticAppealScore:         18.25,
		UnconventionalMaterialsScore: 7.7,
		OverallMaterialScore:         4.45,
	}

	score, err := f.svc.SubmitScore(context.Background(), 1, input("A", c))
	require.NoError(t, err)
	stored := score.Criteria
	sum := stored.ConceptScore + stored.RelevanceScore + stored.CompositionScore +
		stored.BalanceScore + stored.ColourScore + stored.DesignRelativityScore +
		stored.AestheticAppealScore + stored.UnconventionalMaterialsScore + stored.OverallMaterialScore
	require.InDelta(t, sum, score.TotalScore, 1e-9)
	require.InDelta(t, 74.4, score.TotalScore, 1e-9)
}

func TestSubmitScoreRejectsThirdDecimal(t *testing.T) {
	f := newFixture(t)
	c := model.Criteria{ConceptScore: 0.004, RelevanceScore: 0.004, CompositionScore: 0.004}

	_, err := f.svc.SubmitScore(context.Background(), 1, input("A", c))
	require.ErrorIs(t, err, response.ErrInvalidScore)
	require.Empty(t, f.store.scores)
	require.Empty(t, f.store.progress)
}

func TestJuryStatsKeepPublicVotes(t *testing.T) {
	f := newFixture(t)
	f.store.stats[10] = model.SubmissionVotingStats{RegistrationID: 10, PublicVoteCount: 42}

	_, err := f.svc.SubmitScore(context.Background(), 1, input("A", sampleCriteria()))
	require.NoError(t, err)
	require.Equal(t, int64(42), f.store.stats[10].PublicVoteCount)
	require.Equal(t, int64(1), f.store.stats[10].JuryVoteCount)
}

func TestRecomputeAllHealsStaleCaches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SubmitScore(ctx, 1, input("A", sampleCriteria()))
	require.NoError(t, err)

	f.store.progress[1] = model.JuryScoringProgress{JuryMemberID: 1, SubmittedScores: 9}
	f.store.stats[10] = model.SubmissionVotingStats{RegistrationID: 10, JuryVoteCount: 9}
	f.changed = nil

	res, err := f.svc.RecomputeAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Members)
	require.Equal(t, 1, res.Submissions)
	require.Equal(t, int64(1), f.store.progress[1].SubmittedScores)
	require.Equal(t, int64(1), f.store.stats[10].JuryVoteCount)
	require.Equal(t, []uint{1}, f.changed)
}

func TestRecomputeCompetitionAfterPublish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	competition := uint(1)
	f.store.addMember(2, 200, &competition)
	_, err := f.svc.SubmitScore(ctx, 2, input("A", sampleCriteria()))
	require.NoError(t, err)
	require.Equal(t, int64(2), f.store.progress[2].TotalAssigned)

	f.store.regs[12].Published = true
	require.NoError(t, f.svc.RecomputeCompetition(ctx, 1))

	require.Equal(t, int64(3), f.store.progress[2].TotalAssigned)
	require.InDelta(t, 100.0/3, f.store.progress[2].CompletionPercentage, 1e-9)
	// 不限比赛的评委也在范围内
	require.Equal(t, int64(4), f.store.progress[1].TotalAssigned)
}

func TestDeleteMemberRecomputesStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.addMember(2, 200, nil)
	_, err := f.svc.SubmitScore(ctx, 1, input("A", sampleCriteria()))
	require.NoError(t, err)
	_, err = f.svc.SubmitScore(ctx, 2, input("A", maxCriteria()))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteMember(ctx, 2))
	require.NotContains(t, f.store.members, uint(2))
	require.NotContains(t, f.store.progress, uint(2))
	require.Equal(t, 0, f.store.scoresFor(2, 10))

	st := f.store.stats[10]
	require.Equal(t, int64(1), st.JuryVoteCount)
	require.Equal(t, 79.0, *st.JuryScoreAverage)

	require.ErrorIs(t, f.svc.DeleteMember(ctx, 2), response.ErrNotFound)
}

func TestActiveMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.svc.ActiveMember(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, uint(1), m.ID)

	_, err = f.svc.ActiveMember(ctx, 555)
	require.ErrorIs(t, err, response.ErrNotFound)

	f.store.members[1].Active = false
	_, err = f.svc.ActiveMember(ctx, 100)
	require.ErrorIs(t, err, response.ErrNotFound)
}
