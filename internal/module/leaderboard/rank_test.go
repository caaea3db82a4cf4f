package leaderboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

var base = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func TestRankByVotes(t *testing.T) {
	cands := []candidate{
		{RegistrationID: 1, RegistrationNumber: "A", CreatedAt: base, PublicVoteCount: 3},
		{RegistrationID: 2, RegistrationNumber: "B", CreatedAt: base.Add(time.Hour), PublicVoteCount: 10},
		{RegistrationID: 3, RegistrationNumber: "C", CreatedAt: base.Add(2 * time.Hour), PublicVoteCount: 0},
	}
	rows := rank(cands, ChannelVote)
	require.Len(t, rows, 3)
	require.Equal(t, "B", rows[0].RegistrationNumber)
	require.Equal(t, "A", rows[1].RegistrationNumber)
	require.Equal(t, "C", rows[2].RegistrationNumber)
	for i, row := range rows {
		require.Equal(t, i+1, row.Rank)
	}
	require.Equal(t, float64(10), rows[0].Count)
}

func TestRankTieBreaksByEarlierRegistration(t *testing.T) {
	cands := []candidate{
		{RegistrationID: 5, RegistrationNumber: "LATE", CreatedAt: base.Add(time.Hour), PublicVoteCount: 4},
		{RegistrationID: 9, RegistrationNumber: "EARLY", CreatedAt: base, PublicVoteCount: 4},
		{RegistrationID: 2, RegistrationNumber: "SAME-TIME-LOWER-ID", CreatedAt: base.Add(time.Hour), PublicVoteCount: 4},
	}
	rows := rank(cands, ChannelVote)
	require.Equal(t, "EARLY", rows[0].RegistrationNumber)
	require.Equal(t, "SAME-TIME-LOWER-ID", rows[1].RegistrationNumber)
	require.Equal(t, "LATE", rows[2].RegistrationNumber)
	require.Equal(t, []int{1, 2, 3}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank})
}

func TestRankByJuryAverage(t *testing.T) {
	cands := []candidate{
		{RegistrationID: 1, RegistrationNumber: "UNSCORED", CreatedAt: base},
		{RegistrationID: 2, RegistrationNumber: "LOW", CreatedAt: base, JuryVoteCount: 3, JuryScoreAverage: ptr(60)},
		{RegistrationID: 3, RegistrationNumber: "HIGH-FEW", CreatedAt: base, JuryVoteCount: 1, JuryScoreAverage: ptr(80)},
		{RegistrationID: 4, RegistrationNumber: "HIGH-MANY", CreatedAt: base, JuryVoteCount: 2, JuryScoreAverage: ptr(80)},
	}
	rows := rank(cands, ChannelJury)
	got := make([]string, len(rows))
	for i, row := range rows {
		got[i] = row.RegistrationNumber
	}
	require.Equal(t, []string{"HIGH-MANY", "HIGH-FEW", "LOW", "UNSCORED"}, got)
	require.Equal(t, float64(80), rows[0].Count)
	require.Zero(t, rows[3].Count)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	cands := []candidate{
		{RegistrationID: 1, RegistrationNumber: "A", PublicVoteCount: 1},
		{RegistrationID: 2, RegistrationNumber: "B", PublicVoteCount: 2},
	}
	rank(cands, ChannelVote)
	require.Equal(t, "A", cands[0].RegistrationNumber)
}

func TestPage(t *testing.T) {
	rows := rank([]candidate{{RegistrationID: 1}, {RegistrationID: 2}, {RegistrationID: 3}}, ChannelVote)
	require.Len(t, page(rows, 0, 2), 2)
	require.Len(t, page(rows, 2, 2), 1)
	require.Empty(t, page(rows, 5, 2))
	require.Empty(t, page(rows, -4, 2))
	require.Empty(t, page(rows, 0, 0))
}

func TestParseChannel(t *testing.T) {
	ch, err := ParseChannel("")
	require.NoError(t, err)
	require.Equal(t, ChannelVote, ch)

	ch, err = ParseChannel("jury")
	require.NoError(t, err)
	require.Equal(t, ChannelJury, ch)

	_, err = ParseChannel("money")
	require.Error(t, err)
}

func TestCacheKey(t *testing.T) {
	require.Equal(t, "leaderboard:7:jury:", cacheKey(7, ChannelJury, ""))
	require.Equal(t, "leaderboard:7:vote:senior", cacheKey(7, ChannelVote, "senior"))
}
