package leaderboard

import (
	"fmt"
	"sort"
	"time"
)

// Channel 排行榜的计票方式
type Channel string

const (
	ChannelVote Channel = "vote" // 公众投票数
	ChannelJury Channel = "jury" // 评委平均分
)

func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case "", ChannelVote:
		return ChannelVote, nil
	case ChannelJury:
		return ChannelJury, nil
	}
	return "", fmt.Errorf("未知的排行榜类型 %q", s)
}

// candidate 已发布作品及其汇总数据
type candidate struct {
	RegistrationID     uint
	RegistrationNumber string
	Title              string
	Category           string
	Thumbnail          string
	CreatedAt          time.Time
	PublicVoteCount    int64
	JuryVoteCount      int64
	JuryScoreAverage   *float64
}

type Row struct {
	Rank               int      `json:"rank" excel:"排名"`
	RegistrationNumber string   `json:"registration_number" excel:"报名编号"`
	Title              string   `json:"title" excel:"作品名称"`
	Category           string   `json:"category" excel:"类别"`
	Thumbnail          string   `json:"thumbnail" excel:"缩略图"`
	Count              float64  `json:"count" excel:"得分"`
	PublicVoteCount    int64    `json:"public_vote_count" excel:"公众票数"`
	JuryVoteCount      int64    `json:"jury_vote_count" excel:"评委人数"`
	JuryScoreAverage   *float64 `json:"jury_score_average" excel:"-"`
}

// earlier 先报名的排在前面
func earlier(a, b *candidate) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.RegistrationID < b.RegistrationID
}

func less(channel Channel, a, b *candidate) bool {
	if channel == ChannelJury {
		// 没有评委评分的排在最后
		switch {
		case a.JuryScoreAverage == nil && b.JuryScoreAverage != nil:
			return false
		case a.JuryScoreAverage != nil && b.JuryScoreAverage == nil:
			return true
		case a.JuryScoreAverage != nil && *a.JuryScoreAverage != *b.JuryScoreAverage:
			return *a.JuryScoreAverage > *b.JuryScoreAverage
		}
		if a.JuryVoteCount != b.JuryVoteCount {
			return a.JuryVoteCount > b.JuryVoteCount
		}
		return earlier(a, b)
	}
	if a.PublicVoteCount != b.PublicVoteCount {
		return a.PublicVoteCount > b.PublicVoteCount
	}
	return earlier(a, b)
}

// rank 排序后按 1,2,3... 连续编号，并列也不共享名次
func rank(cands []candidate, channel Channel) []Row {
	sorted := make([]candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(channel, &sorted[i], &sorted[j])
	})

	rows := make([]Row, len(sorted))
	for i := range sorted {
		c := &sorted[i]
		rows[i] = Row{
			Rank:               i + 1,
			RegistrationNumber: c.RegistrationNumber,
			Title:              c.Title,
			Category:           c.Category,
			Thumbnail:          c.Thumbnail,
			PublicVoteCount:    c.PublicVoteCount,
			JuryVoteCount:      c.JuryVoteCount,
			JuryScoreAverage:   c.JuryScoreAverage,
		}
		if channel == ChannelJury {
			if c.JuryScoreAverage != nil {
				rows[i].Count = *c.JuryScoreAverage
			}
		} else {
			rows[i].Count = float64(c.PublicVoteCount)
		}
	}
	return rows
}

// page 越界返回空切片
func page(rows []Row, offset, limit int) []Row {
	if offset < 0 || limit < 1 || offset >= len(rows) {
		return []Row{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
