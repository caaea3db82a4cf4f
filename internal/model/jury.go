package model

import "time"

// JuryMember CompetitionID 为空表示可评审所有比赛
type JuryMember struct {
	Model
	UserID        uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	Title         string `gorm:"type:varchar(100)" json:"title"`
	Active        bool   `gorm:"not null;default:true" json:"active"`
	AssignedBy    uint   `gorm:"not null" json:"assigned_by"`
	CompetitionID *uint  `gorm:"index" json:"competition_id"`

	User partialUser `gorm:"foreignKey:UserID;references:ID" json:"user"`
}

// InScope 判断作品所属比赛是否在评委的评审范围内
func (m *JuryMember) InScope(competitionID uint) bool {
	return m.CompetitionID == nil || *m.CompetitionID == competitionID
}

// Criteria 九项评分，各项区间见 jury 模块
type Criteria struct {
	ConceptScore                 float64 `gorm:"type:decimal(5,2);not null" json:"concept_score"`
	RelevanceScore               float64 `gorm:"type:decimal(5,2);not null" json:"relevance_score"`
	CompositionScore             float64 `gorm:"type:decimal(5,2);not null" json:"composition_score"`
	BalanceScore                 float64 `gorm:"type:decimal(5,2);not null" json:"balance_score"`
	ColourScore                  float64 `gorm:"type:decimal(5,2);not null" json:"colour_score"`
	DesignRelativityScore        float64 `gorm:"type:decimal(5,2);not null" json:"design_relativity_score"`
	AestheticAppealScore         float64 `gorm:"type:decimal(5,2);not null" json:"aesthetic_appeal_score"`
	UnconventionalMaterialsScore float64 `gorm:"type:decimal(5,2);not null" json:"unconventional_materials_score"`
	OverallMaterialScore         float64 `gorm:"type:decimal(5,2);not null" json:"overall_material_score"`
}

// JuryScore 每个 (评委, 作品) 只有一条，重复提交覆盖
type JuryScore struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	JuryMemberID   uint `gorm:"not null;uniqueIndex:idx_jury_registration" json:"jury_member_id"`
	RegistrationID uint `gorm:"not null;uniqueIndex:idx_jury_registration;index" json:"registration_id"`
	Criteria
	Comments    string    `gorm:"type:text" json:"comments"`
	TotalScore  float64   `gorm:"type:decimal(6,2);not null" json:"total_score"`
	SubmittedAt time.Time `gorm:"not null;index" json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JuryScoringProgress 评委进度缓存，每次评分后由 JuryScore 全量重算
type JuryScoringProgress struct {
	JuryMemberID         uint       `gorm:"primaryKey;autoIncrement:false" json:"jury_member_id"`
	TotalAssigned        int64      `gorm:"not null" json:"total_assigned"`
	SubmittedScores      int64      `gorm:"not null" json:"submitted_scores"`
	CompletionPercentage float64    `gorm:"type:double;not null" json:"completion_percentage"`
	AverageScoreGiven    *float64   `gorm:"type:double" json:"average_score_given"`
	LastScoredAt         *time.Time `json:"last_scored_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
