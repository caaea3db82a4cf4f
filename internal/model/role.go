package model

// Role 角色只是能力集合的索引，不存在继承关系
type Role int

const (
	RoleUser Role = iota
	RoleJury
	RoleModerator
	RoleAdmin
)

type Capability string

const (
	CapVote             Capability = "vote"
	CapScore            Capability = "score"
	CapViewDashboard    Capability = "view_dashboard"
	CapManageJury       Capability = "manage_jury"
	CapManageSubmission Capability = "manage_submission"
)

var roleCapabilities = map[Role][]Capability{
	RoleUser:      {CapVote},
	RoleJury:      {CapVote, CapScore},
	RoleModerator: {CapVote, CapViewDashboard},
	RoleAdmin:     {CapVote, CapScore, CapViewDashboard, CapManageJury, CapManageSubmission},
}

var roleNames = map[Role]string{
	RoleUser:      "user",
	RoleJury:      "jury",
	RoleModerator: "moderator",
	RoleAdmin:     "admin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Can 未知角色没有任何能力
func (r Role) Can(c Capability) bool {
	for _, have := range roleCapabilities[r] {
		if have == c {
			return true
		}
	}
	return false
}

func (r Role) Capabilities() []Capability {
	return append([]Capability(nil), roleCapabilities[r]...)
}
