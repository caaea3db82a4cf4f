package model

type User struct {
	Model
	Username string `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email    string `gorm:"type:varchar(255);" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	RoleID   int    `gorm:"default:0;not null" json:"role_id"`
	NickName string `gorm:"type:varchar(50);not null" json:"nick_name"`
	Avatar   string `gorm:"type:varchar(255);" json:"avatar"`
}

// partialUser 只暴露可公开的用户字段
type partialUser struct {
	ID       uint   `gorm:"primaryKey" json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	NickName string `json:"nick_name"`
	Avatar   string `json:"avatar"`
}

func (partialUser) TableName() string {
	return "user"
}
