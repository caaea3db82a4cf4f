package model

import "gorm.io/datatypes"

type Competition struct {
	Model
	Name        string                      `gorm:"type:varchar(100);not null" json:"name"`
	Description string                      `gorm:"type:varchar(255);" json:"description"`
	Categories  datatypes.JSONSlice[string] `gorm:"type:json" json:"categories"` // 为空表示不限制类别
	StartDate   int64                       `json:"start_date"`
	EndDate     int64                       `json:"end_date"`
}

// AllowsCategory 未配置类别时任何类别都可以
func (c *Competition) AllowsCategory(category string) bool {
	if len(c.Categories) == 0 {
		return true
	}
	for _, allowed := range c.Categories {
		if allowed == category {
			return true
		}
	}
	return false
}
