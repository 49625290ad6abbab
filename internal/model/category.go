package model

// Category 功能分类表 — 对应 categories
// 导航菜单树节点：roles 为空表示两种角色都可见
type Category struct {
	ID       uint    `gorm:"primaryKey"         json:"id"`
	Name     string  `gorm:"type:varchar(20);not null" json:"name"`
	Roles    *string `gorm:"type:varchar(20)"   json:"roles,omitempty"` // teachers | students
	ParentID *uint   `gorm:"column:parent_id"   json:"parent_id,omitempty"`
	URL      *string `gorm:"type:varchar(100)"  json:"url,omitempty"`
}

// TableName 指定表名
func (Category) TableName() string { return "categories" }
