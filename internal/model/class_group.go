package model

// ClassGroup 班级表 — 对应 classes
// class_id 由 (year, class_name) 派生；班导师至多带一个班
type ClassGroup struct {
	ClassID   string  `gorm:"type:varchar(10);primaryKey" json:"class_id"`
	ClassName string  `gorm:"type:char(1);not null"       json:"class_name"` // 单个大写字母 A-Z
	Grade     int     `gorm:"not null"                    json:"grade"`      // 1-6 年级
	Year      int     `gorm:"not null"                    json:"year"`
	TeacherID *string `gorm:"type:varchar(20);unique"     json:"teacher_id,omitempty"`
	BaseModel

	// 关联
	Teacher *User `gorm:"foreignKey:TeacherID;references:UserID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (ClassGroup) TableName() string { return "classes" }
