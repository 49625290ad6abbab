package model

import "time"

// User 用户表 — 对应 users
// user_id 为学号或员工编号，角色创建后不再变更
type User struct {
	UserID       string    `gorm:"type:varchar(20);primaryKey"    json:"user_id"`
	Name         string    `gorm:"type:varchar(40);not null"      json:"name"`
	EngName      *string   `gorm:"type:varchar(40)"               json:"eng_name,omitempty"`
	Birthday     time.Time `gorm:"type:date;not null"             json:"birthday"`
	Gender       string    `gorm:"type:varchar(10)"               json:"gender,omitempty"`
	Role         string    `gorm:"type:varchar(10);not null"      json:"role"` // admin | teacher | student
	ClassID      *string   `gorm:"type:varchar(10)"               json:"class_id,omitempty"`
	SemesterID   *string   `gorm:"type:varchar(10)"               json:"semester_id,omitempty"` // 入学、入职学期
	PasswordHash string    `gorm:"type:varchar(255);not null"     json:"-"`
	BaseModel

	// 关联
	Class    *ClassGroup `gorm:"foreignKey:ClassID;references:ClassID"       json:"class,omitempty"`
	Semester *Semester   `gorm:"foreignKey:SemesterID;references:SemesterID" json:"semester,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
