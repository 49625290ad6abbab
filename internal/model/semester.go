package model

import "time"

// Semester 学期表 — 对应 semesters
// semester_id 由 (year, term) 派生，仅在结束日期严格晚于开始日期时创建
type Semester struct {
	SemesterID string    `gorm:"type:varchar(10);primaryKey" json:"semester_id"` // "2024-1"
	Year       int       `gorm:"not null"                    json:"year"`
	Term       string    `gorm:"type:varchar(2);not null"    json:"term"` // "1" | "2"
	BeginDate  time.Time `gorm:"type:date;not null"          json:"begin_date"`
	EndDate    time.Time `gorm:"type:date;not null"          json:"end_date"`
	BaseModel
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }
