package model

// Period 节次表 — 对应 periods
// 以节次编号为自然主键，时间为当日钟点
type Period struct {
	PeriodNumber int    `gorm:"primaryKey"         json:"period_number"`
	BeginTime    string `gorm:"type:time;not null" json:"begin_time"` // "08:00"
	EndTime      string `gorm:"type:time;not null" json:"end_time"`   // "08:50"
}

// TableName 指定表名
func (Period) TableName() string { return "periods" }
