package model

import "time"

// LeaveType 请假类型表 — 对应 leave_types
type LeaveType struct {
	ID       uint   `gorm:"primaryKey"                json:"id"`
	TypeName string `gorm:"type:varchar(10);not null" json:"type_name"`
}

// TableName 指定表名
func (LeaveType) TableName() string { return "leave_types" }

// LeaveApplication 请假申请表 — 对应 leave_applications
// 状态机：pending →（一次性）approved | rejected，终态不可再变更
type LeaveApplication struct {
	LeaveID      string     `gorm:"type:varchar(40);primaryKey"             json:"leave_id"`
	StudentID    string     `gorm:"type:varchar(20);not null"               json:"student_id"`
	GuardianID   *string    `gorm:"type:varchar(50)"                        json:"guardian_id,omitempty"`
	LeaveTypeID  uint       `gorm:"not null"                                json:"leave_type_id"`
	Reason       string     `gorm:"type:varchar(255);not null"              json:"reason"`
	ApplyDate    time.Time  `gorm:"type:date;not null"                      json:"apply_date"`
	StartDate    time.Time  `gorm:"type:date;not null"                      json:"start_date"`
	EndDate      time.Time  `gorm:"type:date;not null"                      json:"end_date"`
	Status       string     `gorm:"type:varchar(10);not null;default:'pending'" json:"status"`
	ApprovedBy   *string    `gorm:"type:varchar(20)"                        json:"approved_by,omitempty"`
	ApprovedDate *time.Time `gorm:"type:date"                               json:"approved_date,omitempty"`
	Remark       *string    `gorm:"type:text"                               json:"remark,omitempty"`
	BaseModel

	// 关联
	Student   *User      `gorm:"foreignKey:StudentID;references:UserID"    json:"student,omitempty"`
	Guardian  *Guardian  `gorm:"foreignKey:GuardianID;references:GuardianID" json:"guardian,omitempty"`
	LeaveType *LeaveType `gorm:"foreignKey:LeaveTypeID;references:ID"      json:"leave_type,omitempty"`
	Approver  *User      `gorm:"foreignKey:ApprovedBy;references:UserID"   json:"approver,omitempty"`
	Periods   []Period   `gorm:"many2many:leave_periods;foreignKey:LeaveID;joinForeignKey:LeaveID;references:PeriodNumber;joinReferences:PeriodNumber" json:"periods,omitempty"`
}

// TableName 指定表名
func (LeaveApplication) TableName() string { return "leave_applications" }

// IsDecided 是否已进入终态
func (l *LeaveApplication) IsDecided() bool {
	return l.Status != LeaveStatusPending
}
