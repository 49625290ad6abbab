package model

// Guardian 监护人表 — 对应 guardians
// 与学生一对一，guardian_id 由学号派生
type Guardian struct {
	GuardianID   string `gorm:"type:varchar(50);primaryKey"      json:"guardian_id"`
	StudentID    string `gorm:"type:varchar(20);not null;unique" json:"student_id"`
	Name         string `gorm:"type:varchar(20);not null"        json:"name"`
	PhoneNumber  string `gorm:"type:varchar(20);not null"        json:"phone_number"`
	Relationship string `gorm:"type:varchar(10);not null"        json:"relationship"`
	Address      string `gorm:"type:text;not null"               json:"address"`
	BaseModel

	// 关联
	Student *User `gorm:"foreignKey:StudentID;references:UserID" json:"student,omitempty"`
}

// TableName 指定表名
func (Guardian) TableName() string { return "guardians" }
