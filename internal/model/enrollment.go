package model

// Enrollment 选课成绩表 — 对应 course_students
// 课程创建时为班级每位学生自动建立一条记录（get-or-create，幂等）。
// average 仅在期中期末均有分数时为 (middle+final)/2，否则为 NULL。
// 排名不落库：按需对课程全部记录排序计算（并列时按学号升序）。
type Enrollment struct {
	ID          uint     `gorm:"primaryKey"                 json:"id"`
	CourseID    string   `gorm:"type:varchar(20);not null;uniqueIndex:uq_course_student" json:"course_id"`
	StudentID   string   `gorm:"type:varchar(20);not null;uniqueIndex:uq_course_student" json:"student_id"`
	SemesterID  string   `gorm:"type:varchar(10);not null"  json:"semester_id"`
	MiddleScore *float64 `gorm:"type:numeric(5,2)"          json:"middle_score,omitempty"`
	FinalScore  *float64 `gorm:"type:numeric(5,2)"          json:"final_score,omitempty"`
	Average     *float64 `gorm:"type:numeric(5,2)"          json:"average,omitempty"`
	BaseModel

	// 关联
	Course   *Course   `gorm:"foreignKey:CourseID;references:CourseID"     json:"course,omitempty"`
	Student  *User     `gorm:"foreignKey:StudentID;references:UserID"      json:"student,omitempty"`
	Semester *Semester `gorm:"foreignKey:SemesterID;references:SemesterID" json:"semester,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "course_students" }

// ComputeAverage 依据期中期末分数重算 average 字段
func (e *Enrollment) ComputeAverage() {
	if e.MiddleScore != nil && e.FinalScore != nil {
		avg := (*e.MiddleScore + *e.FinalScore) / 2
		e.Average = &avg
	} else {
		e.Average = nil
	}
}
