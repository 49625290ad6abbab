package model

// Course 课程表 — 对应 courses
// 同教师或同班级在同学期同星期的节次集合不得重叠（冲突检查在 Service 层）
type Course struct {
	CourseID    string  `gorm:"type:varchar(20);primaryKey" json:"course_id"`
	Name        string  `gorm:"type:varchar(50);not null"   json:"name"`
	Description *string `gorm:"type:text"                   json:"description,omitempty"`
	TeacherID   string  `gorm:"type:varchar(20);not null"   json:"teacher_id"`
	ClassID     string  `gorm:"type:varchar(10);not null"   json:"class_id"`
	SemesterID  string  `gorm:"type:varchar(10);not null"   json:"semester_id"`
	DayOfWeek   string  `gorm:"type:varchar(10);not null"   json:"day_of_week"` // Monday..Sunday
	BaseModel

	// 关联
	Teacher  *User       `gorm:"foreignKey:TeacherID;references:UserID"                                                               json:"teacher,omitempty"`
	Class    *ClassGroup `gorm:"foreignKey:ClassID;references:ClassID"                                                                json:"class,omitempty"`
	Semester *Semester   `gorm:"foreignKey:SemesterID;references:SemesterID"                                                          json:"semester,omitempty"`
	Periods  []Period    `gorm:"many2many:course_periods;foreignKey:CourseID;joinForeignKey:CourseID;references:PeriodNumber;joinReferences:PeriodNumber" json:"periods,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// PeriodNumbers 返回课程的节次编号集合
func (c *Course) PeriodNumbers() []int {
	nums := make([]int, 0, len(c.Periods))
	for _, p := range c.Periods {
		nums = append(nums, p.PeriodNumber)
	}
	return nums
}
