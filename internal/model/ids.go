package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// 派生主键构造函数。
// 所有人类可读主键（班级、学期、请假单、监护人）一律在创建时
// 由这里构造一次，之后不再重算。

// NewClassID 班级主键："<年份>-<班别字母>"，如 "2024-A"
func NewClassID(year int, className string) string {
	return fmt.Sprintf("%d-%s", year, className)
}

// NewSemesterID 学期主键："<年份>-<学期别>"，如 "2024-1"
func NewSemesterID(year int, term string) string {
	return fmt.Sprintf("%d-%s", year, term)
}

// NewLeaveID 请假单主键：申请日期 + 请假类型 + 学号 + 当日序号
// 如 "20241125" + "2" + "S001" + "0" → "202411252S0010"
func NewLeaveID(applyDate time.Time, leaveTypeID uint, studentID string, sameDayCount int64) string {
	return fmt.Sprintf("%s%d%s%d", applyDate.Format("20060102"), leaveTypeID, studentID, sameDayCount)
}

// NewGuardianID 监护人主键："g<学号>"
func NewGuardianID(studentID string) string {
	return "g" + studentID
}

// NewCourseID 课程随机主键：8 位大写 token（未显式指定 course_id 时使用）
func NewCourseID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// DefaultPassword 未指定密码的新用户默认密码：生日月日 + "Test!"
func DefaultPassword(birthday time.Time) string {
	return birthday.Format("0102") + "Test!"
}
