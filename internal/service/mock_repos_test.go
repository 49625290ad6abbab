package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/clin92154/school-system/internal/model"
	"github.com/clin92154/school-system/internal/repository"
	pkgerrors "github.com/clin92154/school-system/pkg/errors"
)

// ── 测试用仓储聚合 ──

type testRepos struct {
	repo        *repository.Repository
	users       *mockUserRepo
	classes     *mockClassRepo
	semesters   *mockSemesterRepo
	periods     *mockPeriodRepo
	courses     *mockCourseRepo
	enrollments *mockEnrollmentRepo
	leaves      *mockLeaveRepo
	leaveTypes  *mockLeaveTypeRepo
	guardians   *mockGuardianRepo
	categories  *mockCategoryRepo
}

// newTestRepos 组装全 mock 仓储聚合（无底层数据库，BeginTx 返回 nil 事务）
func newTestRepos() *testRepos {
	users := newMockUserRepo()
	classes := newMockClassRepo()
	semesters := newMockSemesterRepo()
	periods := newMockPeriodRepo()
	courses := newMockCourseRepo()
	enrollments := newMockEnrollmentRepo(users.users)
	leaves := newMockLeaveRepo(users.users)
	leaveTypes := newMockLeaveTypeRepo()
	guardians := newMockGuardianRepo()
	categories := newMockCategoryRepo()

	repo := &repository.Repository{
		User:       users,
		ClassGroup: classes,
		Semester:   semesters,
		Period:     periods,
		Course:     courses,
		Enrollment: enrollments,
		Leave:      leaves,
		LeaveType:  leaveTypes,
		Guardian:   guardians,
		Category:   categories,
	}

	return &testRepos{
		repo:        repo,
		users:       users,
		classes:     classes,
		semesters:   semesters,
		periods:     periods,
		courses:     courses,
		enrollments: enrollments,
		leaves:      leaves,
		leaveTypes:  leaveTypes,
		guardians:   guardians,
		categories:  categories,
	}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetStudent(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok && u.Role == model.RoleStudent {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListStudentsByClass(_ context.Context, classID string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == model.RoleStudent && u.ClassID != nil && *u.ClassID == classID {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock ClassGroupRepository ──

type mockClassRepo struct {
	classes map[string]*model.ClassGroup
}

func newMockClassRepo() *mockClassRepo {
	return &mockClassRepo{classes: make(map[string]*model.ClassGroup)}
}

func (m *mockClassRepo) Create(_ context.Context, class *model.ClassGroup) error {
	m.classes[class.ClassID] = class
	return nil
}

func (m *mockClassRepo) GetByID(_ context.Context, id string) (*model.ClassGroup, error) {
	if c, ok := m.classes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) List(_ context.Context) ([]model.ClassGroup, error) {
	var result []model.ClassGroup
	for _, c := range m.classes {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockClassRepo) GetByTeacher(_ context.Context, teacherID string) (*model.ClassGroup, error) {
	for _, c := range m.classes {
		if c.TeacherID != nil && *c.TeacherID == teacherID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	semesters map[string]*model.Semester
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[string]*model.Semester)}
}

func (m *mockSemesterRepo) Create(_ context.Context, semester *model.Semester) error {
	m.semesters[semester.SemesterID] = semester
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.Semester, error) {
	if s, ok := m.semesters[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.Semester, error) {
	var result []model.Semester
	for _, s := range m.semesters {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SemesterID < result[j].SemesterID })
	return result, nil
}

func (m *mockSemesterRepo) Update(_ context.Context, semester *model.Semester) error {
	m.semesters[semester.SemesterID] = semester
	return nil
}

// ── Mock PeriodRepository ──

type mockPeriodRepo struct {
	periods map[int]*model.Period
}

func newMockPeriodRepo() *mockPeriodRepo {
	return &mockPeriodRepo{periods: make(map[int]*model.Period)}
}

func (m *mockPeriodRepo) Create(_ context.Context, period *model.Period) error {
	m.periods[period.PeriodNumber] = period
	return nil
}

func (m *mockPeriodRepo) List(_ context.Context) ([]model.Period, error) {
	var result []model.Period
	for _, p := range m.periods {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PeriodNumber < result[j].PeriodNumber })
	return result, nil
}

func (m *mockPeriodRepo) ListByNumbers(_ context.Context, nums []int) ([]model.Period, error) {
	var result []model.Period
	seen := make(map[int]bool)
	for _, n := range nums {
		if seen[n] {
			continue
		}
		seen[n] = true
		if p, ok := m.periods[n]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByIDForTeacher(_ context.Context, id, teacherID string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok && c.TeacherID == teacherID {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ListBySlot(_ context.Context, semesterID, dayOfWeek, teacherID, classID string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if c.SemesterID == semesterID && c.DayOfWeek == dayOfWeek &&
			(c.TeacherID == teacherID || c.ClassID == classID) {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) ListByTeacher(_ context.Context, teacherID, semesterID string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if c.TeacherID == teacherID && (semesterID == "" || c.SemesterID == semesterID) {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	return result, nil
}

func (m *mockCourseRepo) ListByClass(_ context.Context, classID, semesterID string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if c.ClassID == classID && (semesterID == "" || c.SemesterID == semesterID) {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) ReplacePeriods(_ context.Context, course *model.Course, periods []model.Period) error {
	course.Periods = periods
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	enrollments map[string]*model.Enrollment // key: courseID|studentID
	users       map[string]*model.User       // 用于填充 Student 关联
	nextID      uint
}

func newMockEnrollmentRepo(users map[string]*model.User) *mockEnrollmentRepo {
	return &mockEnrollmentRepo{
		enrollments: make(map[string]*model.Enrollment),
		users:       users,
		nextID:      1,
	}
}

func enrollKey(courseID, studentID string) string {
	return courseID + "|" + studentID
}

func (m *mockEnrollmentRepo) FirstOrCreate(_ context.Context, e *model.Enrollment) error {
	key := enrollKey(e.CourseID, e.StudentID)
	if existing, ok := m.enrollments[key]; ok {
		*e = *existing
		return nil
	}
	e.ID = m.nextID
	m.nextID++
	m.enrollments[key] = e
	return nil
}

func (m *mockEnrollmentRepo) GetByCourseAndStudent(_ context.Context, courseID, studentID string) (*model.Enrollment, error) {
	if e, ok := m.enrollments[enrollKey(courseID, studentID)]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) ListByCourse(_ context.Context, courseID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.CourseID == courseID {
			item := *e
			if m.users != nil {
				item.Student = m.users[e.StudentID]
			}
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StudentID < result[j].StudentID })
	return result, nil
}

func (m *mockEnrollmentRepo) ListByStudent(_ context.Context, studentID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.StudentID == studentID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SemesterID != result[j].SemesterID {
			return result[i].SemesterID < result[j].SemesterID
		}
		return result[i].CourseID < result[j].CourseID
	})
	return result, nil
}

func (m *mockEnrollmentRepo) ListByStudentAndSemester(_ context.Context, studentID, semesterID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.SemesterID == semesterID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	return result, nil
}

func (m *mockEnrollmentRepo) Update(_ context.Context, e *model.Enrollment) error {
	m.enrollments[enrollKey(e.CourseID, e.StudentID)] = e
	return nil
}

func (m *mockEnrollmentRepo) DeleteByCourse(_ context.Context, courseID string) error {
	for key, e := range m.enrollments {
		if e.CourseID == courseID {
			delete(m.enrollments, key)
		}
	}
	return nil
}

// ── Mock LeaveRepository ──

type mockLeaveRepo struct {
	leaves map[string]*model.LeaveApplication
	users  map[string]*model.User // 用于填充 Student 关联与按班级过滤
}

func newMockLeaveRepo(users map[string]*model.User) *mockLeaveRepo {
	return &mockLeaveRepo{leaves: make(map[string]*model.LeaveApplication), users: users}
}

func (m *mockLeaveRepo) Create(_ context.Context, leave *model.LeaveApplication) error {
	m.leaves[leave.LeaveID] = leave
	return nil
}

func (m *mockLeaveRepo) GetByID(_ context.Context, id string) (*model.LeaveApplication, error) {
	if l, ok := m.leaves[id]; ok {
		item := *l
		if m.users != nil {
			item.Student = m.users[l.StudentID]
			if l.ApprovedBy != nil {
				item.Approver = m.users[*l.ApprovedBy]
			}
		}
		return &item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRepo) CountByStudentAndApplyDate(_ context.Context, studentID string, applyDate time.Time) (int64, error) {
	var count int64
	day := applyDate.Format("2006-01-02")
	for _, l := range m.leaves {
		if l.StudentID == studentID && l.ApplyDate.Format("2006-01-02") == day {
			count++
		}
	}
	return count, nil
}

func (m *mockLeaveRepo) ListByStudent(_ context.Context, studentID string) ([]model.LeaveApplication, error) {
	var result []model.LeaveApplication
	for _, l := range m.leaves {
		if l.StudentID == studentID {
			result = append(result, *l)
		}
	}
	sortLeaves(result)
	return result, nil
}

func (m *mockLeaveRepo) ListByClassStudents(_ context.Context, classID string) ([]model.LeaveApplication, error) {
	var result []model.LeaveApplication
	for _, l := range m.leaves {
		u, ok := m.users[l.StudentID]
		if !ok || u.ClassID == nil || *u.ClassID != classID {
			continue
		}
		item := *l
		item.Student = u
		result = append(result, item)
	}
	sortLeaves(result)
	return result, nil
}

// sortLeaves 与 leaveRepo 的 Order("status, apply_date, leave_id") 同序
func sortLeaves(leaves []model.LeaveApplication) {
	sort.Slice(leaves, func(i, j int) bool {
		if leaves[i].Status != leaves[j].Status {
			return leaves[i].Status < leaves[j].Status
		}
		if !leaves[i].ApplyDate.Equal(leaves[j].ApplyDate) {
			return leaves[i].ApplyDate.Before(leaves[j].ApplyDate)
		}
		return leaves[i].LeaveID < leaves[j].LeaveID
	})
}

func (m *mockLeaveRepo) DecideIfPending(_ context.Context, leaveID, status, approverID string, approvedDate time.Time, remark *string) error {
	l, ok := m.leaves[leaveID]
	if !ok || l.Status != model.LeaveStatusPending {
		return pkgerrors.ErrStateConflict
	}
	l.Status = status
	l.ApprovedBy = &approverID
	l.ApprovedDate = &approvedDate
	l.Remark = remark
	return nil
}

// ── Mock LeaveTypeRepository ──

type mockLeaveTypeRepo struct {
	types map[uint]*model.LeaveType
}

func newMockLeaveTypeRepo() *mockLeaveTypeRepo {
	return &mockLeaveTypeRepo{types: make(map[uint]*model.LeaveType)}
}

func (m *mockLeaveTypeRepo) GetByID(_ context.Context, id uint) (*model.LeaveType, error) {
	if t, ok := m.types[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveTypeRepo) List(_ context.Context) ([]model.LeaveType, error) {
	var result []model.LeaveType
	for _, t := range m.types {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ── Mock GuardianRepository ──

type mockGuardianRepo struct {
	guardians map[string]*model.Guardian // key: studentID
}

func newMockGuardianRepo() *mockGuardianRepo {
	return &mockGuardianRepo{guardians: make(map[string]*model.Guardian)}
}

func (m *mockGuardianRepo) Upsert(_ context.Context, guardian *model.Guardian) error {
	m.guardians[guardian.StudentID] = guardian
	return nil
}

func (m *mockGuardianRepo) GetByStudent(_ context.Context, studentID string) (*model.Guardian, error) {
	if g, ok := m.guardians[studentID]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGuardianRepo) DeleteByStudent(_ context.Context, studentID string) error {
	delete(m.guardians, studentID)
	return nil
}

// ── Mock CategoryRepository ──

type mockCategoryRepo struct {
	categories []model.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{}
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	result := make([]model.Category, len(m.categories))
	copy(result, m.categories)
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
