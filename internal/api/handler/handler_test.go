package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clin92154/school-system/internal/dto"
	"github.com/clin92154/school-system/internal/service"
	"github.com/clin92154/school-system/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult *dto.TokenResponse
	loginErr    error
	logoutErr   error
	resetErr    error
	userResult  *dto.UserResponse
	userErr     error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}
func (m *mockAuthService) ResetPassword(_ context.Context, _ string, _ *dto.ResetPasswordRequest) error {
	return m.resetErr
}
func (m *mockAuthService) GetUserInfo(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.userResult, m.userErr
}

// ── Mock CourseService ──

type mockCourseService struct {
	createResult   *dto.CourseResponse
	createErr      error
	updateResult   *dto.CourseResponse
	updateErr      error
	deleteErr      error
	getResult      *dto.CourseResponse
	getErr         error
	listResult     []dto.CourseResponse
	listErr        error
	scheduleResult []dto.CourseResponse
	scheduleErr    error
	studentsResult []dto.CourseStudentResponse
	studentsErr    error
}

func (m *mockCourseService) Create(_ context.Context, _ string, _ *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockCourseService) Update(_ context.Context, _, _ string, _ *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockCourseService) Delete(_ context.Context, _, _ string) error {
	return m.deleteErr
}
func (m *mockCourseService) Get(_ context.Context, _ string) (*dto.CourseResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockCourseService) List(_ context.Context, _, _, _, _ string) ([]dto.CourseResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockCourseService) Schedule(_ context.Context, _, _, _, _ string) ([]dto.CourseResponse, error) {
	return m.scheduleResult, m.scheduleErr
}
func (m *mockCourseService) ListStudents(_ context.Context, _, _ string) ([]dto.CourseStudentResponse, error) {
	return m.studentsResult, m.studentsErr
}

// ── Mock GradeService ──

type mockGradeService struct {
	inputErr       error
	rankResult     []dto.GradeRankResponse
	rankErr        error
	myResult       []dto.StudentGradeResponse
	myErr          error
	semesterResult *dto.SemesterGradesResponse
	semesterErr    error
	historyResult  []dto.SemesterGradesResponse
	historyErr     error
	exportBuf      *bytes.Buffer
	exportFilename string
	exportErr      error
}

func (m *mockGradeService) InputGrades(_ context.Context, _, _ string, _ *dto.InputGradesRequest) error {
	return m.inputErr
}
func (m *mockGradeService) CourseRank(_ context.Context, _, _ string) ([]dto.GradeRankResponse, error) {
	return m.rankResult, m.rankErr
}
func (m *mockGradeService) MyGrades(_ context.Context, _ string) ([]dto.StudentGradeResponse, error) {
	return m.myResult, m.myErr
}
func (m *mockGradeService) SemesterGrades(_ context.Context, _, _ string) (*dto.SemesterGradesResponse, error) {
	return m.semesterResult, m.semesterErr
}
func (m *mockGradeService) GradeHistory(_ context.Context, _ string) ([]dto.SemesterGradesResponse, error) {
	return m.historyResult, m.historyErr
}
func (m *mockGradeService) ExportCourseGrades(_ context.Context, _, _ string) (*bytes.Buffer, string, error) {
	return m.exportBuf, m.exportFilename, m.exportErr
}

// ── Mock LeaveService ──

type mockLeaveService struct {
	applyResult  *dto.LeaveResponse
	applyErr     error
	decideResult *dto.LeaveResponse
	decideErr    error
	detailResult *dto.LeaveResponse
	detailErr    error
	listResult   []dto.LeaveResponse
	listErr      error
	typesResult  []dto.LeaveTypeResponse
	typesErr     error
}

func (m *mockLeaveService) Apply(_ context.Context, _ string, _ *dto.CreateLeaveRequest) (*dto.LeaveResponse, error) {
	return m.applyResult, m.applyErr
}
func (m *mockLeaveService) Decide(_ context.Context, _, _ string, _ *dto.DecideLeaveRequest) (*dto.LeaveResponse, error) {
	return m.decideResult, m.decideErr
}
func (m *mockLeaveService) Detail(_ context.Context, _, _, _ string) (*dto.LeaveResponse, error) {
	return m.detailResult, m.detailErr
}
func (m *mockLeaveService) List(_ context.Context, _, _ string) ([]dto.LeaveResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockLeaveService) ListLeaveTypes(_ context.Context) ([]dto.LeaveTypeResponse, error) {
	return m.typesResult, m.typesErr
}

// ── Mock UserService ──

type mockUserService struct {
	createResult   *dto.CreateUserResponse
	createErr      error
	profileResult  *dto.UserResponse
	profileErr     error
	updateResult   *dto.UserResponse
	updateErr      error
	studentResult  *dto.UserResponse
	studentErr     error
	studentsResult []dto.StudentBrief
	studentsErr    error
	guardianResult *dto.GuardianResponse
	guardianErr    error
	upsertResult   *dto.GuardianResponse
	upsertErr      error
}

func (m *mockUserService) Create(_ context.Context, _ *dto.CreateUserRequest) (*dto.CreateUserResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockUserService) GetProfile(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.profileResult, m.profileErr
}
func (m *mockUserService) UpdateProfile(_ context.Context, _ string, _ *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockUserService) GetStudentDetail(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.studentResult, m.studentErr
}
func (m *mockUserService) ListClassStudents(_ context.Context, _ string) ([]dto.StudentBrief, error) {
	return m.studentsResult, m.studentsErr
}
func (m *mockUserService) GetGuardian(_ context.Context, _ string) (*dto.GuardianResponse, error) {
	return m.guardianResult, m.guardianErr
}
func (m *mockUserService) UpsertGuardian(_ context.Context, _ string, _ *dto.UpdateGuardianRequest) (*dto.GuardianResponse, error) {
	return m.upsertResult, m.upsertErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set("user_id", "T001")
	c.Set("role", "teacher")
	c.Set("class_id", "2024-A")
	c.Set("jti", "test-jti")
	c.Set("token_exp", time.Now().Add(30*time.Minute))
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    1800,
		},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		UserID:   "T001",
		Password: "0512Test!",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		UserID:   "T001",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_ResetPassword_Mismatch(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{resetErr: service.ErrPasswordMismatch})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/reset-password", jsonBody(dto.ResetPasswordRequest{
		OldPassword:     "0512Test!",
		NewPassword:     "NewPass2024!",
		ConfirmPassword: "Different2024!",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/reset-password", func(c *gin.Context) {
		setAuth(c)
		h.ResetPassword(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11003 {
		t.Errorf("expected error code 11003, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CourseHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCourseHandler_CreateCourse_Success(t *testing.T) {
	mock := &mockCourseService{
		createResult: &dto.CourseResponse{CourseID: "C0000001", Name: "数学"},
	}
	h := NewCourseHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/courses", jsonBody(dto.CreateCourseRequest{
		Name:       "数学",
		ClassID:    "2024-A",
		SemesterID: "2024-1",
		DayOfWeek:  "Monday",
		Periods:    []int{1, 2},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/courses", func(c *gin.Context) {
		setAuth(c)
		h.CreateCourse(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestCourseHandler_CreateCourse_Conflict(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{createErr: service.ErrCourseConflict})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/courses", jsonBody(dto.CreateCourseRequest{
		Name:       "数学",
		ClassID:    "2024-A",
		SemesterID: "2024-1",
		DayOfWeek:  "Monday",
		Periods:    []int{1},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/courses", func(c *gin.Context) {
		setAuth(c)
		h.CreateCourse(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14002 {
		t.Errorf("expected error code 14002, got %d", resp.Code)
	}
}

func TestCourseHandler_UpdateCourse_NotFound(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{updateErr: service.ErrCourseNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/courses/C0000001", jsonBody(dto.UpdateCourseRequest{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/courses/:id", func(c *gin.Context) {
		setAuth(c)
		h.UpdateCourse(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestCourseHandler_ListCourses_Success(t *testing.T) {
	mock := &mockCourseService{
		listResult: []dto.CourseResponse{{CourseID: "C0000001", Name: "数学"}},
	}
	h := NewCourseHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/courses", nil)

	r := gin.New()
	r.GET("/courses", func(c *gin.Context) {
		setAuth(c)
		h.ListCourses(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// GradeHandler Tests
// ═══════════════════════════════════════════════════════════

func TestGradeHandler_InputGrades_StudentNotInCourse(t *testing.T) {
	h := NewGradeHandler(&mockGradeService{inputErr: service.ErrGradeStudentNotInCourse})

	w := httptest.NewRecorder()
	score := 80.0
	req := httptest.NewRequest("POST", "/courses/C0000001/grades", jsonBody(dto.InputGradesRequest{
		Grades: []dto.GradeItemRequest{{StudentID: "S999", MiddleScore: &score}},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/courses/:id/grades", func(c *gin.Context) {
		setAuth(c)
		h.InputGrades(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15001 {
		t.Errorf("expected error code 15001, got %d", resp.Code)
	}
}

func TestGradeHandler_ExportCourseGrades_SetsDownloadHeaders(t *testing.T) {
	mock := &mockGradeService{
		exportBuf:      bytes.NewBufferString("xlsx-bytes"),
		exportFilename: "2024-1-数学-成绩表.xlsx",
	}
	h := NewGradeHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/courses/C0000001/grades/export", nil)

	r := gin.New()
	r.GET("/courses/:id/grades/export", func(c *gin.Context) {
		setAuth(c)
		h.ExportCourseGrades(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	cd := w.Header().Get("Content-Disposition")
	if cd == "" {
		t.Error("expected Content-Disposition header to be set")
	}
	ct := w.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected Content-Type: %s", ct)
	}
}

func TestGradeHandler_SemesterGrades_NoGrades(t *testing.T) {
	h := NewGradeHandler(&mockGradeService{semesterErr: service.ErrNoGrades})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/grades/semester/2024-1", nil)

	r := gin.New()
	r.GET("/grades/semester/:semester_id", func(c *gin.Context) {
		setAuth(c)
		h.SemesterGrades(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15002 {
		t.Errorf("expected error code 15002, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// LeaveHandler Tests
// ═══════════════════════════════════════════════════════════

func TestLeaveHandler_ApplyLeave_Success(t *testing.T) {
	mock := &mockLeaveService{
		applyResult: &dto.LeaveResponse{LeaveID: "202409021S0010", Status: "pending"},
	}
	h := NewLeaveHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/leaves", jsonBody(dto.CreateLeaveRequest{
		LeaveTypeID: 1,
		Reason:      "发烧就医",
		StartDate:   "2024-09-02",
		EndDate:     "2024-09-03",
		Periods:     []int{1, 2},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/leaves", func(c *gin.Context) {
		setAuth(c)
		h.ApplyLeave(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestLeaveHandler_DecideLeave_AlreadyDecided(t *testing.T) {
	h := NewLeaveHandler(&mockLeaveService{decideErr: service.ErrLeaveAlreadyDecided})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/leaves/202409021S0010/decision", jsonBody(dto.DecideLeaveRequest{
		Status: "approved",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/leaves/:id/decision", func(c *gin.Context) {
		setAuth(c)
		h.DecideLeave(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 16004 {
		t.Errorf("expected error code 16004, got %d", resp.Code)
	}
}

func TestLeaveHandler_DecideLeave_Forbidden(t *testing.T) {
	h := NewLeaveHandler(&mockLeaveService{decideErr: service.ErrLeaveForbidden})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/leaves/202409021S0010/decision", jsonBody(dto.DecideLeaveRequest{
		Status: "rejected",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/leaves/:id/decision", func(c *gin.Context) {
		setAuth(c)
		h.DecideLeave(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestLeaveHandler_DecideLeave_InvalidStatus(t *testing.T) {
	h := NewLeaveHandler(&mockLeaveService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/leaves/202409021S0010/decision", jsonBody(map[string]string{
		"status": "cancelled",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/leaves/:id/decision", func(c *gin.Context) {
		setAuth(c)
		h.DecideLeave(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// UserHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_CreateUser_Success(t *testing.T) {
	mock := &mockUserService{
		createResult: &dto.CreateUserResponse{
			UserID:          "S001",
			Name:            "小明",
			InitialPassword: "0512Test!",
		},
	}
	h := NewUserHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users", jsonBody(dto.CreateUserRequest{
		UserID:   "S001",
		Name:     "小明",
		Birthday: "2008-05-12",
		Gender:   "M",
		Role:     "student",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/users", func(c *gin.Context) {
		setAuth(c)
		h.CreateUser(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestUserHandler_CreateUser_Duplicate(t *testing.T) {
	h := NewUserHandler(&mockUserService{createErr: service.ErrUserExists})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users", jsonBody(dto.CreateUserRequest{
		UserID:   "S001",
		Name:     "小明",
		Birthday: "2008-05-12",
		Gender:   "M",
		Role:     "student",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/users", func(c *gin.Context) {
		setAuth(c)
		h.CreateUser(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12002 {
		t.Errorf("expected error code 12002, got %d", resp.Code)
	}
}

func TestUserHandler_GetGuardian_NotSet(t *testing.T) {
	h := NewUserHandler(&mockUserService{guardianErr: service.ErrGuardianNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/guardian", nil)

	r := gin.New()
	r.GET("/users/guardian", func(c *gin.Context) {
		setAuth(c)
		h.GetGuardian(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
