package dto

// ── 用户模块 DTO ──

// CreateUserRequest 建立用户请求（管理员）
type CreateUserRequest struct {
	UserID     string  `json:"user_id"     binding:"required,min=1,max=20"` // 学号或员工编号
	Name       string  `json:"name"        binding:"required,min=1,max=50"`
	EngName    *string `json:"eng_name"    binding:"omitempty,max=50"`
	Birthday   string  `json:"birthday"    binding:"required"` // "2008-05-12"
	Gender     string  `json:"gender"      binding:"required,oneof=male female other"`
	Role       string  `json:"role"        binding:"required,oneof=admin teacher student"`
	ClassID    *string `json:"class_id"`
	SemesterID *string `json:"semester_id"`
}

// UpdateUserRequest 更新用户请求（管理员）
type UpdateUserRequest struct {
	Name       *string `json:"name"        binding:"omitempty,min=1,max=50"`
	EngName    *string `json:"eng_name"    binding:"omitempty,max=50"`
	Birthday   *string `json:"birthday"`
	Gender     *string `json:"gender"      binding:"omitempty,oneof=male female other"`
	ClassID    *string `json:"class_id"`
	SemesterID *string `json:"semester_id"`
}

// UpdateGuardianRequest 学生维护监护人信息请求
type UpdateGuardianRequest struct {
	Name         string `json:"name"         binding:"required,min=1,max=50"`
	PhoneNumber  string `json:"phone_number" binding:"required,max=20"`
	Relationship string `json:"relationship" binding:"required,max=20"`
	Address      string `json:"address"      binding:"omitempty,max=200"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	UserID   string      `json:"user_id"`
	Name     string      `json:"name"`
	EngName  *string     `json:"eng_name,omitempty"`
	Birthday string      `json:"birthday"`
	Gender   string      `json:"gender"`
	Role     string      `json:"role"`
	Class    *ClassBrief `json:"class,omitempty"`
}

// CreateUserResponse 建立用户成功响应，附带初始密码提示
type CreateUserResponse struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	InitialPassword string `json:"initial_password"`
}

// GuardianResponse 监护人信息响应
type GuardianResponse struct {
	GuardianID   string `json:"guardian_id"`
	StudentID    string `json:"student_id"`
	Name         string `json:"name"`
	PhoneNumber  string `json:"phone_number"`
	Relationship string `json:"relationship"`
	Address      string `json:"address,omitempty"`
}

// StudentBrief 学生简要信息
type StudentBrief struct {
	UserID  string  `json:"user_id"`
	Name    string  `json:"name"`
	EngName *string `json:"eng_name,omitempty"`
}
