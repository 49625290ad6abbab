package dto

// ── 功能目录模块 DTO ──

// CategoryResponse 功能目录节点响应，按用户角色过滤后返回
type CategoryResponse struct {
	ID       uint               `json:"id"`
	Name     string             `json:"name"`
	URL      *string            `json:"url,omitempty"`
	Children []CategoryResponse `json:"children,omitempty"`
}
