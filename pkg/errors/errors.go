package errors

import "errors"

// ErrStateConflict 条件更新未命中：记录已被其他操作改变状态
var ErrStateConflict = errors.New("数据状态已被其他操作改变，请刷新后重试")
