package provider

import (
	"errors"
	"fmt"
)

// Error 是 provider 阶段的可追溯错误。
// 上层据此把失败归类为 network_failed，并写入 report。
type Error struct {
	Provider string // provider name（小写）
	Stage    string // "fetch" 或 "parse"
	URL      string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider=%s stage=%s: %v", e.Provider, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatusError 表示站点返回了非 2xx 的 HTTP 状态码。
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// AuthError 表示 API key 无效/过期（HTTP 401/403 或站点侧的 key 报错）。
//
// 产品约束：key 是进程级凭证，单条记录的 AuthError 意味着后续全部都会失败，
// 上层必须中止整次运行，而不是逐条重试。
type AuthError struct {
	URL    string
	Reason string
}

func (e *AuthError) Error() string {
	if e == nil || e.Reason == "" {
		return "API key 无效"
	}
	return "API key 无效：" + e.Reason
}

// IsAuth 判断 err 链上是否有 AuthError。
func IsAuth(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}
