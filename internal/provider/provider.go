package provider

import (
	"context"
	"net/http"

	"github.com/John-Robertt/GGNC/internal/domain"
)

// Provider 把“站点变化”限制在 provider 包内部；核心流程只依赖统一接口与稳定的 Candidate。
//
// 约束：
// - Fetch 不做缓存、不做限速（这些由核心 httpx/cache 层统一实现）
// - Parse 必须是纯函数：相同输入 => 相同输出
// - reqURL 用于错误信息与调试追溯
type Provider interface {
	Name() string
	Fetch(ctx context.Context, name string, c *http.Client) (body []byte, reqURL string, err error)
	Parse(name string, body []byte) ([]domain.Candidate, error)
}

// Lookup 对一个游戏名执行 Fetch+Parse，返回候选列表（可能为空）。
//
// 错误语义：
// - AuthError：凭证无效，调用方必须中止整次运行
// - 其他错误：单条记录级失败，调用方降级为空候选（none 置信度）
func Lookup(ctx context.Context, p Provider, name string, c *http.Client) ([]domain.Candidate, error) {
	body, reqURL, err := p.Fetch(ctx, name, c)
	if err != nil {
		// Error.Unwrap 保证 errors.As 仍能看到内部的 AuthError。
		return nil, &Error{Provider: p.Name(), Stage: "fetch", URL: reqURL, Err: err}
	}
	cands, err := p.Parse(name, body)
	if err != nil {
		return nil, &Error{Provider: p.Name(), Stage: "parse", URL: reqURL, Err: err}
	}
	return cands, nil
}
