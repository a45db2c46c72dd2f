package httpx

import (
	"errors"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const userAgent = "ggnc/1.0"

// Transport 把“API key 注入 + 限速 + 固定 UA”固化为统一策略。
//
// 设计目标：provider 只负责“定位接口 + 解析 JSON”，不关心凭证与限速细节。
// 限速放在 RoundTripper 内而不是调用方循环里，保证所有出站请求
// （包括换名重试的第二次查询）都被同一个窗口约束。
type Transport struct {
	Base http.RoundTripper

	APIKey  string
	Limiter *rate.Limiter
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	if t.Limiter != nil {
		// Wait 尊重 ctx：进程被打断时不再白等限速窗口。
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	// Clone 会复制 Header 等，避免在 RoundTripper 内部“污染”调用方的 request。
	r := req.Clone(req.Context())
	if t.APIKey != "" && r.Header.Get("X-API-Key") == "" {
		r.Header.Set("X-API-Key", t.APIKey)
	}
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", userAgent)
	}

	return t.Base.RoundTrip(r)
}

// NewAPIClient 构造用于 GGN API 查询的 HTTP client。
//
// 规则：
// - 每个请求自动带 X-API-Key 与固定 UA
// - rateCount 次 / rateWindow 的令牌桶限速（burst = rateCount，与站点窗口语义对齐）
// - timeout 是整个请求（含限速等待之外的传输时间）的总超时，必须显式传入
func NewAPIClient(apiKey string, timeout time.Duration, rateCount int, rateWindow time.Duration) *http.Client {
	var limiter *rate.Limiter
	if rateCount > 0 && rateWindow > 0 {
		limiter = rate.NewLimiter(rate.Every(rateWindow/time.Duration(rateCount)), rateCount)
	}

	return &http.Client{
		Transport: &Transport{
			Base: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 15 * time.Second,
			},
			APIKey:  apiKey,
			Limiter: limiter,
		},
		Timeout: timeout,
	}
}
