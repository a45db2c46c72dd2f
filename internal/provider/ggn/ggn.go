// Package ggn 实现 GazelleGames（GGN）JSON API 的查询与解析。
package ggn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/John-Robertt/GGNC/internal/domain"
	"github.com/John-Robertt/GGNC/internal/gamename"
	providerx "github.com/John-Robertt/GGNC/internal/provider"
)

// Provider 实现 GGN 的 torrentgroup 查询。
//
// 约束：
// - Fetch/Parse 不做缓存/限速（由上层统一控制）；API key 由 httpx 统一注入
// - Parse 必须是纯函数（依赖输入 body）
// - 首次查询报 failure 时，用撇号/引号替换形态重试一次（两侧命名不一致的兜底）
type Provider struct {
	// BaseURL 允许指定 GGN 的可用域名（镜像/测试）。
	// 为空时使用默认的 https://gazellegames.net。
	BaseURL string
}

func (Provider) Name() string { return "ggn" }

func (p Provider) baseURL() string {
	u := strings.TrimSpace(p.BaseURL)
	if u == "" {
		return "https://gazellegames.net"
	}
	return strings.TrimRight(u, "/")
}

// probe 只解码判定所需的最小字段（是否 failure / 错误文案）。
type probe struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Fetch 查询 torrentgroup：
// <base>/api.php?request=torrentgroup&name=<name>
//
// 站点报 failure 且名字存在撇号/引号变体时，自动用变体重试一次，
// 返回两次中“更有结果”的那次 body。
func (p Provider) Fetch(ctx context.Context, name string, c *http.Client) ([]byte, string, error) {
	if c == nil {
		return nil, "", errors.New("http client 不能为空")
	}
	if strings.TrimSpace(name) == "" {
		return nil, "", errors.New("name 不能为空")
	}

	reqURL := p.queryURL(name)
	body, err := fetchURL(ctx, c, reqURL)
	if err != nil {
		return nil, reqURL, err
	}

	var pr probe
	if e := json.Unmarshal(body, &pr); e != nil {
		return nil, reqURL, fmt.Errorf("响应不是合法 JSON：%w", e)
	}
	if isAuthFailure(pr) {
		return nil, reqURL, &providerx.AuthError{URL: reqURL, Reason: pr.Error}
	}
	if pr.Status != "failure" {
		return body, reqURL, nil
	}

	// failure 多半是“查无此名”；换一种撇号/引号写法也许能命中。
	alt, ok := gamename.Alternate(name)
	if !ok {
		return body, reqURL, nil
	}
	altURL := p.queryURL(alt)
	altBody, err := fetchURL(ctx, c, altURL)
	if err != nil {
		// 重试是尽力而为：失败时退回首次的 body（解析为“无结果”）。
		return body, reqURL, nil
	}
	var altPr probe
	if e := json.Unmarshal(altBody, &altPr); e != nil {
		return body, reqURL, nil
	}
	if isAuthFailure(altPr) {
		return nil, altURL, &providerx.AuthError{URL: altURL, Reason: altPr.Error}
	}
	if altPr.Status == "failure" {
		return body, reqURL, nil
	}
	return altBody, altURL, nil
}

func (p Provider) queryURL(name string) string {
	return p.baseURL() + "/api.php?request=torrentgroup&name=" + url.QueryEscape(name)
}

// 响应结构（只取需要的字段）：
// {"status":"success","response":{"groups":{"<id>":{"name":...,"platform":...,"weblinks":...}}}}
type apiResponse struct {
	Status   string `json:"status"`
	Error    string `json:"error"`
	Response struct {
		Groups map[string]apiGroup `json:"groups"`
	} `json:"response"`
}

type apiGroup struct {
	Name     string `json:"name"`
	Platform string `json:"platform"`
	// weblinks 在不同 group 上可能是对象（{"Steam": url}）也可能是数组。
	Weblinks json.RawMessage `json:"weblinks"`
}

// Parse 把 API 响应解析为按 GroupID 升序的候选列表。
//
// groups 是 JSON 对象（map），迭代顺序不稳定；这里排序以保证全流程确定性。
// status=failure（非 auth）意味着无结果：返回空列表而非错误。
func (Provider) Parse(name string, body []byte) ([]domain.Candidate, error) {
	if len(body) == 0 {
		return nil, errors.New("body 为空")
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("响应解析失败：%w", err)
	}
	if isAuthFailure(probe{Status: resp.Status, Error: resp.Error}) {
		return nil, &providerx.AuthError{Reason: resp.Error}
	}
	if resp.Status == "failure" {
		return nil, nil
	}

	cands := make([]domain.Candidate, 0, len(resp.Response.Groups))
	for rawID, g := range resp.Response.Groups {
		gid, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
		if err != nil || gid <= 0 {
			continue
		}
		cands = append(cands, domain.Candidate{
			GroupID:  gid,
			Title:    strings.TrimSpace(g.Name),
			SteamID:  steamIDFromWeblinks(g.Weblinks),
			Platform: strings.TrimSpace(g.Platform),
		})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].GroupID < cands[j].GroupID })
	return cands, nil
}

// isAuthFailure 判断 failure 是否为凭证问题（区别于“查无此名”）。
func isAuthFailure(pr probe) bool {
	if pr.Status != "failure" {
		return false
	}
	e := strings.ToLower(pr.Error)
	return strings.Contains(e, "api key") || strings.Contains(e, "apikey") || strings.Contains(e, "token")
}

// steamIDFromWeblinks 从 weblinks 中提取 Steam AppID；无 Steam 链接返回 0。
// weblinks 的两种形态都要支持：{"Steam": url} 与 [url, ...]。
func steamIDFromWeblinks(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}

	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err == nil {
		return steamIDFromURL(asMap["Steam"])
	}

	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil {
		for _, link := range asList {
			if strings.Contains(link, "Steam") || strings.Contains(link, "steampowered.com") {
				if id := steamIDFromURL(link); id > 0 {
					return id
				}
			}
		}
	}
	return 0
}

// steamIDFromURL 解析形如 https://store.steampowered.com/app/400/Portal/ 的 AppID。
func steamIDFromURL(u string) int64 {
	const marker = "/app/"
	i := strings.Index(u, marker)
	if i < 0 {
		return 0
	}
	rest := u[i+len(marker):]
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		rest = rest[:j]
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func fetchURL(ctx context.Context, c *http.Client, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &providerx.AuthError{URL: u, Reason: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &providerx.HTTPStatusError{URL: u, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
