package run

import (
	"context"
	"net/http"
	"time"

	"github.com/John-Robertt/GGNC/internal/config"
	"github.com/John-Robertt/GGNC/internal/domain"
	"github.com/John-Robertt/GGNC/internal/infra/cache"
	"github.com/John-Robertt/GGNC/internal/infra/httpx"
	"github.com/John-Robertt/GGNC/internal/input"
	"github.com/John-Robertt/GGNC/internal/match"
	"github.com/John-Robertt/GGNC/internal/provider"
)

// Execute 执行一次完整流程（读 CSV -> 逐条查询 -> 分类），返回 RunReport。
//
// 错误语义：
// - 返回 error 非 nil：致命（输入不可用 / API key 无效），上层以非零码退出
// - 单条记录的查询失败降级为 none 置信度的结果项，不中断运行
func Execute(ctx context.Context, eff config.EffectiveConfig, p provider.Provider) (domain.RunReport, error) {
	return ExecuteWithObserver(ctx, eff, p, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer
// 以输出进度/阶段信息（由上层决定是否启用）。
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, p provider.Provider, obs Observer) (domain.RunReport, error) {
	started := time.Now().UTC()

	if obs != nil {
		obs.OnStart(eff)
	}

	rr := domain.RunReport{
		CSVPath:    eff.CSVPath,
		OutputPath: eff.OutputPath,
		StartedAt:  started,
	}

	loadStarted := time.Now()
	records, skipped, err := input.Load(eff.CSVPath)
	if err != nil {
		return domain.RunReport{}, err
	}
	rr.Skipped = skipped
	rr.Results = make([]domain.MatchResult, 0, len(records))

	if obs != nil {
		obs.OnPhaseDone("load", map[string]any{
			"records": len(records),
			"skipped": len(skipped),
		}, time.Since(loadStarted))
	}

	client := httpx.NewAPIClient(eff.APIKey, eff.Timeout, eff.RateCount, eff.RateWindow)
	store := cache.New(eff.WorkDir, !eff.Cache)

	// 严格串行：按输入顺序逐条处理，上一条的响应（或失败）落定后才开始下一条。
	lookupStarted := time.Now()
	for i, rec := range records {
		oneStarted := time.Now()

		cands, err := lookupCandidates(ctx, p, rec.Name, client, store, eff.Cache)
		var res domain.MatchResult
		switch {
		case err == nil:
			res = match.Classify(rec, cands)
		case provider.IsAuth(err):
			// key 是进程级凭证：一条 auth 失败意味着全部都会失败，立即中止。
			return domain.RunReport{}, err
		case ctx.Err() != nil:
			// ctx 已取消：剩余记录不再查询，直接中止（更可解释）。
			return domain.RunReport{}, ctx.Err()
		default:
			res = domain.MatchResult{
				Record:     rec,
				Confidence: domain.ConfidenceNone,
				ErrorCode:  domain.ErrCodeNetworkFailed,
				ErrorMsg:   err.Error(),
			}
		}

		rr.Results = append(rr.Results, res)
		if obs != nil {
			obs.OnRecordDone(i+1, len(records), res, time.Since(oneStarted))
		}
	}

	if obs != nil {
		var high, low, none int
		for _, res := range rr.Results {
			switch res.Confidence {
			case domain.ConfidenceHigh:
				high++
			case domain.ConfidenceLow:
				low++
			default:
				none++
			}
		}
		obs.OnPhaseDone("lookup", map[string]any{
			"high": high,
			"low":  low,
			"none": none,
		}, time.Since(lookupStarted))
	}

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr, nil
}

// lookupCandidates 对一条记录取候选列表。
//
// cache 启用时：先读缓存（命中则不打网络、不占限速窗口）；
// 网络查询成功后写回缓存。坏缓存（解析失败）忽略，走网络。
func lookupCandidates(ctx context.Context, p provider.Provider, name string, client *http.Client, store cache.Store, useCache bool) ([]domain.Candidate, error) {
	if !useCache {
		return provider.Lookup(ctx, p, name, client)
	}

	if b, ok, err := store.ReadLookup(name); err == nil && ok {
		if cands, e := p.Parse(name, b); e == nil {
			return cands, nil
		}
	}

	body, reqURL, err := p.Fetch(ctx, name, client)
	if err != nil {
		return nil, &provider.Error{Provider: p.Name(), Stage: "fetch", URL: reqURL, Err: err}
	}
	_ = store.WriteLookup(name, body)

	cands, err := p.Parse(name, body)
	if err != nil {
		return nil, &provider.Error{Provider: p.Name(), Stage: "parse", URL: reqURL, Err: err}
	}
	return cands, nil
}
