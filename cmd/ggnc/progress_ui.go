package main

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/John-Robertt/GGNC/internal/app/run"
	"github.com/John-Robertt/GGNC/internal/config"
	"github.com/John-Robertt/GGNC/internal/domain"
)

var _ run.Observer = (*progressUI)(nil)

// progressUI 是查询进度的终端输出。
//
// 设计目标：
// - 所有过程信息写到 stderr，不污染 stdout 的 JSON 输出契约
// - 默认模式：一条进度条（逐条查询可能较慢，限速窗口内会停顿）
// - verbose 模式：不用进度条，逐条一行（名字、置信度、URL、耗时）
type progressUI struct {
	w       io.Writer
	verbose bool

	bar *progressbar.ProgressBar
}

func newProgressUI(w io.Writer, verbose bool) *progressUI {
	return &progressUI{w: w, verbose: verbose}
}

func (p *progressUI) OnStart(eff config.EffectiveConfig) {
	fmt.Fprintf(p.w, "[%s] GGNC run\n", time.Now().Format("15:04:05"))
	fmt.Fprintln(p.w, "配置（生效）:")
	fmt.Fprintf(p.w, "  csv: %s\n", eff.CSVPath)
	fmt.Fprintf(p.w, "  output: %s\n", eff.OutputPath)
	if p.verbose {
		fmt.Fprintf(p.w, "  base_url: %s\n", eff.BaseURL)
		fmt.Fprintf(p.w, "  timeout: %s\n", eff.Timeout)
		fmt.Fprintf(p.w, "  rate: %d 次 / %s\n", eff.RateCount, eff.RateWindow)
		fmt.Fprintf(p.w, "  cache: %s\n", onOff(eff.Cache))
	}
	fmt.Fprintln(p.w)
}

func (p *progressUI) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	switch name {
	case "load":
		fmt.Fprintf(p.w, "读取: records=%d skipped=%d (%s)\n",
			intField(fields, "records"), intField(fields, "skipped"), formatShortDuration(dur),
		)
		if !p.verbose {
			p.bar = progressbar.NewOptions(intField(fields, "records"),
				progressbar.OptionSetWriter(p.w),
				progressbar.OptionSetDescription("查询"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
	case "lookup":
		if p.bar != nil {
			_ = p.bar.Finish()
			p.bar = nil
		}
		fmt.Fprintf(p.w, "查询: high=%d low=%d none=%d (%s)\n",
			intField(fields, "high"), intField(fields, "low"), intField(fields, "none"), formatShortDuration(dur),
		)
	default:
		// 兜底：未知阶段也不要静默（便于调试/演进）。
		fmt.Fprintf(p.w, "%s (%s)\n", name, formatShortDuration(dur))
	}
}

func (p *progressUI) OnRecordDone(idx, total int, res domain.MatchResult, dur time.Duration) {
	if !p.verbose {
		if p.bar != nil {
			_ = p.bar.Add(1)
		}
		return
	}

	switch {
	case res.ErrorCode != "":
		fmt.Fprintf(p.w, "[%d/%d] %s FAIL %s: %s (%s)\n",
			idx, total, res.Record.Name, res.ErrorCode, truncate(res.ErrorMsg, 160), formatShortDuration(dur),
		)
	case res.Confidence == domain.ConfidenceHigh:
		fmt.Fprintf(p.w, "[%d/%d] %s HIGH group=%d %s (%s)\n",
			idx, total, res.Record.Name, res.Best.GroupID, res.Best.Title, formatShortDuration(dur),
		)
	case res.Confidence == domain.ConfidenceLow:
		fmt.Fprintf(p.w, "[%d/%d] %s LOW candidates=%d best=%d (%s)\n",
			idx, total, res.Record.Name, len(res.Candidates), res.Best.GroupID, formatShortDuration(dur),
		)
	default:
		fmt.Fprintf(p.w, "[%d/%d] %s NONE (%s)\n",
			idx, total, res.Record.Name, formatShortDuration(dur),
		)
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func intField(fields map[string]any, key string) int {
	if fields == nil {
		return 0
	}
	if v, ok := fields[key].(int); ok {
		return v
	}
	return 0
}

func formatShortDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
