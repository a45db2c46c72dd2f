package domain

import (
	"encoding/json"
	"time"
)

// RunReport 是对外稳定输出（output.html / stdout JSON）的结构。
//
// 确定性约定：Results/Skipped 保持输入顺序；summary 由 Finalize 计算。
// 时间戳只进 JSON，不进 HTML（HTML 要求逐字节可复现）。
type RunReport struct {
	CSVPath    string `json:"csv_path"`
	OutputPath string `json:"output_path"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Results []MatchResult `json:"results"`
	Skipped []SkippedRow  `json:"skipped"`
}

type ReportSummary struct {
	High    int `json:"high"`
	Low     int `json:"low"`
	None    int `json:"none"`
	Skipped int `json:"skipped"`
}

// Finalize 做两件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) summary 由 Results/Skipped 计算得出
//
// 注意：不排序。结果顺序就是输入顺序（与 CSV 可逐行对照）。
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	var s ReportSummary
	for _, res := range r.Results {
		switch res.Confidence {
		case ConfidenceHigh:
			s.High++
		case ConfidenceLow:
			s.Low++
		case ConfidenceNone:
			s.None++
		}
	}
	s.Skipped = len(r.Skipped)
	r.Summary = s
}

// MarshalJSON 仅用于集中约束输出的稳定性（避免未来不小心引入非确定字段）。
// 当前只是透传 encoding/json 的默认行为。
func (r RunReport) MarshalJSON() ([]byte, error) {
	type Alias RunReport
	return json.Marshal(Alias(r))
}
