package domain

// Confidence 是匹配置信度（三态枚举）。
type Confidence string

const (
	// ConfidenceHigh：存在 candidate 的 SteamID 与输入完全相等。
	ConfidenceHigh = Confidence("high")
	// ConfidenceLow：有 candidates 但无一精确匹配。
	ConfidenceLow = Confidence("low")
	// ConfidenceNone：无 candidates（含查询失败降级）。
	ConfidenceNone = Confidence("none")
)

const (
	ErrCodeInputNotFound  = "input_not_found"
	ErrCodeInputInvalid   = "input_invalid"
	ErrCodeRowParseFailed = "row_parse_failed"
	ErrCodeAuthFailed     = "auth_failed"
	ErrCodeNetworkFailed  = "network_failed"
	ErrCodeIOFailed       = "io_failed"
	ErrCodeConfigInvalid  = "config_invalid"
)

// MatchResult 是一条输入行的最终分类结果。
//
// 不变量：
// - Confidence==high 当且仅当存在 Candidate.SteamID == Record.SteamID
// - Confidence==none 当且仅当 Candidates 为空
// - 其余情况为 low
// - 查询失败的行：Candidates 为空 + ErrorCode/ErrorMsg 非空（仍计为 none）
type MatchResult struct {
	Record     GameRecord  `json:"record"`
	Candidates []Candidate `json:"candidates"`
	Confidence Confidence  `json:"confidence"`

	// Best 是用于展示的候选：high 时为首个精确匹配；low 时为平台偏好候选。
	Best *Candidate `json:"best,omitempty"`

	ErrorCode string `json:"error_code,omitempty"`
	ErrorMsg  string `json:"error_msg,omitempty"`
}
