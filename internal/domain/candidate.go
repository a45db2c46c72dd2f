package domain

// Candidate 是 API 返回的一个 torrent group（与触发查询的那条 GameRecord 关联）。
//
// 约束：
// - GroupID 是站点侧主键，> 0
// - SteamID 为 0 表示该 group 没有 Steam weblink（不参与精确匹配）
// - Platform 仅用于低置信度时的展示偏好，不参与匹配
type Candidate struct {
	GroupID  int64  `json:"group_id"`
	Title    string `json:"title"`
	SteamID  int64  `json:"steam_id"`
	Platform string `json:"platform"`
}
