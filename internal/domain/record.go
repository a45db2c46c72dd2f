package domain

// GameRecord 描述 CSV 中的一行输入（name + Steam AppID）。
//
// 不变量（实现必须遵守）：
// - Name 已做规范化（去 ®/™、NFC、压缩空白）
// - SteamID 必须是正整数（非法行在 input 层即被跳过，不会进入流程）
// - Row 是 CSV 中的行号（含表头，从 1 开始），仅用于报告定位
type GameRecord struct {
	Name    string `json:"name"`
	SteamID int64  `json:"steam_id"`
	Row     int    `json:"row"`
}

// SkippedRow 描述被跳过的非法输入行（空字段 / id 非整数）。
// 用于 report 末尾的 skipped 列表，保证“输入行数 = 结果数 + 跳过数”可核对。
type SkippedRow struct {
	Row    int    `json:"row"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}
