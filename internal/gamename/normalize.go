// Package gamename 负责查询前的游戏名规范化。
//
// Steam 与 GGN 两侧的命名并不一致（商标符号、撇号/引号变体、全半角差异），
// 这里把“查询用名字”的清洗规则集中到一处，provider 不做任何聪明处理。
package gamename

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// trademarks 是 Steam 名称里常见但 GGN 侧几乎不用的符号。
var trademarks = strings.NewReplacer("®", "", "™", "")

// Clean 生成查询用名字：去商标符号、NFC 规范化、压缩空白。
//
// 约束：Clean 必须是纯函数且幂等（Clean(Clean(s)) == Clean(s)），
// cache 的 key 依赖该性质。
func Clean(s string) string {
	s = trademarks.Replace(s)
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// alternates 在不同的撇号/引号变体之间互换。
// Steam 与 GGN 对这些字符的使用并不一致，首次查询失败时用替换形态再试一次。
var alternates = strings.NewReplacer(
	"'", "’",
	"’", "'",
	`"`, "“",
	"“", "”",
	"”", `"`,
)

// Alternate 返回替换撇号/引号变体后的名字。
// 若替换不产生变化（名字里没有这类字符），返回 ok=false，调用方不应重试。
func Alternate(s string) (string, bool) {
	alt := alternates.Replace(s)
	if alt == s {
		return "", false
	}
	return alt, true
}
