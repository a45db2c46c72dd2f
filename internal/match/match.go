// Package match 负责把候选列表归类为 high/low/none 三档置信度。
package match

import "github.com/John-Robertt/GGNC/internal/domain"

// preferredPlatforms 是低置信度展示候选的平台偏好（索引越小越优先）。
var preferredPlatforms = []string{"Windows", "Mac", "Linux"}

// Classify 按固定规则生成 MatchResult：
//
// - high：存在 SteamID 精确相等的候选；多个时取首个（candidates 已按 GroupID 升序）
// - low：有候选但无精确匹配；Best 取平台偏好 Windows > Mac > Linux 中
//   无 Steam 链接的候选（两侧都有 Steam 链接却不相等，基本可断定不是同一作品），
//   全都不符合时取首个候选
// - none：候选为空
//
// 比较是精确整数相等；不做任何模糊匹配。
func Classify(rec domain.GameRecord, cands []domain.Candidate) domain.MatchResult {
	res := domain.MatchResult{
		Record:     rec,
		Candidates: cands,
		Confidence: domain.ConfidenceNone,
	}
	if len(cands) == 0 {
		return res
	}

	for i := range cands {
		if cands[i].SteamID != 0 && cands[i].SteamID == rec.SteamID {
			res.Confidence = domain.ConfidenceHigh
			res.Best = &cands[i]
			return res
		}
	}

	res.Confidence = domain.ConfidenceLow
	res.Best = bestEffort(cands)
	return res
}

func bestEffort(cands []domain.Candidate) *domain.Candidate {
	bestRank := len(preferredPlatforms)
	var best *domain.Candidate
	for i := range cands {
		if cands[i].SteamID != 0 {
			continue
		}
		r := platformRank(cands[i].Platform)
		if r < bestRank {
			bestRank = r
			best = &cands[i]
		}
	}
	if best != nil {
		return best
	}
	return &cands[0]
}

func platformRank(p string) int {
	for i, name := range preferredPlatforms {
		if p == name {
			return i
		}
	}
	return len(preferredPlatforms)
}
