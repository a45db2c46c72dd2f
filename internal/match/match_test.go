package match

import (
	"testing"

	"github.com/John-Robertt/GGNC/internal/domain"
)

func TestClassify_High(t *testing.T) {
	rec := domain.GameRecord{Name: "Portal", SteamID: 400, Row: 2}
	cands := []domain.Candidate{
		{GroupID: 7, Title: "Portal", SteamID: 400, Platform: "Windows"},
	}

	res := Classify(rec, cands)
	if res.Confidence != domain.ConfidenceHigh {
		t.Fatalf("期望 high，实际 %s", res.Confidence)
	}
	if res.Best == nil || res.Best.GroupID != 7 {
		t.Fatalf("Best 不符合预期：%+v", res.Best)
	}
}

func TestClassify_HighFirstMatchWins(t *testing.T) {
	// 多个精确匹配（正常不应出现）：取首个，置信度仍为 high。
	rec := domain.GameRecord{Name: "Portal", SteamID: 400}
	cands := []domain.Candidate{
		{GroupID: 7, SteamID: 400},
		{GroupID: 12, SteamID: 400},
	}

	res := Classify(rec, cands)
	if res.Confidence != domain.ConfidenceHigh || res.Best.GroupID != 7 {
		t.Fatalf("tie-break 不符合预期：%+v", res)
	}
}

func TestClassify_LowPlatformPreference(t *testing.T) {
	rec := domain.GameRecord{Name: "X", SteamID: 999}
	cands := []domain.Candidate{
		{GroupID: 1, SteamID: 123, Platform: "Windows"}, // 有 Steam 链接但不相等：不参与展示偏好
		{GroupID: 2, SteamID: 0, Platform: "Linux"},
		{GroupID: 3, SteamID: 0, Platform: "Mac"},
	}

	res := Classify(rec, cands)
	if res.Confidence != domain.ConfidenceLow {
		t.Fatalf("期望 low，实际 %s", res.Confidence)
	}
	// Mac 优先于 Linux。
	if res.Best == nil || res.Best.GroupID != 3 {
		t.Fatalf("平台偏好不符合预期：%+v", res.Best)
	}
}

func TestClassify_LowFallbackFirstCandidate(t *testing.T) {
	rec := domain.GameRecord{Name: "X", SteamID: 999}
	cands := []domain.Candidate{
		{GroupID: 5, SteamID: 123, Platform: "Windows"},
		{GroupID: 6, SteamID: 456, Platform: "Windows"},
	}

	res := Classify(rec, cands)
	if res.Confidence != domain.ConfidenceLow || res.Best.GroupID != 5 {
		t.Fatalf("无偏好候选时应取首个：%+v", res)
	}
}

func TestClassify_None(t *testing.T) {
	res := Classify(domain.GameRecord{Name: "Unknown Game X", SteamID: 999999}, nil)
	if res.Confidence != domain.ConfidenceNone {
		t.Fatalf("期望 none，实际 %s", res.Confidence)
	}
	if res.Best != nil {
		t.Fatalf("none 时 Best 应为空：%+v", res.Best)
	}
}
