package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/GGNC/internal/domain"
)

func sampleReport() domain.RunReport {
	rr := domain.RunReport{
		CSVPath:    "games.csv",
		OutputPath: "output.html",
		Results: []domain.MatchResult{
			{
				Record:     domain.GameRecord{Name: "Portal", SteamID: 400, Row: 2},
				Candidates: []domain.Candidate{{GroupID: 7, Title: "Portal", SteamID: 400, Platform: "Windows"}},
				Confidence: domain.ConfidenceHigh,
				Best:       &domain.Candidate{GroupID: 7, Title: "Portal", SteamID: 400, Platform: "Windows"},
			},
			{
				Record:     domain.GameRecord{Name: "Left 4 Dead", SteamID: 500, Row: 3},
				Candidates: []domain.Candidate{{GroupID: 8, Title: "Left 4 Dead (Mac)", Platform: "Mac"}},
				Confidence: domain.ConfidenceLow,
				Best:       &domain.Candidate{GroupID: 8, Title: "Left 4 Dead (Mac)", Platform: "Mac"},
			},
			{
				Record:     domain.GameRecord{Name: "Unknown Game X", SteamID: 999999, Row: 4},
				Confidence: domain.ConfidenceNone,
			},
			{
				Record:     domain.GameRecord{Name: "Flaky <Game>", SteamID: 123, Row: 5},
				Confidence: domain.ConfidenceNone,
				ErrorCode:  domain.ErrCodeNetworkFailed,
				ErrorMsg:   "HTTP 502",
			},
		},
		Skipped: []domain.SkippedRow{{Row: 6, Raw: "Bad,abc", Reason: `id 不是正整数："abc"`}},
	}
	rr.Finalize()
	return rr
}

func TestEncode_Structure(t *testing.T) {
	b, err := Encode(sampleReport())
	if err != nil {
		t.Fatalf("渲染失败：%v", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("HTML 无法解析：%v", err)
	}

	// 高置信度表：1 条数据行。
	highRows := doc.Find("h2#high + table tr").Length() - 1
	if highRows != 1 {
		t.Fatalf("高置信度表期望 1 行，实际 %d", highRows)
	}
	link, ok := doc.Find("h2#high + table a").First().Attr("href")
	if !ok || link != "https://gazellegames.net/torrents.php?id=7" {
		t.Fatalf("group 链接不符合预期：%q", link)
	}

	// 低置信度/未找到表：3 条数据行（low + none + 查询失败）。
	restRows := doc.Find("h2#rest + table tr").Length() - 1
	if restRows != 3 {
		t.Fatalf("第二个表期望 3 行，实际 %d", restRows)
	}
	restText := doc.Find("h2#rest + table").Text()
	if !strings.Contains(restText, "无匹配") {
		t.Fatalf("未找到行缺少“无匹配”标记：%s", restText)
	}
	if !strings.Contains(restText, "network_failed") || !strings.Contains(restText, "HTTP 502") {
		t.Fatalf("查询失败行缺少错误信息：%s", restText)
	}

	// 跳过行列表。
	skippedRows := doc.Find("h2#skipped + table tr").Length() - 1
	if skippedRows != 1 {
		t.Fatalf("跳过列表期望 1 行，实际 %d", skippedRows)
	}
}

func TestEncode_EscapesHTML(t *testing.T) {
	b, err := Encode(sampleReport())
	if err != nil {
		t.Fatalf("渲染失败：%v", err)
	}
	if bytes.Contains(b, []byte("<Game>")) {
		t.Fatalf("游戏名未转义")
	}
	// goquery 解析后应还原为原始文本。
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("HTML 无法解析：%v", err)
	}
	if !strings.Contains(doc.Find("h2#rest + table").Text(), "Flaky <Game>") {
		t.Fatalf("转义后文本丢失")
	}
}

func TestEncode_Deterministic(t *testing.T) {
	rr := sampleReport()
	a, err := Encode(rr)
	if err != nil {
		t.Fatalf("渲染失败：%v", err)
	}
	b, err := Encode(rr)
	if err != nil {
		t.Fatalf("渲染失败：%v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("两次渲染输出不一致")
	}
}

func TestEncode_EmptySections(t *testing.T) {
	rr := domain.RunReport{CSVPath: "games.csv"}
	rr.Finalize()

	b, err := Encode(rr)
	if err != nil {
		t.Fatalf("渲染失败：%v", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("HTML 无法解析：%v", err)
	}
	// 空 run：两个空表占位行，跳过列表整体不渲染。
	if doc.Find("h2").Length() != 2 {
		t.Fatalf("空 run 只应有两个小节，实际 %d", doc.Find("h2").Length())
	}
	if !strings.Contains(doc.Find("h2#high + table").Text(), "（无）") {
		t.Fatalf("空表缺少占位行")
	}
}
