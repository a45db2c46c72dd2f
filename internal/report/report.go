// Package report 把一次运行的全部结果渲染为单个静态 HTML 文档。
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/John-Robertt/GGNC/internal/domain"
)

// groupURLFormat 是 GGN 详情页的链接模板（展示用）。
const groupURLFormat = "https://gazellegames.net/torrents.php?id=%d"

// Encode 把 RunReport 渲染为自包含的 UTF-8 HTML。
//
// 确定性约定：相同的 RunReport 输入 => 逐字节相同的输出。
// 因此模板里没有时间戳、没有随机内容；转义全部交给 html/template。
func Encode(rr domain.RunReport) ([]byte, error) {
	v := view{
		Summary: rr.Summary,
		CSVPath: rr.CSVPath,
	}
	for _, res := range rr.Results {
		r := row{
			Name:    res.Record.Name,
			SteamID: res.Record.SteamID,
			Row:     res.Record.Row,
		}
		if res.Best != nil {
			r.GroupID = res.Best.GroupID
			r.GroupURL = fmt.Sprintf(groupURLFormat, res.Best.GroupID)
			r.Title = res.Best.Title
			r.Platform = res.Best.Platform
		}
		switch res.Confidence {
		case domain.ConfidenceHigh:
			v.High = append(v.High, r)
		case domain.ConfidenceLow:
			r.Note = "低置信度"
			v.Rest = append(v.Rest, r)
		default:
			r.Note = "无匹配"
			if res.ErrorMsg != "" {
				r.Note = fmt.Sprintf("查询失败（%s）：%s", res.ErrorCode, res.ErrorMsg)
			}
			v.Rest = append(v.Rest, r)
		}
	}
	v.Skipped = rr.Skipped

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type view struct {
	Summary domain.ReportSummary
	CSVPath string
	High    []row
	Rest    []row
	Skipped []domain.SkippedRow
}

type row struct {
	Name    string
	SteamID int64
	Row     int

	GroupID  int64
	GroupURL string
	Title    string
	Platform string

	Note string
}

var pageTmpl = template.Must(template.New("report").Parse(strings.TrimLeft(`
<!DOCTYPE html>
<html lang="zh">
<head>
<meta charset="utf-8">
<title>GGNC 匹配报告</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #999; padding: 4px 10px; text-align: left; }
th { background: #eee; }
.none { color: #888; }
</style>
</head>
<body>
<h1>GGNC 匹配报告</h1>
<p>输入：{{.CSVPath}}；high={{.Summary.High}} low={{.Summary.Low}} none={{.Summary.None}} skipped={{.Summary.Skipped}}</p>

<h2 id="high">高置信度（Steam ID 精确匹配）</h2>
<table>
<tr><th>游戏</th><th>Steam ID</th><th>Group</th><th>站点标题</th></tr>
{{range .High}}<tr><td>{{.Name}}</td><td>{{.SteamID}}</td><td><a href="{{.GroupURL}}" target="_blank">{{.GroupID}}</a></td><td>{{.Title}}</td></tr>
{{else}}<tr><td colspan="4" class="none">（无）</td></tr>
{{end}}</table>

<h2 id="rest">低置信度 / 未找到</h2>
<table>
<tr><th>游戏</th><th>Steam ID</th><th>候选 Group</th><th>候选标题</th><th>说明</th></tr>
{{range .Rest}}<tr><td>{{.Name}}</td><td>{{.SteamID}}</td><td>{{if .GroupID}}<a href="{{.GroupURL}}" target="_blank">{{.GroupID}}</a>{{else}}<span class="none">—</span>{{end}}</td><td>{{if .Title}}{{.Title}}{{if .Platform}}（{{.Platform}}）{{end}}{{else}}<span class="none">—</span>{{end}}</td><td>{{.Note}}</td></tr>
{{else}}<tr><td colspan="5" class="none">（无）</td></tr>
{{end}}</table>
{{if .Skipped}}
<h2 id="skipped">跳过的输入行</h2>
<table>
<tr><th>行号</th><th>原始内容</th><th>原因</th></tr>
{{range .Skipped}}<tr><td>{{.Row}}</td><td>{{.Raw}}</td><td>{{.Reason}}</td></tr>
{{end}}</table>
{{end}}
</body>
</html>
`, "\n")))
