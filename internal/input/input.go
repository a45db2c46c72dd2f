// Package input 负责读取 CSV 输入（game,id 两列）。
//
// 策略：整文件级问题（不存在 / 空 / 缺列）是致命错误；
// 单行问题（空字段 / id 非整数）跳过并记录，不中断整次运行。
package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/John-Robertt/GGNC/internal/domain"
	"github.com/John-Robertt/GGNC/internal/gamename"
)

// Error 是输入阶段的结构化错误（带 error_code，均为致命）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case domain.ErrCodeInputNotFound:
		return fmt.Sprintf("%s：输入文件 %q 不存在或为空", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：输入文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：输入文件 %q 无效", e.Code, e.Path)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Load 读取 CSV，返回按输入顺序排列的记录与被跳过的行。
//
// 约定：
// - 表头必须包含 game 与 id 列（大小写不敏感；允许多余列）
// - 记录的 Row 是 CSV 行号（表头为第 1 行）
// - Name 已做 gamename.Clean 规范化
func Load(path string) ([]domain.GameRecord, []domain.SkippedRow, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, &Error{Code: domain.ErrCodeInputNotFound, Path: path, Err: err}
		}
		return nil, nil, &Error{Code: domain.ErrCodeInputInvalid, Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	// 行内列数不一致不是这里的职责：缺列的行按单行错误跳过。
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, &Error{Code: domain.ErrCodeInputNotFound, Path: path, Err: fmt.Errorf("文件为空")}
		}
		return nil, nil, &Error{Code: domain.ErrCodeInputInvalid, Path: path, Err: err}
	}

	gameIdx, idIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(stripBOM(h))) {
		case "game":
			gameIdx = i
		case "id":
			idIdx = i
		}
	}
	if gameIdx < 0 || idIdx < 0 {
		return nil, nil, &Error{Code: domain.ErrCodeInputInvalid, Path: path,
			Err: fmt.Errorf("表头缺少 game/id 列：%v", header)}
	}

	var (
		records []domain.GameRecord
		skipped []domain.SkippedRow
		row     = 1 // 表头
	)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			// csv 语法错误（引号不配对等）：单行跳过，保持 skip-and-continue。
			skipped = append(skipped, domain.SkippedRow{Row: row, Reason: fmt.Sprintf("CSV 解析失败：%v", err)})
			continue
		}
		if gameIdx >= len(rec) || idIdx >= len(rec) {
			skipped = append(skipped, domain.SkippedRow{Row: row, Raw: strings.Join(rec, ","), Reason: "列数不足"})
			continue
		}

		name := gamename.Clean(rec[gameIdx])
		rawID := strings.TrimSpace(rec[idIdx])
		if name == "" || rawID == "" {
			skipped = append(skipped, domain.SkippedRow{Row: row, Raw: strings.Join(rec, ","), Reason: "game/id 为空"})
			continue
		}

		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || id <= 0 {
			skipped = append(skipped, domain.SkippedRow{Row: row, Raw: strings.Join(rec, ","),
				Reason: fmt.Sprintf("id 不是正整数：%q", rawID)})
			continue
		}

		records = append(records, domain.GameRecord{Name: name, SteamID: id, Row: row})
	}

	if len(records) == 0 && len(skipped) == 0 {
		return nil, nil, &Error{Code: domain.ErrCodeInputNotFound, Path: path, Err: fmt.Errorf("没有数据行")}
	}
	return records, skipped, nil
}

// stripBOM 去掉 UTF-8 BOM（常见于 Excel 导出的 CSV 首列表头）。
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
