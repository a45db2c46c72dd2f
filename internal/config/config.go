package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// DefaultBaseURL 是 GGN API 的默认域名（可经 ggnc.json 覆盖）。
	DefaultBaseURL = "https://gazellegames.net"
	// DefaultOutput 是报告的默认输出路径（相对 cwd）。
	DefaultOutput = "output.html"
	// DefaultTimeoutS 是单次 HTTP 查询的默认超时秒数。
	// 原工具依赖 HTTP 客户端的隐式默认；这里必须显式。
	DefaultTimeoutS = 20

	// DefaultRateCount / DefaultRateWindowS：限速窗口内允许的 API 调用数。
	// GGN 的 API 限制是 5 次 / 10 秒；默认值与之对齐。
	DefaultRateCount   = 5
	DefaultRateWindowS = 10
)

// CLIArgs 只包含 CLI 暴露的入口，并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --output 必须能覆盖 config.output。
type CLIArgs struct {
	APIKey  string
	CSVPath string

	Output    string
	OutputSet bool

	Verbose bool
	Quiet   bool
}

// FileConfig 对应 ggnc.json 的解析结构（文件可选；api_key/csv 永远不进配置文件）。
type FileConfig struct {
	Output      string `json:"output"`
	BaseURL     string `json:"base_url"`
	TimeoutS    int    `json:"timeout_s"`
	RateCount   int    `json:"rate_count"`
	RateWindowS int    `json:"rate_window_s"`
	Cache       bool   `json:"cache"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置
// （实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	APIKey  string
	CSVPath string

	// WorkDir 是运行目录（绝对路径）；cache/ 固定建在它下面。
	WorkDir string

	OutputPath string
	BaseURL    string

	Timeout    time.Duration
	RateCount  int
	RateWindow time.Duration

	// Cache 启用 cache/lookups/ 下的查询结果缓存（默认关闭）。
	Cache bool

	Verbose bool
	Quiet   bool
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
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

// LoadEffective 读取 <cwd>/ggnc.json（可选），与 CLI 参数合并为最终配置。
//
// 覆盖优先级（固定）：
// - output：CLI --output > config > 默认 output.html
// - verbose/quiet：仅 CLI（临时的控制台行为不进配置文件）
// - 其他字段：仅由 config 控制（CLI 不暴露）
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath := filepath.Join(cwdAbs, "ggnc.json")
	fc, _, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	return merge(cwdAbs, cli, fc, cfgPath)
}

func merge(cwdAbs string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	// output：CLI > config > 默认
	output := DefaultOutput
	if cli.OutputSet {
		output = strings.TrimSpace(cli.Output)
	} else if strings.TrimSpace(fc.Output) != "" {
		output = strings.TrimSpace(fc.Output)
	}
	if output == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("output 不能为空")}
	}
	output = absCleanFrom(cwdAbs, output)

	baseURL := strings.TrimSpace(fc.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("base_url 无效：%q", baseURL)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("base_url 必须是 http/https：%q", baseURL)}
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeoutS := fc.TimeoutS
	if timeoutS == 0 {
		timeoutS = DefaultTimeoutS
	}
	// 文档约定：范围 [1, 300]；超出截断。
	if timeoutS < 1 {
		timeoutS = 1
	}
	if timeoutS > 300 {
		timeoutS = 300
	}

	rateCount := fc.RateCount
	if rateCount == 0 {
		rateCount = DefaultRateCount
	}
	if rateCount < 1 {
		rateCount = 1
	}
	rateWindowS := fc.RateWindowS
	if rateWindowS == 0 {
		rateWindowS = DefaultRateWindowS
	}
	if rateWindowS < 1 {
		rateWindowS = 1
	}

	return EffectiveConfig{
		APIKey:     strings.TrimSpace(cli.APIKey),
		CSVPath:    absCleanFrom(cwdAbs, cli.CSVPath),
		WorkDir:    cwdAbs,
		OutputPath: output,
		BaseURL:    baseURL,
		Timeout:    time.Duration(timeoutS) * time.Second,
		RateCount:  rateCount,
		RateWindow: time.Duration(rateWindowS) * time.Second,
		Cache:      fc.Cache,
		Verbose:    cli.Verbose,
		Quiet:      cli.Quiet,
	}, nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
