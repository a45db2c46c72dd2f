package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/John-Robertt/GGNC/internal/app/run"
	"github.com/John-Robertt/GGNC/internal/config"
	"github.com/John-Robertt/GGNC/internal/domain"
	"github.com/John-Robertt/GGNC/internal/infra/fsx"
	"github.com/John-Robertt/GGNC/internal/provider/ggn"
	"github.com/John-Robertt/GGNC/internal/report"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage()
		return
	}

	switch args[0] {
	case "run":
		if code := runCmd(args[1:]); code != 0 {
			os.Exit(code)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func runCmd(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printRunUsage()
			return 0
		}
	}

	ra, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printRunUsage()
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}

	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		APIKey:    ra.APIKey,
		CSVPath:   ra.CSVPath,
		Output:    ra.Output,
		OutputSet: ra.OutputSet,
		Verbose:   ra.Verbose,
		Quiet:     ra.Quiet,
	})
	if err != nil {
		// 致命错误必须出声：quiet 只压进度，不压错误（此时没有报告可看）。
		fmt.Fprintf(os.Stderr, "错误：%v\n", err)
		return 1
	}

	p := ggn.Provider{BaseURL: eff.BaseURL}

	var obs run.Observer
	if !eff.Quiet {
		obs = newProgressUI(os.Stderr, eff.Verbose)
	}

	rr, err := run.ExecuteWithObserver(context.Background(), eff, p, obs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误：%v\n", err)
		return 1
	}

	html, err := report.Encode(rr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误：%s：渲染报告失败：%v\n", domain.ErrCodeIOFailed, err)
		return 1
	}
	if err := fsx.WriteFileAtomicReplace(filepath.Dir(eff.OutputPath), filepath.Base(eff.OutputPath), html); err != nil {
		fmt.Fprintf(os.Stderr, "错误：%s：写入 %s 失败：%v\n", domain.ErrCodeIOFailed, eff.OutputPath, err)
		return 1
	}

	emitReport(rr, eff.Quiet)
	// 单条记录级失败不影响退出码：运行完成即 0。
	return 0
}

type runArgs struct {
	APIKey  string
	CSVPath string

	Output    string
	OutputSet bool

	Verbose bool
	Quiet   bool
}

func parseRunArgs(args []string) (runArgs, error) {
	ra := runArgs{}
	var positional []string

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--output" || a == "-o":
			if i+1 >= len(args) {
				return runArgs{}, fmt.Errorf("--output 需要一个值")
			}
			i++
			ra.Output = args[i]
			ra.OutputSet = true
		case strings.HasPrefix(a, "--output="):
			ra.Output = strings.TrimPrefix(a, "--output=")
			ra.OutputSet = true
		case a == "--verbose" || a == "-v":
			ra.Verbose = true
		case a == "--quiet" || a == "-q":
			ra.Quiet = true
		case strings.HasPrefix(a, "-"):
			return runArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			positional = append(positional, a)
		}
	}

	if len(positional) < 2 {
		return runArgs{}, fmt.Errorf("需要 <api_key> 与 <csv_path> 两个参数")
	}
	if len(positional) > 2 {
		return runArgs{}, fmt.Errorf("多余的参数：%q", positional[2:])
	}
	ra.APIKey = strings.TrimSpace(positional[0])
	ra.CSVPath = strings.TrimSpace(positional[1])
	if ra.APIKey == "" {
		return runArgs{}, fmt.Errorf("api_key 不能为空")
	}
	if ra.CSVPath == "" {
		return runArgs{}, fmt.Errorf("csv_path 不能为空")
	}
	if ra.OutputSet && strings.TrimSpace(ra.Output) == "" {
		return runArgs{}, fmt.Errorf("--output 不能为空")
	}

	if ra.Verbose && ra.Quiet {
		return runArgs{}, fmt.Errorf("--verbose 与 --quiet 互斥")
	}

	return ra, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprint(os.Stdout, `用法：
  ggnc run <api_key> <csv_path> [--output FILE] [--verbose|--quiet]

命令：
  run    读取 CSV，逐条查询 GGN，并生成 HTML 匹配报告

使用 "ggnc run --help" 查看详细说明。
`)
}

func printRunUsage() {
	fmt.Fprint(os.Stdout, `用法：
  ggnc run <api_key> <csv_path> [--output FILE] [--verbose|--quiet]

参数：
  api_key        GGN API key（经 X-API-Key 头发送）
  csv_path       输入 CSV 路径（表头须含 game 与 id 列）
  -o, --output   报告输出路径（默认 output.html，覆盖同名文件）
  -v, --verbose  逐条输出查询结果（与 --quiet 互斥）
  -q, --quiet    不输出进度（致命错误仍会打印）
  -h, --help     显示帮助

可选配置文件 ggnc.json（cwd）：output / base_url / timeout_s /
rate_count / rate_window_s / cache。
`)
}

func emitReport(rr domain.RunReport, quiet bool) {
	if isTTY(os.Stdout) {
		if !quiet {
			fmt.Fprintf(os.Stdout, "完成：high=%d low=%d none=%d skipped=%d\n",
				rr.Summary.High, rr.Summary.Low, rr.Summary.None, rr.Summary.Skipped,
			)
			fmt.Fprintf(os.Stdout, "报告：%s\n", rr.OutputPath)
		}
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 RunReport JSON（进度/摘要走 stderr）。
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(rr)
	if !quiet {
		fmt.Fprintf(os.Stderr, "完成：high=%d low=%d none=%d skipped=%d\n",
			rr.Summary.High, rr.Summary.Low, rr.Summary.None, rr.Summary.Skipped,
		)
	}
}

func isTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
