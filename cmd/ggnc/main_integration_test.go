package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// chdir 切到 dir，测试结束后切回（runCmd 依赖 cwd 发现 ggnc.json 与默认输出位置）。
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("读取当前目录失败：%v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("切换目录失败：%v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestRunCmd_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "key123" {
			fmt.Fprint(w, `{"status":"failure","error":"Invalid API Key"}`)
			return
		}
		if r.URL.Query().Get("name") == "Portal" {
			fmt.Fprint(w, `{"status":"success","response":{"groups":{"7":{"name":"Portal","platform":"Windows","weblinks":{"Steam":"https://store.steampowered.com/app/400/Portal/"}}}}}`)
			return
		}
		fmt.Fprint(w, `{"status":"failure","error":"no results"}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	chdir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "ggnc.json"),
		[]byte(fmt.Sprintf(`{"base_url":%q,"rate_count":100,"rate_window_s":1}`, srv.URL)), 0o644); err != nil {
		t.Fatalf("写入配置失败：%v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "games.csv"),
		[]byte("game,id\nPortal,400\nUnknown Game X,999999\n"), 0o644); err != nil {
		t.Fatalf("写入 CSV 失败：%v", err)
	}

	// 单条未找到不影响退出码：运行完成即 0。
	if code := runCmd([]string{"key123", "games.csv", "--quiet"}); code != 0 {
		t.Fatalf("期望退出码 0，实际 %d", code)
	}

	b, err := os.ReadFile(filepath.Join(dir, "output.html"))
	if err != nil {
		t.Fatalf("期望写出 output.html：%v", err)
	}
	if len(b) == 0 {
		t.Fatalf("报告为空")
	}

	// 幂等：同样的输入与响应，二次运行输出逐字节一致。
	if code := runCmd([]string{"key123", "games.csv", "--quiet"}); code != 0 {
		t.Fatalf("二次运行失败：%d", code)
	}
	b2, err := os.ReadFile(filepath.Join(dir, "output.html"))
	if err != nil {
		t.Fatalf("读取失败：%v", err)
	}
	if string(b) != string(b2) {
		t.Fatalf("两次运行输出不一致")
	}
}

func TestRunCmd_AuthErrorFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"failure","error":"Invalid API Key"}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	chdir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "ggnc.json"),
		[]byte(fmt.Sprintf(`{"base_url":%q}`, srv.URL)), 0o644); err != nil {
		t.Fatalf("写入配置失败：%v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "games.csv"),
		[]byte("game,id\nPortal,400\n"), 0o644); err != nil {
		t.Fatalf("写入 CSV 失败：%v", err)
	}

	if code := runCmd([]string{"badkey", "games.csv", "--quiet"}); code != 1 {
		t.Fatalf("key 无效应以非零码退出，实际 %d", code)
	}
	// 致命中止：不应留下报告。
	if _, err := os.Stat(filepath.Join(dir, "output.html")); !os.IsNotExist(err) {
		t.Fatalf("auth 失败不应写报告：%v", err)
	}
}

func TestRunCmd_MissingInputFatal(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	if code := runCmd([]string{"key123", "nope.csv"}); code != 1 {
		t.Fatalf("缺失输入应以非零码退出，实际 %d", code)
	}
}

func TestRunCmd_UsageErrors(t *testing.T) {
	if code := runCmd([]string{"onlykey"}); code != 2 {
		t.Fatalf("缺参数应返回 2，实际 %d", code)
	}
	if code := runCmd([]string{"k", "a.csv", "-v", "-q"}); code != 2 {
		t.Fatalf("互斥标志应返回 2，实际 %d", code)
	}
}
