package fsx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomicReplace_CreatesAndOverwrites(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFileAtomicReplace(dir, "out.html", []byte("v1")); err != nil {
		t.Fatalf("首次写入失败：%v", err)
	}
	if err := WriteFileAtomicReplace(dir, "out.html", []byte("v2")); err != nil {
		t.Fatalf("覆盖写入失败：%v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "out.html"))
	if err != nil {
		t.Fatalf("读取失败：%v", err)
	}
	if string(b) != "v2" {
		t.Fatalf("内容不符合预期：%q", string(b))
	}
}

func TestWriteFileAtomicReplace_MakesDirAndNoTempLeftover(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	if err := WriteFileAtomicReplace(dir, "x.json", []byte("{}")); err != nil {
		t.Fatalf("写入失败：%v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("读目录失败：%v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("遗留临时文件：%s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Fatalf("期望目录里只有目标文件：%v", entries)
	}
}
