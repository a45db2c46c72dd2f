package cache

import (
	"errors"
	"testing"
)

func TestStore_ReadWriteRoundTrip(t *testing.T) {
	s := New(t.TempDir(), false)

	// miss 不是错误。
	if _, ok, err := s.ReadLookup("Portal"); err != nil || ok {
		t.Fatalf("miss 不符合预期：ok=%v err=%v", ok, err)
	}

	if err := s.WriteLookup("Portal", []byte(`{"status":"success"}`)); err != nil {
		t.Fatalf("写入失败：%v", err)
	}

	b, ok, err := s.ReadLookup("Portal")
	if err != nil || !ok {
		t.Fatalf("读取失败：ok=%v err=%v", ok, err)
	}
	if string(b) != `{"status":"success"}` {
		t.Fatalf("内容不符合预期：%q", string(b))
	}

	// 不同名字不应互相命中。
	if _, ok, _ := s.ReadLookup("Portal 2"); ok {
		t.Fatalf("不同 key 不应命中")
	}
}

func TestStore_ReadOnly(t *testing.T) {
	s := New(t.TempDir(), true)
	if err := s.WriteLookup("Portal", []byte("x")); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("期望 ErrReadOnly，实际：%v", err)
	}
}

func TestStore_EmptyName(t *testing.T) {
	s := New(t.TempDir(), false)
	if _, err := s.LookupPath("  "); err == nil {
		t.Fatalf("空 name 应报错")
	}
}

func TestStore_PathologicalNames(t *testing.T) {
	s := New(t.TempDir(), false)
	// 名字里带路径分隔符/引号也必须能落盘（哈希文件名）。
	name := `Some/Game: "Director's Cut" \ Deluxe`
	if err := s.WriteLookup(name, []byte("{}")); err != nil {
		t.Fatalf("写入失败：%v", err)
	}
	if _, ok, err := s.ReadLookup(name); err != nil || !ok {
		t.Fatalf("读取失败：ok=%v err=%v", ok, err)
	}
}
