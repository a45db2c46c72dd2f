package cache

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/GGNC/internal/infra/fsx"
)

// Store 提供 <root>/cache/lookups/ 下的查询结果缓存读写。
//
// key 是规范化后的游戏名；文件名用 FNV-64a 哈希（游戏名里常见
// 路径非法字符，直接做文件名不可靠）。
//
// 约束：
// - 读 miss 不是错误
// - ReadOnly=true 时拒绝写入
type Store struct {
	Root     string
	ReadOnly bool
}

var ErrReadOnly = errors.New("cache: read-only")

func New(root string, readOnly bool) Store {
	return Store{
		Root:     filepath.Clean(strings.TrimSpace(root)),
		ReadOnly: readOnly,
	}
}

// LookupPath 返回某个规范化游戏名对应的缓存文件绝对路径。
func (s Store) LookupPath(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("name 不能为空")
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return filepath.Join(s.Root, "cache", "lookups", fmt.Sprintf("%016x.json", h.Sum64())), nil
}

// ReadLookup 读取缓存的 API 响应 body；miss 时返回 ok=false 且无错误。
func (s Store) ReadLookup(name string) ([]byte, bool, error) {
	path, err := s.LookupPath(name)
	if err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

// WriteLookup 缓存一次 API 响应 body（覆盖旧值）。
func (s Store) WriteLookup(name string, body []byte) error {
	if s.ReadOnly {
		return ErrReadOnly
	}
	path, err := s.LookupPath(name)
	if err != nil {
		return err
	}
	return fsx.WriteFileAtomicReplace(filepath.Dir(path), filepath.Base(path), body)
}
