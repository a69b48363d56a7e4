package similarity

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/rushteam/ratekit/core"
)

// Cache 是调用方持有的相似度矩阵缓存。
//
// 相似度矩阵是确定性的纯函数结果，缓存 key 由输入内容哈希而来：
// 评分表内容 + 归一化设置。表或设置一变，key 随之改变，旧条目自然失效；
// 需要立即回收时调用 Invalidate 显式删除。
// 不存在任何进程级的隐式缓存状态。
type Cache struct {
	Store     core.Store
	KeyPrefix string // 默认 "simcache"
	TTL       int    // 秒；0 表示不过期
}

type simEntry struct {
	A   int64   `json:"a"`
	B   int64   `json:"b"`
	Sim float64 `json:"sim"`
}

func (c *Cache) prefix() string {
	if c.KeyPrefix == "" {
		return "simcache"
	}
	return c.KeyPrefix
}

// Key 计算 (评分表, 归一化方法) 的内容哈希 key。
// 表的插入顺序无语义，哈希前先按 (user, product, timestamp) 排序。
func (c *Cache) Key(table core.RatingTable, method string) string {
	events := table.Clone()
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.Timestamp < b.Timestamp
	})

	h := sha256.New()
	var buf [8]byte
	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	for _, e := range events {
		writeInt(e.UserID)
		writeInt(e.ProductID)
		writeInt(int64(math.Float64bits(e.Rating)))
		writeInt(e.Timestamp)
	}
	h.Write([]byte(method))
	return c.prefix() + ":" + hex.EncodeToString(h.Sum(nil))
}

// Get 按 key 读取缓存的矩阵；未命中时 ok 为 false 且无错误。
func (c *Cache) Get(ctx context.Context, key string) (*Matrix, bool, error) {
	data, err := c.Store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var entries []simEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("simcache: decode: %w", err)
	}
	m := newMatrix(len(entries))
	for _, e := range entries {
		m.Put(e.A, e.B, e.Sim)
	}
	return m, true, nil
}

// Put 按 key 写入矩阵。
func (c *Cache) Put(ctx context.Context, key string, m *Matrix) error {
	entries := make([]simEntry, 0, len(m.sims))
	for k, v := range m.sims {
		entries = append(entries, simEntry{A: k.a, B: k.b, Sim: v})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("simcache: encode: %w", err)
	}
	if c.TTL > 0 {
		return c.Store.Set(ctx, key, data, c.TTL)
	}
	return c.Store.Set(ctx, key, data)
}

// Invalidate 显式删除一个缓存条目。
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.Store.Delete(ctx, key)
}
