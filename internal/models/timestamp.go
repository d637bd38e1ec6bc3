package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout 时间戳的存储与传输格式。
// 该格式按字典序比较即为时间序，列上可直接 ORDER BY。
const TimestampLayout = "2006-01-02T15:04:05.000"

// Timestamp 按固定文本格式持久化的时间戳
type Timestamp struct {
	time.Time
}

// Now 返回当前 UTC 时间戳
func Now() Timestamp {
	return Timestamp{Time: time.Now().UTC()}
}

// NewTimestamp 由 time.Time 构造时间戳
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// String 格式化为固定文本格式
func (t Timestamp) String() string {
	return t.UTC().Format(TimestampLayout)
}

// MarshalJSON 按固定文本格式输出
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON 解析固定文本格式
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(TimestampLayout, raw)
	if err != nil {
		return fmt.Errorf("parse timestamp %q failed: %w", raw, err)
	}
	t.Time = parsed.UTC()
	return nil
}

// Value 实现 driver.Valuer，按文本写库
func (t Timestamp) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan 实现 sql.Scanner
func (t *Timestamp) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp source type %T", value)
	}
}

func (t *Timestamp) parse(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(TimestampLayout, raw)
	if err != nil {
		return fmt.Errorf("parse timestamp %q failed: %w", raw, err)
	}
	t.Time = parsed.UTC()
	return nil
}
