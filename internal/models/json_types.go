package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON 通用 JSON 对象字段
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	raw, err := scanBytes(value)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*j = make(JSON)
		return nil
	}
	return json.Unmarshal(raw, j)
}

// UintArray 以 JSON 数组形式存储的 ID 列表
type UintArray []uint

// Value 实现 driver.Valuer 接口
func (a UintArray) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal([]uint{})
	}
	return json.Marshal([]uint(a))
}

// Scan 实现 sql.Scanner 接口
func (a *UintArray) Scan(value interface{}) error {
	raw, err := scanBytes(value)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*a = UintArray{}
		return nil
	}
	return json.Unmarshal(raw, a)
}

func scanBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported json column type %T", value)
	}
}
