package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/weisyn/rwaledger/internal/config/api"
	"github.com/weisyn/rwaledger/internal/config/ledger"
	"github.com/weisyn/rwaledger/internal/config/log"
	"github.com/weisyn/rwaledger/internal/config/storage/badger"
	"github.com/weisyn/rwaledger/internal/config/storage/memory"
)

// DefaultConfigPath 默认配置文件路径
const DefaultConfigPath = "./configs/rwaledger.json"

// AppConfig 配置文件的顶层结构
//
// 每个段都是指针，缺省段由各子包的 defaults.go 补齐。
type AppConfig struct {
	Ledger  *ledger.UserLedgerConfig `json:"ledger,omitempty"`
	Log     *log.UserLogConfig       `json:"log,omitempty"`
	Storage *badger.UserBadgerConfig `json:"storage,omitempty"`
	Cache   *memory.UserMemoryConfig `json:"cache,omitempty"`
	API     *api.UserAPIConfig       `json:"api,omitempty"`
}

// LoadFile 读取并解析 JSON 配置文件
//
// path 为空时使用 DefaultConfigPath；文件不存在时返回空配置（全部取默认值）。
func LoadFile(path string) (*AppConfig, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &AppConfig{}, nil
		}
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var appConfig AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	return &appConfig, nil
}
