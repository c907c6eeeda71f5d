// Package configs 嵌入示例配置文件
package configs

import _ "embed"

// ExampleConfig 示例配置内容，供 init 命令写出
//
//go:embed rwaledger.json
var ExampleConfig []byte
