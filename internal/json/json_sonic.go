//go:build amd64 || arm64

package json

import "github.com/bytedance/sonic"

// ConfigStd 保证 map key 排序、HTML 转义等行为与 encoding/json 一致。
var api engine = sonic.ConfigStd

// Engine 返回当前使用的 JSON 实现名称。
func Engine() string { return "sonic" }
