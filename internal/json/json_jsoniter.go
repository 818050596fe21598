//go:build !amd64 && !arm64

package json

import jsoniter "github.com/json-iterator/go"

var api engine = jsoniter.ConfigCompatibleWithStandardLibrary

// Engine 返回当前使用的 JSON 实现名称。
func Engine() string { return "jsoniter" }
