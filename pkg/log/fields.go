package log

import (
	"go.uber.org/zap"
)

const (
	FieldNameModule    = "module"
	FieldNameComponent = "component"
	FieldNamePath      = "path"
	FieldNameFormat    = "format"
)

// FieldModule 返回一个包含模块名的 zap 字段。
func FieldModule(module string) zap.Field {
	return zap.String(FieldNameModule, module)
}

// FieldComponent 返回一个包含组件名的 zap 字段。
func FieldComponent(component string) zap.Field {
	return zap.String(FieldNameComponent, component)
}

// FieldPath 返回一个包含文件路径的 zap 字段。
func FieldPath(path string) zap.Field {
	return zap.String(FieldNamePath, path)
}

// FieldFormat 返回一个包含持久化格式（binary/json）的 zap 字段。
func FieldFormat(format string) zap.Field {
	return zap.String(FieldNameFormat, format)
}
