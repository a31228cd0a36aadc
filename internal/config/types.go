package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// GlobalConfig 描述全局运行时行为，所有 Origin 共享同一份参数。
type GlobalConfig struct {
	ListenPort    int      `mapstructure:"ListenPort"`
	LogLevel      string   `mapstructure:"LogLevel"`
	LogFilePath   string   `mapstructure:"LogFilePath"`
	LogMaxSize    int      `mapstructure:"LogMaxSize"`
	LogMaxBackups int      `mapstructure:"LogMaxBackups"`
	LogCompress   bool     `mapstructure:"LogCompress"`
	ReadTimeout   Duration `mapstructure:"ReadTimeout"`
	IdleTimeout   Duration `mapstructure:"IdleTimeout"`
}

// OriginConfig 决定单个虚拟源站如何把请求映射到本地文件。
//
// MimeDB 使用指针以区分三种语义：
//   - nil（未配置）→ 尝试默认数据库，失败时静默放弃 content-type；
//   - 指向空串    → 明确禁用 MIME 表，不做任何加载；
//   - 指向非空串  → 必须加载成功，否则视为致命配置错误。
type OriginConfig struct {
	Name   string  `mapstructure:"Name"`
	Domain string  `mapstructure:"Domain"`
	Root   string  `mapstructure:"Root"`
	MimeDB *string `mapstructure:"MimeDB"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global  GlobalConfig   `mapstructure:",squash"`
	Origins []OriginConfig `mapstructure:"Origin"`
}

// MimeDBMode 输出 `default`/`disabled`/`explicit`，供日志字段使用。
func (o OriginConfig) MimeDBMode() string {
	switch {
	case o.MimeDB == nil:
		return "default"
	case *o.MimeDB == "":
		return "disabled"
	default:
		return "explicit"
	}
}

// MimeDBModes 返回所有 Origin 的 MIME 数据库模式摘要，例如 assets:explicit。
func MimeDBModes(origins []OriginConfig) []string {
	if len(origins) == 0 {
		return nil
	}
	result := make([]string, len(origins))
	for i, origin := range origins {
		result[i] = fmt.Sprintf("%s:%s", origin.Name, origin.MimeDBMode())
	}
	return result
}
