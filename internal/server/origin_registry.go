package server

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/origin-hub/origin-hub/internal/config"
	"github.com/origin-hub/origin-hub/internal/mimedb"
	"github.com/origin-hub/origin-hub/internal/origin"
)

// OriginRoute 将 Origin 配置与构建完成的文件后端聚合在一起，
// 供路由/网关层直接复用，避免每个请求重查配置。
type OriginRoute struct {
	// Config 是用户在 config.toml 中声明的 Origin 字段副本，避免外部修改。
	Config config.OriginConfig
	// ListenPort 记录当前 CLI 监听端口，方便日志输出。
	ListenPort int
	// Backend 在构造 Registry 时一次性创建：根目录、MIME 表均已固化，
	// 后续所有请求只读共享。
	Backend *origin.Backend
}

// OriginRegistry 提供 Host/Host:port 到 OriginRoute 的查询能力，
// 所有 Origin 共享同一个监听端口。
type OriginRegistry struct {
	routes  map[string]*OriginRoute
	ordered []*OriginRoute
}

// NewOriginRegistry 根据配置构建 Host 映射，并按三段式策略加载各自的
// MIME 数据库。显式数据库加载失败会让整个构建失败，后端不会投入服务。
// 调用方应在启动阶段创建一次并复用。
func NewOriginRegistry(cfg *config.Config, logger *logrus.Logger) (*OriginRegistry, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is nil")
	}

	registry := &OriginRegistry{
		routes: make(map[string]*OriginRoute, len(cfg.Origins)),
	}

	for _, originCfg := range cfg.Origins {
		normalizedHost := normalizeDomain(originCfg.Domain)
		if normalizedHost == "" {
			return nil, fmt.Errorf("invalid domain for origin %s", originCfg.Name)
		}
		if _, exists := registry.routes[normalizedHost]; exists {
			return nil, fmt.Errorf("duplicate domain mapping detected for %s", normalizedHost)
		}

		route, err := buildOriginRoute(cfg, originCfg, logger)
		if err != nil {
			return nil, err
		}

		registry.routes[normalizedHost] = route
		registry.ordered = append(registry.ordered, route)
	}

	return registry, nil
}

// Lookup 根据 Host 或 Host:port 查找 OriginRoute。
func (r *OriginRegistry) Lookup(host string) (*OriginRoute, bool) {
	if r == nil {
		return nil, false
	}

	normalizedHost, _ := normalizeHost(host)
	if normalizedHost == "" {
		return nil, false
	}

	route, ok := r.routes[normalizedHost]
	return route, ok
}

// List 返回当前注册的 OriginRoute 列表（按配置定义的顺序），供诊断输出。
func (r *OriginRegistry) List() []OriginRoute {
	if r == nil || len(r.ordered) == 0 {
		return nil
	}

	result := make([]OriginRoute, len(r.ordered))
	for i, route := range r.ordered {
		result[i] = *route
	}
	return result
}

func buildOriginRoute(cfg *config.Config, originCfg config.OriginConfig, logger *logrus.Logger) (*OriginRoute, error) {
	table, err := mimedb.Resolve(originCfg.MimeDB)
	if err != nil {
		return nil, fmt.Errorf("origin %s: %w", originCfg.Name, err)
	}

	backend, err := origin.NewBackend(originCfg.Name, originCfg.Root, table, logger)
	if err != nil {
		return nil, fmt.Errorf("origin %s: %w", originCfg.Name, err)
	}

	return &OriginRoute{
		Config:     originCfg,
		ListenPort: cfg.Global.ListenPort,
		Backend:    backend,
	}, nil
}

func normalizeDomain(domain string) string {
	host, _ := normalizeHost(domain)
	return host
}

func normalizeHost(raw string) (string, int) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", 0
	}

	host := raw
	port := 0

	if strings.Contains(raw, ":") {
		if h, p, err := net.SplitHostPort(raw); err == nil {
			host = h
			if parsedPort, err := strconv.Atoi(p); err == nil {
				port = parsedPort
			}
		} else if idx := strings.LastIndex(raw, ":"); idx > -1 && strings.Count(raw[idx+1:], ":") == 0 {
			if parsedPort, err := strconv.Atoi(raw[idx+1:]); err == nil {
				host = raw[:idx]
				port = parsedPort
			}
		}
	}

	host = strings.TrimSuffix(host, ".")
	host = strings.ToLower(host)
	return host, port
}
