package mimedb

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultPath 是未显式配置时尝试加载的系统级 MIME 数据库。
const DefaultPath = "/etc/mime.types"

// Table 是扩展名到 MIME 类型的只读映射。构建完成后不会再被修改，
// 因此可以在任意数量的并发请求间共享而无需加锁。
type Table struct {
	types map[string]string
}

// Lookup 按数据库中书写的原始大小写查询扩展名（不含点号）。
func (t *Table) Lookup(ext string) (string, bool) {
	if t == nil {
		return "", false
	}
	mime, ok := t.types[ext]
	return mime, ok
}

// Len 返回已登记的扩展名数量，供诊断接口输出。
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.types)
}

// Load 逐行解析 mime.types 风格的文本数据库：每行按空白切分，
// 首个 token 为 MIME 类型，其余 token 均为映射到该类型的扩展名；
// 空行跳过，以 # 开头的行视为整行注释。扩展名大小写敏感，
// 数据库可以故意用 t1/T1 两个键支持不同写法。
//
// 同一扩展名在整个文件内出现两次属于致命配置错误，报错信息包含
// 文件路径、扩展名及两个互相冲突的 MIME 类型。
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开 MIME 数据库失败: %w", err)
	}
	defer f.Close()

	types := make(map[string]string)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		mime := tokens[0]
		if strings.HasPrefix(mime, "#") {
			continue
		}
		for _, ext := range tokens[1:] {
			if old, exists := types[ext]; exists {
				return nil, fmt.Errorf(
					"mime database %s: extension %s appears to have two types (%s and %s)",
					path, ext, old, mime,
				)
			}
			types[ext] = mime
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取 MIME 数据库失败: %w", err)
	}

	return &Table{types: types}, nil
}

// Resolve 实现三段式构建策略：
//   - dbPath == nil：尝试 DefaultPath，任何失败都静默降级为 nil 表；
//   - *dbPath == ""：用户明确禁用 MIME 表，不做任何加载；
//   - 其余情况：显式路径必须加载成功，失败向上冒泡为致命配置错误。
func Resolve(dbPath *string) (*Table, error) {
	switch {
	case dbPath == nil:
		table, err := Load(DefaultPath)
		if err != nil {
			return nil, nil
		}
		return table, nil
	case *dbPath == "":
		return nil, nil
	default:
		return Load(*dbPath)
	}
}
