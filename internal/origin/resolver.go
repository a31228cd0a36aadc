package origin

import "strings"

// ResolvePath 将请求 URL 路径拼接到根目录下，仅做词法归一化，不访问文件系统：
//   - 空段（来自开头的 / 或连续斜杠）不产生任何内容；
//   - `.` 段直接丢弃；
//   - `..` 段弹出最近压入的段，栈为空时静默丢弃，不会越出根目录；
//   - 其余段原样保留。
//
// 纯函数，无 I/O，无失败路径。这里不做符号链接解析，根目录内部的
// 符号链接仍可能指向外部，多租户部署需自行约束。
func ResolvePath(rootPath, urlPath string) string {
	var segments []string
	for _, seg := range strings.Split(urlPath, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		default:
			segments = append(segments, seg)
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimRight(rootPath, "/"))
	for _, seg := range segments {
		sb.WriteByte('/')
		sb.WriteString(seg)
	}
	return sb.String()
}
