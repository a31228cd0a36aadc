package origin

import (
	"net/http"
	"strings"
	"time"
)

// notModified 判断请求携带的校验器是否命中当前文件状态。
// If-None-Match 优先：一旦出现就不再查看 If-Modified-Since。
// 匹配规则：与 etag 完全一致，或剥掉 W/ 弱校验前缀后一致。
// If-Modified-Since 解析失败按没有条件头处理（结果：已修改）；
// 解析成功时，提供的时间严格晚于文件修改时间才算未修改。
func notModified(req Request, etag string, modifiedAt time.Time) bool {
	if inm := req.Header("if-none-match"); inm != "" {
		if inm == etag {
			return true
		}
		if strings.HasPrefix(inm, "W/") && inm[2:] == etag {
			return true
		}
		return false
	}

	if ims := req.Header("if-modified-since"); ims != "" {
		t, err := http.ParseTime(ims)
		if err != nil {
			return false
		}
		return t.After(modifiedAt)
	}

	return false
}
