package origin

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/origin-hub/origin-hub/internal/mimedb"
)

// Backend 把一个根目录当作虚拟源站对外提供服务。构建完成后配置不可变，
// 同一实例可被任意数量的并发请求只读共享；每个请求的文件句柄与
// 字节计数都归该请求独占，互不影响。
type Backend struct {
	name   string
	root   string
	mimes  *mimedb.Table
	logger *logrus.Logger
}

// NewBackend 创建文件源站。root 为空属于编程契约错误，在这里一次性拦截，
// 请求路径上不再重复检查。mimes 允许为 nil（不输出 content-type）。
func NewBackend(name, root string, mimes *mimedb.Table, logger *logrus.Logger) (*Backend, error) {
	if root == "" {
		return nil, fmt.Errorf("origin: can't create %s with an empty root", name)
	}
	if logger == nil {
		return nil, errors.New("origin: logger is required")
	}
	return &Backend{
		name:   name,
		root:   root,
		mimes:  mimes,
		logger: logger,
	}, nil
}

// Name 返回配置中的源站名，供日志与诊断输出。
func (b *Backend) Name() string {
	return b.name
}

// Root 返回生效的根目录绝对路径。
func (b *Backend) Root() string {
	return b.root
}

// MimeCount 返回 MIME 表中的扩展名数量，表未启用时为 0。
func (b *Backend) MimeCount() int {
	return b.mimes.Len()
}

// Fetch 执行一次完整的取回：解析路径、打开文件、读取元数据、
// 评估条件请求头并产出响应描述。打开或 Stat 失败按取回失败返回 error，
// 不映射为 404 之类的状态码响应；方法不允许与 304 属于正常控制流。
func (b *Backend) Fetch(req Request) (*Response, error) {
	filePath := ResolvePath(b.root, req.Path())
	b.logger.WithFields(logrus.Fields{
		"action": "resolve",
		"origin": b.name,
		"file":   filePath,
	}).Debug("file on disk")

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open origin file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat origin file: %w", err)
	}

	meta := metadataOf(info)
	etag := meta.ETag()

	method := req.Method()
	if method != http.MethodGet && method != http.MethodHead {
		f.Close()
		return &Response{Status: http.StatusMethodNotAllowed, Headers: map[string]string{}}, nil
	}

	resp := &Response{Headers: make(map[string]string, 4)}
	switch {
	case notModified(req, etag, meta.ModifiedAt):
		f.Close()
		resp.Status = http.StatusNotModified
	case method == http.MethodGet:
		resp.Status = http.StatusOK
		resp.Body = NewTransfer(f, info.Size())
	default: // HEAD：状态照常，正文省略。
		f.Close()
		resp.Status = http.StatusOK
	}

	// content-length 始终报告真实文件大小，304 也不例外。
	resp.Headers["content-length"] = strconv.FormatInt(info.Size(), 10)
	resp.Headers["etag"] = etag
	resp.Headers["last-modified"] = meta.ModifiedAt.UTC().Format(http.TimeFormat)

	// 只有存在正文内容可言时才补 content-type，零长度文件一律不带。
	if meta.SizeBytes > 0 {
		if ext := strings.TrimPrefix(path.Ext(filePath), "."); ext != "" {
			if mime, ok := b.mimes.Lookup(ext); ok {
				resp.Headers["content-type"] = mime
			}
		}
	}

	return resp, nil
}
