package origin

// Request 是宿主侧入站请求的最小视图。实现方需要保证 Header 的
// 名称查找大小写不敏感，且缺失时返回空串。
type Request interface {
	Method() string
	// Path 返回 URL 路径部分，不含 query。
	Path() string
	Header(name string) string
}

// Response 描述一次取回的结果：状态码、头部集合，以及可选的正文流。
// Body 为 nil 表示无正文（HEAD、304、405）。Body 的所有权随 Response
// 移交给宿主，宿主必须在任何退出路径上 Close。
type Response struct {
	Status  int
	Headers map[string]string
	Body    *Transfer
}

// Release 关闭尚未移交的正文流，幂等。
func (r *Response) Release() {
	if r != nil && r.Body != nil {
		_ = r.Body.Close()
	}
}
