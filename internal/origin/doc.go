// Package origin 实现以本地文件系统为后端的虚拟源站：把请求 URL 安全地
// 映射到根目录内的文件、计算 etag/last-modified 等缓存校验器、执行
// If-None-Match / If-Modified-Since 条件判断，并以拉取式字节流交付正文。
// 包内不做任何跨请求缓存，文件元数据每次请求都从文件系统现读；
// Backend 构建后不可变，可被任意数量的并发请求只读共享。
package origin
