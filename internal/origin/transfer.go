package origin

import (
	"io"
	"os"
	"sync"
)

// Transfer 是拉取式的有界正文流：持有一个打开的文件句柄，
// 最多交付创建时记录的 remaining 字节。上限以打开时的 Stat 结果为准，
// 文件随后变大也不会多交付一个字节，保证与已宣告的 content-length 一致。
type Transfer struct {
	file      *os.File
	remaining int64

	closeOnce sync.Once
	closeErr  error
}

// NewTransfer 接管 f 的所有权，交付上限为 size 字节。
func NewTransfer(f *os.File, size int64) *Transfer {
	return &Transfer{file: f, remaining: size}
}

// Remaining 返回尚未交付的字节数，单调递减到 0。调用方可据此预分配缓冲。
func (t *Transfer) Remaining() int64 {
	return t.remaining
}

// Pull 向 buf 填充数据，受 buf 容量与剩余上限双重约束。
// 上限耗尽后返回 0, io.EOF；零容量 buf 是 no-op，返回 0, nil；
// 底层读取失败原样返回错误，由宿主决定如何中止交付。
func (t *Transfer) Pull(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if t.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(buf)) > t.remaining {
		buf = buf[:t.remaining]
	}

	n, err := t.file.Read(buf)
	t.remaining -= int64(n)
	return n, err
}

// Read 使 Transfer 同时满足 io.Reader，便于测试与通用工具复用。
func (t *Transfer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return t.Pull(p)
}

// Close 释放文件句柄，严格只释放一次；耗尽、提前放弃两条路径都必须调用。
func (t *Transfer) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.file.Close()
	})
	return t.closeErr
}
