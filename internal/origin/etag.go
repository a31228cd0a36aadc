package origin

import (
	"encoding/binary"
	"hash/fnv"
	"os"
	"strconv"
	"time"
)

// FileMetadata 汇总生成缓存校验器所需的文件身份信息，
// 每次请求都从文件系统现读，绝不跨请求缓存。
type FileMetadata struct {
	Inode      uint64
	SizeBytes  uint64
	ModifiedAt time.Time
}

// metadataOf 从 Stat 结果提取文件身份。inode 在不支持的平台上为 0。
func metadataOf(info os.FileInfo) FileMetadata {
	return FileMetadata{
		Inode:      inodeOf(info),
		SizeBytes:  uint64(info.Size()),
		ModifiedAt: info.ModTime(),
	}
}

// ETag 以 FNV-1a 64 按固定顺序混合 inode、大小与修改时间，输出带引号的
// 十进制不透明串。它只是缓存校验器，不承担任何安全职责；
// 三元组相同则 tag 必然相同，任一字段变化几乎必然改变 tag。
func (m FileMetadata) ETag() string {
	h := fnv.New64a()
	var buf [8]byte

	binary.BigEndian.PutUint64(buf[:], m.Inode)
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], m.SizeBytes)
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(m.ModifiedAt.Unix()))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(m.ModifiedAt.Nanosecond()))
	h.Write(buf[:])

	return `"` + strconv.FormatUint(h.Sum64(), 10) + `"`
}
