package crypto_util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"lukechampine.com/blake3"
)

// CalculateSHA256 计算输入的 SHA256 哈希值。
func CalculateSHA256(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// CalculateBlake3 计算输入的 Blake3 哈希值。
// Blake3 是一种现代、高性能的加密哈希函数。
func CalculateBlake3(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Fingerprint 对若干字段计算稳定指纹，字段之间用 0x1f 分隔避免拼接歧义
func Fingerprint(parts ...string) string {
	return CalculateBlake3([]byte(strings.Join(parts, "\x1f")))
}
