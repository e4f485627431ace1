package crypto_util

import (
	"testing"
)

func TestHashes(t *testing.T) {
	input := []byte("hello world")

	// SHA256
	sha256Hash := CalculateSHA256(input)
	if len(sha256Hash) != 64 { // 32 bytes * 2 hex chars
		t.Errorf("SHA256 哈希长度不匹配: 得到 %d, 期望 64", len(sha256Hash))
	}

	// Blake3
	blake3Hash := CalculateBlake3(input)
	if len(blake3Hash) != 64 {
		t.Errorf("Blake3 哈希长度不匹配: 得到 %d, 期望 64", len(blake3Hash))
	}
	if blake3Hash != "d74981efa70a0c880b8d8c1985d075dbcbf679b99a5f9914e5aaf96b831a9e24" {
		t.Errorf("Blake3 哈希值不匹配: %s", blake3Hash)
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("alice", "usdc.near", "100")
	b := Fingerprint("alice", "usdc.near", "100")
	c := Fingerprint("alice", "usdc.near1", "00")

	if a != b {
		t.Errorf("相同输入的指纹应一致")
	}
	if a == c {
		t.Errorf("字段分隔应避免拼接歧义")
	}
}
