package asset

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Native 原生币资产标记
const Native = "native"

// 账户风格的代币标识 (例如 usdc.token.near)
var accountPattern = regexp.MustCompile(`^[a-z0-9]+([-_.][a-z0-9]+)*$`)

// Normalize 规范化资产标识:
//   - "native" 原样返回
//   - 0x 开头的 EVM 合约地址做格式校验并转成 checksum 形式
//   - 其余按账户名规则校验并转小写
func Normalize(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("asset identifier is empty")
	}
	if strings.EqualFold(id, Native) {
		return Native, nil
	}
	if strings.HasPrefix(id, "0x") || strings.HasPrefix(id, "0X") {
		if !common.IsHexAddress(id) {
			return "", fmt.Errorf("asset %q is not a valid contract address", id)
		}
		return common.HexToAddress(id).Hex(), nil
	}
	lower := strings.ToLower(id)
	if len(lower) < 2 || len(lower) > 64 || !accountPattern.MatchString(lower) {
		return "", fmt.Errorf("asset %q is not a valid account identifier", id)
	}
	return lower, nil
}

// IsNative 判断是否为原生币
func IsNative(id string) bool {
	return strings.EqualFold(strings.TrimSpace(id), Native)
}
