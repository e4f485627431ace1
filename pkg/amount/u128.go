package amount

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxU128 = 2^128 - 1
var MaxU128 = decimal.NewFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)), 0)

// ParseU128 解析最小单位的无符号 128 位整数字符串 (例如 "1000000000000000000000000")
// 只接受十进制数字，不接受小数点、符号和科学计数法
func ParseU128(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return decimal.Zero, fmt.Errorf("amount %q is not an unsigned integer", s)
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", s, err)
	}
	if d.GreaterThan(MaxU128) {
		return decimal.Zero, fmt.Errorf("amount %q overflows u128", s)
	}
	return d, nil
}

// ValidU128 检查一个 decimal 是否落在 u128 范围内且为整数
func ValidU128(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Truncate(0)) && !d.GreaterThan(MaxU128)
}

// ParseReference 解析参考币种金额 (浮点)，拒绝 NaN、Inf 与负数
func ParseReference(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("reference amount %q is not numeric", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("reference amount %q out of range", s)
	}
	return v, nil
}
