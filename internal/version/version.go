package version

import (
	"regexp"
	"strconv"
)

var (
	// prefixPattern 匹配名称中第一段 数字(.数字)* 形式的版本串
	prefixPattern = regexp.MustCompile(`(\d+(?:\.\d+)*)`)

	// digitRunPattern 匹配字符串中所有连续数字段
	digitRunPattern = regexp.MustCompile(`\d+`)
)

// ParsePrefix 从目录名中提取第一段 digits(.digits)* 并解析为整数序列
// 未匹配到任何数字时返回 ok=false,调用方应以 [0] 参与排序
func ParsePrefix(name string) ([]int, bool) {
	m := prefixPattern.FindString(name)
	if m == "" {
		return nil, false
	}

	var parts []int
	start := 0
	for i := 0; i <= len(m); i++ {
		if i == len(m) || m[i] == '.' {
			n, err := strconv.Atoi(m[start:i])
			if err != nil {
				// 超长数字段按0处理,保证解析总能完成
				n = 0
			}
			parts = append(parts, n)
			start = i + 1
		}
	}
	return parts, true
}

// Tokenize 提取字符串中所有连续数字段,按出现顺序解析为整数序列
// 不含任何数字时返回空切片
func Tokenize(s string) []int {
	runs := digitRunPattern.FindAllString(s, -1)
	parts := make([]int, 0, len(runs))
	for _, run := range runs {
		n, err := strconv.Atoi(run)
		if err != nil {
			n = 0
		}
		parts = append(parts, n)
	}
	return parts
}

// Compare 逐位比较两个整数序列,短序列右侧以零补齐
// 返回 -1/0/1 分别表示 a 小于/等于/大于 b
func Compare(a, b []int) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}
