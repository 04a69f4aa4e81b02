package version

// minComponents 版本序列补齐到的最少分量数(major.minor.patch)
const minComponents = 3

// ShouldAccept 判断新抓取的版本是否应覆盖已存储的版本
// hasExisting=false(首次见到该应用/架构)时无条件接受
// 两个版本串按数字段序列归一化后逐位比较,新版本严格更大才接受,相等拒绝
// 任一版本串不含数字时退回原始字符串比较,保证对任意输入都能给出判定
func ShouldAccept(existing string, hasExisting bool, next string) bool {
	if !hasExisting {
		return true
	}

	existingParts := Tokenize(existing)
	nextParts := Tokenize(next)
	if len(existingParts) == 0 || len(nextParts) == 0 {
		return next > existing
	}

	existingParts = padComponents(existingParts, len(nextParts))
	nextParts = padComponents(nextParts, len(existingParts))

	return Compare(nextParts, existingParts) > 0
}

// padComponents 右侧补零到 max(minComponents, want) 个分量
func padComponents(parts []int, want int) []int {
	if want < minComponents {
		want = minComponents
	}
	for len(parts) < want {
		parts = append(parts, 0)
	}
	return parts
}
