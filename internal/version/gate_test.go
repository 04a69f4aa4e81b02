package version

import "testing"

func TestShouldAccept_FirstSeen(t *testing.T) {
	// 首次见到该应用/架构时无条件接受
	if !ShouldAccept("", false, "1.0.0") {
		t.Error("expected accept when no existing version")
	}
}

func TestShouldAccept_NumericCompare(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		next     string
		want     bool
	}{
		{"相同版本拒绝", "1.0.0", "1.0.0", false},
		{"整数比较而非字典序", "1.2.0", "1.10.0", true},
		{"主版本更低拒绝", "2.0", "1.9.9", false},
		{"补齐后等价拒绝", "1.2", "1.2.0", false},
		{"补齐后等价拒绝(反向)", "1.2.0", "1.2", false},
		{"补丁号升级接受", "5.1.1", "5.1.2", true},
		{"旧版本拒绝", "5.1.2", "5.1.1", false},
		{"数字段含于后缀", "1.0.0-rc1", "1.0.0-rc2", true},
		{"四段对三段", "1.2.3", "1.2.3.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldAccept(tt.existing, true, tt.next); got != tt.want {
				t.Errorf("ShouldAccept(%q, true, %q) = %v, want %v",
					tt.existing, tt.next, got, tt.want)
			}
		})
	}
}

func TestShouldAccept_StringFallback(t *testing.T) {
	// 任一版本串不含数字时退回字符串比较
	tests := []struct {
		existing string
		next     string
		want     bool
	}{
		{"abc", "abd", true},
		{"abd", "abc", false},
		{"abc", "abc", false},
		{"abc", "1.0", false}, // "1.0" < "abc" 按字符串比较
		{"1.0", "abc", true},
	}

	for _, tt := range tests {
		if got := ShouldAccept(tt.existing, true, tt.next); got != tt.want {
			t.Errorf("ShouldAccept(%q, true, %q) = %v, want %v",
				tt.existing, tt.next, got, tt.want)
		}
	}
}
