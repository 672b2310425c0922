// internal/textmatch/normalize.go
package textmatch

import "strings"

// Normalize は比較用に文字列を正規化します。
// 前後の空白を除去し、内部の連続空白を1つのスペースに畳み、小文字化します。
// ロケール非依存の単純なケースフォールドです (アクセント除去は行いません)。
func Normalize(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(fields, " "))
}
