// internal/textmatch/similarity_test.go
package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "正常系: 同一文字列", a: "kot", b: "kot", want: 0},
		{name: "正常系: 1文字置換", a: "kot", b: "kos", want: 1},
		{name: "正常系: 挿入", a: "ziemniak", b: "ziemniaki", want: 1},
		{name: "正常系: 空文字列との距離", a: "", b: "abc", want: 3},
		{name: "正常系: 両方空", a: "", b: "", want: 0},
		{name: "正常系: マルチバイト文字をルーン単位で", a: "pogodzić", b: "pogodzic", want: 1},
		{name: "正常系: 全く異なる文字列", a: "abc", b: "xyz", want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			// 距離は対称
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a))
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "正常系: 同一の非空文字列は1", a: "ziemniak", b: "ziemniak", want: 1},
		{name: "正常系: 空文字列は0", a: "", b: "anything", want: 0},
		{name: "正常系: 両方空でも0", a: "", b: "", want: 0},
		{name: "正常系: 半分一致", a: "ab", b: "ax", want: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarity_Range(t *testing.T) {
	pairs := [][2]string{
		{"kot", "pies"},
		{"ziemniak", "kartofel"},
		{"a", "abcdefgh"},
	}
	for _, p := range pairs {
		s := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}
