// internal/textmatch/judge_test.go
package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "正常系: 前後の空白を除去", in: "  ziemniak  ", want: "ziemniak"},
		{name: "正常系: 内部の連続空白を畳む", in: "pogodzić   się \t z", want: "pogodzić się z"},
		{name: "正常系: 小文字化", in: "Ziemniak", want: "ziemniak"},
		{name: "正常系: 空文字列", in: "", want: ""},
		{name: "正常系: 空白のみ", in: " \t \n ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestExpandVariants(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []string
	}{
		{
			name: "正常系: 単一リテラル",
			spec: "potato",
			want: []string{"potato"},
		},
		{
			name: "正常系: スラッシュ区切りの別解",
			spec: "ziemniak/kartofel",
			want: []string{"ziemniak", "kartofel"},
		},
		{
			name: "正常系: 括弧の省略可能セグメント",
			spec: "pogodzić się z (czymś)",
			want: []string{"pogodzić się z (czymś)", "pogodzić się z", "pogodzić się z czymś"},
		},
		{
			name: "正常系: 別解と括弧の組み合わせ",
			spec: "come to terms (with)/accept",
			want: []string{"come to terms (with)", "come to terms", "come to terms with", "accept"},
		},
		{
			name: "正常系: 重複バリアントは1つに",
			spec: "dom/dom",
			want: []string{"dom"},
		},
		{
			name: "異常系: 空の仕様はバリアントなし",
			spec: "   ",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, ExpandVariants(tt.spec))
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name          string
		spec          string
		submitted     string
		wantCorrect   bool
		wantCanonical string
	}{
		{
			name:          "正常系: 完全一致",
			spec:          "potato",
			submitted:     "potato",
			wantCorrect:   true,
			wantCanonical: "potato",
		},
		{
			name:          "正常系: 大文字小文字と空白を無視して一致",
			spec:          "potato",
			submitted:     "  PoTaTo  ",
			wantCorrect:   true,
			wantCanonical: "potato",
		},
		{
			name:          "正常系: 1つ目の別解に一致",
			spec:          "ziemniak/kartofel",
			submitted:     "ziemniak",
			wantCorrect:   true,
			wantCanonical: "ziemniak",
		},
		{
			name:          "正常系: 2つ目の別解に一致",
			spec:          "ziemniak/kartofel",
			submitted:     "kartofel",
			wantCorrect:   true,
			wantCanonical: "ziemniak",
		},
		{
			name:          "異常系: 近いが一致しない回答",
			spec:          "ziemniak/kartofel",
			submitted:     "ziemniaki",
			wantCorrect:   false,
			wantCanonical: "ziemniak",
		},
		{
			name:          "正常系: 括弧セグメントを省略した回答",
			spec:          "pogodzić się z (czymś)",
			submitted:     "pogodzić się z",
			wantCorrect:   true,
			wantCanonical: "pogodzić się z (czymś)",
		},
		{
			name:          "正常系: 括弧の内容を含めた回答",
			spec:          "pogodzić się z (czymś)",
			submitted:     "pogodzić się z czymś",
			wantCorrect:   true,
			wantCanonical: "pogodzić się z (czymś)",
		},
		{
			name:          "異常系: 空の回答は常に不正解",
			spec:          "potato",
			submitted:     "",
			wantCorrect:   false,
			wantCanonical: "potato",
		},
		{
			name:          "異常系: 空白のみの回答は常に不正解",
			spec:          "potato",
			submitted:     "   ",
			wantCorrect:   false,
			wantCanonical: "potato",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Check(tt.spec, tt.submitted)
			assert.Equal(t, tt.wantCorrect, verdict.IsCorrect)
			assert.Equal(t, tt.wantCanonical, verdict.CanonicalAnswer)
			assert.Equal(t, tt.submitted, verdict.SubmittedAnswer)
		})
	}
}

func TestCheck_SimilarityIsInformationalOnly(t *testing.T) {
	// 類似度が高くても正規化後の完全一致でなければ不正解
	verdict := Check("ziemniak", "ziemniakk")
	assert.False(t, verdict.IsCorrect)
	assert.Greater(t, verdict.Similarity, 0.8)
}
