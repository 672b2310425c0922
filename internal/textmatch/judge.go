// internal/textmatch/judge.go
package textmatch

import (
	"regexp"
	"strings"

	"github.com/lgornik/translator-app-sub000/internal/model"
)

// 正解仕様中の "(...)" セグメントにマッチします (入れ子は想定しない)。
var parentheticalRe = regexp.MustCompile(`\([^)]*\)`)

// ExpandVariants は生の正解仕様を受理可能な正規化済みバリアントに展開します。
// 文法:
//   - "/" 区切りの別解 ("ziemniak/kartofel")。どれか1つに一致すれば正解。
//   - "(...)" の省略可能セグメント ("pogodzić się z (czymś)")。
//     セグメントを丸ごと省いた形と、括弧だけ外して内容を残した形の両方を受理。
//
// パース不能な仕様は仕様全体を1つのリテラル正解として扱います (エラーにしない)。
func ExpandVariants(spec string) []string {
	alternatives := strings.Split(spec, "/")

	seen := make(map[string]struct{})
	variants := make([]string, 0, len(alternatives)*2)
	add := func(raw string) {
		n := Normalize(raw)
		if n == "" {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		variants = append(variants, n)
	}

	for _, alt := range alternatives {
		add(alt)
		if parentheticalRe.MatchString(alt) {
			// 括弧セグメントを丸ごと除去した形
			add(parentheticalRe.ReplaceAllString(alt, " "))
			// 括弧だけ外して内容を残した形
			add(parentheticalRe.ReplaceAllStringFunc(alt, func(m string) string {
				return strings.TrimSuffix(strings.TrimPrefix(m, "("), ")")
			}))
		}
	}

	if len(variants) == 0 {
		// 別解が1つも得られない仕様 (空や括弧のみなど) は全体をリテラルとして扱う
		if n := Normalize(spec); n != "" {
			variants = append(variants, n)
		}
	}
	return variants
}

// CanonicalAnswer は表示用の代表正解を返します。
// 最初の "/" 別解を、前後の空白だけ整えてそのまま返します
// (大文字小文字や括弧は人が読める形のまま保持します)。
func CanonicalAnswer(spec string) string {
	first, _, _ := strings.Cut(spec, "/")
	return strings.Join(strings.Fields(first), " ")
}

// Check は提出された回答を正解仕様と照合し、判定結果を返します。
// 正誤は正規化後の完全一致のみで決まります。類似度は参考値です。
// 空・空白のみの回答は類似度に関わらず常に不正解です。
func Check(spec, submitted string) model.Verdict {
	canonical := CanonicalAnswer(spec)
	normalized := Normalize(submitted)

	verdict := model.Verdict{
		CanonicalAnswer: canonical,
		SubmittedAnswer: submitted,
		Similarity:      Similarity(normalized, Normalize(canonical)),
	}
	if normalized == "" {
		return verdict
	}

	for _, variant := range ExpandVariants(spec) {
		if normalized == variant {
			verdict.IsCorrect = true
			break
		}
	}
	return verdict
}
