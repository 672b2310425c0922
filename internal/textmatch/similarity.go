// internal/textmatch/similarity.go
package textmatch

// Levenshtein は2つの文字列間の編集距離をルーン単位で計算します。
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// 1行分のバッファだけで計算する
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // 削除
				curr[j-1]+1,    // 挿入
				prev[j-1]+cost, // 置換
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity は 1 - (編集距離 / 長い方の長さ) による [0,1] の類似度を返します。
// どちらかが空文字列の場合は 0 (ゼロ除算ではなく定義として)。
// この値は「惜しい」表示などの参考値で、正誤判定には使いません。
func Similarity(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
