// internal/selector/selector.go
package selector

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/lgornik/translator-app-sub000/internal/model"
)

// Selector はセッションの出題済みセットを除いた候補から
// 1語を一様ランダムに選びます。
type Selector struct {
	rng *rand.Rand
}

// New はデフォルトの乱数源を持つ Selector を返します。
func New() *Selector {
	return NewWithRand(rand.New(rand.NewSource(rand.Int63())))
}

// NewWithRand はテスト用に乱数源を注入できるコンストラクタです。
func NewWithRand(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Pick は pool から used に含まれない語を一様ランダムに1つ返します。
// 残りがない場合は model.ErrPoolExhausted を返します。
// 除外セットのリセットは呼び出し側の責務です (モードにより
// 「クイズ終了」か「リサイクルして続行」かが異なるため)。
func (s *Selector) Pick(pool []*model.Word, used map[uuid.UUID]struct{}) (*model.Word, error) {
	remaining := make([]*model.Word, 0, len(pool))
	for _, w := range pool {
		if _, ok := used[w.WordID]; !ok {
			remaining = append(remaining, w)
		}
	}
	if len(remaining) == 0 {
		return nil, model.ErrPoolExhausted
	}
	return remaining[s.rng.Intn(len(remaining))], nil
}

// Shuffle は pool のコピーをシャッフルして返します (バッチ出題用)。
func (s *Selector) Shuffle(pool []*model.Word) []*model.Word {
	shuffled := make([]*model.Word, len(pool))
	copy(shuffled, pool)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
