// internal/model/quiz.go
package model

import (
	"github.com/google/uuid"
)

// Direction は出題方向を表します (どちらの言語を出題し、どちらで答えるか)。
type Direction string

const (
	DirectionPLEN Direction = "pl-en" // ポーランド語を出題し英語で答える
	DirectionENPL Direction = "en-pl" // 英語を出題しポーランド語で答える
)

// Valid は方向の値が既知かどうかを返します。
func (d Direction) Valid() bool {
	return d == DirectionPLEN || d == DirectionENPL
}

// Toggle は反対の出題方向を返します。
func (d Direction) Toggle() Direction {
	if d == DirectionENPL {
		return DirectionPLEN
	}
	return DirectionENPL
}

// Challenge はクライアントに渡す1問分の出題です。
// 正解仕様は含めません (promptText のみ)。
type Challenge struct {
	ChallengeID uuid.UUID `json:"challenge_id"`
	Prompt      string    `json:"prompt"`
	Category    string    `json:"category"`
	Difficulty  int       `json:"difficulty"`
	Direction   Direction `json:"direction"`
}

// Verdict は回答判定の結果です。リクエスト毎に生成され、永続化しません。
type Verdict struct {
	IsCorrect       bool    `json:"is_correct"`
	CanonicalAnswer string  `json:"canonical_answer"`
	SubmittedAnswer string  `json:"submitted_answer"`
	Similarity      float64 `json:"similarity"` // 参考値。正誤判定には使いません
}

// 出題バッチ取得リクエストDTO
type FetchBatchRequest struct {
	Direction  Direction `json:"direction" validate:"required,oneof=pl-en en-pl"`
	Count      int       `json:"count" validate:"required,min=1"`
	Category   *string   `json:"category,omitempty" validate:"omitempty,min=1"`
	Difficulty *int      `json:"difficulty,omitempty" validate:"omitempty,min=1,max=3"`
}

// 出題バッチ取得レスポンスDTO
type FetchBatchResponse struct {
	Challenges []*Challenge `json:"challenges"`
}

// 回答チェックリクエストDTO
type CheckAnswerRequest struct {
	ChallengeID uuid.UUID `json:"challenge_id" validate:"required"`
	Answer      string    `json:"answer"`
	Direction   Direction `json:"direction" validate:"required,oneof=pl-en en-pl"`
}

// ChallengeFilters は出題プールの絞り込み条件です。
type ChallengeFilters struct {
	Category   *string
	Difficulty *int
}
