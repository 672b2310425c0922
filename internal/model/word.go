// internal/model/word.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Word は辞書の1エントリを表します。
// Term / Translation は生の正解仕様で、"/" 区切りの別解や
// "(...)" の省略可能セグメントを含むことがあります。
// 生の正解仕様をそのままクライアントに返してはいけません。
type Word struct {
	WordID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"word_id"`
	Term        string         `gorm:"not null;index:idx_words_term" json:"term"`        // ポーランド語側
	Translation string         `gorm:"not null" json:"translation"`                      // 英語側
	Category    string         `gorm:"not null;index:idx_words_category" json:"category"`
	Difficulty  int            `gorm:"not null;index:idx_words_difficulty" json:"difficulty"` // 1(易) - 3(難)
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"` // 論理削除用
}

func (Word) TableName() string {
	return "words"
}

// Prompt は出題方向に応じた出題テキストを返します。
func (w *Word) Prompt(d Direction) string {
	if d == DirectionENPL {
		return w.Translation
	}
	return w.Term
}

// AnswerSpec は出題方向に応じた生の正解仕様を返します。
func (w *Word) AnswerSpec(d Direction) string {
	if d == DirectionENPL {
		return w.Term
	}
	return w.Translation
}
