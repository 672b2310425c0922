// internal/dictionary/dictionary.go
package dictionary

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lgornik/translator-app-sub000/internal/model"
	"github.com/lgornik/translator-app-sub000/internal/repository"
)

//go:embed data/words.json
var embeddedData embed.FS

// entry は辞書JSONの1行分です。
type entry struct {
	Term        string `json:"term"`
	Translation string `json:"translation"`
	Category    string `json:"category"`
	Difficulty  int    `json:"difficulty"`
}

// Load は同梱の辞書データを読み込みます。
func Load() ([]*model.Word, error) {
	raw, err := embeddedData.ReadFile("data/words.json")
	if err != nil {
		return nil, fmt.Errorf("dictionary.Load: %w", err)
	}
	return parse(raw)
}

// LoadFile は外部の辞書JSONファイルを読み込みます (同梱データの差し替え用)。
func LoadFile(path string) ([]*model.Word, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary.LoadFile: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) ([]*model.Word, error) {
	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("dictionary: failed to parse dictionary data: %w", err)
	}

	words := make([]*model.Word, 0, len(entries))
	for _, e := range entries {
		if e.Term == "" || e.Translation == "" {
			continue
		}
		if e.Difficulty < 1 || e.Difficulty > 3 {
			e.Difficulty = 1
		}
		words = append(words, &model.Word{
			WordID:      uuid.New(),
			Term:        e.Term,
			Translation: e.Translation,
			Category:    e.Category,
			Difficulty:  e.Difficulty,
		})
	}
	return words, nil
}

// Seed は辞書テーブルが空の場合のみ words を投入します。
func Seed(ctx context.Context, db *gorm.DB, repo repository.WordRepository, words []*model.Word) (int, error) {
	count, err := repo.Count(ctx, db)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil // 既にデータがあるなら何もしない
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repo.CreateInBatches(ctx, tx, words)
	})
	if err != nil {
		return 0, err
	}
	return len(words), nil
}
