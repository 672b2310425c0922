// internal/dictionary/dictionary_test.go
package dictionary

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	words, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, words)

	terms := make(map[string]bool, len(words))
	for _, w := range words {
		assert.NotEqual(t, uuid.Nil, w.WordID)
		assert.NotEmpty(t, w.Term)
		assert.NotEmpty(t, w.Translation)
		assert.NotEmpty(t, w.Category)
		assert.GreaterOrEqual(t, w.Difficulty, 1)
		assert.LessOrEqual(t, w.Difficulty, 3)
		terms[w.Term] = true
	}

	// 同梱辞書には別解・括弧つきの代表エントリが含まれる
	assert.True(t, terms["ziemniak/kartofel"])
	assert.True(t, terms["pogodzić się z (czymś)"])
}

func TestParse(t *testing.T) {
	t.Run("正常系: 不完全なエントリはスキップ", func(t *testing.T) {
		raw := []byte(`[
			{"term": "kot", "translation": "cat", "category": "animals", "difficulty": 1},
			{"term": "", "translation": "dog", "category": "animals", "difficulty": 1},
			{"term": "koń", "translation": "", "category": "animals", "difficulty": 1}
		]`)
		words, err := parse(raw)
		require.NoError(t, err)
		assert.Len(t, words, 1)
		assert.Equal(t, "kot", words[0].Term)
	})

	t.Run("正常系: 範囲外の難易度は1に丸める", func(t *testing.T) {
		raw := []byte(`[{"term": "kot", "translation": "cat", "category": "animals", "difficulty": 9}]`)
		words, err := parse(raw)
		require.NoError(t, err)
		assert.Equal(t, 1, words[0].Difficulty)
	})

	t.Run("異常系: 壊れたJSONはエラー", func(t *testing.T) {
		_, err := parse([]byte(`{not json`))
		assert.Error(t, err)
	})
}
