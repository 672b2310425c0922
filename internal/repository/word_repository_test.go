// internal/repository/word_repository_test.go
package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lgornik/translator-app-sub000/internal/model"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Word{}))
	return db
}

func seedWords(t *testing.T, db *gorm.DB, repo WordRepository, words []*model.Word) {
	t.Helper()
	require.NoError(t, repo.CreateInBatches(context.Background(), db, words))
}

func Test_gormWordRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	db := setupRepoTestDB(t)
	repo := NewGormWordRepository()

	word := &model.Word{WordID: uuid.New(), Term: "kot", Translation: "cat", Category: "animals", Difficulty: 1}
	seedWords(t, db, repo, []*model.Word{word})

	t.Run("正常系: IDで取得できる", func(t *testing.T) {
		found, err := repo.FindByID(ctx, db, word.WordID)
		require.NoError(t, err)
		assert.Equal(t, "kot", found.Term)
		assert.Equal(t, "cat", found.Translation)
	})

	t.Run("異常系: 存在しないIDは ErrNotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, db, uuid.New())
		assert.True(t, errors.Is(err, model.ErrNotFound))
	})
}

func Test_gormWordRepository_FindByFilters(t *testing.T) {
	ctx := context.Background()
	db := setupRepoTestDB(t)
	repo := NewGormWordRepository()

	seedWords(t, db, repo, []*model.Word{
		{WordID: uuid.New(), Term: "kot", Translation: "cat", Category: "animals", Difficulty: 1},
		{WordID: uuid.New(), Term: "niedźwiedź", Translation: "bear", Category: "animals", Difficulty: 2},
		{WordID: uuid.New(), Term: "chleb", Translation: "bread", Category: "food", Difficulty: 1},
	})

	category := "animals"
	difficulty := 2

	tests := []struct {
		name    string
		filters model.ChallengeFilters
		want    int
	}{
		{name: "正常系: フィルタなしは全件", filters: model.ChallengeFilters{}, want: 3},
		{name: "正常系: カテゴリで絞り込み", filters: model.ChallengeFilters{Category: &category}, want: 2},
		{name: "正常系: 難易度で絞り込み", filters: model.ChallengeFilters{Difficulty: &difficulty}, want: 1},
		{name: "正常系: カテゴリと難易度の組み合わせ", filters: model.ChallengeFilters{Category: &category, Difficulty: &difficulty}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, err := repo.FindByFilters(ctx, db, tt.filters)
			require.NoError(t, err)
			assert.Len(t, words, tt.want)
		})
	}

	t.Run("正常系: どれにも一致しなければ空", func(t *testing.T) {
		none := "vehicles"
		words, err := repo.FindByFilters(ctx, db, model.ChallengeFilters{Category: &none})
		require.NoError(t, err)
		assert.Empty(t, words)
	})
}

func Test_gormWordRepository_Count(t *testing.T) {
	ctx := context.Background()
	db := setupRepoTestDB(t)
	repo := NewGormWordRepository()

	count, err := repo.Count(ctx, db)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	seedWords(t, db, repo, []*model.Word{
		{WordID: uuid.New(), Term: "kot", Translation: "cat", Category: "animals", Difficulty: 1},
		{WordID: uuid.New(), Term: "pies", Translation: "dog", Category: "animals", Difficulty: 1},
	})

	count, err = repo.Count(ctx, db)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
