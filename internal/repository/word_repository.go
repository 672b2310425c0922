//go:generate mockery --name WordRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lgornik/translator-app-sub000/internal/middleware"
	"github.com/lgornik/translator-app-sub000/internal/model"
)

// WordRepository は辞書エントリへのアクセスを提供します。
type WordRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, wordID uuid.UUID) (*model.Word, error)
	FindByFilters(ctx context.Context, db *gorm.DB, filters model.ChallengeFilters) ([]*model.Word, error)
	CreateInBatches(ctx context.Context, tx *gorm.DB, words []*model.Word) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}

type gormWordRepository struct{}

func NewGormWordRepository() WordRepository {
	return &gormWordRepository{}
}

func (r *gormWordRepository) FindByID(ctx context.Context, db *gorm.DB, wordID uuid.UUID) (*model.Word, error) {
	logger := middleware.GetLogger(ctx)
	var word model.Word
	result := db.WithContext(ctx).Where("word_id = ?", wordID).First(&word)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding word by ID in DB",
			"error", result.Error,
			"word_id", wordID.String(),
		)
		return nil, fmt.Errorf("gormWordRepository.FindByID: %w", result.Error)
	}
	return &word, nil
}

func (r *gormWordRepository) FindByFilters(ctx context.Context, db *gorm.DB, filters model.ChallengeFilters) ([]*model.Word, error) {
	logger := middleware.GetLogger(ctx)
	query := db.WithContext(ctx).Model(&model.Word{})
	if filters.Category != nil && *filters.Category != "" {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}

	var words []*model.Word
	result := query.Order("term ASC").Find(&words)
	if result.Error != nil {
		logger.Error("Error finding words by filters in DB",
			"error", result.Error,
		)
		return nil, fmt.Errorf("gormWordRepository.FindByFilters: %w", result.Error)
	}
	return words, nil
}

func (r *gormWordRepository) CreateInBatches(ctx context.Context, tx *gorm.DB, words []*model.Word) error {
	logger := middleware.GetLogger(ctx)
	if len(words) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).CreateInBatches(words, 100)
	if result.Error != nil {
		logger.Error("Error creating words in DB",
			"error", result.Error,
			"count", len(words),
		)
		return fmt.Errorf("gormWordRepository.CreateInBatches: %w", result.Error)
	}
	return nil
}

func (r *gormWordRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Word{}).Count(&count)
	if result.Error != nil {
		logger.Error("Error counting words in DB", "error", result.Error)
		return 0, fmt.Errorf("gormWordRepository.Count: %w", result.Error)
	}
	return count, nil
}
