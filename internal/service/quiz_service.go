// internal/service/quiz_service.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lgornik/translator-app-sub000/internal/middleware"
	"github.com/lgornik/translator-app-sub000/internal/model"
	"github.com/lgornik/translator-app-sub000/internal/repository"
	"github.com/lgornik/translator-app-sub000/internal/selector"
	"github.com/lgornik/translator-app-sub000/internal/session"
	"github.com/lgornik/translator-app-sub000/internal/textmatch"
)

// QuizService は出題の払い出しと回答判定を提供します。
type QuizService interface {
	// FetchChallenge は1問を払い出します。
	// 条件に合う語が1つもない場合は ErrNoWordsAvailable、
	// プールは非空だが全て出題済みの場合は ErrPoolExhausted を返します。
	// recycle が真なら、プール枯渇時にそのプール分の出題済み記録だけを
	// リセットして選び直します (セッションが尽きてはいけないモード用)。
	FetchChallenge(ctx context.Context, sessionID string, direction model.Direction, filters model.ChallengeFilters, recycle bool) (*model.Challenge, error)
	// FetchChallengeBatch は最大 count 問をまとめて払い出します。
	// 条件に合う語が1つもない場合は空スライスを返します (エラーにしない)。
	FetchChallengeBatch(ctx context.Context, sessionID string, direction model.Direction, count int, filters model.ChallengeFilters) ([]*model.Challenge, error)
	// CheckAnswer は回答を判定します。未知の challengeID は ErrNotFound。
	CheckAnswer(ctx context.Context, challengeID uuid.UUID, submitted string, direction model.Direction) (*model.Verdict, error)
	// ResetSession はセッションの出題済み記録を破棄します。未知のIDでも成功します。
	ResetSession(ctx context.Context, sessionID string) error
}

type quizService struct {
	db           *gorm.DB
	wordRepo     repository.WordRepository
	sessions     session.Store
	picker       *selector.Selector
	maxBatchSize int
}

func NewQuizService(db *gorm.DB, wordRepo repository.WordRepository, sessions session.Store, picker *selector.Selector, maxBatchSize int) QuizService {
	return &quizService{
		db:           db,
		wordRepo:     wordRepo,
		sessions:     sessions,
		picker:       picker,
		maxBatchSize: maxBatchSize,
	}
}

func (s *quizService) FetchChallenge(ctx context.Context, sessionID string, direction model.Direction, filters model.ChallengeFilters, recycle bool) (*model.Challenge, error) {
	logger := middleware.GetLogger(ctx).With("session_id", sessionID)

	if !direction.Valid() {
		return nil, model.NewAppError("VALIDATION_ERROR", "Unknown direction value.", "direction", model.ErrInvalidInput)
	}

	pool, err := s.wordRepo.FindByFilters(ctx, s.db, filters)
	if err != nil {
		logger.Error("Failed to load word pool from repository", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load the word pool.", "", model.ErrInternalServer)
	}
	if len(pool) == 0 {
		// 枯渇 (Exhausted) とは区別される終端条件
		return nil, model.NewAppError("NO_WORDS_AVAILABLE", "No words match the requested filters.", "", model.ErrNoWordsAvailable)
	}

	sess := s.sessions.GetOrCreate(sessionID)
	// 同一セッションへの並行リクエストによる重複出題を防ぐ
	sess.Lock()
	defer sess.Unlock()

	word, err := s.picker.Pick(pool, sess.Snapshot())
	if errors.Is(err, model.ErrPoolExhausted) {
		if !recycle {
			return nil, model.NewAppError("POOL_EXHAUSTED", "All words in the pool have been used this session.", "", model.ErrPoolExhausted)
		}

		// リサイクル: このプールに属する語の記録だけを消して選び直す。
		// フィルタ外の語の出題済み記録には触らない。
		poolIDs := make([]uuid.UUID, len(pool))
		for i, w := range pool {
			poolIDs[i] = w.WordID
		}
		s.sessions.ResetForPool(sessionID, poolIDs)
		logger.Info("Word pool exhausted, recycled for session", "pool_size", len(pool))

		word, err = s.picker.Pick(pool, sess.Snapshot())
		if err != nil {
			logger.Error("Pick failed immediately after recycling", "error", err)
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to select a word.", "", model.ErrInternalServer)
		}
	} else if err != nil {
		logger.Error("Failed to pick a word", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to select a word.", "", model.ErrInternalServer)
	}

	// 払い出す前に出題済みとして記録する (クラッシュ時は exclusions が
	// 少なく数えられるが、即時再出題さえ防げればよい)
	s.sessions.RecordUsed(sessionID, word.WordID)

	logger.Debug("Challenge dispensed", "word_id", word.WordID.String())
	return toChallenge(word, direction), nil
}

func (s *quizService) FetchChallengeBatch(ctx context.Context, sessionID string, direction model.Direction, count int, filters model.ChallengeFilters) ([]*model.Challenge, error) {
	logger := middleware.GetLogger(ctx).With("session_id", sessionID)

	if !direction.Valid() {
		return nil, model.NewAppError("VALIDATION_ERROR", "Unknown direction value.", "direction", model.ErrInvalidInput)
	}
	if count <= 0 {
		return nil, model.NewAppError("VALIDATION_ERROR", "Count must be positive.", "count", model.ErrInvalidInput)
	}
	if count > s.maxBatchSize {
		count = s.maxBatchSize
	}

	pool, err := s.wordRepo.FindByFilters(ctx, s.db, filters)
	if err != nil {
		logger.Error("Failed to load word pool from repository", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load the word pool.", "", model.ErrInternalServer)
	}
	if len(pool) == 0 {
		// 語が1つもないことは空配列で表現する
		return []*model.Challenge{}, nil
	}

	sess := s.sessions.GetOrCreate(sessionID)
	sess.Lock()
	defer sess.Unlock()

	shuffled := s.picker.Shuffle(pool)
	if count > len(shuffled) {
		count = len(shuffled)
	}

	challenges := make([]*model.Challenge, 0, count)
	for _, w := range shuffled[:count] {
		s.sessions.RecordUsed(sessionID, w.WordID)
		challenges = append(challenges, toChallenge(w, direction))
	}

	logger.Info("Challenge batch dispensed", "count", len(challenges))
	return challenges, nil
}

func (s *quizService) CheckAnswer(ctx context.Context, challengeID uuid.UUID, submitted string, direction model.Direction) (*model.Verdict, error) {
	logger := middleware.GetLogger(ctx).With("challenge_id", challengeID.String())

	if !direction.Valid() {
		return nil, model.NewAppError("VALIDATION_ERROR", "Unknown direction value.", "direction", model.ErrInvalidInput)
	}

	word, err := s.wordRepo.FindByID(ctx, s.db, challengeID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("WORD_NOT_FOUND", "The challenge does not exist.", "challenge_id", model.ErrNotFound)
		}
		logger.Error("Failed to find word for answer check", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to check the answer.", "", model.ErrInternalServer)
	}

	verdict := textmatch.Check(word.AnswerSpec(direction), submitted)
	logger.Info("Answer checked", "is_correct", verdict.IsCorrect)
	return &verdict, nil
}

func (s *quizService) ResetSession(ctx context.Context, sessionID string) error {
	logger := middleware.GetLogger(ctx).With("session_id", sessionID)
	s.sessions.Reset(sessionID)
	logger.Info("Session reset")
	return nil
}

// toChallenge はWordから出題DTOを作ります。正解仕様は含めません。
func toChallenge(w *model.Word, direction model.Direction) *model.Challenge {
	return &model.Challenge{
		ChallengeID: w.WordID,
		Prompt:      w.Prompt(direction),
		Category:    w.Category,
		Difficulty:  w.Difficulty,
		Direction:   direction,
	}
}
