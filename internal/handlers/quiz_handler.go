// internal/handlers/quiz_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lgornik/translator-app-sub000/internal/config"
	"github.com/lgornik/translator-app-sub000/internal/model"
	"github.com/lgornik/translator-app-sub000/internal/service"
	"github.com/lgornik/translator-app-sub000/internal/webutil"
)

type QuizHandler struct {
	service service.QuizService
	logger  *slog.Logger
}

func NewQuizHandler(s service.QuizService, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizHandler{
		service: s,
		logger:  logger,
	}
}

// sessionIDFromRequest はクライアント生成のセッションIDをヘッダから取り出します。
func sessionIDFromRequest(r *http.Request) (string, error) {
	sessionID := r.Header.Get(config.SessionIDHeader)
	if sessionID == "" {
		return "", model.NewAppError("MISSING_SESSION_ID", "The "+config.SessionIDHeader+" header is required.", "", model.ErrInvalidInput)
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return "", model.NewAppError("INVALID_SESSION_ID", "The session id must be a UUID.", "", model.ErrInvalidInput)
	}
	return sessionID, nil
}

// filtersFromQuery はカテゴリ・難易度の絞り込み条件をクエリから組み立てます。
func filtersFromQuery(r *http.Request) (model.ChallengeFilters, error) {
	var filters model.ChallengeFilters
	if category := r.URL.Query().Get("category"); category != "" {
		filters.Category = &category
	}
	if diffStr := r.URL.Query().Get("difficulty"); diffStr != "" {
		difficulty, err := strconv.Atoi(diffStr)
		if err != nil || difficulty < 1 || difficulty > 3 {
			return filters, model.NewAppError("INVALID_QUERY_PARAM", "difficulty must be an integer between 1 and 3.", "difficulty", model.ErrInvalidInput)
		}
		filters.Difficulty = &difficulty
	}
	return filters, nil
}

// GetChallenge は1問を払い出すハンドラ
// GET /api/v1/quiz/challenge?direction=&category=&difficulty=&recycle=
func (h *QuizHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetChallenge"))

	sessionID, err := sessionIDFromRequest(r)
	if err != nil {
		logger.Warn("Rejected request without valid session id", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("session_id", sessionID))

	direction := model.Direction(r.URL.Query().Get("direction"))
	filters, err := filtersFromQuery(r)
	if err != nil {
		logger.Warn("Invalid filter query", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	recycle := r.URL.Query().Get("recycle") == "true"

	challenge, err := h.service.FetchChallenge(r.Context(), sessionID, direction, filters, recycle)
	if err != nil {
		// 枯渇・候補なしは正常な終端条件なのでエラーログにしない
		if errors.Is(err, model.ErrPoolExhausted) || errors.Is(err, model.ErrNoWordsAvailable) {
			logger.Info("No challenge to dispense", slog.String("reason", err.Error()))
		} else {
			logger.Error("Error fetching challenge in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Challenge dispensed", slog.String("challenge_id", challenge.ChallengeID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, challenge, logger)
}

// PostChallengeBatch は複数問をまとめて払い出すハンドラ
// POST /api/v1/quiz/challenges
func (h *QuizHandler) PostChallengeBatch(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostChallengeBatch"))

	sessionID, err := sessionIDFromRequest(r)
	if err != nil {
		logger.Warn("Rejected request without valid session id", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("session_id", sessionID))

	var req model.FetchBatchRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "The request body is malformed.", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()))
			firstErr := validationErrors[0]
			appErr := model.NewAppError(
				"VALIDATION_ERROR",
				firstErr.Translate(webutil.Trans),
				firstErr.Field(),
				model.ErrInvalidInput,
			)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}

	filters := model.ChallengeFilters{Category: req.Category, Difficulty: req.Difficulty}
	challenges, err := h.service.FetchChallengeBatch(r.Context(), sessionID, req.Direction, req.Count, filters)
	if err != nil {
		logger.Error("Error fetching challenge batch in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if challenges == nil {
		challenges = []*model.Challenge{}
	}
	logger.Info("Challenge batch dispensed", slog.Int("count", len(challenges)))
	webutil.RespondWithJSON(w, http.StatusOK, model.FetchBatchResponse{Challenges: challenges}, logger)
}

// PostAnswer は回答を判定するハンドラ
// POST /api/v1/quiz/answers
func (h *QuizHandler) PostAnswer(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostAnswer"))

	var req model.CheckAnswerRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "The request body is malformed.", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()))
			firstErr := validationErrors[0]
			appErr := model.NewAppError(
				"VALIDATION_ERROR",
				firstErr.Translate(webutil.Trans),
				firstErr.Field(),
				model.ErrInvalidInput,
			)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}
	logger = logger.With(slog.String("challenge_id", req.ChallengeID.String()))

	verdict, err := h.service.CheckAnswer(r.Context(), req.ChallengeID, req.Answer, req.Direction)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Answer check against unknown challenge", slog.Any("error", err))
		} else {
			logger.Error("Error checking answer in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Answer judged", slog.Bool("is_correct", verdict.IsCorrect))
	webutil.RespondWithJSON(w, http.StatusOK, verdict, logger)
}

// DeleteSession はセッションの出題済み記録を破棄するハンドラ
// DELETE /api/v1/quiz/session
func (h *QuizHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteSession"))

	sessionID, err := sessionIDFromRequest(r)
	if err != nil {
		logger.Warn("Rejected request without valid session id", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("session_id", sessionID))

	if err := h.service.ResetSession(r.Context(), sessionID); err != nil {
		logger.Error("Error resetting session in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session reset")
	w.WriteHeader(http.StatusNoContent)
}
