// internal/apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/lgornik/translator-app-sub000/internal/config"
	"github.com/lgornik/translator-app-sub000/internal/model"
)

// Client はクイズAPIサーバーの型付きHTTPクライアントです。
// セッションIDはクライアント側で採番し、全リクエストのヘッダーに付与します。
type Client struct {
	baseURL   string
	sessionID uuid.UUID
	httpc     *http.Client
}

// New は新しいセッションIDでクライアントを生成します。
func New(baseURL string) *Client {
	return &Client{
		baseURL:   baseURL,
		sessionID: uuid.New(),
		httpc:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SessionID は採番済みのセッションIDを返します。
func (c *Client) SessionID() uuid.UUID {
	return c.sessionID
}

// FetchChallenge は次の1問を取得します。
// recycle を指定すると、出題済みプールが尽きていた場合に
// サーバー側でリセットして再出題します。
func (c *Client) FetchChallenge(ctx context.Context, direction model.Direction, filters model.ChallengeFilters, recycle bool) (*model.Challenge, error) {
	q := url.Values{}
	q.Set("direction", string(direction))
	if filters.Category != nil {
		q.Set("category", *filters.Category)
	}
	if filters.Difficulty != nil {
		q.Set("difficulty", strconv.Itoa(*filters.Difficulty))
	}
	if recycle {
		q.Set("recycle", "true")
	}

	var challenge model.Challenge
	if err := c.do(ctx, http.MethodGet, "/api/v1/quiz/challenge?"+q.Encode(), nil, &challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

// FetchChallengeBatch は最大 count 問を一括で取得します。
// 候補がない場合は空スライスを返します (エラーにはなりません)。
func (c *Client) FetchChallengeBatch(ctx context.Context, direction model.Direction, count int, filters model.ChallengeFilters) ([]*model.Challenge, error) {
	req := model.FetchBatchRequest{
		Direction:  direction,
		Count:      count,
		Category:   filters.Category,
		Difficulty: filters.Difficulty,
	}

	var resp model.FetchBatchResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/quiz/challenges", req, &resp); err != nil {
		return nil, err
	}
	return resp.Challenges, nil
}

// CheckAnswer は回答を判定に送り、判定結果を返します。
func (c *Client) CheckAnswer(ctx context.Context, challengeID uuid.UUID, answer string, direction model.Direction) (*model.Verdict, error) {
	req := model.CheckAnswerRequest{
		ChallengeID: challengeID,
		Answer:      answer,
		Direction:   direction,
	}

	var verdict model.Verdict
	if err := c.do(ctx, http.MethodPost, "/api/v1/quiz/answers", req, &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

// ResetSession はサーバー側の出題済み履歴を破棄します。冪等です。
func (c *Client) ResetSession(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/quiz/session", nil, nil)
}

// do はリクエストの組み立て・送信・レスポンス解釈をまとめて行います。
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(config.SessionIDHeader, c.sessionID.String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// decodeAPIError はエラーレスポンスのコードをドメインのエラー値に
// 写像します。状態機械はこれらを終端フェーズへの遷移として扱います。
func decodeAPIError(resp *http.Response) error {
	var apiErr model.APIErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	detail := apiErr.Error
	switch detail.Code {
	case "NO_WORDS_AVAILABLE":
		return model.ErrNoWordsAvailable
	case "POOL_EXHAUSTED":
		return model.ErrPoolExhausted
	case "WORD_NOT_FOUND":
		return fmt.Errorf("%s: %w", detail.Message, model.ErrNotFound)
	default:
		return fmt.Errorf("server error %s: %s", detail.Code, detail.Message)
	}
}
