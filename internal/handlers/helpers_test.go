// internal/handlers/helpers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lgornik/translator-app-sub000/internal/handlers"
	"github.com/lgornik/translator-app-sub000/internal/model"
	"github.com/lgornik/translator-app-sub000/internal/repository/mocks"
	"github.com/lgornik/translator-app-sub000/internal/selector"
	"github.com/lgornik/translator-app-sub000/internal/service"
	"github.com/lgornik/translator-app-sub000/internal/session"
)

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// testEnv はハンドラテスト一式の依存をまとめます。
type testEnv struct {
	server   *httptest.Server
	wordRepo *mocks.WordRepository
	sessions session.Store
}

// setupTestServer はモックリポジトリ + 実サービス + 実ルータのテストサーバーを組み立てます。
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	wordRepo := new(mocks.WordRepository)
	sessions := session.NewMemoryStore()
	picker := selector.NewWithRand(rand.New(rand.NewSource(1)))
	svc := service.NewQuizService(db, wordRepo, sessions, picker, 50)

	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := handlers.NewQuizHandler(svc, testLogger)

	r := chi.NewRouter()
	r.Route("/api/v1/quiz", func(r chi.Router) {
		r.Get("/challenge", handler.GetChallenge)
		r.Post("/challenges", handler.PostChallengeBatch)
		r.Post("/answers", handler.PostAnswer)
		r.Delete("/session", handler.DeleteSession)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testEnv{server: server, wordRepo: wordRepo, sessions: sessions}
}

// sendRequest はHTTPリクエストを送信し、ステータスとボディを返します。
func sendRequest(t *testing.T, server *httptest.Server, details httpRequestDetails) (int, []byte) {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		if strPayload, ok := details.Body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")

	if details.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	return resp.StatusCode, respBodyBytes
}

// verifyErrorCode はエラーレスポンスのコードを検証します。
func verifyErrorCode(t *testing.T, bodyBytes []byte, expectedCode string) {
	t.Helper()

	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(bodyBytes, &errResp), "Failed to unmarshal error response")
	assert.Equal(t, expectedCode, errResp.Error.Code, "Error code mismatch")
}
