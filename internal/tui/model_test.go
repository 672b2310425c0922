// internal/tui/model_test.go
package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgornik/translator-app-sub000/internal/apiclient"
	"github.com/lgornik/translator-app-sub000/internal/model"
	"github.com/lgornik/translator-app-sub000/internal/quiz"
)

func newTestModel(settings quiz.Settings) *Model {
	return NewModel(apiclient.New("http://127.0.0.1:0"), settings)
}

func startQuiz(t *testing.T, m *Model) {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
}

func TestModel_View(t *testing.T) {
	t.Run("正常系: setup では設定と操作ヘルプを表示する", func(t *testing.T) {
		m := newTestModel(quiz.Settings{Direction: model.DirectionPLEN, WordLimit: 10})

		view := m.View()

		assert.Contains(t, view, "PL → EN")
		assert.Contains(t, view, "standard (10 words)")
		assert.Contains(t, view, "enter: start")
	})

	t.Run("正常系: 問題が届いたら出題文を表示する", func(t *testing.T) {
		m := newTestModel(quiz.Settings{Direction: model.DirectionPLEN, WordLimit: 10})
		startQuiz(t, m)

		m.Update(challengeLoadedMsg{
			epoch: m.machine.Epoch(),
			challenge: &model.Challenge{
				ChallengeID: uuid.New(),
				Prompt:      "ziemniak",
				Direction:   model.DirectionPLEN,
			},
		})

		assert.Equal(t, quiz.PhaseWaitingForInput, m.machine.Phase())
		assert.Contains(t, m.View(), "ziemniak")
	})

	t.Run("正常系: 惜しい誤答には類似度のヒントを添える", func(t *testing.T) {
		m := newTestModel(quiz.Settings{Direction: model.DirectionPLEN, WordLimit: 10})
		startQuiz(t, m)
		m.Update(challengeLoadedMsg{
			epoch:     m.machine.Epoch(),
			challenge: &model.Challenge{ChallengeID: uuid.New(), Prompt: "ziemniak", Direction: model.DirectionPLEN},
		})
		m.Update(tea.KeyMsg{Type: tea.KeyEnter}) // submit
		m.Update(verdictMsg{
			epoch: m.machine.Epoch(),
			verdict: &model.Verdict{
				IsCorrect:       false,
				CanonicalAnswer: "potato",
				SubmittedAnswer: "potatoe",
				Similarity:      0.86,
			},
		})

		view := m.View()
		assert.Contains(t, view, "Incorrect")
		assert.Contains(t, view, "So close!")
		assert.Contains(t, view, "potato")
	})

	t.Run("正常系: 類似度が低い誤答にはヒントを出さない", func(t *testing.T) {
		m := newTestModel(quiz.Settings{Direction: model.DirectionPLEN, WordLimit: 10})
		startQuiz(t, m)
		m.Update(challengeLoadedMsg{
			epoch:     m.machine.Epoch(),
			challenge: &model.Challenge{ChallengeID: uuid.New(), Prompt: "pies", Direction: model.DirectionPLEN},
		})
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m.Update(verdictMsg{
			epoch:   m.machine.Epoch(),
			verdict: &model.Verdict{IsCorrect: false, CanonicalAnswer: "dog", Similarity: 0.2},
		})

		assert.NotContains(t, m.View(), "So close!")
	})
}

func TestModel_Update(t *testing.T) {
	t.Run("正常系: タイマーの刻みは状態機械に転送される", func(t *testing.T) {
		m := newTestModel(quiz.Settings{Direction: model.DirectionPLEN, TimeLimitSeconds: 30})
		startQuiz(t, m)

		_, cmd := m.Update(tickMsg{})

		assert.Equal(t, 29, m.machine.Context().TimeRemainingSeconds)
		// 出題中はタイマーを継続する
		assert.NotNil(t, cmd)
	})

	t.Run("正常系: esc でリセットし setup に戻る", func(t *testing.T) {
		m := newTestModel(quiz.Settings{Direction: model.DirectionPLEN, WordLimit: 10})
		startQuiz(t, m)
		m.Update(challengeLoadedMsg{
			epoch:     m.machine.Epoch(),
			challenge: &model.Challenge{ChallengeID: uuid.New(), Prompt: "dom", Direction: model.DirectionPLEN},
		})

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})

		assert.Equal(t, quiz.PhaseSetup, m.machine.Phase())
	})

	t.Run("正常系: リセット後に届いた古い結果は無視される", func(t *testing.T) {
		m := newTestModel(quiz.Settings{Direction: model.DirectionPLEN, WordLimit: 10})
		startQuiz(t, m)
		stale := m.machine.Epoch()

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		startQuiz(t, m)

		m.Update(challengeLoadedMsg{
			epoch:     stale,
			challenge: &model.Challenge{ChallengeID: uuid.New(), Prompt: "stary", Direction: model.DirectionPLEN},
		})

		assert.Equal(t, quiz.PhaseLoading, m.machine.Phase())
		assert.Nil(t, m.machine.Context().CurrentChallenge)
	})

	t.Run("正常系: tab で出題方向を切り替えられる", func(t *testing.T) {
		m := newTestModel(quiz.Settings{Direction: model.DirectionPLEN, WordLimit: 10})

		m.Update(tea.KeyMsg{Type: tea.KeyTab})

		assert.Equal(t, model.DirectionENPL, m.machine.Context().Settings.Direction)
		assert.Contains(t, m.View(), "EN → PL")
	})
}
