// internal/tui/model.go
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lgornik/translator-app-sub000/internal/apiclient"
	"github.com/lgornik/translator-app-sub000/internal/model"
	"github.com/lgornik/translator-app-sub000/internal/quiz"
)

// nearMissThreshold 以上の類似度の誤答には「惜しい」表示を添えます。
// 判定そのものには影響しません。
const nearMissThreshold = 0.8

const requestTimeout = 10 * time.Second

// defaultPoolSize は強化モードでプールサイズ未指定時の取得件数です。
const defaultPoolSize = 10

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	nearMissStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Italic(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	timerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#69C0FF"))
)

// --- 非同期処理の結果メッセージ。世代番号を運び、古い結果は捨てられます ---

type challengeLoadedMsg struct {
	epoch     int
	challenge *model.Challenge
}

type poolLoadedMsg struct {
	epoch      int
	challenges []*model.Challenge
}

type noMoreWordsMsg struct {
	epoch int
}

type verdictMsg struct {
	epoch   int
	verdict *model.Verdict
}

type loadErrMsg struct {
	epoch int
	err   error
}

type tickMsg time.Time

// Model は状態機械とAPIクライアントをつなぐ Bubble Tea モデルです。
// フェーズ遷移の判断はすべて quiz.Machine に委ね、ここでは
// キー入力をイベントに、Effect を tea.Cmd に変換するだけです。
type Model struct {
	machine  *quiz.Machine
	client   *apiclient.Client
	input    textinput.Model
	poolSize int

	width  int
	height int
}

// NewModel は設定済みの状態機械を持つTUIモデルを生成します。
func NewModel(client *apiclient.Client, settings quiz.Settings) *Model {
	input := textinput.New()
	input.Placeholder = "translation"
	input.CharLimit = 120
	input.Width = 40

	poolSize := settings.WordLimit
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}

	return &Model{
		machine:  quiz.New(settings),
		client:   client,
		input:    input,
		poolSize: poolSize,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case challengeLoadedMsg:
		m.machine.Apply(quiz.WordLoadedEvent{Epoch: msg.epoch, Challenge: msg.challenge})
		return m, m.syncInput()

	case poolLoadedMsg:
		m.machine.Apply(quiz.PoolLoadedEvent{Epoch: msg.epoch, Challenges: msg.challenges})
		return m, m.syncInput()

	case noMoreWordsMsg:
		m.machine.Apply(quiz.NoMoreWordsEvent{Epoch: msg.epoch})
		return m, nil

	case verdictMsg:
		m.machine.Apply(quiz.VerdictEvent{Epoch: msg.epoch, Verdict: msg.verdict})
		return m, nil

	case loadErrMsg:
		m.machine.Apply(quiz.LoadErrorEvent{Epoch: msg.epoch, Err: msg.err})
		return m, nil

	case tickMsg:
		m.machine.Apply(quiz.TimerTickEvent{})
		if m.timerRunning() {
			return m, tickCmd()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.machine.Phase() {
	case quiz.PhaseSetup:
		switch msg.String() {
		case "enter":
			eff := m.machine.Apply(quiz.StartEvent{Reinforce: m.machine.Context().Settings.Reinforce})
			cmds := []tea.Cmd{m.runEffect(eff)}
			if m.machine.Context().Settings.TimeLimitSeconds > 0 {
				cmds = append(cmds, tickCmd())
			}
			return m, tea.Batch(cmds...)
		case "tab":
			m.machine.Apply(quiz.ToggleDirectionEvent{})
			return m, nil
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil

	case quiz.PhaseWaitingForInput:
		switch msg.String() {
		case "enter":
			eff := m.machine.Apply(quiz.SubmitEvent{})
			return m, m.runEffect(eff)
		case "esc":
			return m, m.reset()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.machine.Apply(quiz.UpdateInputEvent{Input: m.input.Value()})
		return m, cmd

	case quiz.PhaseShowingResult:
		switch msg.String() {
		case "enter", " ":
			eff := m.machine.Apply(quiz.RequestNextEvent{})
			return m, tea.Batch(m.runEffect(eff), m.syncInput())
		case "esc":
			return m, m.reset()
		}
		return m, nil

	case quiz.PhaseFinished, quiz.PhaseError:
		switch msg.String() {
		case "r":
			return m, m.reset()
		case "q", "enter", "esc":
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

// reset は状態機械を setup へ戻し、サーバー側の出題履歴も破棄します。
func (m *Model) reset() tea.Cmd {
	m.machine.Apply(quiz.ResetEvent{})
	m.input.Reset()
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		// 失敗してもローカルの状態は既にリセット済みなので無視する
		_ = client.ResetSession(ctx)
		return nil
	}
}

// syncInput は新しい問題の提示に合わせて入力欄を初期化します。
func (m *Model) syncInput() tea.Cmd {
	if m.machine.Phase() != quiz.PhaseWaitingForInput {
		return nil
	}
	m.input.Reset()
	return m.input.Focus()
}

func (m *Model) timerRunning() bool {
	return m.machine.Context().Settings.TimeLimitSeconds > 0 && m.machine.Phase().Playing()
}

// runEffect は状態機械が要求した副作用を tea.Cmd に変換します。
func (m *Model) runEffect(eff quiz.Effect) tea.Cmd {
	ctx := m.machine.Context()
	epoch := m.machine.Epoch()
	client := m.client

	switch eff {
	case quiz.EffectFetchWord:
		direction := ctx.Settings.Direction
		filters := model.ChallengeFilters{Category: ctx.Settings.Category, Difficulty: ctx.Settings.Difficulty}
		// 時間制限モードではプールが尽きてもサーバー側で再利用して出題を続ける
		recycle := ctx.Settings.TimeLimitSeconds > 0
		return func() tea.Msg {
			reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			challenge, err := client.FetchChallenge(reqCtx, direction, filters, recycle)
			if err != nil {
				if errors.Is(err, model.ErrNoWordsAvailable) || errors.Is(err, model.ErrPoolExhausted) {
					return noMoreWordsMsg{epoch: epoch}
				}
				return loadErrMsg{epoch: epoch, err: err}
			}
			return challengeLoadedMsg{epoch: epoch, challenge: challenge}
		}

	case quiz.EffectFetchPool:
		direction := ctx.Settings.Direction
		filters := model.ChallengeFilters{Category: ctx.Settings.Category, Difficulty: ctx.Settings.Difficulty}
		count := m.poolSize
		return func() tea.Msg {
			reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			challenges, err := client.FetchChallengeBatch(reqCtx, direction, count, filters)
			if err != nil {
				return loadErrMsg{epoch: epoch, err: err}
			}
			return poolLoadedMsg{epoch: epoch, challenges: challenges}
		}

	case quiz.EffectCheckAnswer:
		challenge := ctx.CurrentChallenge
		answer := ctx.UserInput
		direction := ctx.Settings.Direction
		return func() tea.Msg {
			reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			verdict, err := client.CheckAnswer(reqCtx, challenge.ChallengeID, answer, direction)
			if err != nil {
				return loadErrMsg{epoch: epoch, err: err}
			}
			return verdictMsg{epoch: epoch, verdict: verdict}
		}
	}
	return nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	ctx := m.machine.Context()

	b.WriteString(titleStyle.Render("Vocabulary Quiz"))
	b.WriteString("\n\n")

	switch m.machine.Phase() {
	case quiz.PhaseSetup:
		b.WriteString(m.viewSetup(ctx))
	case quiz.PhaseCollectingPool, quiz.PhaseLoading:
		b.WriteString(mutedStyle.Render("Loading..."))
		b.WriteString("\n")
		b.WriteString(m.viewStatus(ctx))
	case quiz.PhaseWaitingForInput:
		b.WriteString(m.viewQuestion(ctx))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(m.viewStatus(ctx))
		b.WriteString(helpStyle.Render("enter: answer · esc: restart"))
	case quiz.PhaseChecking:
		b.WriteString(m.viewQuestion(ctx))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Checking..."))
	case quiz.PhaseShowingResult:
		b.WriteString(m.viewQuestion(ctx))
		b.WriteString("\n")
		b.WriteString(m.viewVerdict(ctx))
		b.WriteString("\n\n")
		b.WriteString(m.viewStatus(ctx))
		b.WriteString(helpStyle.Render("enter: next · esc: restart"))
	case quiz.PhaseFinished:
		b.WriteString(m.viewSummary(ctx))
	case quiz.PhaseError:
		b.WriteString(wrongStyle.Render(fmt.Sprintf("Error: %v", ctx.Err)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("r: restart · q: quit"))
	}

	return b.String() + "\n"
}

func (m *Model) viewSetup(ctx *quiz.Context) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Direction: %s\n", directionLabel(ctx.Settings.Direction)))
	switch {
	case ctx.Settings.Reinforce:
		b.WriteString("Mode: reinforcement (repeat until every word is answered correctly)\n")
	case ctx.Settings.TimeLimitSeconds > 0:
		b.WriteString(fmt.Sprintf("Mode: timed (%d seconds)\n", ctx.Settings.TimeLimitSeconds))
	default:
		b.WriteString(fmt.Sprintf("Mode: standard (%d words)\n", ctx.Settings.WordLimit))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: start · tab: switch direction · q: quit"))
	return b.String()
}

func (m *Model) viewQuestion(ctx *quiz.Context) string {
	if ctx.CurrentChallenge == nil {
		return ""
	}
	return fmt.Sprintf("%s  %s",
		mutedStyle.Render(directionLabel(ctx.CurrentChallenge.Direction)+":"),
		promptStyle.Render(ctx.CurrentChallenge.Prompt))
}

func (m *Model) viewVerdict(ctx *quiz.Context) string {
	v := ctx.LastVerdict
	if v == nil {
		return ""
	}
	if v.IsCorrect {
		return correctStyle.Render("Correct!")
	}
	var b strings.Builder
	b.WriteString(wrongStyle.Render("Incorrect."))
	if v.Similarity >= nearMissThreshold {
		b.WriteString(" ")
		b.WriteString(nearMissStyle.Render("So close!"))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Expected: %s", promptStyle.Render(v.CanonicalAnswer)))
	return b.String()
}

func (m *Model) viewStatus(ctx *quiz.Context) string {
	var segments []string
	if ctx.Settings.TimeLimitSeconds > 0 {
		segments = append(segments, timerStyle.Render(fmt.Sprintf("%ds left", ctx.TimeRemainingSeconds)))
	}
	if ctx.Settings.Reinforce {
		segments = append(segments, fmt.Sprintf("Mastered %d/%d", ctx.MasteredCount, len(ctx.WordPool)))
		if n := len(ctx.RepeatQueue) + len(ctx.ShuffledUpcoming); n > 0 {
			segments = append(segments, fmt.Sprintf("Remaining %d", n))
		}
	} else {
		segments = append(segments, fmt.Sprintf("Correct %d · Wrong %d", ctx.Stats.Correct, ctx.Stats.Incorrect))
	}
	if len(segments) == 0 {
		return ""
	}
	return mutedStyle.Render(strings.Join(segments, "   ")) + "\n"
}

func (m *Model) viewSummary(ctx *quiz.Context) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Finished!"))
	b.WriteString("\n\n")
	if ctx.NoMoreWords {
		b.WriteString(mutedStyle.Render("No more words match the chosen filters."))
		b.WriteString("\n")
	}
	total := ctx.Stats.Correct + ctx.Stats.Incorrect
	b.WriteString(fmt.Sprintf("Answered: %d\n", total))
	b.WriteString(correctStyle.Render(fmt.Sprintf("Correct:  %d", ctx.Stats.Correct)))
	b.WriteString("\n")
	b.WriteString(wrongStyle.Render(fmt.Sprintf("Wrong:    %d", ctx.Stats.Incorrect)))
	b.WriteString("\n")
	if ctx.Settings.Reinforce {
		b.WriteString(fmt.Sprintf("Mastered: %d/%d\n", ctx.MasteredCount, len(ctx.WordPool)))
	}
	if total > 0 {
		b.WriteString(fmt.Sprintf("Accuracy: %.0f%%\n", float64(ctx.Stats.Correct)/float64(total)*100))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("r: restart · q: quit"))
	return b.String()
}

func directionLabel(d model.Direction) string {
	if d == model.DirectionENPL {
		return "EN → PL"
	}
	return "PL → EN"
}
