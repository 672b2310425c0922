// internal/quiz/machine.go
package quiz

import (
	"math/rand"
	"time"

	"github.com/lgornik/translator-app-sub000/internal/model"
)

// Machine はクイズ進行の状態機械です。Apply は純粋な遷移
// (phase, ctx, event) → (phase, ctx) を行い、呼び出し側が実行すべき
// 副作用を Effect として返します。ゴルーチン安全ではないため、
// 単一のイベントループから呼び出してください。
type Machine struct {
	phase           Phase
	ctx             Context
	epoch           int
	initialSettings Settings
	rng             *rand.Rand
}

// New は指定された設定で setup フェーズの状態機械を生成します。
func New(settings Settings) *Machine {
	return NewWithRand(settings, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand は乱数源を差し替え可能にします (テスト用)。
func NewWithRand(settings Settings, rng *rand.Rand) *Machine {
	return &Machine{
		phase:           PhaseSetup,
		ctx:             Context{Settings: settings},
		initialSettings: settings,
		rng:             rng,
	}
}

func (m *Machine) Phase() Phase { return m.phase }

// Context は描画用に現在のコンテキストへの参照を返します。
// 呼び出し側は変更してはいけません。
func (m *Machine) Context() *Context { return &m.ctx }

// Epoch は現在の世代番号を返します。非同期処理を起動する際に
// 控えておき、その結果イベントに添えてください。
func (m *Machine) Epoch() int { return m.epoch }

// Apply はイベントを適用し、必要な副作用のヒントを返します。
// 現在のフェーズで意味を持たないイベントは黙って無視します。
func (m *Machine) Apply(ev Event) Effect {
	switch e := ev.(type) {
	case StartEvent:
		return m.onStart(e)
	case ToggleDirectionEvent:
		if m.phase == PhaseSetup {
			m.ctx.Settings.Direction = m.ctx.Settings.Direction.Toggle()
		}
		return EffectNone
	case UpdateInputEvent:
		if m.phase == PhaseWaitingForInput {
			m.ctx.UserInput = e.Input
		}
		return EffectNone
	case SubmitEvent:
		if m.phase == PhaseWaitingForInput && m.ctx.CurrentChallenge != nil {
			m.phase = PhaseChecking
			return EffectCheckAnswer
		}
		return EffectNone
	case RequestNextEvent:
		return m.onRequestNext()
	case WordLoadedEvent:
		if m.phase == PhaseLoading && e.Epoch == m.epoch {
			m.presentChallenge(e.Challenge)
		}
		return EffectNone
	case PoolLoadedEvent:
		return m.onPoolLoaded(e)
	case NoMoreWordsEvent:
		if (m.phase == PhaseLoading || m.phase == PhaseCollectingPool) && e.Epoch == m.epoch {
			m.ctx.NoMoreWords = true
			m.phase = PhaseFinished
		}
		return EffectNone
	case VerdictEvent:
		return m.onVerdict(e)
	case LoadErrorEvent:
		if e.Epoch == m.epoch && m.phase != PhaseFinished && m.phase != PhaseSetup {
			m.ctx.Err = e.Err
			m.phase = PhaseError
		}
		return EffectNone
	case TimerTickEvent:
		m.onTimerTick()
		return EffectNone
	case TimerEndEvent:
		if m.ctx.Settings.TimeLimitSeconds > 0 && m.phase.Playing() {
			m.ctx.TimeRemainingSeconds = 0
			m.phase = PhaseFinished
		}
		return EffectNone
	case ResetEvent:
		// 世代番号を進めることで、処理中だった非同期結果を無効化する
		m.epoch++
		m.ctx = Context{Settings: m.initialSettings}
		m.phase = PhaseSetup
		return EffectNone
	default:
		return EffectNone
	}
}

func (m *Machine) onStart(e StartEvent) Effect {
	if m.phase != PhaseSetup {
		return EffectNone
	}

	settings := m.ctx.Settings
	settings.Reinforce = e.Reinforce
	if settings.Reinforce {
		// 強化モードは全単語の習得が唯一の終了条件
		settings.TimeLimitSeconds = 0
	}
	if settings.TimeLimitSeconds > 0 {
		// 時間切れだけで終わるように語数上限を事実上無効化する
		settings.WordLimit = timedWordLimitSentinel
	}

	m.ctx = Context{
		Settings:             settings,
		TimeRemainingSeconds: settings.TimeLimitSeconds,
	}

	if settings.Reinforce {
		m.phase = PhaseCollectingPool
		return EffectFetchPool
	}
	m.phase = PhaseLoading
	return EffectFetchWord
}

func (m *Machine) onPoolLoaded(e PoolLoadedEvent) Effect {
	if m.phase != PhaseCollectingPool || e.Epoch != m.epoch {
		return EffectNone
	}
	if len(e.Challenges) == 0 {
		m.ctx.NoMoreWords = true
		m.phase = PhaseFinished
		return EffectNone
	}
	m.ctx.WordPool = e.Challenges
	m.ctx.ShuffledUpcoming = m.shuffle(e.Challenges)
	m.presentChallenge(m.popUpcoming())
	return EffectNone
}

func (m *Machine) onVerdict(e VerdictEvent) Effect {
	if m.phase != PhaseChecking || e.Epoch != m.epoch {
		return EffectNone
	}
	m.ctx.LastVerdict = e.Verdict
	if e.Verdict.IsCorrect {
		m.ctx.Stats.Correct++
	} else {
		m.ctx.Stats.Incorrect++
	}

	if m.ctx.Settings.Reinforce {
		if e.Verdict.IsCorrect {
			m.ctx.MasteredCount++
		} else {
			m.enqueueRepeat(m.ctx.CurrentChallenge)
		}
	} else {
		m.ctx.CompletedCount++
	}

	// 完了判定は結果表示への遷移時に1度だけ行う
	if m.quizComplete() {
		m.phase = PhaseFinished
		return EffectNone
	}
	m.phase = PhaseShowingResult
	return EffectNone
}

func (m *Machine) onRequestNext() Effect {
	if m.phase != PhaseShowingResult {
		return EffectNone
	}
	if m.ctx.Settings.Reinforce {
		next := m.popUpcoming()
		if next == nil {
			// 完了判定で捕捉されるはずだが、両キューが空なら終了する
			m.phase = PhaseFinished
			return EffectNone
		}
		m.presentChallenge(next)
		return EffectNone
	}
	m.phase = PhaseLoading
	return EffectFetchWord
}

func (m *Machine) onTimerTick() {
	if m.ctx.Settings.TimeLimitSeconds <= 0 || !m.phase.Playing() {
		return
	}
	m.ctx.TimeRemainingSeconds--
	if m.ctx.TimeRemainingSeconds <= 0 {
		m.ctx.TimeRemainingSeconds = 0
		m.phase = PhaseFinished
	}
}

// presentChallenge は次の問題を提示して回答入力待ちへ遷移します。
func (m *Machine) presentChallenge(ch *model.Challenge) {
	m.ctx.CurrentChallenge = ch
	m.ctx.UserInput = ""
	m.phase = PhaseWaitingForInput
}

func (m *Machine) quizComplete() bool {
	if m.ctx.Settings.TimeLimitSeconds > 0 {
		// 時間制限モードは時間切れのみで終了する
		return false
	}
	if m.ctx.Settings.Reinforce {
		return m.ctx.MasteredCount >= len(m.ctx.WordPool)
	}
	return m.ctx.CompletedCount >= m.ctx.Settings.WordLimit
}

// enqueueRepeat は誤答した問題を再出題キューへ追加します。
// 既に積まれている問題は追加しません (冪等)。
func (m *Machine) enqueueRepeat(ch *model.Challenge) {
	if ch == nil {
		return
	}
	for _, q := range m.ctx.RepeatQueue {
		if q.ChallengeID == ch.ChallengeID {
			return
		}
	}
	m.ctx.RepeatQueue = append(m.ctx.RepeatQueue, ch)
}

// popUpcoming は次に提示する問題を取り出します。upcoming が空なら
// 再出題キューをシャッフルして補充します。その際、先頭が直前に
// 回答した問題と同じで他にも候補がある場合は1つ回転させ、
// 同一問題の連続出題を避けます。両方空なら nil を返します。
func (m *Machine) popUpcoming() *model.Challenge {
	if len(m.ctx.ShuffledUpcoming) == 0 {
		if len(m.ctx.RepeatQueue) == 0 {
			return nil
		}
		shuffled := m.shuffle(m.ctx.RepeatQueue)
		if len(shuffled) > 1 && m.ctx.CurrentChallenge != nil &&
			shuffled[0].ChallengeID == m.ctx.CurrentChallenge.ChallengeID {
			shuffled = append(shuffled[1:], shuffled[0])
		}
		m.ctx.ShuffledUpcoming = shuffled
		m.ctx.RepeatQueue = nil
	}
	next := m.ctx.ShuffledUpcoming[0]
	m.ctx.ShuffledUpcoming = m.ctx.ShuffledUpcoming[1:]
	return next
}

// shuffle は Fisher–Yates で新しいスライスを返します。元は変更しません。
func (m *Machine) shuffle(src []*model.Challenge) []*model.Challenge {
	out := make([]*model.Challenge, len(src))
	copy(out, src)
	m.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
