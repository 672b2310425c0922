// internal/quiz/context.go
package quiz

import (
	"github.com/lgornik/translator-app-sub000/internal/model"
)

// Phase は進行状態機械のフェーズです。
// repeatWord は同期的な内部ステップとして遷移関数の中で処理され、
// 独立したフェーズとしては現れません。
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseCollectingPool // 強化モード: プール一括取得待ち
	PhaseLoading        // 標準/時間制限モード: 1問取得待ち
	PhaseWaitingForInput
	PhaseChecking // 回答判定待ち
	PhaseShowingResult
	PhaseFinished
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseCollectingPool:
		return "collectingPool"
	case PhaseLoading:
		return "loading"
	case PhaseWaitingForInput:
		return "waitingForInput"
	case PhaseChecking:
		return "checking"
	case PhaseShowingResult:
		return "showingResult"
	case PhaseFinished:
		return "finished"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Playing は出題中のサブフェーズ (タイマーが進むフェーズ) かどうかを返します。
// 遅いリクエストの取得待ちの間もタイマーは進み続けます。
func (p Phase) Playing() bool {
	switch p {
	case PhaseLoading, PhaseCollectingPool, PhaseWaitingForInput, PhaseChecking, PhaseShowingResult:
		return true
	default:
		return false
	}
}

// timedWordLimitSentinel は時間制限モードで語数が完了条件に
// ならないようにするための十分大きな語数です。
const timedWordLimitSentinel = 1 << 30

// Settings はクイズ開始時に確定する設定です。
type Settings struct {
	Direction        model.Direction
	Category         *string
	Difficulty       *int
	WordLimit        int
	TimeLimitSeconds int
	Reinforce        bool
}

// Stats は正答・誤答の集計です。
type Stats struct {
	Correct   int
	Incorrect int
}

// Context は状態機械が所有する実行時コンテキストです。
// 遷移関数だけが変更し、リセットで破棄されます。
type Context struct {
	Settings Settings

	// 実行状態
	CurrentChallenge     *model.Challenge
	UserInput            string
	LastVerdict          *model.Verdict
	Stats                Stats
	CompletedCount       int
	TimeRemainingSeconds int

	// 強化モード専用の状態。不変条件:
	// MasteredCount + len(RepeatQueue) + len(ShuffledUpcoming) <= len(WordPool)
	// であり、1つの出題IDは repeat / upcoming / 習得済み のどれか
	// 高々1箇所にしか現れない。
	WordPool         []*model.Challenge
	RepeatQueue      []*model.Challenge
	ShuffledUpcoming []*model.Challenge
	MasteredCount    int

	// 終端情報
	NoMoreWords bool
	Err         error
}
