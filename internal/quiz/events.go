// internal/quiz/events.go
package quiz

import (
	"github.com/lgornik/translator-app-sub000/internal/model"
)

// Event は状態機械への入力です。非同期処理の結果を運ぶイベントは
// Epoch を持ち、リセット後に届いた古い結果は無視されます。
type Event interface {
	isEvent()
}

// StartEvent は setup から出題を開始します。
type StartEvent struct {
	Reinforce bool
}

// UpdateInputEvent は回答入力欄の内容を反映します。
type UpdateInputEvent struct {
	Input string
}

// SubmitEvent は現在の入力を回答として提出します。
type SubmitEvent struct{}

// RequestNextEvent は結果表示から次の問題へ進みます。
type RequestNextEvent struct{}

// ToggleDirectionEvent は setup 中に出題方向を反転します。
type ToggleDirectionEvent struct{}

// ResetEvent は任意のフェーズから setup へ戻します。
type ResetEvent struct{}

// WordLoadedEvent は1問取得の完了を通知します。
type WordLoadedEvent struct {
	Epoch     int
	Challenge *model.Challenge
}

// PoolLoadedEvent はプール一括取得の完了を通知します。
type PoolLoadedEvent struct {
	Epoch      int
	Challenges []*model.Challenge
}

// NoMoreWordsEvent は出題可能な単語が尽きたことを通知します。
type NoMoreWordsEvent struct {
	Epoch int
}

// VerdictEvent は回答判定の完了を通知します。
type VerdictEvent struct {
	Epoch   int
	Verdict *model.Verdict
}

// LoadErrorEvent は非同期処理の失敗を通知します。
type LoadErrorEvent struct {
	Epoch int
	Err   error
}

// TimerTickEvent は1秒ごとの刻みです。時間制限モード以外では無視されます。
type TimerTickEvent struct{}

// TimerEndEvent は残り時間に関わらず時間切れを強制します。
type TimerEndEvent struct{}

func (StartEvent) isEvent()           {}
func (UpdateInputEvent) isEvent()     {}
func (SubmitEvent) isEvent()          {}
func (RequestNextEvent) isEvent()     {}
func (ToggleDirectionEvent) isEvent() {}
func (ResetEvent) isEvent()           {}
func (WordLoadedEvent) isEvent()      {}
func (PoolLoadedEvent) isEvent()      {}
func (NoMoreWordsEvent) isEvent()     {}
func (VerdictEvent) isEvent()         {}
func (LoadErrorEvent) isEvent()       {}
func (TimerTickEvent) isEvent()       {}
func (TimerEndEvent) isEvent()        {}

// Effect は遷移の結果として呼び出し側に求める副作用のヒントです。
// 状態機械自身はネットワーク I/O を行いません。
type Effect int

const (
	EffectNone Effect = iota
	EffectFetchWord
	EffectFetchPool
	EffectCheckAnswer
)
