// internal/session/store.go
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Session はセッション単位の出題済み単語セットです。
type Session struct {
	SessionID string
	Used      map[uuid.UUID]struct{}

	mu   sync.Mutex // Used を守る
	opMu sync.Mutex // 同一セッションの払い出し操作 (選択→記録) を直列化する
}

// Store はセッションID毎の出題済みセットを持つインメモリストアです。
// プロセスの生存期間を超える永続性は保証しません。
// TTLによる掃き出しは外部コラボレータの責務です。
type Store interface {
	// GetOrCreate はセッションを返します。未知のIDなら空のセッションを作ります。
	GetOrCreate(sessionID string) *Session
	// RecordUsed は出題した単語IDをセッションに記録します。
	RecordUsed(sessionID string, wordID uuid.UUID)
	// Reset はセッションの出題済みセットを空にします。未知のIDでも成功します。
	Reset(sessionID string)
	// ResetForPool は poolIDs に含まれる単語だけを出題済みセットから除きます。
	// 絞り込み済みプールが尽きたが、セッションはフィルタ外の語も
	// 記録している場合に使います。
	ResetForPool(sessionID string, poolIDs []uuid.UUID)
	// Delete はセッションそのものを破棄します。
	Delete(sessionID string)
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore はインメモリの Store を返します。
func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[string]*Session),
	}
}

func (s *memoryStore) GetOrCreate(sessionID string) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// ロック取得の間に他のリクエストが作成している可能性がある
	if sess, ok := s.sessions[sessionID]; ok {
		return sess
	}
	sess = &Session{
		SessionID: sessionID,
		Used:      make(map[uuid.UUID]struct{}),
	}
	s.sessions[sessionID] = sess
	return sess
}

func (s *memoryStore) RecordUsed(sessionID string, wordID uuid.UUID) {
	sess := s.GetOrCreate(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.Used[wordID] = struct{}{}
}

func (s *memoryStore) Reset(sessionID string) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return // 未知のセッションに対しては冪等な no-op
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.Used = make(map[uuid.UUID]struct{})
}

func (s *memoryStore) ResetForPool(sessionID string, poolIDs []uuid.UUID) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	for _, id := range poolIDs {
		delete(sess.Used, id)
	}
}

func (s *memoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Snapshot は出題済みセットのコピーを返します (読み取りは呼び出し側で安全に)。
func (sess *Session) Snapshot() map[uuid.UUID]struct{} {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	used := make(map[uuid.UUID]struct{}, len(sess.Used))
	for id := range sess.Used {
		used[id] = struct{}{}
	}
	return used
}

// Lock は同一セッションの払い出し操作を直列化するためのロックを取得します。
// これを取らない並行アクセスでも壊れはしませんが、同じ未出題語を
// 2つのリクエストが同時に観測し得ます (セッション内での1回の重複再出題)。
func (sess *Session) Lock() { sess.opMu.Lock() }

// Unlock は Lock で取得したロックを解放します。
func (sess *Session) Unlock() { sess.opMu.Unlock() }
