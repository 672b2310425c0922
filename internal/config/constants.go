// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "translator-app"
	AppVersion = "0.3.0"
)

// デフォルト設定値
const (
	DefaultServerPort   = ":8080"
	DefaultLogLevel     = "info"
	DefaultDatabaseURL  = "file:translator.db?_pragma=foreign_keys(1)"
	DefaultMaxBatchSize = 50
)

// SessionIDHeader はクライアントが生成したセッションIDを運ぶヘッダです。
const SessionIDHeader = "X-Session-ID"
