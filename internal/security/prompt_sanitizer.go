package security

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// PromptSanitizerService はプロンプト文字列のサニタイズ機能のインターフェースを定義する。
// プロンプトはプレーンテキストとして保存・表示されるため、HTMLタグを全て除去する。
type PromptSanitizerService interface {
	// Sanitize はプロンプトからHTMLタグを除去したプレーンテキストを返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// promptSanitizer はPromptSanitizerServiceの実装。
// bluemondayのStrictPolicy（全タグ除去）を保持し、スレッドセーフに動作する。
type promptSanitizer struct {
	policy *bluemonday.Policy
}

// NewPromptSanitizer はPromptSanitizerServiceの新しいインスタンスを生成する。
func NewPromptSanitizer() *promptSanitizer {
	return &promptSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はプロンプトからHTMLタグを除去したプレーンテキストを返す。
// StrictPolicyは残ったテキストをHTMLエスケープするため、
// プレーンテキストに戻すためにアンエスケープして返す。
func (s *promptSanitizer) Sanitize(raw string) string {
	return html.UnescapeString(s.policy.Sanitize(raw))
}
