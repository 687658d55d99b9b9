// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, feed, generation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidPage            = "INVALID_PAGE"
	ErrCodeInvalidLimit           = "INVALID_LIMIT"
	ErrCodeInvalidPrompt          = "INVALID_PROMPT"
	ErrCodeInvalidImageURL        = "INVALID_IMAGE_URL"
	ErrCodeInvalidImageID         = "INVALID_IMAGE_ID"
	ErrCodeInvalidAction          = "INVALID_ACTION"
	ErrCodeInvalidHearts          = "INVALID_HEARTS"
	ErrCodeImageNotFound          = "IMAGE_NOT_FOUND"
	ErrCodeGenerationUnauthorized = "GENERATION_UNAUTHORIZED"
	ErrCodeGenerationRateLimited  = "GENERATION_RATE_LIMITED"
	ErrCodeContentPolicyViolation = "CONTENT_POLICY_VIOLATION"
	ErrCodeGenerationFailed       = "GENERATION_FAILED"
)

// NewInvalidPageError は無効なページ番号エラーを生成する。
func NewInvalidPageError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPage,
		Message:  fmt.Sprintf("無効なページ番号です: %s", raw),
		Category: "validation",
		Action:   "pageには1以上の整数を指定してください。",
	}
}

// NewInvalidLimitError は無効な取得件数エラーを生成する。
func NewInvalidLimitError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLimit,
		Message:  fmt.Sprintf("無効な取得件数です: %s", raw),
		Category: "validation",
		Action:   "limitには1から100までの整数を指定してください。",
	}
}

// NewInvalidPromptError は無効なプロンプトエラーを生成する。
func NewInvalidPromptError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPrompt,
		Message:  fmt.Sprintf("無効なプロンプトです: %s", reason),
		Category: "validation",
		Action:   "プロンプトは1文字以上1000文字以内で入力してください。",
	}
}

// NewInvalidImageURLError は無効な画像URLエラーを生成する。
func NewInvalidImageURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidImageURL,
		Message:  fmt.Sprintf("無効な画像URLです: %s", reason),
		Category: "validation",
		Action:   "http:// または https:// で始まる2048文字以内のURLを指定してください。",
	}
}

// NewInvalidImageIDError は無効な画像IDエラーを生成する。
func NewInvalidImageIDError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidImageID,
		Message:  "画像IDが指定されていません。",
		Category: "validation",
		Action:   "空でない画像IDを指定してください。",
	}
}

// NewInvalidActionError は無効なアクションエラーを生成する。
func NewInvalidActionError(action string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAction,
		Message:  fmt.Sprintf("無効なアクションです: %s", action),
		Category: "validation",
		Action:   "actionには like または unlike を指定してください。",
	}
}

// NewInvalidHeartsError は無効なハート数エラーを生成する。
func NewInvalidHeartsError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidHearts,
		Message:  fmt.Sprintf("無効なハート数です: %s", reason),
		Category: "validation",
		Action:   "heartsには0以上の整数を指定してください。",
	}
}

// NewImageNotFoundError は画像未検出エラーを生成する。
func NewImageNotFoundError(imageID string) *APIError {
	return &APIError{
		Code:     ErrCodeImageNotFound,
		Message:  fmt.Sprintf("指定された画像が見つかりません: %s", imageID),
		Category: "feed",
		Action:   "画像IDを確認してください。",
	}
}

// NewGenerationUnauthorizedError は画像生成APIの認証エラーを生成する。
func NewGenerationUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeGenerationUnauthorized,
		Message:  "画像生成APIの認証に失敗しました。",
		Category: "generation",
		Action:   "サーバーのAPIキー設定を確認してください。",
	}
}

// NewGenerationRateLimitedError は画像生成APIのレート制限エラーを生成する。
func NewGenerationRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeGenerationRateLimited,
		Message:  "画像生成APIのレート制限に達しました。",
		Category: "generation",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewContentPolicyViolationError はコンテンツポリシー違反エラーを生成する。
func NewContentPolicyViolationError() *APIError {
	return &APIError{
		Code:     ErrCodeContentPolicyViolation,
		Message:  "プロンプトがコンテンツポリシーに違反しています。",
		Category: "generation",
		Action:   "プロンプトの内容を変更して再度お試しください。",
	}
}

// NewGenerationFailedError は画像生成失敗エラーを生成する。
func NewGenerationFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeGenerationFailed,
		Message:  "画像の生成に失敗しました。",
		Category: "generation",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
