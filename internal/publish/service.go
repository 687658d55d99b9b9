// Package publish は生成画像のフィード公開のドメインロジックを提供する。
package publish

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/viora/viora/internal/event"
	"github.com/viora/viora/internal/metrics"
	"github.com/viora/viora/internal/model"
	"github.com/viora/viora/internal/repository"
)

const (
	// maxPromptLength はプロンプトの最大文字数。
	maxPromptLength = 1000
	// maxImageURLLength は画像URLの最大文字数。
	maxImageURLLength = 2048
)

// URLValidator は画像URLの追加検証のインターフェース。
// security.URLGuardServiceを抽象化する。
type URLValidator interface {
	ValidateURL(rawURL string) error
}

// Sanitizer はプロンプトサニタイズのインターフェース。
type Sanitizer interface {
	Sanitize(raw string) string
}

// Service は画像公開のサービス層。
// 検証 → 永続化 → イベント発行の順で処理する。
// イベント発行は永続化の完了後にのみ行われるため、リスナーが
// フィードから読めない行のイベントを観測することはない。
type Service struct {
	repo      repository.ImageRepository
	bus       *event.Bus
	sanitizer Sanitizer
	urlGuard  URLValidator
	collector metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	repo repository.ImageRepository,
	bus *event.Bus,
	sanitizer Sanitizer,
	urlGuard URLValidator,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		repo:      repo,
		bus:       bus,
		sanitizer: sanitizer,
		urlGuard:  urlGuard,
		collector: collector,
	}
}

// Publish はプロンプトと画像URLを検証し、公開画像として永続化する。
// 成功時は作成した行のスナップショットをバスへ発行し、作成した行を返す。
// 検証失敗時は行を作成せず、イベントも発行しない。
func (s *Service) Publish(ctx context.Context, prompt, imageURL string) (*model.PublishedImage, error) {
	cleanPrompt, err := s.validatePrompt(prompt)
	if err != nil {
		return nil, err
	}

	cleanURL, err := s.validateImageURL(imageURL)
	if err != nil {
		return nil, err
	}

	img := &model.PublishedImage{
		ID:        uuid.New().String(),
		Prompt:    cleanPrompt,
		ImageURL:  cleanURL,
		Hearts:    0,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, img); err != nil {
		return nil, fmt.Errorf("公開画像の保存に失敗しました: %w", err)
	}

	// 永続化が完了してからイベントを発行する
	s.bus.Publish(img.EventSnapshot())
	s.collector.RecordImagePublished()

	return img, nil
}

// validatePrompt はプロンプトを検証し、サニタイズ済みの値を返す。
func (s *Service) validatePrompt(prompt string) (string, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return "", model.NewInvalidPromptError("プロンプトが空です")
	}
	if utf8.RuneCountInString(trimmed) > maxPromptLength {
		return "", model.NewInvalidPromptError(
			fmt.Sprintf("%d文字を超えています", maxPromptLength))
	}

	// HTMLタグを除去してプレーンテキストとして保存する
	sanitized := strings.TrimSpace(s.sanitizer.Sanitize(trimmed))
	if sanitized == "" {
		return "", model.NewInvalidPromptError("プロンプトが空です")
	}

	return sanitized, nil
}

// validateImageURL は画像URLを検証し、トリム済みの値を返す。
func (s *Service) validateImageURL(imageURL string) (string, error) {
	trimmed := strings.TrimSpace(imageURL)
	if trimmed == "" {
		return "", model.NewInvalidImageURLError("画像URLが空です")
	}
	if utf8.RuneCountInString(trimmed) > maxImageURLLength {
		return "", model.NewInvalidImageURLError(
			fmt.Sprintf("%d文字を超えています", maxImageURLLength))
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", model.NewInvalidImageURLError("URLとして解釈できません")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", model.NewInvalidImageURLError("http または https のURLのみ使用できます")
	}
	if parsed.Host == "" {
		return "", model.NewInvalidImageURLError("ホストが指定されていません")
	}

	// ループバック・プライベートネットワークを指すURLは受け付けない
	if err := s.urlGuard.ValidateURL(trimmed); err != nil {
		return "", model.NewInvalidImageURLError("このURLは公開できません")
	}

	return trimmed, nil
}
