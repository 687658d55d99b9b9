package generate

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/viora/viora/internal/model"
)

// maxPromptLength はプロンプトの最大文字数。
const maxPromptLength = 1000

// ImageGenerator は画像生成クライアントのインターフェース。
// テスタビリティのためClientを抽象化する。
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result は画像生成の結果。
type Result struct {
	Prompt   string
	ImageURL string
}

// Service は画像生成プロキシのサービス層。
// プロンプトを検証し、外部APIへの呼び出しを委譲する。
type Service struct {
	generator ImageGenerator
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(generator ImageGenerator) *Service {
	return &Service{generator: generator}
}

// Generate はプロンプトを検証し、画像を生成して結果を返す。
func (s *Service) Generate(ctx context.Context, prompt string) (*Result, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return nil, model.NewInvalidPromptError("プロンプトが空です")
	}
	if utf8.RuneCountInString(trimmed) > maxPromptLength {
		return nil, model.NewInvalidPromptError(
			fmt.Sprintf("%d文字を超えています", maxPromptLength))
	}

	imageURL, err := s.generator.Generate(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	return &Result{
		Prompt:   trimmed,
		ImageURL: imageURL,
	}, nil
}
