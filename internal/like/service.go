// Package like はハートトグルのドメインロジックを提供する。
package like

import (
	"context"
	"fmt"
	"strings"

	"github.com/viora/viora/internal/metrics"
	"github.com/viora/viora/internal/model"
	"github.com/viora/viora/internal/repository"
)

// Service はハートトグルのサービス層。
// 増減はストアレベルのアトミック操作に委譲し、read-modify-writeを行わない。
type Service struct {
	repo      repository.ImageRepository
	collector metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.ImageRepository, collector metrics.MetricsCollector) *Service {
	return &Service{
		repo:      repo,
		collector: collector,
	}
}

// ToggleHeart はハート数をアトミックに1増減し、更新後の画像を返す。
// unlikeで0未満にはならない（ストア側で0にクランプされる）。
// このパスはイベントを発行しない。イベント発行は公開時のみ。
func (s *Service) ToggleHeart(ctx context.Context, id string, action model.HeartAction) (*model.PublishedImage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, model.NewInvalidImageIDError()
	}

	var delta int
	switch action {
	case model.HeartActionLike:
		delta = 1
	case model.HeartActionUnlike:
		delta = -1
	default:
		return nil, model.NewInvalidActionError(string(action))
	}

	img, err := s.repo.AddHearts(ctx, id, delta)
	if err != nil {
		return nil, fmt.Errorf("ハートトグルに失敗しました: %w", err)
	}
	if img == nil {
		return nil, model.NewImageNotFoundError(id)
	}

	s.collector.RecordHeartToggle(string(action))

	return img, nil
}
