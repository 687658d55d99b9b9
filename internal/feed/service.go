// Package feed はフィード閲覧のドメインロジックを提供する。
package feed

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/viora/viora/internal/model"
	"github.com/viora/viora/internal/repository"
)

const (
	// DefaultPage はpage未指定時のページ番号。
	DefaultPage = 1
	// DefaultLimit はlimit未指定時の1ページあたり件数。
	DefaultLimit = 20
	// MinLimit は1ページあたり件数の下限。
	MinLimit = 1
	// MaxLimit は1ページあたり件数の上限。
	MaxLimit = 100
)

// Page はフィード1ページ分の結果。
// TotalとImagesは同一スナップショットから計算される。
type Page struct {
	Images     []model.PublishedImage
	Page       int
	Total      int
	TotalPages int
}

// Service はフィード閲覧のサービス層。読み取り専用で状態を変更しない。
type Service struct {
	repo repository.ImageRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.ImageRepository) *Service {
	return &Service{repo: repo}
}

// ListPage は公開画像のページを取得する。
// created_at降順（同時刻はid降順）で安定ソートする。
// 最終ページを超えるpageは空のImagesと正確なTotal/TotalPagesを返す。
func (s *Service) ListPage(ctx context.Context, page, limit int) (*Page, error) {
	if page < 1 {
		return nil, model.NewInvalidPageError(strconv.Itoa(page))
	}
	if limit < MinLimit || limit > MaxLimit {
		return nil, model.NewInvalidLimitError(strconv.Itoa(limit))
	}

	offset := (page - 1) * limit

	images, total, err := s.repo.ListPage(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("フィードページの取得に失敗しました: %w", err)
	}
	if images == nil {
		images = []model.PublishedImage{}
	}

	// totalPages = ceil(total / limit)。total=0のときは0ページ。
	totalPages := (total + limit - 1) / limit

	return &Page{
		Images:     images,
		Page:       page,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// SetHearts はハート数を指定値で上書きする（管理用オペレーション）。
// Likeトグルと異なり並行更新の増分保護はなく、last-write-winsで適用される。
func (s *Service) SetHearts(ctx context.Context, id string, hearts int) (*model.PublishedImage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, model.NewInvalidImageIDError()
	}
	if hearts < 0 {
		return nil, model.NewInvalidHeartsError("負の値は指定できません")
	}

	img, err := s.repo.SetHearts(ctx, id, hearts)
	if err != nil {
		return nil, fmt.Errorf("ハート数の上書きに失敗しました: %w", err)
	}
	if img == nil {
		return nil, model.NewImageNotFoundError(id)
	}

	return img, nil
}
