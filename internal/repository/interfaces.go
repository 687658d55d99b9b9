// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/viora/viora/internal/model"
)

// ImageRepository は公開画像データの永続化インターフェース。
type ImageRepository interface {
	// Create は公開画像を作成する。
	Create(ctx context.Context, img *model.PublishedImage) error

	// FindByID は指定IDの公開画像を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.PublishedImage, error)

	// ListPage は公開画像のページを取得する。
	// created_at降順（同時刻はid降順）で安定ソートし、offsetから最大limit件を返す。
	// 件数とページ本体は同一スナップショットから読み取り、totalとの不整合を防ぐ。
	ListPage(ctx context.Context, offset, limit int) ([]model.PublishedImage, int, error)

	// AddHearts はハート数をアトミックに加算する。deltaは+1または-1。
	// 0未満にはならず、0でクランプされる。更新後の行を返す。
	// 指定IDの行が存在しない場合はnilを返す。
	AddHearts(ctx context.Context, id string, delta int) (*model.PublishedImage, error)

	// SetHearts はハート数を直接上書きする（管理用オペレーション）。
	// AddHeartsと異なり同時実行時の増分保護はない（last-write-wins）。
	// 指定IDの行が存在しない場合はnilを返す。
	SetHearts(ctx context.Context, id string, hearts int) (*model.PublishedImage, error)
}
