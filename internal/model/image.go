// Package model はドメインモデルを定義する。
package model

import "time"

// PublishedImage はフィードに公開されたAI生成画像を表す。
// heartsはLike/Unlike操作によるアトミックな増減でのみ変更される。
type PublishedImage struct {
	ID        string
	Prompt    string
	ImageURL  string
	Hearts    int
	CreatedAt time.Time
}

// PublishedImageEvent は画像公開時にバスへブロードキャストされるスナップショット。
// 永続化されず、イベント発行時点で接続中のリスナーにのみ配信される。
type PublishedImageEvent struct {
	ID        string
	Prompt    string
	ImageURL  string
	Hearts    int
	CreatedAt time.Time
}

// HeartAction はハートトグルの操作種別を表す。
type HeartAction string

const (
	// HeartActionLike はハートを1増やす操作。
	HeartActionLike HeartAction = "like"
	// HeartActionUnlike はハートを1減らす操作。0未満にはならない（0でクランプ）。
	HeartActionUnlike HeartAction = "unlike"
)

// EventSnapshot は公開画像からブロードキャスト用のスナップショットを生成する。
func (img *PublishedImage) EventSnapshot() PublishedImageEvent {
	return PublishedImageEvent{
		ID:        img.ID,
		Prompt:    img.Prompt,
		ImageURL:  img.ImageURL,
		Hearts:    img.Hearts,
		CreatedAt: img.CreatedAt,
	}
}
