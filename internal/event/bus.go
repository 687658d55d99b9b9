// Package event は画像公開イベントのプロセス内publish/subscribeを提供する。
// バスはサーバーのコンポジションルートで1つ構築し、公開パスと
// ライブ配信ハンドラーの両方へ参照として渡す。
package event

import (
	"log/slog"
	"sync"

	"github.com/viora/viora/internal/model"
)

// Handler はバスから配信されるイベントを受け取る関数。
// Publishの呼び出し元ゴルーチン上で同期的に呼ばれる。
type Handler func(model.PublishedImageEvent)

// Bus は画像公開イベントのブロードキャストチャネル。
// 購読者リストはプロセス内共有状態のため、追加・削除・走査をミューテックスで保護する。
// 永続化もリプレイも行わず、発行時点の購読者にのみ配信する。
type Bus struct {
	// pubMu はPublish同士を直列化し、各リスナーへの配信順序を発行順に保つ。
	pubMu sync.Mutex

	mu     sync.Mutex
	nextID uint64
	subs   []*Subscription
}

// Subscription は購読の解除ハンドル。
// Unsubscribeは何度呼んでも安全（冪等）。
type Subscription struct {
	bus     *Bus
	id      uint64
	handler Handler
}

// NewBus はBusを生成する。
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe はハンドラーを登録し、解除ハンドルを返す。
// ハンドラーは登録順に、イベントごとに1回ずつ呼び出される。
func (b *Bus) Subscribe(h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		bus:     b,
		id:      b.nextID,
		handler: h,
	}
	b.subs = append(b.subs, sub)
	return sub
}

// Unsubscribe は購読を解除する。2回以上呼んでも何も起きない。
func (s *Subscription) Unsubscribe() {
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.id == s.id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish は現在登録されている全ハンドラーへイベントを同期配信する。
// ハンドラーのpanicは捕捉してログに記録し、他のハンドラーへの配信は継続する。
// 配信中に解除された購読へは、その回の配信が届くことがある（at-most-once）。
func (b *Bus) Publish(ev model.PublishedImageEvent) {
	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	b.mu.Lock()
	handlers := make([]Handler, len(b.subs))
	for i, sub := range b.subs {
		handlers[i] = sub.handler
	}
	b.mu.Unlock()

	for _, h := range handlers {
		invoke(h, ev)
	}
}

// invoke はハンドラー1つを実行し、panicを隔離する。
func invoke(h Handler, ev model.PublishedImageEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("event handler panic recovered",
				slog.Any("panic", rec),
				slog.String("image_id", ev.ID),
			)
		}
	}()
	h(ev)
}

// SubscriberCount は現在の購読者数を返す。
// 購読リークの検証（テスト・メトリクス）に使用する。
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
