package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/viora/viora/internal/event"
	"github.com/viora/viora/internal/metrics"
	"github.com/viora/viora/internal/model"
)

// defaultStreamBufferSize はリスナーごとのイベントバッファ件数（デフォルト）。
const defaultStreamBufferSize = 16

// streamEvent はSSEで配信するイベントのエンベロープ。
type streamEvent struct {
	Type string         `json:"type"`
	Data *imageResponse `json:"data,omitempty"`
}

// StreamHandler はライブフィード配信のHTTPハンドラー。
// 接続ごとにバスを購読し、公開イベントをSSEでプッシュする。
type StreamHandler struct {
	bus        *event.Bus
	collector  metrics.MetricsCollector
	bufferSize int
}

// NewStreamHandler はStreamHandlerを生成する。
// bufferSizeが0以下の場合はデフォルト値を使用する。
func NewStreamHandler(bus *event.Bus, collector metrics.MetricsCollector, bufferSize int) *StreamHandler {
	if bufferSize <= 0 {
		bufferSize = defaultStreamBufferSize
	}
	return &StreamHandler{
		bus:        bus,
		collector:  collector,
		bufferSize: bufferSize,
	}
}

// Stream はライブフィードのSSE接続を処理する。
// GET /feed/stream
//
// 接続直後にconnectedイベントを送信し、以降はバスの公開イベントを
// 発行順にプッシュする。切断（クライアントクローズ・コンテキスト
// キャンセル・書き込みエラー）時は必ず購読を解除する。
// バッファが溢れた場合そのイベントは破棄される（best-effort配信）。
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
			Code:     "STREAMING_UNSUPPORTED",
			Message:  "ストリーミング接続を確立できませんでした。",
			Category: "system",
			Action:   "しばらく待ってから再度お試しください。",
		})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// バスハンドラーは同期呼び出しされるため、チャネル経由で
	// この接続のゴルーチンへ引き渡す。満杯時は破棄する。
	events := make(chan model.PublishedImageEvent, h.bufferSize)
	sub := h.bus.Subscribe(func(ev model.PublishedImageEvent) {
		select {
		case events <- ev:
		default:
			slog.Warn("stream buffer full, dropping event",
				slog.String("image_id", ev.ID),
			)
		}
	})
	defer sub.Unsubscribe()

	h.collector.RecordStreamConnected()
	defer h.collector.RecordStreamDisconnected()

	if err := writeSSE(w, streamEvent{Type: "connected"}); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			resp := toEventImageResponse(ev)
			if err := writeSSE(w, streamEvent{Type: "image:published", Data: &resp}); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeSSE はイベントを1つのSSEフレームとして書き込む。
func writeSSE(w http.ResponseWriter, ev streamEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// toEventImageResponse はイベントスナップショットからAPIレスポンスに変換する。
func toEventImageResponse(ev model.PublishedImageEvent) imageResponse {
	return imageResponse{
		ID:        ev.ID,
		Prompt:    ev.Prompt,
		ImageURL:  ev.ImageURL,
		Hearts:    ev.Hearts,
		CreatedAt: ev.CreatedAt,
	}
}
