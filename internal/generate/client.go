// Package generate は外部画像生成API（OpenAI Images API）との連携を提供する。
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/viora/viora/internal/metrics"
	"github.com/viora/viora/internal/model"
)

const (
	// defaultEndpoint はOpenAI画像生成APIのエンドポイント。
	defaultEndpoint = "https://api.openai.com/v1/images/generations"
	// generateModel は使用する画像生成モデル。
	generateModel = "dall-e-2"
	// generateSize は生成画像のサイズ。
	generateSize = "1024x1024"
)

// Client はOpenAI画像生成APIのクライアント。
// 外部APIのレート制限に先回りするため、呼び出しをlimiterでペーシングする。
type Client struct {
	httpClient *http.Client
	apiKey     string
	logger     *slog.Logger
	limiter    *rate.Limiter
	collector  metrics.MetricsCollector
	endpoint   string // テスト用にエンドポイントを差し替え可能
}

// NewClient はClientの新しいインスタンスを生成する。
// ratePerMinは1分あたりの最大呼び出し回数を指定する。
func NewClient(
	httpClient *http.Client,
	apiKey string,
	logger *slog.Logger,
	ratePerMin int,
	collector metrics.MetricsCollector,
) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(float64(ratePerMin)/60.0), ratePerMin),
		collector:  collector,
		endpoint:   defaultEndpoint,
	}
}

// generateRequest はOpenAI画像生成APIのリクエストボディ。
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

// generateResponse はOpenAI画像生成APIのレスポンスボディ。
type generateResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// apiErrorResponse はOpenAI APIのエラーレスポンスボディ。
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate は検証済みプロンプトから画像を生成し、画像URLを返す。
// 上流の失敗は構造化されたAPIErrorとして返す:
// 401→認証失敗、429→レート制限、content_policy_violation→ポリシー違反。
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("生成リクエストのペーシング待機に失敗しました: %w", err)
	}

	payload, err := json.Marshal(generateRequest{
		Model:  generateModel,
		Prompt: prompt,
		N:      1,
		Size:   generateSize,
	})
	if err != nil {
		return "", fmt.Errorf("生成リクエストの組み立てに失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.collector.RecordGenerateLatency(time.Since(start))
	if err != nil {
		c.logger.Error("画像生成APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
		)
		c.collector.RecordGenerateFailure("transport")
		return "", model.NewGenerationFailedError()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.collector.RecordGenerateFailure("read_body")
		return "", model.NewGenerationFailedError()
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.mapAPIError(resp.StatusCode, body)
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("画像生成APIのレスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		c.collector.RecordGenerateFailure("parse")
		return "", model.NewGenerationFailedError()
	}

	if len(result.Data) == 0 || result.Data[0].URL == "" {
		c.logger.Error("画像生成APIのレスポンスに画像URLが含まれていません")
		c.collector.RecordGenerateFailure("empty_response")
		return "", model.NewGenerationFailedError()
	}

	return result.Data[0].URL, nil
}

// mapAPIError は上流のエラーステータスを構造化されたAPIErrorに変換する。
func (c *Client) mapAPIError(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	// ボディがJSONでない場合もステータスコードで分類できるため、パース失敗は無視する
	_ = json.Unmarshal(body, &apiErr)

	c.logger.Error("画像生成APIがエラーステータスを返しました",
		slog.Int("http_status", statusCode),
		slog.String("upstream_code", apiErr.Error.Code),
	)

	switch {
	case statusCode == http.StatusUnauthorized:
		c.collector.RecordGenerateFailure("unauthorized")
		return model.NewGenerationUnauthorizedError()
	case statusCode == http.StatusTooManyRequests:
		c.collector.RecordGenerateFailure("rate_limited")
		return model.NewGenerationRateLimitedError()
	case apiErr.Error.Code == "content_policy_violation":
		c.collector.RecordGenerateFailure("content_policy")
		return model.NewContentPolicyViolationError()
	default:
		c.collector.RecordGenerateFailure("upstream")
		return model.NewGenerationFailedError()
	}
}
