package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// seedImage は開発用のサンプル公開画像。
type seedImage struct {
	prompt   string
	imageURL string
	hearts   int
}

// seedImages は開発環境に投入するサンプルデータ。
var seedImages = []seedImage{
	{
		prompt:   "A serene mountain landscape at sunset with vibrant orange and pink skies",
		imageURL: "https://example.com/images/mountain-sunset.jpg",
		hearts:   42,
	},
	{
		prompt:   "A cute robot playing with a puppy in a futuristic city",
		imageURL: "https://example.com/images/robot-puppy.jpg",
		hearts:   128,
	},
	{
		prompt:   "An enchanted forest with glowing mushrooms and fireflies",
		imageURL: "https://example.com/images/enchanted-forest.jpg",
		hearts:   95,
	},
	{
		prompt:   "A cozy coffee shop on a rainy day with warm lighting",
		imageURL: "https://example.com/images/coffee-shop.jpg",
		hearts:   73,
	},
	{
		prompt:   "A majestic dragon soaring through clouds above medieval castles",
		imageURL: "https://example.com/images/dragon-castle.jpg",
		hearts:   156,
	},
}

// Seed は既存の公開画像を全削除し、サンプルデータを投入する。
// 開発環境専用。作成日時は挿入順に1秒ずつずらし、フィード順序を安定させる。
func Seed(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM published_images`); err != nil {
		return fmt.Errorf("failed to clear published images: %w", err)
	}

	base := time.Now().UTC().Add(-time.Duration(len(seedImages)) * time.Second)
	for i, img := range seedImages {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO published_images (id, prompt, image_url, hearts, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New().String(), img.prompt, img.imageURL, img.hearts,
			base.Add(time.Duration(i)*time.Second),
		)
		if err != nil {
			return fmt.Errorf("failed to insert seed image: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	return nil
}
