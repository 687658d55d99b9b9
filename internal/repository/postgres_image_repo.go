package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viora/viora/internal/model"
)

// PostgresImageRepo はPostgreSQLを使用した公開画像リポジトリ。
type PostgresImageRepo struct {
	db *sql.DB
}

// NewPostgresImageRepo はPostgresImageRepoを生成する。
func NewPostgresImageRepo(db *sql.DB) *PostgresImageRepo {
	return &PostgresImageRepo{db: db}
}

// Create は公開画像を作成する。
func (r *PostgresImageRepo) Create(ctx context.Context, img *model.PublishedImage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO published_images (id, prompt, image_url, hearts, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		img.ID, img.Prompt, img.ImageURL, img.Hearts, img.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("公開画像の作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDの公開画像を取得する。見つからない場合はnilを返す。
func (r *PostgresImageRepo) FindByID(ctx context.Context, id string) (*model.PublishedImage, error) {
	img := &model.PublishedImage{}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, prompt, image_url, hearts, created_at
		 FROM published_images WHERE id = $1`,
		id,
	).Scan(&img.ID, &img.Prompt, &img.ImageURL, &img.Hearts, &img.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("公開画像の取得に失敗しました: %w", err)
	}

	return img, nil
}

// ListPage は公開画像のページを取得する。
// 件数とページ本体はREPEATABLE READの読み取り専用トランザクション内で取得し、
// 並行書き込みがあってもtotalとimagesが同一スナップショットになることを保証する。
func (r *PostgresImageRepo) ListPage(ctx context.Context, offset, limit int) ([]model.PublishedImage, int, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("フィード読み取りトランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM published_images`,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("公開画像の件数取得に失敗しました: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, prompt, image_url, hearts, created_at
		 FROM published_images
		 ORDER BY created_at DESC, id DESC
		 OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("公開画像一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var images []model.PublishedImage
	for rows.Next() {
		var img model.PublishedImage
		if err := rows.Scan(&img.ID, &img.Prompt, &img.ImageURL, &img.Hearts, &img.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("公開画像行の読み取りに失敗しました: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("公開画像一覧の走査に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("フィード読み取りトランザクションのコミットに失敗しました: %w", err)
	}

	return images, total, nil
}

// AddHearts はハート数をアトミックに加算する。
// read-modify-writeではなくストアレベルの単一UPDATEで加算するため、
// 同一IDへの並行トグルでも増分が失われない。
// GREATESTにより0未満へは減算されない（0でクランプ）。
func (r *PostgresImageRepo) AddHearts(ctx context.Context, id string, delta int) (*model.PublishedImage, error) {
	img := &model.PublishedImage{}

	err := r.db.QueryRowContext(ctx,
		`UPDATE published_images
		 SET hearts = GREATEST(hearts + $2, 0)
		 WHERE id = $1
		 RETURNING id, prompt, image_url, hearts, created_at`,
		id, delta,
	).Scan(&img.ID, &img.Prompt, &img.ImageURL, &img.Hearts, &img.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ハート数の更新に失敗しました: %w", err)
	}

	return img, nil
}

// SetHearts はハート数を直接上書きする。
// 管理用の上書きパスであり、並行するAddHeartsとの増分保護はない。
func (r *PostgresImageRepo) SetHearts(ctx context.Context, id string, hearts int) (*model.PublishedImage, error) {
	img := &model.PublishedImage{}

	err := r.db.QueryRowContext(ctx,
		`UPDATE published_images
		 SET hearts = $2
		 WHERE id = $1
		 RETURNING id, prompt, image_url, hearts, created_at`,
		id, hearts,
	).Scan(&img.ID, &img.Prompt, &img.ImageURL, &img.Hearts, &img.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ハート数の上書きに失敗しました: %w", err)
	}

	return img, nil
}

// compile-time interface check
var _ ImageRepository = (*PostgresImageRepo)(nil)
