package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/jobboard/internal/model"
)

// PostgresAffiliateRepo はPostgreSQLを使用したアフィリエイトリポジトリ。
type PostgresAffiliateRepo struct {
	db *sql.DB
}

// NewPostgresAffiliateRepo はPostgresAffiliateRepoを生成する。
func NewPostgresAffiliateRepo(db *sql.DB) *PostgresAffiliateRepo {
	return &PostgresAffiliateRepo{db: db}
}

// FindActiveByToken はトークンで有効なアフィリエイトを検索する。
// 無効化されたアカウントは存在しない扱いとし、nilを返す。
func (r *PostgresAffiliateRepo) FindActiveByToken(ctx context.Context, token string) (*model.Affiliate, error) {
	affiliate := &model.Affiliate{}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, url, email, token, is_active, created_at
		 FROM affiliates
		 WHERE token = $1 AND is_active`,
		token,
	).Scan(
		&affiliate.ID, &affiliate.URL, &affiliate.Email,
		&affiliate.Token, &affiliate.IsActive, &affiliate.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("アフィリエイトの検索に失敗しました: %w", err)
	}

	return affiliate, nil
}

// compile-time interface check
var _ AffiliateRepository = (*PostgresAffiliateRepo)(nil)
