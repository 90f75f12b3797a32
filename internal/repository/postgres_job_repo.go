package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/hitoshi/jobboard/internal/model"
)

// activeJobPredicate はアクティブ求人の共有述語。
// 全クエリサイトでこの定数を使い、判定のずれを防ぐ。
const activeJobPredicate = `j.is_activated AND j.expires_at > now()`

// jobColumns は求人のSELECT列リスト。scanJobの並びと一致させること。
const jobColumns = `j.id, j.category_id, j.type, j.company, j.logo, j.url,
       j.position, j.location, j.description, j.how_to_apply,
       j.token, j.is_public, j.is_activated, j.email,
       j.company_slug, j.location_slug, j.position_slug,
       j.expires_at, j.created_at, j.updated_at`

// PostgresJobRepo はPostgreSQLを使用した求人リポジトリ。
type PostgresJobRepo struct {
	db *sql.DB
}

// NewPostgresJobRepo はPostgresJobRepoを生成する。
func NewPostgresJobRepo(db *sql.DB) *PostgresJobRepo {
	return &PostgresJobRepo{db: db}
}

// rowScanner は*sql.Rowと*sql.Rowsの共通部分。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanJob はjobColumnsの並びで1行を読み取る。
func scanJob(s rowScanner) (*model.Job, error) {
	job := &model.Job{}
	var logo, url sql.NullString

	if err := s.Scan(
		&job.ID, &job.CategoryID, &job.Type, &job.Company, &logo, &url,
		&job.Position, &job.Location, &job.Description, &job.HowToApply,
		&job.Token, &job.IsPublic, &job.IsActivated, &job.Email,
		&job.CompanySlug, &job.LocationSlug, &job.PositionSlug,
		&job.ExpiresAt, &job.CreatedAt, &job.UpdatedAt,
	); err != nil {
		return nil, err
	}

	job.Logo = nullStringValue(logo)
	job.URL = nullStringValue(url)
	return job, nil
}

// Create は求人を作成する。
func (r *PostgresJobRepo) Create(ctx context.Context, job *model.Job) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (id, category_id, type, company, logo, url,
		                   position, location, description, how_to_apply,
		                   token, is_public, is_activated, email,
		                   company_slug, location_slug, position_slug,
		                   expires_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		         $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		job.ID, job.CategoryID, job.Type, job.Company,
		nullString(job.Logo), nullString(job.URL),
		job.Position, job.Location, job.Description, job.HowToApply,
		job.Token, job.IsPublic, job.IsActivated, job.Email,
		job.CompanySlug, job.LocationSlug, job.PositionSlug,
		job.ExpiresAt, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("求人の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は求人の内容フィールドとスラッグを更新する。
// トークン、作成日時、公開状態、期限は変更しない。
func (r *PostgresJobRepo) Update(ctx context.Context, job *model.Job) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET
		    category_id = $2, type = $3, company = $4, logo = $5, url = $6,
		    position = $7, location = $8, description = $9, how_to_apply = $10,
		    is_public = $11, email = $12,
		    company_slug = $13, location_slug = $14, position_slug = $15,
		    updated_at = $16
		 WHERE id = $1`,
		job.ID, job.CategoryID, job.Type, job.Company,
		nullString(job.Logo), nullString(job.URL),
		job.Position, job.Location, job.Description, job.HowToApply,
		job.IsPublic, job.Email,
		job.CompanySlug, job.LocationSlug, job.PositionSlug,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("求人の更新に失敗しました: %w", err)
	}
	return nil
}

// FindByToken はトークンで求人を検索する。見つからない場合はnilを返す。
func (r *PostgresJobRepo) FindByToken(ctx context.Context, token string) (*model.Job, error) {
	job, err := scanJob(r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs j WHERE j.token = $1`,
		token,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("トークンによる求人の検索に失敗しました: %w", err)
	}
	return job, nil
}

// GetActiveJob は指定IDのアクティブな求人を取得する。
// 未公開または期限切れの場合はnilを返す。
func (r *PostgresJobRepo) GetActiveJob(ctx context.Context, id string) (*model.Job, error) {
	job, err := scanJob(r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs j
		 WHERE j.id = $1 AND `+activeJobPredicate,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("アクティブ求人の取得に失敗しました: %w", err)
	}
	return job, nil
}

// GetActiveJobs はアクティブな求人をcreated_at降順で返す。
func (r *PostgresJobRepo) GetActiveJobs(ctx context.Context, q ActiveJobsQuery) ([]*model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs j`
	var args []any

	if q.AffiliateID != "" {
		args = append(args, q.AffiliateID)
		query += `
		 INNER JOIN affiliate_categories ac
		    ON ac.category_id = j.category_id AND ac.affiliate_id = $` + strconv.Itoa(len(args))
	}

	query += `
	 WHERE ` + activeJobPredicate

	if q.AffiliateID != "" {
		// アフィリエイト向けは公開フラグの立った求人のみ
		query += ` AND j.is_public`
	}

	if q.CategoryID != "" {
		args = append(args, q.CategoryID)
		query += ` AND j.category_id = $` + strconv.Itoa(len(args))
	}

	query += `
	 ORDER BY j.created_at DESC`

	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, q.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("アクティブ求人一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var jobs []*model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("アクティブ求人の読み取りに失敗しました: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("アクティブ求人の走査に失敗しました: %w", err)
	}

	return jobs, nil
}

// CountActiveJobs はアクティブな求人数を返す。
func (r *PostgresJobRepo) CountActiveJobs(ctx context.Context, categoryID string) (int, error) {
	query := `SELECT COUNT(*) FROM jobs j WHERE ` + activeJobPredicate
	var args []any

	if categoryID != "" {
		args = append(args, categoryID)
		query += ` AND j.category_id = $1`
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("アクティブ求人数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// Publish は求人を公開状態にし、更新後の求人を返す。
// 単一のUPDATEで実行され、すでに公開済みの場合も同じ行を返す（冪等）。
// トークンが見つからない場合はnilを返す。
func (r *PostgresJobRepo) Publish(ctx context.Context, token string) (*model.Job, error) {
	job, err := scanJob(r.db.QueryRowContext(ctx,
		`UPDATE jobs j SET is_activated = true, updated_at = now()
		 WHERE j.token = $1
		 RETURNING `+jobColumns,
		token,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("求人の公開に失敗しました: %w", err)
	}
	return job, nil
}

// ExtendIfExpiring は掲載期限まで残りgraceDays日以内の場合のみ期限を延長する。
// 述語チェックと更新を単一のUPDATEにまとめることで、並行するextend呼び出しの
// 片方は更新後のexpires_atを観測して条件を満たさなくなる。
func (r *PostgresJobRepo) ExtendIfExpiring(ctx context.Context, token string, validityDays, graceDays int) (*model.Job, error) {
	job, err := scanJob(r.db.QueryRowContext(ctx,
		`UPDATE jobs j
		 SET expires_at = now() + make_interval(days => $2), updated_at = now()
		 WHERE j.token = $1
		   AND j.expires_at - now() <= make_interval(days => $3)
		 RETURNING `+jobColumns,
		token, validityDays, graceDays,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("求人の延長に失敗しました: %w", err)
	}
	return job, nil
}

// DeleteByToken は求人を削除する。削除した場合trueを返す。
func (r *PostgresJobRepo) DeleteByToken(ctx context.Context, token string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM jobs WHERE token = $1`,
		token,
	)
	if err != nil {
		return false, fmt.Errorf("求人の削除に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	return affected > 0, nil
}

// Cleanup は作成からdays日を超えた求人を公開状態に関わらず削除する。
func (r *PostgresJobRepo) Cleanup(ctx context.Context, days int) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM jobs WHERE created_at < now() - make_interval(days => $1)`,
		days,
	)
	if err != nil {
		return 0, fmt.Errorf("求人クリーンアップの実行に失敗しました: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	return deleted, nil
}

// nullString は空文字列をsql.NullStringに変換する。
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullStringValue はsql.NullStringから文字列を取得する。
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// compile-time interface check
var _ JobRepository = (*PostgresJobRepo)(nil)
