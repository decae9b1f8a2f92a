package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/adscope/internal/model"
)

// SQLiteTeamRepo はSQLiteを使用したチームディレクトリリポジトリ。
type SQLiteTeamRepo struct {
	db *sql.DB
}

// NewSQLiteTeamRepo はSQLiteTeamRepoを生成する。
func NewSQLiteTeamRepo(db *sql.DB) *SQLiteTeamRepo {
	return &SQLiteTeamRepo{db: db}
}

// EnsureDefaults はデフォルトチームのディレクトリ登録を冪等に保証する。
// 既に登録済みの場合は何もしない。プロセス起動のたびに呼んで安全。
func (r *SQLiteTeamRepo) EnsureDefaults(ctx context.Context) error {
	for _, name := range model.DefaultTeamNames {
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO teams (team_name, table_name, is_default) VALUES (?, ?, 1)`,
			name, name,
		)
		if err != nil {
			return fmt.Errorf("デフォルトチームの初期化に失敗しました: %w", err)
		}
	}
	return nil
}

// FindByName は表示名でチームを検索する。見つからない場合はnilを返す。
func (r *SQLiteTeamRepo) FindByName(ctx context.Context, name string) (*model.Team, error) {
	team := &model.Team{}
	var isDefault int

	err := r.db.QueryRowContext(ctx,
		`SELECT team_name, table_name, is_default, created_at
		 FROM teams WHERE team_name = ?`,
		name,
	).Scan(&team.Name, &team.Slug, &isDefault, &team.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("チームの取得に失敗しました: %w", err)
	}

	team.IsDefault = isDefault != 0
	return team, nil
}

// ExistsNameOrSlug は表示名またはストレージ識別子の衝突を
// 大文字小文字を区別せずに検査する。
func (r *SQLiteTeamRepo) ExistsNameOrSlug(ctx context.Context, name, slug string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM teams
		 WHERE lower(team_name) = lower(?) OR lower(table_name) = lower(?)`,
		name, slug,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("チーム名の重複検査に失敗しました: %w", err)
	}
	return count > 0, nil
}

// Create はカスタムチームのディレクトリエントリを作成する。
func (r *SQLiteTeamRepo) Create(ctx context.Context, team *model.Team) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (team_name, table_name, is_default) VALUES (?, ?, 0)`,
		team.Name, team.Slug,
	)
	if err != nil {
		return fmt.Errorf("チームの作成に失敗しました: %w", err)
	}
	return nil
}

// Delete はカスタムチームのディレクトリエントリと保存済み広告を
// 同一トランザクションで削除する。どちらかが失敗した場合は両方巻き戻す。
func (r *SQLiteTeamRepo) Delete(ctx context.Context, team *model.Team) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM saved_ads WHERE team_slug = ?`, team.Slug,
	); err != nil {
		return fmt.Errorf("保存済み広告の削除に失敗しました: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM teams WHERE team_name = ? AND is_default = 0`, team.Name,
	); err != nil {
		return fmt.Errorf("チームの削除に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("チーム削除のコミットに失敗しました: %w", err)
	}
	return nil
}

// List は全チームを返す。デフォルトチームが固定順で先、カスタムチームは作成順で後。
func (r *SQLiteTeamRepo) List(ctx context.Context) ([]*model.Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT team_name, table_name, is_default, created_at
		 FROM teams ORDER BY is_default DESC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("チーム一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var teams []*model.Team
	for rows.Next() {
		team := &model.Team{}
		var isDefault int
		if err := rows.Scan(&team.Name, &team.Slug, &isDefault, &team.CreatedAt); err != nil {
			return nil, fmt.Errorf("チーム一覧の読み取りに失敗しました: %w", err)
		}
		team.IsDefault = isDefault != 0
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("チーム一覧の走査に失敗しました: %w", err)
	}

	return teams, nil
}

// compile-time interface check
var _ TeamRepository = (*SQLiteTeamRepo)(nil)
