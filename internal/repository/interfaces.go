// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/adscope/internal/model"
)

// TeamRepository はチームディレクトリの永続化インターフェース。
type TeamRepository interface {
	// EnsureDefaults はデフォルトチームのディレクトリ登録を冪等に保証する。
	EnsureDefaults(ctx context.Context) error

	// FindByName は表示名でチームを検索する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Team, error)

	// ExistsNameOrSlug は表示名またはストレージ識別子の衝突を
	// 大文字小文字を区別せずに検査する。
	ExistsNameOrSlug(ctx context.Context, name, slug string) (bool, error)

	// Create はカスタムチームのディレクトリエントリを作成する。
	Create(ctx context.Context, team *model.Team) error

	// Delete はカスタムチームのディレクトリエントリと保存済み広告を
	// 同一トランザクションで削除する。
	Delete(ctx context.Context, team *model.Team) error

	// List は全チームを返す。デフォルトチームが固定順で先、
	// カスタムチームは作成順で後に並ぶ。
	List(ctx context.Context) ([]*model.Team, error)
}

// SavedAdRepository は保存済み広告の永続化インターフェース。
type SavedAdRepository interface {
	// Insert は保存済み広告を1行挿入する。
	// (team_slug, ad_archive_id) が既に存在する場合は挿入せずfalseを返す。
	Insert(ctx context.Context, teamSlug string, curated model.CuratedAd, rawJSON string) (bool, error)

	// FetchAll はチームの保存済み広告をストレージ順で返す。0件は空スライス。
	FetchAll(ctx context.Context, teamSlug string) ([]*model.SavedAd, error)

	// DeleteByArchiveID はarchive idに一致する行を削除する。
	// 1行以上削除した場合にtrueを返す。一致なしはエラーではない。
	DeleteByArchiveID(ctx context.Context, teamSlug, archiveID string) (bool, error)
}
