// Package team はチーム（保存済み広告の名前付きコレクション）のライフサイクルを管理する。
//
// チームは3状態をとる: 未作成、デフォルト（固定・削除不可）、カスタム
// （ユーザー作成・ディレクトリエントリを持ち削除可能）。ストレージは
// チームごとの物理テーブルではなく、team_slugで区分された単一スキーマを
// 使うが、外部コントラクト（名前→ストレージ識別子の解決、作成・削除・
// 一覧・保存・取得・ID指定削除）は識別子ベースのまま保たれる。
package team

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/hitoshi/adscope/internal/curate"
	"github.com/hitoshi/adscope/internal/model"
	"github.com/hitoshi/adscope/internal/repository"
)

// nameLength制約。
const (
	minNameLength = 2
	maxNameLength = 50
)

// Service はチーム管理と保存済み広告操作のドメインサービス。
type Service struct {
	teams repository.TeamRepository
	ads   repository.SavedAdRepository
}

// NewService はServiceを生成する。
func NewService(teams repository.TeamRepository, ads repository.SavedAdRepository) *Service {
	return &Service{teams: teams, ads: ads}
}

// Initialize はデフォルトチームとディレクトリの存在を冪等に保証する。
// プロセス起動のたびに呼んで安全。
func (s *Service) Initialize(ctx context.Context) error {
	return s.teams.EnsureDefaults(ctx)
}

// ValidateName はチーム名の作成可否を検証する。
// 不正な場合は理由を含むInvalidTeamNameErrorを返す。
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return model.NewInvalidTeamNameError("空にはできません")
	}
	if len(trimmed) < minNameLength || len(trimmed) > maxNameLength {
		return model.NewInvalidTeamNameError("2〜50文字で指定してください")
	}
	for _, r := range trimmed {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == ' ', r == '_', r == '-':
		default:
			return model.NewInvalidTeamNameError("使用できない文字が含まれています")
		}
	}
	lower := strings.ToLower(trimmed)
	for _, reserved := range model.ReservedTeamNames {
		if lower == strings.ToLower(reserved) {
			return model.NewInvalidTeamNameError("予約された名前です")
		}
	}
	return nil
}

// SlugForName は表示名から決定的なストレージ識別子を導出する。
// 小文字化し、スペースとハイフンをアンダースコアに置換して
// 名前空間プレフィックスを付ける。
func SlugForName(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "_")
	slug = strings.ReplaceAll(slug, "-", "_")
	return model.CustomTeamSlugPrefix + slug
}

// Create はカスタムチームを作成し、ストレージ識別子を返す。
// 表示名の検証に失敗した場合はInvalidTeamNameError、
// 表示名または識別子が既存と衝突する場合はDuplicateTeamErrorを返す。
func (s *Service) Create(ctx context.Context, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	trimmed := strings.TrimSpace(name)
	slug := SlugForName(trimmed)

	exists, err := s.teams.ExistsNameOrSlug(ctx, trimmed, slug)
	if err != nil {
		return "", err
	}
	if exists {
		return "", model.NewDuplicateTeamError(trimmed)
	}

	if err := s.teams.Create(ctx, &model.Team{Name: trimmed, Slug: slug}); err != nil {
		return "", err
	}
	return slug, nil
}

// Delete はカスタムチームを削除する。
// デフォルトチームはProtectedTeamError、未知のチームはTeamNotFoundErrorを返す。
// ディレクトリエントリと保存済み広告は同一トランザクションで消える。
func (s *Service) Delete(ctx context.Context, name string) error {
	if model.IsDefaultTeamName(name) {
		return model.NewProtectedTeamError(name)
	}

	team, err := s.teams.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if team == nil {
		return model.NewTeamNotFoundError(name)
	}

	return s.teams.Delete(ctx, team)
}

// List は全チーム名を返す。デフォルトチームが固定順で先、カスタムチームは作成順。
func (s *Service) List(ctx context.Context) ([]*model.Team, error) {
	return s.teams.List(ctx)
}

// ResolveSlug は表示名をストレージ識別子に解決する。
// デフォルトチームは自身の名前、カスタムチームはディレクトリの識別子。
// 未知のチームはTeamNotFoundErrorを返す。
func (s *Service) ResolveSlug(ctx context.Context, name string) (string, error) {
	if model.IsDefaultTeamName(name) {
		return name, nil
	}

	team, err := s.teams.FindByName(ctx, name)
	if err != nil {
		return "", err
	}
	if team == nil {
		return "", model.NewTeamNotFoundError(name)
	}
	return team.Slug, nil
}

// Save は生レコードを正規化してチームに保存する。
// 同一archive idの広告が既に保存済みの場合はAdAlreadySavedErrorを返す。
func (s *Service) Save(ctx context.Context, teamName string, raw model.RawAd) (model.CuratedAd, error) {
	slug, err := s.ResolveSlug(ctx, teamName)
	if err != nil {
		return model.CuratedAd{}, err
	}

	curated := curate.Extract(raw)

	rawJSON := ""
	if raw != nil {
		if data, err := json.Marshal(raw); err == nil {
			rawJSON = string(data)
		}
	}

	inserted, err := s.ads.Insert(ctx, slug, curated, rawJSON)
	if err != nil {
		return model.CuratedAd{}, err
	}
	if !inserted {
		return model.CuratedAd{}, model.NewAdAlreadySavedError(teamName, curated.AdArchiveID)
	}
	return curated, nil
}

// FetchAll はチームの保存済み広告を返す。
// 未知のチームはエラーではなく空スライスを返す（閲覧面では「空のチーム」と同じ扱い）。
func (s *Service) FetchAll(ctx context.Context, teamName string) ([]*model.SavedAd, error) {
	slug, err := s.ResolveSlug(ctx, teamName)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeTeamNotFound {
			return []*model.SavedAd{}, nil
		}
		return nil, err
	}
	return s.ads.FetchAll(ctx, slug)
}

// DeleteAd はチーム内のarchive idに一致する保存済み広告を削除する。
// 1行以上削除した場合にtrueを返す。一致なしはfalseでエラーではない。
func (s *Service) DeleteAd(ctx context.Context, teamName, archiveID string) (bool, error) {
	slug, err := s.ResolveSlug(ctx, teamName)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeTeamNotFound {
			return false, nil
		}
		return false, err
	}
	return s.ads.DeleteByArchiveID(ctx, slug, archiveID)
}
