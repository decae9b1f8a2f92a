package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/adscope/internal/model"
)

// savedAdColumns はsaved_adsの正規化済みカラム（id, saved_atを除く挿入対象）。
const savedAdColumns = `team_slug, ad_archive_id, categories, collation_count, collation_id,
	start_date, end_date, entity_type, is_active, page_id, page_name,
	cta_text, cta_type, link_url, page_entity_type, page_profile_picture_url,
	page_profile_uri, state_media_run_label, total_active_time,
	original_image_url, raw_json`

// SQLiteSavedAdRepo はSQLiteを使用した保存済み広告リポジトリ。
type SQLiteSavedAdRepo struct {
	db *sql.DB
}

// NewSQLiteSavedAdRepo はSQLiteSavedAdRepoを生成する。
func NewSQLiteSavedAdRepo(db *sql.DB) *SQLiteSavedAdRepo {
	return &SQLiteSavedAdRepo{db: db}
}

// Insert は保存済み広告を1行挿入する。
// (team_slug, ad_archive_id) のユニーク制約に一致する行が既にある場合は
// 挿入せずfalseを返す。保存時刻はストレージ側で付与される。
func (r *SQLiteSavedAdRepo) Insert(ctx context.Context, teamSlug string, curated model.CuratedAd, rawJSON string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO saved_ads (`+savedAdColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		teamSlug,
		nullString(curated.AdArchiveID),
		nullString(curated.Categories),
		nullString(curated.CollationCount),
		nullString(curated.CollationID),
		nullString(curated.StartDate),
		nullString(curated.EndDate),
		nullString(curated.EntityType),
		nullBoolInt(curated.IsActive),
		nullString(curated.PageID),
		nullString(curated.PageName),
		nullString(curated.CTAText),
		nullString(curated.CTAType),
		nullString(curated.LinkURL),
		nullString(curated.PageEntityType),
		nullString(curated.PageProfilePictureURL),
		nullString(curated.PageProfileURI),
		nullString(curated.StateMediaRunLabel),
		nullInt64(curated.TotalActiveTime),
		nullString(curated.OriginalImageURL),
		nullString(rawJSON),
	)
	if err != nil {
		return false, fmt.Errorf("広告の保存に失敗しました: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("保存結果の確認に失敗しました: %w", err)
	}
	return n > 0, nil
}

// FetchAll はチームの保存済み広告をストレージ順で返す。0件は空スライス。
func (r *SQLiteSavedAdRepo) FetchAll(ctx context.Context, teamSlug string) ([]*model.SavedAd, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, `+savedAdColumns+`, saved_at
		 FROM saved_ads WHERE team_slug = ? ORDER BY id ASC`,
		teamSlug,
	)
	if err != nil {
		return nil, fmt.Errorf("保存済み広告の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	ads := []*model.SavedAd{}
	for rows.Next() {
		ad, err := scanSavedAd(rows)
		if err != nil {
			return nil, err
		}
		ads = append(ads, ad)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("保存済み広告の走査に失敗しました: %w", err)
	}

	return ads, nil
}

// DeleteByArchiveID はarchive idに一致する行を削除する。
// 1行以上削除した場合にtrueを返す。一致なしはエラーではない。
func (r *SQLiteSavedAdRepo) DeleteByArchiveID(ctx context.Context, teamSlug, archiveID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_ads WHERE team_slug = ? AND ad_archive_id = ?`,
		teamSlug, archiveID,
	)
	if err != nil {
		return false, fmt.Errorf("広告の削除に失敗しました: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	return n > 0, nil
}

// scanSavedAd は1行をSavedAdに読み取る。
func scanSavedAd(rows *sql.Rows) (*model.SavedAd, error) {
	ad := &model.SavedAd{}
	var (
		archiveID, categories, collationCount, collationID sql.NullString
		startDate, endDate, entityType                     sql.NullString
		pageID, pageName, ctaText, ctaType, linkURL        sql.NullString
		pageEntityType, profilePicture, profileURI         sql.NullString
		stateLabel, originalImage, rawJSON                 sql.NullString
		isActive                                           sql.NullInt64
		totalActiveTime                                    sql.NullInt64
	)

	if err := rows.Scan(
		&ad.ID, &ad.TeamSlug, &archiveID, &categories, &collationCount, &collationID,
		&startDate, &endDate, &entityType, &isActive, &pageID, &pageName,
		&ctaText, &ctaType, &linkURL, &pageEntityType, &profilePicture,
		&profileURI, &stateLabel, &totalActiveTime, &originalImage, &rawJSON,
		&ad.SavedAt,
	); err != nil {
		return nil, fmt.Errorf("保存済み広告の読み取りに失敗しました: %w", err)
	}

	ad.AdArchiveID = archiveID.String
	ad.Categories = categories.String
	ad.CollationCount = collationCount.String
	ad.CollationID = collationID.String
	ad.StartDate = startDate.String
	ad.EndDate = endDate.String
	ad.EntityType = entityType.String
	ad.PageID = pageID.String
	ad.PageName = pageName.String
	ad.CTAText = ctaText.String
	ad.CTAType = ctaType.String
	ad.LinkURL = linkURL.String
	ad.PageEntityType = pageEntityType.String
	ad.PageProfilePictureURL = profilePicture.String
	ad.PageProfileURI = profileURI.String
	ad.StateMediaRunLabel = stateLabel.String
	ad.OriginalImageURL = originalImage.String
	ad.RawJSON = rawJSON.String
	if isActive.Valid {
		b := isActive.Int64 != 0
		ad.IsActive = &b
	}
	if totalActiveTime.Valid {
		v := totalActiveTime.Int64
		ad.TotalActiveTime = &v
	}

	return ad, nil
}

// nullString は空文字列をsql.NullStringに変換する。
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullBoolInt は*boolを0/1のsql.NullInt64に変換する。
func nullBoolInt(b *bool) sql.NullInt64 {
	if b == nil {
		return sql.NullInt64{}
	}
	v := int64(0)
	if *b {
		v = 1
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

// nullInt64 は*int64をsql.NullInt64に変換する。
func nullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

// compile-time interface check
var _ SavedAdRepository = (*SQLiteSavedAdRepo)(nil)
