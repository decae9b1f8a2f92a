package model

import "time"

// DefaultTeamNames は初期化時に必ず存在するデフォルトチームの名前（固定順）。
// デフォルトチームは削除できず、ストレージ識別子は名前と同一。
var DefaultTeamNames = []string{"team1", "team2", "team3"}

// ReservedTeamNames はチーム名として使用できない予約識別子。
// デフォルトチーム名に加え、ストレージ内部のテーブル名を含む。
var ReservedTeamNames = []string{
	"team1", "team2", "team3",
	"teams", "saved_ads", "custom_teams", "sqlite_sequence",
}

// CustomTeamSlugPrefix はカスタムチームのストレージ識別子の名前空間プレフィックス。
const CustomTeamSlugPrefix = "custom_team_"

// Team は保存済み広告の名前付きコレクションを表す。
// デフォルトチーム（固定）とカスタムチーム（ユーザー作成・削除可能）の2種類がある。
type Team struct {
	Name      string    `json:"name"`
	Slug      string    `json:"slug"` // ストレージ識別子。デフォルトチームは名前と同一
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// IsDefaultTeamName は名前がデフォルトチームかを判定する。
func IsDefaultTeamName(name string) bool {
	for _, d := range DefaultTeamNames {
		if name == d {
			return true
		}
	}
	return false
}
