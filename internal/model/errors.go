// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, team, provider, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidTeamName = "INVALID_TEAM_NAME"
	ErrCodeDuplicateTeam   = "DUPLICATE_TEAM"
	ErrCodeTeamNotFound    = "TEAM_NOT_FOUND"
	ErrCodeProtectedTeam   = "PROTECTED_TEAM"
	ErrCodeAdAlreadySaved  = "AD_ALREADY_SAVED"
	ErrCodeAdNotFound      = "AD_NOT_FOUND"
	ErrCodeProviderFailed  = "PROVIDER_FAILED"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeStorageError    = "STORAGE_ERROR"
)

// NewInvalidTeamNameError はチーム名バリデーションエラーを生成する。
func NewInvalidTeamNameError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTeamName,
		Message:  fmt.Sprintf("チーム名が不正です: %s", reason),
		Category: "validation",
		Action:   "2〜50文字で、英数字・スペース・アンダースコア・ハイフンのみ使用してください。",
	}
}

// NewDuplicateTeamError はチーム名重複エラーを生成する。
func NewDuplicateTeamError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateTeam,
		Message:  fmt.Sprintf("チーム '%s' は既に存在します。", name),
		Category: "validation",
		Action:   "別のチーム名を指定してください。",
	}
}

// NewTeamNotFoundError はチーム未検出エラーを生成する。
func NewTeamNotFoundError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeTeamNotFound,
		Message:  fmt.Sprintf("チーム '%s' が見つかりません。", name),
		Category: "team",
		Action:   "チーム一覧を確認してください。",
	}
}

// NewProtectedTeamError はデフォルトチーム削除の拒否エラーを生成する。
func NewProtectedTeamError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeProtectedTeam,
		Message:  fmt.Sprintf("デフォルトチーム '%s' は削除できません。", name),
		Category: "team",
		Action:   "デフォルトチームは常に保持されます。",
	}
}

// NewAdAlreadySavedError は同一広告の重複保存エラーを生成する。
func NewAdAlreadySavedError(teamName, archiveID string) *APIError {
	return &APIError{
		Code:     ErrCodeAdAlreadySaved,
		Message:  fmt.Sprintf("広告 %s はチーム '%s' に保存済みです。", archiveID, teamName),
		Category: "team",
		Action:   "保存済み広告一覧を確認してください。",
	}
}

// NewAdNotFoundError は保存済み広告の未検出エラーを生成する。
func NewAdNotFoundError(archiveID string) *APIError {
	return &APIError{
		Code:     ErrCodeAdNotFound,
		Message:  fmt.Sprintf("広告 %s が見つかりません。", archiveID),
		Category: "team",
		Action:   "既に削除されている可能性があります。",
	}
}

// NewProviderError はスクレイププロバイダの呼び出し失敗エラーを生成する。
func NewProviderError(cause error) *APIError {
	return &APIError{
		Code:     ErrCodeProviderFailed,
		Message:  fmt.Sprintf("広告の取得に失敗しました: %v", cause),
		Category: "provider",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  reason,
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}
