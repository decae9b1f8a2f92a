package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/adscope/internal/model"
)

// --- モック定義 ---

// mockTeamService はTeamServiceInterfaceのモック実装。
type mockTeamService struct {
	createFn func(ctx context.Context, name string) (string, error)
	deleteFn func(ctx context.Context, name string) error
	listFn   func(ctx context.Context) ([]*model.Team, error)
}

func (m *mockTeamService) Create(ctx context.Context, name string) (string, error) {
	if m.createFn != nil {
		return m.createFn(ctx, name)
	}
	return "", nil
}

func (m *mockTeamService) Delete(ctx context.Context, name string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, name)
	}
	return nil
}

func (m *mockTeamService) List(ctx context.Context) ([]*model.Team, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*model.Team{}, nil
}

// --- ListTeams ---

// チーム一覧がJSONで返ることを検証
func TestTeamHandler_ListTeams(t *testing.T) {
	now := time.Now()
	service := &mockTeamService{
		listFn: func(_ context.Context) ([]*model.Team, error) {
			return []*model.Team{
				{Name: "team1", Slug: "team1", IsDefault: true, CreatedAt: now},
				{Name: "Growth", Slug: "custom_team_growth", IsDefault: false, CreatedAt: now},
			}, nil
		},
	}
	handler := NewTeamHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	w := httptest.NewRecorder()

	handler.ListTeams(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var teams []teamResponse
	if err := json.NewDecoder(w.Body).Decode(&teams); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("len(teams) = %d, want 2", len(teams))
	}
	if teams[0].Name != "team1" || !teams[0].IsDefault {
		t.Errorf("teams[0] = %+v", teams[0])
	}
	if teams[1].Slug != "custom_team_growth" || teams[1].IsDefault {
		t.Errorf("teams[1] = %+v", teams[1])
	}
}

// --- CreateTeam ---

// チーム作成成功時に201と名前・スラッグが返ることを検証
func TestTeamHandler_CreateTeam_Success(t *testing.T) {
	service := &mockTeamService{
		createFn: func(_ context.Context, name string) (string, error) {
			if name != "Growth" {
				t.Errorf("name = %q, want %q", name, "Growth")
			}
			return "custom_team_growth", nil
		},
	}
	handler := NewTeamHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/teams", bytes.NewBufferString(`{"name":"Growth"}`))
	w := httptest.NewRecorder()

	handler.CreateTeam(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["name"] != "Growth" || resp["slug"] != "custom_team_growth" {
		t.Errorf("resp = %v", resp)
	}
}

// 不正なJSONボディが400になることを検証
func TestTeamHandler_CreateTeam_InvalidBody(t *testing.T) {
	handler := NewTeamHandler(&mockTeamService{})

	req := httptest.NewRequest(http.MethodPost, "/api/teams", bytes.NewBufferString(`{broken`))
	w := httptest.NewRecorder()

	handler.CreateTeam(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// チーム名バリデーションエラーが400になることを検証
func TestTeamHandler_CreateTeam_InvalidName(t *testing.T) {
	service := &mockTeamService{
		createFn: func(_ context.Context, _ string) (string, error) {
			return "", model.NewInvalidTeamNameError("予約された名前です")
		},
	}
	handler := NewTeamHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/teams", bytes.NewBufferString(`{"name":"team1"}`))
	w := httptest.NewRecorder()

	handler.CreateTeam(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	resp := parseAPIErrorResponse(t, w)
	if resp["code"] != model.ErrCodeInvalidTeamName {
		t.Errorf("code = %q, want %q", resp["code"], model.ErrCodeInvalidTeamName)
	}
}

// 重複チームが409になることを検証
func TestTeamHandler_CreateTeam_Duplicate(t *testing.T) {
	service := &mockTeamService{
		createFn: func(_ context.Context, name string) (string, error) {
			return "", model.NewDuplicateTeamError(name)
		},
	}
	handler := NewTeamHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/teams", bytes.NewBufferString(`{"name":"Growth"}`))
	w := httptest.NewRecorder()

	handler.CreateTeam(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

// --- DeleteTeam ---

// チーム削除成功時に204が返ることを検証
func TestTeamHandler_DeleteTeam_Success(t *testing.T) {
	deleted := ""
	service := &mockTeamService{
		deleteFn: func(_ context.Context, name string) error {
			deleted = name
			return nil
		},
	}
	handler := NewTeamHandler(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/teams/Growth", nil)
	req = withChiURLParam(req, "name", "Growth")
	w := httptest.NewRecorder()

	handler.DeleteTeam(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if deleted != "Growth" {
		t.Errorf("deleted = %q, want %q", deleted, "Growth")
	}
}

// デフォルトチーム削除が403になることを検証
func TestTeamHandler_DeleteTeam_Protected(t *testing.T) {
	service := &mockTeamService{
		deleteFn: func(_ context.Context, name string) error {
			return model.NewProtectedTeamError(name)
		},
	}
	handler := NewTeamHandler(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/teams/team1", nil)
	req = withChiURLParam(req, "name", "team1")
	w := httptest.NewRecorder()

	handler.DeleteTeam(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	resp := parseAPIErrorResponse(t, w)
	if resp["code"] != model.ErrCodeProtectedTeam {
		t.Errorf("code = %q, want %q", resp["code"], model.ErrCodeProtectedTeam)
	}
}

// 未知のチーム削除が404になることを検証
func TestTeamHandler_DeleteTeam_NotFound(t *testing.T) {
	service := &mockTeamService{
		deleteFn: func(_ context.Context, name string) error {
			return model.NewTeamNotFoundError(name)
		},
	}
	handler := NewTeamHandler(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/teams/Unknown", nil)
	req = withChiURLParam(req, "name", "Unknown")
	w := httptest.NewRecorder()

	handler.DeleteTeam(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
