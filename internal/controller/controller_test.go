package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/internal/pkg/serverutils"
	"inzite-research-be/internal/repository/memory"
	"inzite-research-be/internal/repository/unitofwork"
	"inzite-research-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResearch struct {
	started *dto.StartResearchRequest
	err     error
}

func (f *fakeResearch) Start(ctx context.Context, req *dto.StartResearchRequest) (*dto.StartResearchResponse, error) {
	f.started = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.StartResearchResponse{SessionId: "abc-123", Status: "processing", CurrentStep: "Initializing Research Workflow..."}, nil
}

func (f *fakeResearch) GetStatus(ctx context.Context, sessionId string) (*dto.ResearchStatusResponse, error) {
	if sessionId != "abc-123" {
		return nil, service.ErrSessionNotFound
	}
	return &dto.ResearchStatusResponse{SessionId: sessionId, Status: "processing", CurrentStep: "Initializing Research Workflow...", Logs: []string{}}, nil
}

type fakeReports struct {
	userId string
	list   *dto.ListReportsRequest
}

func (f *fakeReports) GetLatest(ctx context.Context, userId string) (*dto.ReportResponse, error) {
	f.userId = userId
	return &dto.ReportResponse{Id: 2, Idea: "latest"}, nil
}

func (f *fakeReports) GetByID(ctx context.Context, id int, requester string) (*dto.ReportResponse, error) {
	if id != 2 {
		return nil, service.ErrReportNotFound
	}
	return &dto.ReportResponse{Id: 2, Idea: "latest"}, nil
}

func (f *fakeReports) List(ctx context.Context, userId string, req *dto.ListReportsRequest) ([]*dto.ReportResponse, error) {
	f.userId, f.list = userId, req
	return []*dto.ReportResponse{{Id: 2}}, nil
}

func (f *fakeReports) Delete(ctx context.Context, id int, requester string) error { return nil }

type fakeChat struct{}

var knownChat = uuid.MustParse("7b0f3c9e-4d1a-4c55-9a53-2f1e8f6b1c11")

func (fakeChat) Ask(ctx context.Context, userId string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	return &dto.ChatResponse{Answer: "echo: " + req.Message, Sources: []dto.ChatSource{}}, nil
}

func (fakeChat) ListSessions(ctx context.Context, userId string) ([]*dto.ChatSessionResponse, error) {
	return []*dto.ChatSessionResponse{{Id: knownChat, Title: userId}}, nil
}

func (fakeChat) GetHistory(ctx context.Context, userId string, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	if sessionId != knownChat {
		return nil, service.ErrChatSessionNotFound
	}
	return []*dto.ChatMessageResponse{{Role: "user", Content: "hi"}}, nil
}

func (fakeChat) ClearChats(ctx context.Context, userId string) (*dto.ClearChatsResponse, error) {
	return &dto.ClearChatsResponse{DeletedSessions: 1}, nil
}

func newTestApp(research service.IResearchService, reports service.IReportService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(logger.NewNopLogger()))
	api := app.Group("/api")
	NewResearchController(research).RegisterRoutes(api)
	NewReportController(reports).RegisterRoutes(api)
	NewChatController(fakeChat{}).RegisterRoutes(api)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	return doAs(t, app, "", method, path, body)
}

func doAs(t *testing.T, app *fiber.App, token, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	out := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestResearchController(t *testing.T) {
	research := &fakeResearch{}
	app := newTestApp(research, &fakeReports{})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{name: "start", method: http.MethodPost, path: "/api/research/start", body: `{"query":"AI pet sitting","user_id":"u1"}`, code: 202},
		{name: "start missing query", method: http.MethodPost, path: "/api/research/start", body: `{}`, code: 400},
		{name: "start malformed", method: http.MethodPost, path: "/api/research/start", body: `{`, code: 400},
		{name: "status by query", method: http.MethodGet, path: "/api/research/status?sessionId=abc-123", code: 200},
		{name: "status by path", method: http.MethodGet, path: "/api/research/status/abc-123", code: 200},
		{name: "status unknown", method: http.MethodGet, path: "/api/research/status/nope", code: 404},
		{name: "status missing id", method: http.MethodGet, path: "/api/research/status", code: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestResearchController_StatusBody(t *testing.T) {
	app := newTestApp(&fakeResearch{}, &fakeReports{})

	_, body := do(t, app, http.MethodGet, "/api/research/status?sessionId=abc-123", "")
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "processing", data["status"])
	assert.Equal(t, "Initializing Research Workflow...", data["currentStep"])
	assert.Nil(t, data["resultId"])
}

func TestResearchController_ServiceErrors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{err: service.ErrInvalidQuery, code: 400},
		{err: service.ErrSessionExists, code: 409},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := newTestApp(&fakeResearch{err: tt.err}, &fakeReports{})
			code, body := do(t, app, http.MethodPost, "/api/research/start", `{"query":"x"}`)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.err.Error(), body["message"])
		})
	}
}

func TestReportController(t *testing.T) {
	reports := &fakeReports{}
	app := newTestApp(&fakeResearch{}, reports)

	code, body := do(t, app, http.MethodGet, "/api/reports/latest?userId=u9", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, "u9", reports.userId)
	assert.Equal(t, "latest", body["data"].(map[string]interface{})["idea"])

	code, _ = do(t, app, http.MethodGet, "/api/reports/2", "")
	assert.Equal(t, 200, code)

	code, _ = do(t, app, http.MethodGet, "/api/reports/7", "")
	assert.Equal(t, 404, code)

	code, _ = do(t, app, http.MethodGet, "/api/reports?limit=5&offset=10", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, 5, reports.list.Limit)
	assert.Equal(t, 10, reports.list.Offset)

	code, _ = do(t, app, http.MethodGet, "/api/reports?limit=500", "")
	assert.Equal(t, 400, code)

	code, _ = do(t, app, http.MethodDelete, "/api/reports/2", "")
	assert.Equal(t, 401, code)
}

func TestChatController(t *testing.T) {
	app := newTestApp(&fakeResearch{}, &fakeReports{})

	code, body := do(t, app, http.MethodPost, "/api/chat", `{"message":"who leads?"}`)
	assert.Equal(t, 200, code)
	assert.Equal(t, "echo: who leads?", body["data"].(map[string]interface{})["answer"])

	code, _ = do(t, app, http.MethodPost, "/api/chat", `{"message":""}`)
	assert.Equal(t, 400, code)
}

func tokenFor(t *testing.T, userId string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userId}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestChatController_Sessions(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	app := newTestApp(&fakeResearch{}, &fakeReports{})
	alice := tokenFor(t, "alice")

	tests := []struct {
		name   string
		token  string
		method string
		path   string
		code   int
	}{
		{name: "list without token", method: http.MethodGet, path: "/api/chat/sessions", code: 401},
		{name: "list", token: alice, method: http.MethodGet, path: "/api/chat/sessions", code: 200},
		{name: "history", token: alice, method: http.MethodGet, path: "/api/chat/sessions/" + knownChat.String(), code: 200},
		{name: "history unknown", token: alice, method: http.MethodGet, path: "/api/chat/sessions/" + uuid.NewString(), code: 404},
		{name: "history bad id", token: alice, method: http.MethodGet, path: "/api/chat/sessions/nope", code: 400},
		{name: "clear without token", method: http.MethodDelete, path: "/api/chat/sessions", code: 401},
		{name: "clear", token: alice, method: http.MethodDelete, path: "/api/chat/sessions", code: 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := doAs(t, app, tt.token, tt.method, tt.path, "")
			assert.Equal(t, tt.code, code)
		})
	}

	_, body := doAs(t, app, alice, http.MethodGet, "/api/chat/sessions", "")
	list := body["data"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].(map[string]interface{})["title"])
}

func TestReportController_DeleteRequiresOwner(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	store := memory.NewStore(0)
	require.NoError(t, store.Reports.CreateWithNextID(context.Background(), &entity.Report{Idea: "pet sitting", UserId: "alice"}))
	app := newTestApp(&fakeResearch{}, service.NewReportService(unitofwork.NewMemoryRepositoryFactory(store)))

	code, _ := doAs(t, app, tokenFor(t, "mallory"), http.MethodDelete, "/api/reports/0", "")
	assert.Equal(t, 404, code)
	code, _ = doAs(t, app, tokenFor(t, "mallory"), http.MethodGet, "/api/reports/0", "")
	assert.Equal(t, 404, code)

	kept, err := store.Reports.FindByID(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, kept)

	code, _ = doAs(t, app, tokenFor(t, "alice"), http.MethodGet, "/api/reports/0", "")
	assert.Equal(t, 200, code)
	code, _ = doAs(t, app, tokenFor(t, "alice"), http.MethodDelete, "/api/reports/0", "")
	assert.Equal(t, 200, code)

	gone, err := store.Reports.FindByID(context.Background(), 0)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
