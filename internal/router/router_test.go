package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"stockatelier/internal/config"
	"stockatelier/internal/filestore"
	"stockatelier/internal/infra"
	"stockatelier/internal/model"
	"stockatelier/internal/repository"
	"stockatelier/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	engine *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:                3000,
		Env:                 "test",
		SessionSecret:       "test-secret",
		UploadDir:           t.TempDir(),
		MaxUploadMB:         50,
		AgentURL:            "http://127.0.0.1:0",
		AgentToken:          "agent-token",
		AgentTimeoutSeconds: 1,
		ReportDir:           t.TempDir(),
	}

	db, err := infra.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	files, err := filestore.New(cfg.UploadDir)
	require.NoError(t, err)
	sessions := session.NewStore(cfg.SessionSecret)

	users := repository.NewUserRepository(db)
	for _, u := range []struct{ name, role string }{
		{"vera", model.RoleViewer},
		{"olga", model.RoleOperator},
		{"ada", model.RoleAdmin},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte("pass-"+u.name), bcrypt.MinCost)
		require.NoError(t, err)
		require.NoError(t, users.Create(context.Background(), &model.User{
			Username: u.name, PasswordHash: string(hash), Role: u.role,
		}))
	}

	return &testApp{engine: New(cfg, db, files, sessions)}
}

func (a *testApp) do(t *testing.T, method, path, cookie string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) doJSON(t *testing.T, method, path, cookie, payload string) *httptest.ResponseRecorder {
	return a.do(t, method, path, cookie, strings.NewReader(payload), "application/json")
}

// login authenticates and returns the raw session cookie value.
func (a *testApp) login(t *testing.T, username string) string {
	t.Helper()
	w := a.doJSON(t, http.MethodPost, "/api/auth/login", "",
		fmt.Sprintf(`{"username":%q,"password":"pass-%s"}`, username, username))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c.Value
		}
	}
	t.Fatal("login did not set the session cookie")
	return ""
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	// Bad credentials: uniform 401, no cookie.
	w := app.doJSON(t, http.MethodPost, "/api/auth/login", "", `{"username":"ada","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())

	cookie := app.login(t, "ada")

	w = app.do(t, http.MethodGet, "/api/auth/check", cookie, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var check struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &check))
	assert.True(t, check.Authenticated)
	assert.Equal(t, "ada", check.User.Username)
	assert.Equal(t, model.RoleAdmin, check.User.Role)

	w = app.do(t, http.MethodGet, "/api/auth/permissions", cookie, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var perms struct {
		Role        string `json:"role"`
		Permissions struct {
			CanEditPrices bool `json:"canEditPrices"`
			CanDelete     bool `json:"canDelete"`
		} `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &perms))
	assert.True(t, perms.Permissions.CanEditPrices)
	assert.True(t, perms.Permissions.CanDelete)

	// Logout invalidates the session server-side.
	w = app.do(t, http.MethodPost, "/api/auth/logout", cookie, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodGet, "/api/products", cookie, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/products", "/api/machines", "/api/dashboard/stats", "/api/agent/status"} {
		w := app.do(t, http.MethodGet, path, "", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := app.do(t, http.MethodGet, "/api/auth/check", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Health stays public.
	w = app.do(t, http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleGates(t *testing.T) {
	app := newTestApp(t)
	viewer := app.login(t, "vera")
	operator := app.login(t, "olga")
	admin := app.login(t, "ada")

	item := `{"name":"vis M8","category":"visserie","quantity":100}`

	// Viewers read but never write.
	w := app.do(t, http.MethodGet, "/api/products", viewer, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.doJSON(t, http.MethodPost, "/api/products", viewer, item)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Operators create and adjust but cannot delete.
	w = app.doJSON(t, http.MethodPost, "/api/products", operator, item)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.StockItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = app.doJSON(t, http.MethodPatch, fmt.Sprintf("/api/products/%d/quantity", created.ID), operator, `{"quantity":42}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", created.ID), operator, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admins delete.
	w = app.do(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", created.ID), admin, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOperatorPriceEditIgnored(t *testing.T) {
	app := newTestApp(t)
	operator := app.login(t, "olga")
	admin := app.login(t, "ada")

	w := app.doJSON(t, http.MethodPost, "/api/products", admin,
		`{"name":"casque","category":"epi","unit_price":"25.00"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var item model.StockItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	// The operator resubmits with a changed price: server keeps the stored one.
	w = app.doJSON(t, http.MethodPut, fmt.Sprintf("/api/products/%d", item.ID), operator,
		`{"name":"casque","category":"epi","unit_price":"0.01"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated model.StockItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.True(t, updated.UnitPrice.Equal(item.UnitPrice),
		"operator price edit must not persist, got %s", updated.UnitPrice)
}

func machineMultipart(t *testing.T, fields map[string]string, fileField, fileName, fileBody string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		part, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = io.WriteString(part, fileBody)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestMachineLifecycle(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "ada")

	body, ct := machineMultipart(t, map[string]string{
		"name": "Fraiseuse CNC", "reference": "FR-2000", "quantity": "1",
		"price": "15000.00", "cad_link_path": `C:\plans\fr2000.SLDASM`,
	}, "glb_file", "fr2000.glb", "glTF-binary")

	w := app.do(t, http.MethodPost, "/api/machines", admin, body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var m model.Machine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	require.NotEmpty(t, m.ModelAssetPath)

	// The uploaded asset is served back under /uploads.
	w = app.do(t, http.MethodGet, m.ModelAssetPath, "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "glTF-binary", w.Body.String())

	// Attach a document, then a rejected extension.
	docBody, docCT := machineMultipart(t, nil, "file", "notice.pdf", "pdf-bytes")
	w = app.do(t, http.MethodPost, fmt.Sprintf("/api/machines/%d/files", m.ID), admin, docBody, docCT)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, fmt.Sprintf("/api/machines/%d/files", m.ID), admin, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var fileList []struct {
		Filename   string `json:"filename"`
		StoredPath string `json:"stored_path"`
		FileType   string `json:"file_type"`
		UploadedAt string `json:"uploaded_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fileList))
	require.Len(t, fileList, 1)
	assert.Equal(t, "notice.pdf", fileList[0].Filename)
	assert.Equal(t, "pdf", fileList[0].FileType)
	assert.NotEmpty(t, fileList[0].UploadedAt)

	badBody, badCT := machineMultipart(t, nil, "file", "tool.exe", "mz")
	w = app.do(t, http.MethodPost, fmt.Sprintf("/api/machines/%d/files", m.ID), admin, badBody, badCT)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Maintenance under the machine.
	w = app.doJSON(t, http.MethodPost, fmt.Sprintf("/api/machines/%d/maintenances", m.ID), admin,
		`{"title":"graissage glissières","priority":"high"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// Delete cascades: machine, files and maintenance all gone.
	w = app.do(t, http.MethodDelete, fmt.Sprintf("/api/machines/%d", m.ID), admin, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, fmt.Sprintf("/api/machines/%d", m.ID), admin, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = app.do(t, http.MethodGet, m.ModelAssetPath, "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMaintenanceDeleteIsAdminOnly(t *testing.T) {
	app := newTestApp(t)
	operator := app.login(t, "olga")
	admin := app.login(t, "ada")

	body, ct := machineMultipart(t, map[string]string{
		"name": "Tour", "reference": "TO-01", "quantity": "1",
	}, "", "", "")
	w := app.do(t, http.MethodPost, "/api/machines", operator, body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var m model.Machine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))

	w = app.doJSON(t, http.MethodPost, fmt.Sprintf("/api/machines/%d/maintenances", m.ID), operator,
		`{"title":"vidange"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var rec model.MaintenanceRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))

	// Operators create and update maintenance entries but only admins delete.
	w = app.do(t, http.MethodDelete, fmt.Sprintf("/api/machines/%d/maintenances/%d", m.ID, rec.ID), operator, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodDelete, fmt.Sprintf("/api/machines/%d/maintenances/%d", m.ID, rec.ID), admin, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAgentEndpoints(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "ada")

	// No agent listening: status degrades gracefully instead of failing.
	w := app.do(t, http.MethodGet, "/api/agent/status", admin, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Connected bool `json:"connected"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.Connected)

	// Open against a dead agent is an actionable upstream error.
	w = app.doJSON(t, http.MethodPost, "/api/agent/open-solidworks", admin,
		`{"filePath":"C:\\plans\\fr2000.SLDASM","machineId":1}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// Agent registration uses the shared token, not a session.
	w = app.doJSON(t, http.MethodPost, "/api/agent/register", "", `{"agentId":"a1","hostname":"pc"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/agent/register", strings.NewReader(`{"agentId":"a1","hostname":"pc"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Token", "agent-token")
	rec := httptest.NewRecorder()
	app.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDashboard(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "ada")

	w := app.doJSON(t, http.MethodPost, "/api/products", admin,
		`{"name":"vis M10","category":"visserie","quantity":2,"alert_threshold":50}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodGet, "/api/dashboard/stats", admin, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		TotalProducts int64 `json:"total_products"`
		LowStock      int64 `json:"low_stock"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStock)

	w = app.do(t, http.MethodGet, "/api/dashboard/report", admin, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")), "report must be a PDF")
}
