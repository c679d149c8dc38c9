// Package testserver starts the full HTTP API on an in-memory database for tests.
package testserver

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rpggio/powermason/internal/config"
	"github.com/rpggio/powermason/internal/domain/activity"
	"github.com/rpggio/powermason/internal/domain/project"
	"github.com/rpggio/powermason/internal/domain/user"
	"github.com/rpggio/powermason/internal/ingest"
	"github.com/rpggio/powermason/internal/sqlite"
	"github.com/rpggio/powermason/internal/transport"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Users  *sqlite.UserRepository
	Token  string
	UserID string
}

// New starts a server with bearer auth and one Staff user whose token is ts.Token.
func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	projectRepo := sqlite.NewProjectRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	userRepo := sqlite.NewUserRepository(db)

	projectSvc := project.NewService(projectRepo, nil)
	activitySvc := activity.NewService(activityRepo, nil)
	ingestCfg := config.DefaultIngest()
	importer := ingest.NewService(projectSvc, ingest.LayoutFromConfig(ingestCfg), nil)

	server := httptest.NewServer(transport.NewServer(transport.Deps{
		Importer:       importer,
		Projects:       projectSvc,
		Activity:       activitySvc,
		MaxUploadBytes: ingestCfg.MaxUploadBytes,
	}, transport.AuthMiddleware(userRepo)))

	ts := &TestServer{
		Server: server,
		DB:     db,
		Users:  userRepo,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	u, err := userRepo.Create(t.Context(), "site-engineer", user.RoleStaff, nil)
	require.NoError(t, err)
	ts.UserID = u.ID
	ts.Token, err = userRepo.CreateAPIKey(t.Context(), u.ID, "test")
	require.NoError(t, err)

	return ts
}

// Upload posts an xlsx payload to /import with the server's token.
func (ts *TestServer) Upload(t *testing.T, filename string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/import", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ts.Token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// Get issues an authenticated GET against the server.
func (ts *TestServer) Get(t *testing.T, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.Token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// ReportCells returns the header and expense cells of a valid progress report.
func ReportCells() map[string]any {
	return map[string]any{
		"B1":   "P-001",
		"B2":   "Bridge Rehab",
		"B3":   "Cebu",
		"B4":   "2023-01-15",
		"H1":   "Sept 24, 2023",
		"H2":   35,
		"H3":   30,
		"H4":   "September 2023",
		"E117": 10000,
		"F10":  50,
		"C10":  100,
		"E10":  1000,
	}
}

// Workbook renders cells onto the first sheet of a new xlsx file. A nil
// value leaves the cell empty.
func Workbook(t *testing.T, cells map[string]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for cell, v := range cells {
		if v == nil {
			continue
		}
		require.NoError(t, f.SetCellValue("Sheet1", cell, v))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
