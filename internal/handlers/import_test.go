package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/knakagawa/task-tracker-api/internal/constants"
	"github.com/knakagawa/task-tracker-api/internal/database"
	"github.com/knakagawa/task-tracker-api/internal/dto"
	"github.com/knakagawa/task-tracker-api/internal/models"
	"github.com/knakagawa/task-tracker-api/internal/repository"
	"github.com/knakagawa/task-tracker-api/internal/services"
)

type importTestEnv struct {
	db      *gorm.DB
	handler *ImportHandler
	owner   *models.User
}

func setupImportTestEnv(t *testing.T) importTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	database.SetDB(db)

	owner := &models.User{Username: "importer", Email: "importer@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(owner).Error)

	handler := NewImportHandler(services.NewImportService(repository.NewTaskRepository(db)))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return importTestEnv{db: db, handler: handler, owner: owner}
}

func (env importTestEnv) bulkCreateCSV(t *testing.T, csvContent string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "tasks.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvContent))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/tasks/bulk", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return env.serve(req)
}

func (env importTestEnv) bulkCreateJSON(t *testing.T, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/tasks/bulk", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return env.serve(req)
}

func (env importTestEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, env.owner.ID)

	env.handler.BulkCreateTasks(c)
	return w
}

func decodeBulkResponse(t *testing.T, w *httptest.ResponseRecorder) dto.BulkCreateResponse {
	t.Helper()

	var response dto.BulkCreateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

const mixedCSV = `title,description,status
Valid One,First,pending
,Second,completed
Valid Two,,
Bad Status,Third,archived
`

var mixedJSON = map[string]any{
	"tasks": []map[string]string{
		{"title": "Valid One", "description": "First", "status": "pending"},
		{"title": "", "description": "Second", "status": "completed"},
		{"title": "Valid Two"},
		{"title": "Bad Status", "description": "Third", "status": "archived"},
	},
}

func TestBulkCreate_CSV_SkipsInvalidRows(t *testing.T) {
	env := setupImportTestEnv(t)

	w := env.bulkCreateCSV(t, mixedCSV)

	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBulkResponse(t, w)
	require.Len(t, response.Created, 2)
	require.Equal(t, "Valid One", response.Created[0].Title)
	require.Equal(t, "Valid Two", response.Created[1].Title)
	require.Equal(t, models.TaskStatusPending, response.Created[1].Status)

	var count int64
	env.db.Model(&models.Task{}).Count(&count)
	require.EqualValues(t, 2, count, "invalid rows must not be persisted")
}

func TestBulkCreate_JSON_SkipsInvalidEntries(t *testing.T) {
	env := setupImportTestEnv(t)

	w := env.bulkCreateJSON(t, mixedJSON)

	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBulkResponse(t, w)
	require.Len(t, response.Created, 2)
	require.Equal(t, "Valid One", response.Created[0].Title)
	require.Equal(t, "Valid Two", response.Created[1].Title)
}

func TestBulkCreate_CSVAndJSONEquivalent(t *testing.T) {
	csvEnv := setupImportTestEnv(t)
	jsonEnv := setupImportTestEnv(t)

	csvResponse := decodeBulkResponse(t, csvEnv.bulkCreateCSV(t, mixedCSV))
	jsonResponse := decodeBulkResponse(t, jsonEnv.bulkCreateJSON(t, mixedJSON))

	require.Len(t, jsonResponse.Created, len(csvResponse.Created))
	for i := range csvResponse.Created {
		require.Equal(t, csvResponse.Created[i].Title, jsonResponse.Created[i].Title)
		require.Equal(t, csvResponse.Created[i].Status, jsonResponse.Created[i].Status)
	}
}

func TestBulkCreate_EmptyBody(t *testing.T) {
	env := setupImportTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/tasks/bulk", nil)
	req.Header.Set("Content-Type", "application/json")
	w := env.serve(req)

	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBulkResponse(t, w)
	require.NotNil(t, response.Created)
	require.Empty(t, response.Created)
}

func TestBulkCreate_NoTasksField(t *testing.T) {
	env := setupImportTestEnv(t)

	w := env.bulkCreateJSON(t, map[string]any{})

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decodeBulkResponse(t, w).Created)
}

func TestBulkCreate_HeaderOnlyCSV(t *testing.T) {
	env := setupImportTestEnv(t)

	w := env.bulkCreateCSV(t, "title,description,status\n")

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decodeBulkResponse(t, w).Created)
}

func TestBulkCreate_CSVMissingColumns(t *testing.T) {
	env := setupImportTestEnv(t)

	// No description or status columns at all.
	w := env.bulkCreateCSV(t, "title\nOnly Title\n")

	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBulkResponse(t, w)
	require.Len(t, response.Created, 1)
	require.Equal(t, "Only Title", response.Created[0].Title)
	require.Empty(t, response.Created[0].Description)
	require.Equal(t, models.TaskStatusPending, response.Created[0].Status)
}
