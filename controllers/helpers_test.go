package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"petriz/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Term{},
		&models.Topic{},
		&models.SearchRecord{},
		&models.APIClient{},
		&models.APIKey{},
		&models.AuditLogEntry{},
	))

	return db
}

func newTestEngine(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()

	log := zap.NewNop().Sugar()
	engine := gin.New()
	Router{
		DB:                db,
		HealthController:  &HealthController{DB: db, Logger: log},
		SearchController:  &SearchController{DB: db, Logger: log},
		ClientsController: &ClientsController{DB: db, Logger: log},
		AuditsController:  &AuditsController{DB: db, Logger: log},
	}.RegisterRoutes(engine)

	return engine
}

// seedAuthClient creates an API client with a fresh key and returns it
// together with the key secret.
func seedAuthClient(t *testing.T, db *gorm.DB, clientType models.ClientType) (*models.APIClient, string) {
	t.Helper()

	client, err := models.CreateAPIClient(db, "", clientType, "")
	require.NoError(t, err)
	key, err := models.CreateAPIKey(db, client, nil)
	require.NoError(t, err)

	return client, key.Secret
}

func doRequest(
	t *testing.T,
	engine *gin.Engine,
	method, path string,
	body any,
	client *models.APIClient,
	secret string,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if client != nil {
		req.Header.Set(ClientIDHeader, client.UID)
		req.Header.Set(ClientSecretHeader, secret)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// decodeResponse unpacks the response envelope, unmarshalling the data
// payload into dest when it is non-nil.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, dest any) []string {
	t.Helper()

	var resp struct {
		Errors []string        `json:"errors"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	if dest != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, dest))
	}

	return resp.Errors
}

func seedVerifiedTerm(t *testing.T, db *gorm.DB, name, definition string, topics ...string) *models.Term {
	t.Helper()

	resolved, err := models.GetOrCreateTopics(db, topics)
	require.NoError(t, err)

	term := models.Term{
		Name:       name,
		Definition: definition,
		Topics:     resolved,
		Verified:   true,
	}
	require.NoError(t, models.CreateTerm(db, &term))
	return &term
}
