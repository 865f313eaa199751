package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petriz/models"
)

func TestHealth(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)

	w := doRequest(t, engine, http.MethodGet, "/health", nil, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRequireClient_MissingHeaders(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)

	w := doRequest(t, engine, http.MethodGet, "/search?query=bit", nil, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	errs := decodeResponse(t, w, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Unauthorized API client")
}

func TestRequireClient_WrongSecret(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	client, _ := seedAuthClient(t, db, models.ClientTypePublic)

	w := doRequest(t, engine, http.MethodGet, "/search?query=bit", nil, client, "not-the-secret")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireClient_UnknownClient(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)

	client := &models.APIClient{UID: "petriz_client_doesnotexist"}
	w := doRequest(t, engine, http.MethodGet, "/search?query=bit", nil, client, "whatever")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireClient_DisabledClient(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	client, secret := seedAuthClient(t, db, models.ClientTypePublic)

	client.Disabled = true
	require.NoError(t, db.Save(client).Error)

	w := doRequest(t, engine, http.MethodGet, "/search?query=bit", nil, client, secret)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireClient_ExpiredKey(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	client, secret := seedAuthClient(t, db, models.ClientTypePublic)

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(client.APIKey).Update("valid_until", &expired).Error)

	w := doRequest(t, engine, http.MethodGet, "/search?query=bit", nil, client, secret)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireClient_ValidCredentials(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	client, secret := seedAuthClient(t, db, models.ClientTypePublic)

	w := doRequest(t, engine, http.MethodGet, "/search?query=bit", nil, client, secret)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireInternalClient(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)

	public, publicSecret := seedAuthClient(t, db, models.ClientTypePublic)
	w := doRequest(t, engine, http.MethodGet, "/clients", nil, public, publicSecret)
	assert.Equal(t, http.StatusForbidden, w.Code)
	errs := decodeResponse(t, w, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "Access denied", errs[0])

	internal, internalSecret := seedAuthClient(t, db, models.ClientTypeInternal)
	w = doRequest(t, engine, http.MethodGet, "/clients", nil, internal, internalSecret)
	assert.Equal(t, http.StatusOK, w.Code)
}
