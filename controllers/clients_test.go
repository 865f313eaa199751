package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petriz/models"
)

type clientPayload struct {
	Client struct {
		UID        string            `json:"uid"`
		Name       string            `json:"name"`
		ClientType models.ClientType `json:"client_type"`
	} `json:"client"`
	Secret string `json:"secret"`
}

func TestCreateClient(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	admin, secret := seedAuthClient(t, db, models.ClientTypeInternal)

	payload := map[string]any{
		"name":        "Field App",
		"client_type": "partner",
		"description": "Mobile glossary client",
	}
	w := doRequest(t, engine, http.MethodPost, "/clients", payload, admin, secret)
	require.Equal(t, http.StatusCreated, w.Code)

	var created clientPayload
	decodeResponse(t, w, &created)
	assert.Contains(t, created.Client.UID, "petriz_client_")
	assert.Equal(t, "field app", created.Client.Name)
	assert.Equal(t, models.ClientTypePartner, created.Client.ClientType)
	assert.Contains(t, created.Secret, "petriz_apisecret_")

	// The issued credentials authenticate.
	stored, err := models.GetAPIClientByUID(db, created.Client.UID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	w = doRequest(t, engine, http.MethodGet, "/search/topics", nil, stored, created.Secret)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateClient_DefaultsToPublic(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	admin, secret := seedAuthClient(t, db, models.ClientTypeInternal)

	w := doRequest(t, engine, http.MethodPost, "/clients", map[string]any{}, admin, secret)
	require.Equal(t, http.StatusCreated, w.Code)

	var created clientPayload
	decodeResponse(t, w, &created)
	assert.Equal(t, models.ClientTypePublic, created.Client.ClientType)
	assert.NotEmpty(t, created.Client.Name)
}

func TestCreateClient_InvalidType(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	admin, secret := seedAuthClient(t, db, models.ClientTypeInternal)

	w := doRequest(t, engine, http.MethodPost, "/clients", map[string]any{"client_type": "superuser"}, admin, secret)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAndGetClients(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	admin, secret := seedAuthClient(t, db, models.ClientTypeInternal)
	other, _ := seedAuthClient(t, db, models.ClientTypePublic)

	w := doRequest(t, engine, http.MethodGet, "/clients", nil, admin, secret)
	require.Equal(t, http.StatusOK, w.Code)

	var clients []json.RawMessage
	decodeResponse(t, w, &clients)
	assert.Len(t, clients, 2)

	w = doRequest(t, engine, http.MethodGet, "/clients/"+other.UID, nil, admin, secret)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/clients/petriz_client_missing", nil, admin, secret)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateClient(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	admin, secret := seedAuthClient(t, db, models.ClientTypeInternal)
	target, targetSecret := seedAuthClient(t, db, models.ClientTypePublic)

	w := doRequest(t, engine, http.MethodPatch, "/clients/"+target.UID, map[string]any{"name": "Field App", "disabled": true}, admin, secret)
	require.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Name string `json:"name"`
	}
	decodeResponse(t, w, &updated)
	assert.Equal(t, "field app", updated.Name)

	// Disabled clients can no longer authenticate.
	w = doRequest(t, engine, http.MethodGet, "/search/topics", nil, target, targetSecret)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteClient(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	admin, secret := seedAuthClient(t, db, models.ClientTypeInternal)
	target, _ := seedAuthClient(t, db, models.ClientTypePublic)

	w := doRequest(t, engine, http.MethodDelete, "/clients/"+target.UID, nil, admin, secret)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/clients/"+target.UID, nil, admin, secret)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRotateKey(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	admin, secret := seedAuthClient(t, db, models.ClientTypeInternal)
	target, oldSecret := seedAuthClient(t, db, models.ClientTypePublic)

	w := doRequest(t, engine, http.MethodPut, "/clients/"+target.UID+"/api-key", nil, admin, secret)
	require.Equal(t, http.StatusOK, w.Code)

	var rotated clientPayload
	decodeResponse(t, w, &rotated)
	assert.NotEqual(t, oldSecret, rotated.Secret)

	// Only the new secret works.
	fresh, err := models.GetAPIClientByUID(db, target.UID)
	require.NoError(t, err)
	w = doRequest(t, engine, http.MethodGet, "/search/topics", nil, fresh, oldSecret)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doRequest(t, engine, http.MethodGet, "/search/topics", nil, fresh, rotated.Secret)
	assert.Equal(t, http.StatusOK, w.Code)
}
