package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petriz/models"
)

func TestAudited_RecordsRequests(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	client, secret := seedAuthClient(t, db, models.ClientTypePublic)

	w := doRequest(t, engine, http.MethodGet, "/search?query=bit", nil, client, secret)
	require.Equal(t, http.StatusOK, w.Code)

	entries, err := models.SearchAuditLogs(db, models.AuditLogFilters{Event: "search"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, models.ActionSuccess, entry.Status)
	assert.Equal(t, "terms", entry.Target)
	assert.Equal(t, client.UID, entry.ActorUID)
	assert.Equal(t, "api_client", entry.ActorType)
	assert.Equal(t, "/search", entry.Data["path"])
	assert.EqualValues(t, http.StatusOK, entry.Data["status_code"])
}

func TestAudited_RecordsFailures(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	client, secret := seedAuthClient(t, db, models.ClientTypePublic)

	w := doRequest(t, engine, http.MethodGet, "/search/terms/petriz_term_missing", nil, client, secret)
	require.Equal(t, http.StatusNotFound, w.Code)

	entries, err := models.SearchAuditLogs(db, models.AuditLogFilters{Event: "term_retrieve"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionError, entries[0].Status)
	assert.Equal(t, "petriz_term_missing", entries[0].TargetUID)
}

func TestAudited_CoversReadRoutes(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	admin, secret := seedAuthClient(t, db, models.ClientTypeInternal)

	routes := map[string]string{
		"/search/topics":  "topic_list",
		"/search/history": "search_history",
		"/search/metrics": "metrics_retrieve",
		"/clients":        "client_list",
		"/clients/" + admin.UID: "client_retrieve",
		"/audits":         "audit_list",
	}

	for path, event := range routes {
		w := doRequest(t, engine, http.MethodGet, path, nil, admin, secret)
		require.Equal(t, http.StatusOK, w.Code, path)

		entries, err := models.SearchAuditLogs(db, models.AuditLogFilters{Event: event})
		require.NoError(t, err)
		require.Len(t, entries, 1, event)
		assert.Equal(t, admin.UID, entries[0].ActorUID)
	}
}

func TestListAudits(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	admin, secret := seedAuthClient(t, db, models.ClientTypeInternal)
	client, clientSecret := seedAuthClient(t, db, models.ClientTypePublic)

	doRequest(t, engine, http.MethodGet, "/search?query=bit", nil, client, clientSecret)
	doRequest(t, engine, http.MethodGet, "/search?query=porosity", nil, admin, secret)

	w := doRequest(t, engine, http.MethodGet, "/audits", nil, admin, secret)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []models.AuditLogEntry
	decodeResponse(t, w, &entries)
	assert.Len(t, entries, 2)

	w = doRequest(t, engine, http.MethodGet, "/audits?actor="+client.UID, nil, admin, secret)
	require.Equal(t, http.StatusOK, w.Code)
	entries = nil
	decodeResponse(t, w, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, client.UID, entries[0].ActorUID)
}
