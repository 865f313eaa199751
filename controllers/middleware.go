package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"petriz/models"
)

const (
	ClientIDHeader     = "X-Client-ID"
	ClientSecretHeader = "X-Client-Secret"
)

const clientContextKey = "client"

// RequireClient authenticates the calling API client from the
// X-Client-ID and X-Client-Secret headers and attaches it to the
// request context.
func RequireClient(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader(ClientIDHeader)
		secret := c.GetHeader(ClientSecretHeader)
		if clientID == "" || secret == "" {
			RespondCustomStatusErr(c, http.StatusUnauthorized, []error{ErrUnauthorizedClient})
			return
		}

		client, err := models.GetAPIClientByUID(db, clientID)
		if err != nil || client == nil || client.Disabled {
			RespondCustomStatusErr(c, http.StatusUnauthorized, []error{ErrUnauthorizedClient})
			return
		}

		key := client.APIKey
		if key == nil || key.Secret != secret || !key.Valid() {
			RespondCustomStatusErr(c, http.StatusUnauthorized, []error{ErrUnauthorizedClient})
			return
		}

		c.Set(clientContextKey, client)
		c.Next()
	}
}

// RequireInternalClient allows only internal API clients through.
// Must run after RequireClient.
func RequireInternalClient(c *gin.Context) {
	client := CurrentClient(c)
	if client == nil || client.ClientType != models.ClientTypeInternal {
		RespondCustomStatusErr(c, http.StatusForbidden, []error{ErrAccessDenied})
		return
	}

	c.Next()
}

// CurrentClient returns the authenticated API client, or nil for
// anonymous requests.
func CurrentClient(c *gin.Context) *models.APIClient {
	value, ok := c.Get(clientContextKey)
	if !ok {
		return nil
	}

	client, ok := value.(*models.APIClient)
	if !ok {
		return nil
	}

	return client
}
