package controllers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petriz/models"
)

type ClientsController struct {
	DB     *gorm.DB
	Logger *zap.SugaredLogger
}

// clientWithSecret is returned when a key secret is (re)issued. The
// secret is only ever shown at that moment.
type clientWithSecret struct {
	Client *models.APIClient `json:"client"`
	Secret string            `json:"secret"`
}

func (cc ClientsController) List(c *gin.Context) {
	clients, err := models.GetAPIClients(cc.DB, parseLimit(c, 100, 500), parseOffset(c))
	if err != nil {
		cc.Logger.Errorf("Error listing API clients: %v", err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, clients)
}

func (cc ClientsController) Get(c *gin.Context) {
	client, err := cc.clientFromPath(c)
	if err != nil || client == nil {
		return
	}

	RespondOK(c, client)
}

func (cc ClientsController) Create(c *gin.Context) {
	type createParams struct {
		Name           string `json:"name"`
		Description    string `json:"description"`
		ClientType     string `json:"client_type"`
		ValidityPeriod int64  `json:"validity_period"`
	}

	var payload createParams
	if err := c.BindJSON(&payload); err != nil {
		RespondBadRequestErr(c, []error{err})
		return
	}

	if payload.ClientType == "" {
		payload.ClientType = string(models.ClientTypePublic)
	}
	clientType, err := models.ParseClientType(payload.ClientType)
	if err != nil {
		RespondBadRequestErr(c, []error{err})
		return
	}

	client, err := models.CreateAPIClient(cc.DB, payload.Name, clientType, payload.Description)
	if err != nil {
		cc.Logger.Errorf("Error creating API client: %v", err)
		RespondInternalErr(c)
		return
	}

	var validUntil *time.Time
	if payload.ValidityPeriod > 0 {
		expiry := time.Now().Add(time.Duration(payload.ValidityPeriod) * time.Second)
		validUntil = &expiry
	}

	key, err := models.CreateAPIKey(cc.DB, client, validUntil)
	if err != nil {
		cc.Logger.Errorf("Error creating API key: %v", err)
		RespondInternalErr(c)
		return
	}

	RespondCreated(c, clientWithSecret{Client: client, Secret: key.Secret})
}

func (cc ClientsController) Update(c *gin.Context) {
	client, err := cc.clientFromPath(c)
	if err != nil || client == nil {
		return
	}

	type updateParams struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Disabled    *bool   `json:"disabled"`
	}

	var payload updateParams
	if err := c.BindJSON(&payload); err != nil {
		RespondBadRequestErr(c, []error{err})
		return
	}

	// Names are stored lowercase, same as on create.
	if payload.Name != nil && *payload.Name != "" {
		client.Name = strings.ToLower(*payload.Name)
	}
	if payload.Description != nil {
		client.Description = *payload.Description
	}
	if payload.Disabled != nil {
		client.Disabled = *payload.Disabled
	}

	if err := cc.DB.Save(client).Error; err != nil {
		cc.Logger.Errorf("Error updating API client %s: %v", client.UID, err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, client)
}

func (cc ClientsController) Delete(c *gin.Context) {
	client, err := cc.clientFromPath(c)
	if err != nil || client == nil {
		return
	}

	if err := models.DeleteAPIClient(cc.DB, client); err != nil {
		cc.Logger.Errorf("Error deleting API client %s: %v", client.UID, err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, gin.H{"uid": client.UID})
}

// RotateKey replaces the client's key secret and returns the new one.
func (cc ClientsController) RotateKey(c *gin.Context) {
	client, err := cc.clientFromPath(c)
	if err != nil || client == nil {
		return
	}

	if client.APIKey == nil {
		RespondNotFoundErr(c)
		return
	}

	if err := models.RotateAPIKeySecret(cc.DB, client.APIKey); err != nil {
		cc.Logger.Errorf("Error rotating API key for client %s: %v", client.UID, err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, clientWithSecret{Client: client, Secret: client.APIKey.Secret})
}

func (cc ClientsController) clientFromPath(c *gin.Context) (*models.APIClient, error) {
	client, err := models.GetAPIClientByUID(cc.DB, c.Param("uid"))
	if err != nil {
		cc.Logger.Errorf("Error fetching API client: %v", err)
		RespondInternalErr(c)
		return nil, err
	}
	if client == nil {
		RespondNotFoundErr(c)
		return nil, nil
	}

	return client, nil
}
