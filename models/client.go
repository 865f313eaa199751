package models

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ClientType classifies registered API clients.
type ClientType string

const (
	ClientTypeInternal ClientType = "internal"
	ClientTypePublic   ClientType = "public"
	ClientTypePartner  ClientType = "partner"
)

// ParseClientType validates a client type value.
func ParseClientType(value string) (ClientType, error) {
	switch ClientType(strings.ToLower(strings.TrimSpace(value))) {
	case ClientTypeInternal:
		return ClientTypeInternal, nil
	case ClientTypePublic:
		return ClientTypePublic, nil
	case ClientTypePartner:
		return ClientTypePartner, nil
	}
	return "", fmt.Errorf("invalid client type %q (expected internal, public or partner)", value)
}

func GenerateAPIClientUID() string {
	return GenerateUID("petriz_client_")
}

func GenerateAPIKeyUID() string {
	return GenerateUID("petriz_apikey_")
}

func GenerateAPIKeySecret() string {
	return GenerateUID("petriz_apisecret_")
}

var clientNameWords = []string{
	"amber", "basin", "cobalt", "delta", "ember", "flint", "granite",
	"harbor", "indigo", "jasper", "karst", "lagoon", "mesa", "nickel",
	"onyx", "prairie", "quartz", "ridge", "slate", "tundra",
}

// GenerateAPIClientName returns a random human-readable client name,
// e.g. "cobalt-mesa-flint-ridge".
func GenerateAPIClientName() string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	picked := seededRand.Perm(len(clientNameWords))[:4]

	words := make([]string, 0, 4)
	for _, i := range picked {
		words = append(words, clientNameWords[i])
	}
	return strings.Join(words, "-")
}

// APIClient is a registered consumer of the API.
type APIClient struct {
	Generic

	UID         string     `gorm:"size:50;uniqueIndex" json:"uid"`
	Name        string     `gorm:"size:50;not null" json:"name"`
	Description string     `gorm:"size:500" json:"description,omitempty"`
	ClientType  ClientType `gorm:"size:50;index;not null" json:"client_type"`
	Disabled    bool       `gorm:"index;not null;default:false" json:"disabled"`
	IsDeleted   bool       `gorm:"index;not null;default:false" json:"-"`

	APIKey *APIKey `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"api_key,omitempty"`
}

// APIKey is the secret credential attached to an API client. Each
// client has exactly one key.
type APIKey struct {
	Generic

	UID      string `gorm:"size:50;uniqueIndex" json:"uid"`
	Secret   string `gorm:"size:100;index;not null" json:"-"`
	ClientID uint   `gorm:"uniqueIndex;not null" json:"-"`
	// Expiry of the key. Nil means the key never expires.
	ValidUntil *time.Time `json:"valid_until,omitempty"`
}

// Valid reports whether the key is still within its validity period.
// Client-level checks (disabled, deleted) are separate.
func (k *APIKey) Valid() bool {
	if k.ValidUntil == nil {
		return true
	}
	return time.Now().Before(*k.ValidUntil)
}

// CreateAPIClient registers a new API client. An empty name gets a
// generated one.
func CreateAPIClient(db *gorm.DB, name string, clientType ClientType, description string) (*APIClient, error) {
	if name == "" {
		name = GenerateAPIClientName()
	}

	client := APIClient{
		UID:         GenerateAPIClientUID(),
		Name:        strings.ToLower(name),
		Description: description,
		ClientType:  clientType,
	}
	if err := db.Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// CreateAPIKey issues the secret key for an API client.
func CreateAPIKey(db *gorm.DB, client *APIClient, validUntil *time.Time) (*APIKey, error) {
	key := APIKey{
		UID:        GenerateAPIKeyUID(),
		Secret:     GenerateAPIKeySecret(),
		ClientID:   client.ID,
		ValidUntil: validUntil,
	}
	if err := db.Create(&key).Error; err != nil {
		return nil, err
	}

	client.APIKey = &key
	return &key, nil
}

// GetAPIClientByUID fetches a client and its key by client UID.
// Soft-deleted clients are not returned.
func GetAPIClientByUID(db *gorm.DB, uid string) (*APIClient, error) {
	var client APIClient
	err := db.Preload("APIKey").
		Where("uid = ? AND is_deleted = ?", uid, false).
		First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &client, nil
}

func GetAPIClients(db *gorm.DB, limit, offset int) ([]APIClient, error) {
	if limit <= 0 {
		limit = 100
	}

	var clients []APIClient
	err := db.Preload("APIKey").
		Where("is_deleted = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&clients).Error
	if err != nil {
		return nil, err
	}

	return clients, nil
}

// DeleteAPIClient soft-deletes and disables a client. Its key stops
// authenticating immediately.
func DeleteAPIClient(db *gorm.DB, client *APIClient) error {
	client.IsDeleted = true
	client.Disabled = true
	return db.Save(client).Error
}

// RotateAPIKeySecret replaces the key's secret with a fresh one.
func RotateAPIKeySecret(db *gorm.DB, key *APIKey) error {
	key.Secret = GenerateAPIKeySecret()
	return db.Save(key).Error
}
