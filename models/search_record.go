package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

func GenerateSearchRecordUID() string {
	return GenerateUID("petriz_search_")
}

// SearchRecord captures a single glossary search made by an API
// client. Records are never updated; a client may clear its own
// history.
type SearchRecord struct {
	ID  uint   `gorm:"primarykey" json:"-"`
	UID string `gorm:"size:50;uniqueIndex" json:"uid"`
	// The search query, normalized. Empty for topic-only searches.
	Query string `gorm:"size:255;index" json:"query,omitempty"`
	// Topic names the search was constrained to.
	Topics []string `gorm:"serializer:json" json:"topics,omitempty"`

	ClientID *uint      `gorm:"index" json:"-"`
	Client   *APIClient `json:"-"`

	// Additional metadata about the search.
	Metadata  map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`
	Timestamp time.Time              `gorm:"index" json:"timestamp"`
}

// CreateSearchRecord stores a search made by a client.
func CreateSearchRecord(
	db *gorm.DB,
	query string,
	topics []string,
	client *APIClient,
	metadata map[string]interface{},
) (*SearchRecord, error) {
	record := SearchRecord{
		UID:       GenerateSearchRecordUID(),
		Query:     strings.TrimSpace(query),
		Topics:    NormalizeTopics(topics),
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	}
	if client != nil {
		record.ClientID = &client.ID
	}

	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// DeleteClientSearchHistory removes all of a client's search records,
// returning how many were deleted.
func DeleteClientSearchHistory(db *gorm.DB, clientID uint) (int64, error) {
	result := db.Where("client_id = ?", clientID).Delete(&SearchRecord{})
	return result.RowsAffected, result.Error
}

// SearchRecordFilters narrows down a search history listing.
type SearchRecordFilters struct {
	Query        string
	Topics       []string
	TimestampGte *time.Time
	TimestampLte *time.Time
	Limit        int
	Offset       int
}

// GetClientSearchHistory lists a client's search records, newest
// first.
func GetClientSearchHistory(db *gorm.DB, clientID uint, filters SearchRecordFilters) ([]SearchRecord, error) {
	tx := db.Model(&SearchRecord{}).Where("client_id = ?", clientID)

	if query := strings.TrimSpace(filters.Query); query != "" {
		tx = tx.Where("LOWER(query) LIKE ?", "%"+strings.ToLower(query)+"%")
	}

	// Topics are stored as a JSON array, so match on the quoted name.
	for _, topic := range NormalizeTopics(filters.Topics) {
		tx = tx.Where("topics LIKE ?", `%"`+topic+`"%`)
	}

	if filters.TimestampGte != nil {
		tx = tx.Where("timestamp >= ?", *filters.TimestampGte)
	}
	if filters.TimestampLte != nil {
		tx = tx.Where("timestamp <= ?", *filters.TimestampLte)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}

	var records []SearchRecord
	err := tx.
		Order("timestamp DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
