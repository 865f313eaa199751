package models

import (
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

// GlossaryMetrics aggregates glossary-wide search activity over a
// period of time.
type GlossaryMetrics struct {
	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   time.Time  `json:"period_end"`

	SearchCount         int64            `json:"search_count"`
	MostSearchedQueries map[string]int64 `json:"most_searched_queries"`
	MostSearchedTopics  map[string]int64 `json:"most_searched_topics"`
	MostSearchedWords   map[string]int64 `json:"most_searched_words"`

	VerifiedTermCount   int64            `json:"verified_term_count"`
	UnverifiedTermCount int64            `json:"unverified_term_count"`
	Sources             map[string]int64 `json:"sources"`
}

// GenerateGlossaryMetrics computes search and term metrics for the
// given time window. A nil upper bound means "now".
func GenerateGlossaryMetrics(db *gorm.DB, gte, lte *time.Time) (*GlossaryMetrics, error) {
	end := time.Now().UTC()
	if lte != nil {
		end = *lte
	}

	metrics := GlossaryMetrics{
		PeriodStart: gte,
		PeriodEnd:   end,
	}

	windowed := func() *gorm.DB {
		tx := db.Model(&SearchRecord{}).Where("timestamp <= ?", end)
		if gte != nil {
			tx = tx.Where("timestamp >= ?", *gte)
		}
		return tx
	}

	if err := windowed().Count(&metrics.SearchCount).Error; err != nil {
		return nil, err
	}

	var records []SearchRecord
	if err := windowed().Select("query", "topics").Find(&records).Error; err != nil {
		return nil, err
	}

	queries := map[string]int64{}
	topics := map[string]int64{}
	words := map[string]int64{}
	for _, record := range records {
		query := strings.ToLower(strings.TrimSpace(record.Query))
		if query != "" {
			queries[query]++
			for _, word := range strings.Fields(query) {
				words[word]++
			}
		}
		for _, topic := range record.Topics {
			topics[topic]++
		}
	}
	metrics.MostSearchedQueries = topCounts(queries, 10)
	metrics.MostSearchedTopics = topCounts(topics, 5)
	metrics.MostSearchedWords = topCounts(words, 5)

	err := db.Model(&Term{}).
		Where("verified = ?", true).
		Count(&metrics.VerifiedTermCount).Error
	if err != nil {
		return nil, err
	}
	err = db.Model(&Term{}).
		Where("verified = ?", false).
		Count(&metrics.UnverifiedTermCount).Error
	if err != nil {
		return nil, err
	}

	sources, err := termSources(db)
	if err != nil {
		return nil, err
	}
	metrics.Sources = sources

	return &metrics, nil
}

// termSources maps each term source name to the number of terms it
// contributed.
func termSources(db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		Source string
		Count  int64
	}
	err := db.Model(&Term{}).
		Select("LOWER(TRIM(source_name)) AS source, COUNT(id) AS count").
		Where("source_name <> ''").
		Group("LOWER(TRIM(source_name))").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sources := make(map[string]int64, len(rows))
	for _, row := range rows {
		sources[row.Source] = row.Count
	}
	return sources, nil
}

// topCounts keeps the n highest counts in the tally.
func topCounts(tally map[string]int64, n int) map[string]int64 {
	if len(tally) <= n {
		return tally
	}

	keys := make([]string, 0, len(tally))
	for key := range tally {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if tally[keys[i]] != tally[keys[j]] {
			return tally[keys[i]] > tally[keys[j]]
		}
		return keys[i] < keys[j]
	})

	top := make(map[string]int64, n)
	for _, key := range keys[:n] {
		top[key] = tally[key]
	}
	return top
}
