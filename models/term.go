package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func GenerateTermUID() string {
	return GenerateUID("petriz_term_")
}

func GenerateTopicUID() string {
	return GenerateUID("petriz_topic_")
}

// Topic tags glossary terms with a subject area. Names are stored
// lowercase and are unique.
type Topic struct {
	Generic

	UID  string `gorm:"size:50;uniqueIndex" json:"uid"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`

	Terms []Term `gorm:"many2many:term_topics" json:"-"`
}

// Term is a single glossary entry.
type Term struct {
	Generic

	UID        string `gorm:"size:50;uniqueIndex" json:"uid"`
	Name       string `gorm:"size:255;index;not null" json:"name"`
	Definition string `gorm:"size:5000;not null" json:"definition"`
	// The part of speech of the term.
	GrammaticalLabel string `gorm:"size:50" json:"grammatical_label,omitempty"`
	// Whether the term and its definition have been vetted and verified
	// to be correct.
	Verified bool `gorm:"index;not null;default:false" json:"verified"`
	// Name and URL of the source the term was obtained from.
	SourceName string `gorm:"size:255;index" json:"source_name,omitempty"`
	SourceURL  string `gorm:"size:255" json:"source_url,omitempty"`
	// Number of times the term has been viewed.
	Views  int64   `gorm:"index;not null;default:0" json:"views"`
	Topics []Topic `gorm:"many2many:term_topics" json:"topics"`
}

// NormalizeTopics trims, lowercases and de-duplicates topic names,
// dropping empty values.
func NormalizeTopics(names []string) []string {
	seen := map[string]bool{}
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		cleaned = append(cleaned, name)
	}
	return cleaned
}

// GetOrCreateTopics resolves topic names to Topic rows, creating the
// ones that do not exist yet. Names are normalized first.
func GetOrCreateTopics(db *gorm.DB, names []string) ([]Topic, error) {
	names = NormalizeTopics(names)
	topics := make([]Topic, 0, len(names))
	for _, name := range names {
		var topic Topic
		err := db.Where("name = ?", name).
			Attrs(Topic{UID: GenerateTopicUID()}).
			FirstOrCreate(&topic, Topic{Name: name}).Error
		if err != nil {
			return nil, err
		}
		topics = append(topics, topic)
	}
	return topics, nil
}

func ListTopics(db *gorm.DB) ([]Topic, error) {
	var topics []Topic
	if err := db.Order("name ASC").Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

// CreateTopic registers a topic by name. An existing topic with the
// same normalized name is returned as-is.
func CreateTopic(db *gorm.DB, name string) (*Topic, error) {
	names := NormalizeTopics([]string{name})
	if len(names) == 0 {
		return nil, errors.New("topic name must not be empty")
	}

	topics, err := GetOrCreateTopics(db, names)
	if err != nil {
		return nil, err
	}

	return &topics[0], nil
}

func GetTopicByUID(db *gorm.DB, uid string) (*Topic, error) {
	var topic Topic
	err := db.Where("uid = ?", uid).First(&topic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &topic, nil
}

// RenameTopic gives the topic a new normalized name.
func RenameTopic(db *gorm.DB, topic *Topic, name string) error {
	names := NormalizeTopics([]string{name})
	if len(names) == 0 {
		return errors.New("topic name must not be empty")
	}

	topic.Name = names[0]
	return db.Save(topic).Error
}

// DeleteTopic removes the topic and untags it from all terms. The
// terms themselves are kept.
func DeleteTopic(db *gorm.DB, topic *Topic) error {
	if err := db.Model(topic).Association("Terms").Clear(); err != nil {
		return err
	}

	return db.Delete(topic).Error
}

// ListTermsByTopic lists every term tagged with the topic, by name.
func ListTermsByTopic(db *gorm.DB, topic *Topic) ([]Term, error) {
	var terms []Term
	err := db.Model(&Term{}).
		Joins("JOIN term_topics ON term_topics.term_id = terms.id").
		Where("term_topics.topic_id = ?", topic.ID).
		Preload("Topics").
		Order("terms.name ASC").
		Find(&terms).Error
	if err != nil {
		return nil, err
	}

	return terms, nil
}

func CreateTerm(db *gorm.DB, term *Term) error {
	if term.UID == "" {
		term.UID = GenerateTermUID()
	}

	return db.Create(term).Error
}

func GetTermByUID(db *gorm.DB, uid string) (*Term, error) {
	var term Term
	err := db.Preload("Topics").Where("uid = ?", uid).First(&term).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &term, nil
}

// IncrementTermViews bumps the term's view counter without touching
// its update timestamp.
func IncrementTermViews(db *gorm.DB, term *Term) error {
	err := db.Model(term).UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return err
	}
	term.Views++
	return nil
}

// DeleteTerm removes the term and its topic associations. Topics
// themselves are kept.
func DeleteTerm(db *gorm.DB, term *Term) error {
	if err := db.Model(term).Association("Topics").Clear(); err != nil {
		return err
	}

	return db.Delete(term).Error
}

// TermFilters narrows down a glossary search.
type TermFilters struct {
	// Free-text query matched against term names and definitions.
	Query string
	// Only terms tagged with any of these (lowercase) topic names.
	Topics []string
	// Only terms whose name starts with any of these letters.
	Startswith []string
	// Only terms whose source name contains this value.
	Source string
	// Verified state to filter by. Nil means either.
	Verified *bool
	// Term UIDs to exclude from the results.
	Exclude []string

	Limit  int
	Offset int
}

// SearchTerms searches the glossary. A search without a query and
// without topics returns no results.
func SearchTerms(db *gorm.DB, filters TermFilters) ([]Term, error) {
	query := strings.TrimSpace(filters.Query)
	topics := NormalizeTopics(filters.Topics)
	if query == "" && len(topics) == 0 {
		return []Term{}, nil
	}

	tx := db.Model(&Term{}).Preload("Topics").Distinct("terms.*")

	if len(topics) > 0 {
		tx = tx.
			Joins("JOIN term_topics ON term_topics.term_id = terms.id").
			Joins("JOIN topics ON topics.id = term_topics.topic_id").
			Where("topics.name IN ?", topics)
	}

	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		tx = tx.Where(
			"LOWER(terms.name) LIKE ? OR LOWER(terms.definition) LIKE ?",
			pattern, pattern,
		)
	}

	if source := strings.TrimSpace(filters.Source); source != "" {
		tx = tx.Where("LOWER(terms.source_name) LIKE ?", "%"+strings.ToLower(source)+"%")
	}

	if filters.Verified != nil {
		tx = tx.Where("terms.verified = ?", *filters.Verified)
	}

	if len(filters.Startswith) > 0 {
		var clauses []string
		var args []interface{}
		for _, letter := range filters.Startswith {
			letter = strings.TrimSpace(letter)
			if letter == "" {
				continue
			}
			clauses = append(clauses, "LOWER(terms.name) LIKE ?")
			args = append(args, strings.ToLower(letter)+"%")
		}
		if len(clauses) > 0 {
			tx = tx.Where(strings.Join(clauses, " OR "), args...)
		}
	}

	if len(filters.Exclude) > 0 {
		tx = tx.Where("terms.uid NOT IN ?", filters.Exclude)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}

	var terms []Term
	err := tx.
		Order("terms.views ASC").
		Order("terms.name ASC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&terms).Error
	if err != nil {
		return nil, err
	}

	return terms, nil
}
