package controllers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petriz/models"
)

type SearchController struct {
	DB     *gorm.DB
	Logger *zap.SugaredLogger
}

var (
	ErrNameRequired       = errors.New("Term name is required")
	ErrDefinitionRequired = errors.New("Term definition is required")
	ErrTopicNameRequired  = errors.New("Topic name is required")
)

// Search looks up glossary terms and records the search for the
// calling client.
func (s SearchController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	topics := models.NormalizeTopics(splitCSV(c.Query("topics")))
	startswith := splitCSV(c.Query("startswith"))
	source := strings.TrimSpace(c.Query("source"))
	verified := parseBool(c, "verified", true)
	limit := parseLimit(c, 20, 100)
	offset := parseOffset(c)

	terms, err := models.SearchTerms(s.DB, models.TermFilters{
		Query:      query,
		Topics:     topics,
		Startswith: startswith,
		Source:     source,
		Verified:   &verified,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		s.Logger.Errorf("Error searching terms: %v", err)
		RespondInternalErr(c)
		return
	}

	// Empty searches return nothing and are not worth recording.
	if query != "" || len(topics) > 0 {
		_, err = models.CreateSearchRecord(s.DB, query, topics, CurrentClient(c), map[string]interface{}{
			"verified":   verified,
			"startswith": startswith,
			"source":     source,
			"limit":      limit,
			"offset":     offset,
		})
		if err != nil {
			s.Logger.Warnf("Error recording search: %v", err)
		}
	}

	RespondOK(c, terms)
}

// GetTerm retrieves a single term and bumps its view counter.
func (s SearchController) GetTerm(c *gin.Context) {
	term, err := s.termFromPath(c)
	if err != nil || term == nil {
		return
	}

	if err := models.IncrementTermViews(s.DB, term); err != nil {
		s.Logger.Warnf("Error incrementing views for term %s: %v", term.UID, err)
	}

	RespondOK(c, term)
}

type termPayload struct {
	Name             *string  `json:"name"`
	Definition       *string  `json:"definition"`
	GrammaticalLabel *string  `json:"grammatical_label"`
	Topics           []string `json:"topics"`
	Verified         *bool    `json:"verified"`
	SourceName       *string  `json:"source_name"`
	SourceURL        *string  `json:"source_url"`
}

func (s SearchController) CreateTerm(c *gin.Context) {
	var payload termPayload
	if err := c.BindJSON(&payload); err != nil {
		RespondBadRequestErr(c, []error{err})
		return
	}

	var validationErrs []error
	if payload.Name == nil || strings.TrimSpace(*payload.Name) == "" {
		validationErrs = append(validationErrs, ErrNameRequired)
	}
	if payload.Definition == nil || strings.TrimSpace(*payload.Definition) == "" {
		validationErrs = append(validationErrs, ErrDefinitionRequired)
	}
	if len(validationErrs) > 0 {
		RespondBadRequestErr(c, validationErrs)
		return
	}

	topics, err := models.GetOrCreateTopics(s.DB, payload.Topics)
	if err != nil {
		s.Logger.Errorf("Error resolving topics: %v", err)
		RespondInternalErr(c)
		return
	}

	term := models.Term{
		Name:       strings.TrimSpace(*payload.Name),
		Definition: strings.TrimSpace(*payload.Definition),
		Topics:     topics,
	}
	if payload.GrammaticalLabel != nil {
		term.GrammaticalLabel = strings.TrimSpace(*payload.GrammaticalLabel)
	}
	if payload.Verified != nil {
		term.Verified = *payload.Verified
	}
	if payload.SourceName != nil {
		term.SourceName = strings.TrimSpace(*payload.SourceName)
	}
	if payload.SourceURL != nil {
		term.SourceURL = strings.TrimSpace(*payload.SourceURL)
	}

	if err := models.CreateTerm(s.DB, &term); err != nil {
		s.Logger.Errorf("Error creating term: %v", err)
		RespondInternalErr(c)
		return
	}

	RespondCreated(c, term)
}

func (s SearchController) UpdateTerm(c *gin.Context) {
	term, err := s.termFromPath(c)
	if err != nil || term == nil {
		return
	}

	var payload termPayload
	if err := c.BindJSON(&payload); err != nil {
		RespondBadRequestErr(c, []error{err})
		return
	}

	if payload.Name != nil && strings.TrimSpace(*payload.Name) != "" {
		term.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Definition != nil && strings.TrimSpace(*payload.Definition) != "" {
		term.Definition = strings.TrimSpace(*payload.Definition)
	}
	if payload.GrammaticalLabel != nil {
		term.GrammaticalLabel = strings.TrimSpace(*payload.GrammaticalLabel)
	}
	if payload.Verified != nil {
		term.Verified = *payload.Verified
	}
	if payload.SourceName != nil {
		term.SourceName = strings.TrimSpace(*payload.SourceName)
	}
	if payload.SourceURL != nil {
		term.SourceURL = strings.TrimSpace(*payload.SourceURL)
	}

	if payload.Topics != nil {
		topics, err := models.GetOrCreateTopics(s.DB, payload.Topics)
		if err != nil {
			s.Logger.Errorf("Error resolving topics: %v", err)
			RespondInternalErr(c)
			return
		}
		if err := s.DB.Model(term).Association("Topics").Replace(topics); err != nil {
			s.Logger.Errorf("Error replacing topics for term %s: %v", term.UID, err)
			RespondInternalErr(c)
			return
		}
		term.Topics = topics
	}

	if err := s.DB.Save(term).Error; err != nil {
		s.Logger.Errorf("Error updating term %s: %v", term.UID, err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, term)
}

func (s SearchController) DeleteTerm(c *gin.Context) {
	term, err := s.termFromPath(c)
	if err != nil || term == nil {
		return
	}

	if err := models.DeleteTerm(s.DB, term); err != nil {
		s.Logger.Errorf("Error deleting term %s: %v", term.UID, err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, gin.H{"uid": term.UID})
}

func (s SearchController) ListTopics(c *gin.Context) {
	topics, err := models.ListTopics(s.DB)
	if err != nil {
		s.Logger.Errorf("Error listing topics: %v", err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, topics)
}

type topicPayload struct {
	Name *string `json:"name"`
}

func (s SearchController) CreateTopic(c *gin.Context) {
	var payload topicPayload
	if err := c.BindJSON(&payload); err != nil {
		RespondBadRequestErr(c, []error{err})
		return
	}
	if payload.Name == nil || strings.TrimSpace(*payload.Name) == "" {
		RespondBadRequestErr(c, []error{ErrTopicNameRequired})
		return
	}

	topic, err := models.CreateTopic(s.DB, *payload.Name)
	if err != nil {
		s.Logger.Errorf("Error creating topic: %v", err)
		RespondInternalErr(c)
		return
	}

	RespondCreated(c, topic)
}

func (s SearchController) UpdateTopic(c *gin.Context) {
	topic, err := s.topicFromPath(c)
	if err != nil || topic == nil {
		return
	}

	var payload topicPayload
	if err := c.BindJSON(&payload); err != nil {
		RespondBadRequestErr(c, []error{err})
		return
	}
	if payload.Name == nil || strings.TrimSpace(*payload.Name) == "" {
		RespondBadRequestErr(c, []error{ErrTopicNameRequired})
		return
	}

	if err := models.RenameTopic(s.DB, topic, *payload.Name); err != nil {
		s.Logger.Errorf("Error renaming topic %s: %v", topic.UID, err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, topic)
}

func (s SearchController) DeleteTopic(c *gin.Context) {
	topic, err := s.topicFromPath(c)
	if err != nil || topic == nil {
		return
	}

	if err := models.DeleteTopic(s.DB, topic); err != nil {
		s.Logger.Errorf("Error deleting topic %s: %v", topic.UID, err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, gin.H{"uid": topic.UID})
}

// TopicTerms lists every term tagged with the topic.
func (s SearchController) TopicTerms(c *gin.Context) {
	topic, err := s.topicFromPath(c)
	if err != nil || topic == nil {
		return
	}

	terms, err := models.ListTermsByTopic(s.DB, topic)
	if err != nil {
		s.Logger.Errorf("Error listing terms for topic %s: %v", topic.UID, err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, terms)
}

// History lists the calling client's past searches.
func (s SearchController) History(c *gin.Context) {
	client := CurrentClient(c)
	if client == nil {
		RespondInternalErr(c)
		return
	}

	records, err := models.GetClientSearchHistory(s.DB, client.ID, models.SearchRecordFilters{
		Query:        c.Query("query"),
		Topics:       splitCSV(c.Query("topics")),
		TimestampGte: parseTimestamp(c, "timestamp_gte"),
		TimestampLte: parseTimestamp(c, "timestamp_lte"),
		Limit:        parseLimit(c, 100, 500),
		Offset:       parseOffset(c),
	})
	if err != nil {
		s.Logger.Errorf("Error fetching search history: %v", err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, records)
}

// ClearHistory deletes all of the calling client's search records.
func (s SearchController) ClearHistory(c *gin.Context) {
	client := CurrentClient(c)
	if client == nil {
		RespondInternalErr(c)
		return
	}

	deleted, err := models.DeleteClientSearchHistory(s.DB, client.ID)
	if err != nil {
		s.Logger.Errorf("Error clearing search history: %v", err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, gin.H{"deleted": deleted})
}

// Metrics reports glossary-wide search metrics.
func (s SearchController) Metrics(c *gin.Context) {
	metrics, err := models.GenerateGlossaryMetrics(
		s.DB,
		parseTimestamp(c, "timestamp_gte"),
		parseTimestamp(c, "timestamp_lte"),
	)
	if err != nil {
		s.Logger.Errorf("Error generating glossary metrics: %v", err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, metrics)
}

// termFromPath loads the term addressed by the :uid path parameter,
// writing the error response itself when the term cannot be served.
func (s SearchController) termFromPath(c *gin.Context) (*models.Term, error) {
	term, err := models.GetTermByUID(s.DB, c.Param("uid"))
	if err != nil {
		s.Logger.Errorf("Error fetching term: %v", err)
		RespondInternalErr(c)
		return nil, err
	}
	if term == nil {
		RespondNotFoundErr(c)
		return nil, nil
	}

	return term, nil
}

func (s SearchController) topicFromPath(c *gin.Context) (*models.Topic, error) {
	topic, err := models.GetTopicByUID(s.DB, c.Param("uid"))
	if err != nil {
		s.Logger.Errorf("Error fetching topic: %v", err)
		RespondInternalErr(c)
		return nil, err
	}
	if topic == nil {
		RespondNotFoundErr(c)
		return nil, nil
	}

	return topic, nil
}
