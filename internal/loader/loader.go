package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/jaytaylor/html2text"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petriz/internal"
	"petriz/models"
)

// DefaultBatchSize is the number of terms inserted per database
// round-trip.
const DefaultBatchSize = 1000

// CSV column headers recognized by the loader.
const (
	columnTerm             = "Term"
	columnDefinition       = "Definition"
	columnGrammaticalLabel = "Grammatical Label"
	columnTopic            = "Topic"
	columnURL              = "URL"
)

// Loader ingests glossary terms from CSV files into the database.
// Loaded terms are marked verified.
type Loader struct {
	DB     *gorm.DB
	Logger *zap.SugaredLogger
	// Progress output. Defaults to stdout.
	Out io.Writer
	// Source name recorded on every loaded term.
	Source    string
	BatchSize int

	// Topic cache, keyed by normalized name. Avoids one lookup per
	// row for recurring topics.
	topics map[string]models.Topic
}

func New(db *gorm.DB, source string, batchSize int) (*Loader, error) {
	logger, err := internal.NewLogger()
	if err != nil {
		return nil, err
	}

	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &Loader{
		DB:        db,
		Logger:    logger,
		Out:       os.Stdout,
		Source:    source,
		BatchSize: batchSize,
		topics:    map[string]models.Topic{},
	}, nil
}

// LoadPath loads terms from a CSV file, every *.csv file in a
// directory, or an http(s) URL. It returns the number of terms loaded.
func (l *Loader) LoadPath(path string) (int, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return l.LoadURL(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}

	if info.IsDir() {
		return l.LoadDirectory(path)
	}

	return l.LoadFile(path)
}

// LoadDirectory loads every *.csv file in the directory, one file at
// a time, in filesystem enumeration order.
func (l *Loader) LoadDirectory(dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return 0, err
	}

	total := 0
	for _, file := range files {
		fmt.Fprintf(l.out(), "Processing: %s...\n", file)

		count, err := l.LoadFile(file)
		total += count
		if err != nil {
			return total, fmt.Errorf("loading %s: %w", file, err)
		}

		fmt.Fprintf(l.out(), "Done processing: %s\n", file)
	}

	return total, nil
}

func (l *Loader) LoadFile(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return l.load(file)
}

// LoadURL downloads a CSV file and loads it. Transient download
// failures are retried.
func (l *Loader) LoadURL(url string) (int, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return 0, err
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	resp, err := client.StandardClient().Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}

	return l.load(resp.Body)
}

// load reads CSV rows and persists them in batches.
func (l *Loader) load(r io.Reader) (int, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return 0, fmt.Errorf("empty CSV file")
		}
		return 0, err
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{columnTerm, columnDefinition} {
		if _, ok := columns[required]; !ok {
			return 0, fmt.Errorf("missing required CSV column %q", required)
		}
	}

	count := 0
	batch := make([]*models.Term, 0, l.BatchSize)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}

		term, err := l.rowToTerm(columns, row)
		if err != nil {
			return count, err
		}
		if term == nil {
			continue
		}

		batch = append(batch, term)
		if len(batch) >= l.BatchSize {
			if err := l.flush(batch); err != nil {
				return count, err
			}
			count += len(batch)
			batch = batch[:0]
		}
	}

	if err := l.flush(batch); err != nil {
		return count, err
	}
	count += len(batch)

	return count, nil
}

// rowToTerm builds a Term from a CSV row. Rows without a name or a
// definition are skipped.
func (l *Loader) rowToTerm(columns map[string]int, row []string) (*models.Term, error) {
	name := strings.TrimSpace(cell(columns, row, columnTerm))
	definition := cleanDefinition(cell(columns, row, columnDefinition))
	if name == "" || definition == "" {
		l.Logger.Warnf("Skipping row with empty term or definition: %v", row)
		return nil, nil
	}

	topics, err := l.topicsFor(strings.Split(cell(columns, row, columnTopic), ","))
	if err != nil {
		return nil, err
	}

	return &models.Term{
		UID:              models.GenerateTermUID(),
		Name:             name,
		Definition:       definition,
		GrammaticalLabel: strings.TrimSpace(cell(columns, row, columnGrammaticalLabel)),
		Topics:           topics,
		Verified:         true,
		SourceName:       l.Source,
		SourceURL:        strings.TrimSpace(cell(columns, row, columnURL)),
	}, nil
}

// topicsFor resolves topic names against the cache, creating unknown
// topics in the database.
func (l *Loader) topicsFor(names []string) ([]models.Topic, error) {
	names = models.NormalizeTopics(names)

	topics := make([]models.Topic, 0, len(names))
	missing := make([]string, 0, len(names))
	for _, name := range names {
		if topic, ok := l.topics[name]; ok {
			topics = append(topics, topic)
		} else {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		created, err := models.GetOrCreateTopics(l.DB, missing)
		if err != nil {
			return nil, err
		}
		for _, topic := range created {
			l.topics[topic.Name] = topic
		}
		topics = append(topics, created...)
	}

	return topics, nil
}

func (l *Loader) flush(batch []*models.Term) error {
	if len(batch) == 0 {
		return nil
	}

	return l.DB.Create(batch).Error
}

func (l *Loader) out() io.Writer {
	if l.Out != nil {
		return l.Out
	}
	return os.Stdout
}

func cell(columns map[string]int, row []string, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// cleanDefinition flattens HTML markup that occasionally shows up in
// scraped glossary sources into plain text.
func cleanDefinition(definition string) string {
	definition = strings.TrimSpace(definition)
	if !strings.ContainsAny(definition, "<>") {
		return definition
	}

	text, err := html2text.FromString(definition)
	if err != nil {
		return definition
	}
	return text
}
