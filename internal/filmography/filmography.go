// Package filmography loads a static movie/cast dataset into the entity graph.
// Movies and people are linked bipartitely: a person is only ever adjacent to
// the movies they were cast in.
package filmography

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ajitpratap0/sixdegrees/internal/models"
	"github.com/ajitpratap0/sixdegrees/internal/store"
)

// ErrInvalidDocument is returned when the dataset is not a JSON array or object.
var ErrInvalidDocument = errors.New("invalid filmography document")

// Record is one movie and its cast.
type Record struct {
	Title string   `json:"title"`
	Cast  []string `json:"cast"`
}

// DatasetParseError describes a malformed record that was skipped.
// Index is the array index or object key of the record.
type DatasetParseError struct {
	Index  string
	Reason string
}

func (e *DatasetParseError) Error() string {
	return fmt.Sprintf("dataset record %s: %s", e.Index, e.Reason)
}

// Report summarizes one ingestion pass.
type Report struct {
	Records       int     `json:"records"`
	MoviesCreated int     `json:"movies_created"`
	PeopleCreated int     `json:"people_created"`
	EdgesAdded    int     `json:"edges_added"`
	Skipped       int     `json:"skipped"`
	Errors        []error `json:"-"`
}

// Ingestor writes filmography records into a store.Graph.
type Ingestor struct {
	graph  store.Graph
	logger *slog.Logger
}

// NewIngestor creates an Ingestor. A nil logger falls back to slog.Default().
func NewIngestor(graph store.Graph, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{graph: graph, logger: logger}
}

// IngestFile reads the dataset at path and ingests it.
func (in *Ingestor) IngestFile(path string) (Report, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return Report{}, fmt.Errorf("filmography: reading %s: %w", path, err)
	}
	return in.Ingest(data)
}

// Ingest parses data and adds every well-formed record to the graph.
// Only a document that is not JSON at all is an error; bad records are skipped.
func (in *Ingestor) Ingest(data []byte) (Report, error) {
	records, parseErrs, err := Parse(data)
	if err != nil {
		return Report{}, err
	}
	for _, pe := range parseErrs {
		in.logger.Debug("filmography: skipping record", "error", pe)
	}

	rep := in.IngestRecords(records)
	rep.Records += len(parseErrs)
	rep.Skipped += len(parseErrs)
	rep.Errors = append(parseErrs, rep.Errors...)

	in.logger.Info("filmography ingested",
		"records", rep.Records,
		"movies", rep.MoviesCreated,
		"people", rep.PeopleCreated,
		"edges", rep.EdgesAdded,
		"skipped", rep.Skipped,
	)
	return rep, nil
}

// IngestRecords adds already-parsed records to the graph.
func (in *Ingestor) IngestRecords(records []Record) Report {
	var rep Report
	for i := range records {
		rep.Records++
		if err := in.ingestRecord(&records[i], &rep); err != nil {
			rep.Skipped++
			rep.Errors = append(rep.Errors, err)
			in.logger.Debug("filmography: skipping record", "title", records[i].Title, "error", err)
		}
	}
	return rep
}

func (in *Ingestor) ingestRecord(rec *Record, rep *Report) error {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		return &DatasetParseError{Index: "-", Reason: "missing title"}
	}

	movie, created, err := in.graph.GetOrCreate(title, models.KindMovie)
	if err != nil {
		return fmt.Errorf("filmography: movie %q: %w", title, err)
	}
	if created {
		rep.MoviesCreated++
	}

	for _, name := range rec.Cast {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		person, created, err := in.graph.GetOrCreate(name, models.KindPerson)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Errorf("filmography: cast member %q of %q: %w", name, title, err))
			continue
		}
		if created {
			rep.PeopleCreated++
		}
		added, err := in.graph.Connect(movie.Key, person.Key)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Errorf("filmography: linking %q to %q: %w", name, title, err))
			continue
		}
		if added {
			rep.EdgesAdded++
		}
	}
	return nil
}

// Parse decodes a dataset that is either an array of records or an object
// whose values are records. Records without a string title or an array cast
// are returned as DatasetParseErrors; non-string cast entries are dropped.
func Parse(data []byte) ([]Record, []error, error) {
	if !gjson.ValidBytes(data) {
		return nil, nil, fmt.Errorf("filmography: %w: malformed JSON", ErrInvalidDocument)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() && !doc.IsObject() {
		return nil, nil, fmt.Errorf("filmography: %w: expected array or object, got %s", ErrInvalidDocument, doc.Type)
	}

	var (
		records []Record
		errs    []error
		i       int
	)
	doc.ForEach(func(key, value gjson.Result) bool {
		index := key.String()
		if doc.IsArray() {
			index = fmt.Sprintf("%d", i)
		}
		i++

		title := value.Get("title")
		if title.Type != gjson.String || strings.TrimSpace(title.Str) == "" {
			errs = append(errs, &DatasetParseError{Index: index, Reason: "missing title"})
			return true
		}
		cast := value.Get("cast")
		if !cast.IsArray() {
			errs = append(errs, &DatasetParseError{Index: index, Reason: "missing cast"})
			return true
		}

		rec := Record{Title: title.Str}
		for _, member := range cast.Array() {
			if member.Type == gjson.String {
				rec.Cast = append(rec.Cast, member.Str)
			}
		}
		records = append(records, rec)
		return true
	})
	return records, errs, nil
}
