package insight

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"docpipe/internal/config"
	"docpipe/internal/models"
)

// fakeInsightProvider records every call so tests can assert which pools were
// submitted and with what text.
type fakeInsightProvider struct {
	mu    sync.Mutex
	calls []string

	pii      []models.PIISpan
	phrases  []models.Annotation
	entities []models.Annotation

	failEntitiesOn string // substring of pool text that makes DetectEntities fail
}

func (f *fakeInsightProvider) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeInsightProvider) recorded(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeInsightProvider) DetectPII(ctx context.Context, text string) ([]models.PIISpan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.record("pii:" + text)
	return f.pii, nil
}

func (f *fakeInsightProvider) DetectSentiment(ctx context.Context, text string) (*models.Sentiment, error) {
	f.record("sentiment:" + text)
	return &models.Sentiment{Label: "NEUTRAL", Scores: map[string]float64{"neutral": 0.9}}, nil
}

func (f *fakeInsightProvider) DetectKeyPhrases(ctx context.Context, text string) ([]models.Annotation, error) {
	f.record("phrases:" + text)
	return append([]models.Annotation(nil), f.phrases...), nil
}

func (f *fakeInsightProvider) DetectEntities(ctx context.Context, text string) ([]models.Annotation, error) {
	f.record("entities:" + text)
	if f.failEntitiesOn != "" && strings.Contains(text, f.failEntitiesOn) {
		return nil, errors.New("detector unavailable")
	}
	return append([]models.Annotation(nil), f.entities...), nil
}

func testInsightConfig() config.InsightConfig {
	return config.InsightConfig{MaxTextBytes: 5000, TopKeyPhrases: 10, PoolConcurrency: 2}
}

func TestEnricher_DocumentPool(t *testing.T) {
	fake := &fakeInsightProvider{
		pii: []models.PIISpan{{Begin: 0, End: 4}}, // "Jane"
		phrases: []models.Annotation{
			{Text: "Jane", Score: 0.9},
			{Text: "lives here", Score: 0.5},
		},
		entities: []models.Annotation{
			{Text: "Jane", Score: 0.99, Category: "PERSON"},
			{Text: "here", Score: 0.8, Category: "LOCATION"},
		},
	}
	doc := &models.ExtractedDocument{Lines: []string{"Jane lives here"}}

	enrichment, err := NewEnricher(fake, testInsightConfig(), nil).Enrich(context.Background(), doc)
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}

	if enrichment.Sentiment == nil || enrichment.Sentiment.Label != "NEUTRAL" {
		t.Errorf("Expected document sentiment, got %v", enrichment.Sentiment)
	}

	if len(enrichment.KeyPhrases) != 2 {
		t.Fatalf("Expected 2 key phrases, got %v", enrichment.KeyPhrases)
	}
	if kp := enrichment.KeyPhrases[0]; kp.Text != "Jane" || kp.BeginOffset != 0 || !kp.Redacted {
		t.Errorf("Expected redacted 'Jane' at 0, got %+v", kp)
	}
	if kp := enrichment.KeyPhrases[1]; kp.Text != "lives here" || kp.BeginOffset != 5 || kp.Redacted {
		t.Errorf("Expected clean 'lives here' at 5, got %+v", kp)
	}

	groups, ok := enrichment.Entities[models.PoolDocument]
	if !ok {
		t.Fatalf("Expected entity groups for the document pool, got %v", enrichment.Entities)
	}
	persons := groups["PERSON"]
	if len(persons) != 1 || !persons[0].Redacted || persons[0].BeginOffset != 0 {
		t.Errorf("Expected redacted PERSON 'Jane' at 0, got %v", persons)
	}
	locations := groups["LOCATION"]
	if len(locations) != 1 || locations[0].Redacted || locations[0].BeginOffset != 11 {
		t.Errorf("Expected clean LOCATION 'here' at 11, got %v", locations)
	}
}

func TestEnricher_EmptyDocumentProducesNothing(t *testing.T) {
	fake := &fakeInsightProvider{}
	doc := &models.ExtractedDocument{Lines: []string{"  ", ""}}

	enrichment, err := NewEnricher(fake, testInsightConfig(), nil).Enrich(context.Background(), doc)
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if enrichment.Sentiment != nil || len(enrichment.KeyPhrases) != 0 || len(enrichment.Entities) != 0 {
		t.Errorf("Expected empty enrichment, got %+v", enrichment)
	}
	if len(fake.calls) != 0 {
		t.Errorf("Expected no provider calls for blank pools, got %v", fake.calls)
	}
}

func TestEnricher_FormAndTablePools(t *testing.T) {
	fake := &fakeInsightProvider{
		entities: []models.Annotation{{Text: "Jane", Score: 0.9, Category: "PERSON"}},
	}
	doc := &models.ExtractedDocument{
		Fields: []models.FormField{{Key: "Name", Value: "Jane"}},
		Tables: []models.Table{{Rows: [][]string{{"Jane", "Engineer"}}}},
	}

	enrichment, err := NewEnricher(fake, testInsightConfig(), nil).Enrich(context.Background(), doc)
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}

	if _, ok := enrichment.Entities[models.PoolForms]; !ok {
		t.Errorf("Expected entities for the forms pool, got %v", enrichment.Entities)
	}
	if _, ok := enrichment.Entities["table_0"]; !ok {
		t.Errorf("Expected entities for table_0, got %v", enrichment.Entities)
	}

	// The form pool is "key: value" pairs joined with spaces.
	piiCalls := fake.recorded("pii:")
	foundForm := false
	for _, c := range piiCalls {
		if c == "pii:Name: Jane" {
			foundForm = true
		}
	}
	if !foundForm {
		t.Errorf("Expected PII detection over 'Name: Jane', got %v", piiCalls)
	}

	// Sentiment and key phrases are document-pool only.
	if calls := fake.recorded("sentiment:"); len(calls) != 0 {
		t.Errorf("Expected no sentiment calls without a document pool, got %v", calls)
	}
	if calls := fake.recorded("phrases:"); len(calls) != 0 {
		t.Errorf("Expected no key phrase calls without a document pool, got %v", calls)
	}
}

func TestEnricher_TruncatesNonPIICalls(t *testing.T) {
	fake := &fakeInsightProvider{}
	cfg := testInsightConfig()
	cfg.MaxTextBytes = 4
	doc := &models.ExtractedDocument{Lines: []string{"Jane lives here"}}

	if _, err := NewEnricher(fake, cfg, nil).Enrich(context.Background(), doc); err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}

	if calls := fake.recorded("pii:"); len(calls) != 1 || calls[0] != "pii:Jane lives here" {
		t.Errorf("Expected PII over the full pool text, got %v", calls)
	}
	if calls := fake.recorded("sentiment:"); len(calls) != 1 || calls[0] != "sentiment:Jane" {
		t.Errorf("Expected sentiment over truncated text, got %v", calls)
	}
	if calls := fake.recorded("entities:"); len(calls) != 1 || calls[0] != "entities:Jane" {
		t.Errorf("Expected entities over truncated text, got %v", calls)
	}
}

func TestEnricher_TopKeyPhrasesRankedByScore(t *testing.T) {
	fake := &fakeInsightProvider{
		phrases: []models.Annotation{
			{Text: "low", Score: 0.2},
			{Text: "high", Score: 0.9},
			{Text: "mid", Score: 0.5},
		},
	}
	cfg := testInsightConfig()
	cfg.TopKeyPhrases = 2
	doc := &models.ExtractedDocument{Lines: []string{"low high mid"}}

	enrichment, err := NewEnricher(fake, cfg, nil).Enrich(context.Background(), doc)
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}

	if len(enrichment.KeyPhrases) != 2 {
		t.Fatalf("Expected 2 key phrases, got %v", enrichment.KeyPhrases)
	}
	if enrichment.KeyPhrases[0].Text != "high" || enrichment.KeyPhrases[1].Text != "mid" {
		t.Errorf("Expected phrases ranked high, mid; got %v", enrichment.KeyPhrases)
	}
	// Offsets were reconstructed in detector order, before ranking.
	if enrichment.KeyPhrases[0].BeginOffset != 4 {
		t.Errorf("Expected 'high' at offset 4, got %d", enrichment.KeyPhrases[0].BeginOffset)
	}
}

func TestEnricher_SkipsFailedPoolAndContinues(t *testing.T) {
	fake := &fakeInsightProvider{
		entities:       []models.Annotation{{Text: "Jane", Score: 0.9, Category: "PERSON"}},
		failEntitiesOn: "Engineer",
	}
	doc := &models.ExtractedDocument{
		Lines:  []string{"Jane lives here"},
		Tables: []models.Table{{Rows: [][]string{{"Engineer"}}}},
	}

	enrichment, err := NewEnricher(fake, testInsightConfig(), nil).Enrich(context.Background(), doc)
	if err != nil {
		t.Fatalf("Expected skip-and-continue, got error %v", err)
	}

	if _, ok := enrichment.Entities[models.PoolDocument]; !ok {
		t.Errorf("Expected the document pool to survive, got %v", enrichment.Entities)
	}
	if _, ok := enrichment.Entities["table_0"]; ok {
		t.Errorf("Expected the failed table pool to be omitted, got %v", enrichment.Entities)
	}
}

func TestEnricher_CancelledContextFailsRequest(t *testing.T) {
	fake := &fakeInsightProvider{}
	doc := &models.ExtractedDocument{Lines: []string{"Jane lives here"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewEnricher(fake, testInsightConfig(), nil).Enrich(ctx, doc); err == nil {
		t.Errorf("Expected an error for a cancelled context")
	}
}
