package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"house_crush/config"
	"house_crush/providers"
)

// keywordEmbedding is a deterministic stand-in for a real embedding
// model: one dimension per topic keyword plus a bias dimension,
// normalized to unit length.
func keywordEmbedding(ctx context.Context, text string) ([]float32, error) {
	keywords := []string{"deposit", "scam", "lease", "insurance", "budget", "viewing", "application"}
	lower := strings.ToLower(text)

	vec := make([]float32, len(keywords)+1)
	for i, kw := range keywords {
		vec[i] = float32(strings.Count(lower, kw))
	}
	vec[len(keywords)] = 1

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

func newTestQAService(t *testing.T, apiKey string) *QAService {
	t.Helper()
	cfg := &config.Config{}
	cfg.OpenAI.APIKey = apiKey
	cfg.OpenAI.Model = "gpt-4o-mini"

	svc, err := NewQAService(cfg, keywordEmbedding)
	if err != nil {
		t.Fatalf("NewQAService: %v", err)
	}
	return svc
}

func TestRetrieve_TopPassages(t *testing.T) {
	svc := newTestQAService(t, "test-key")

	passages, err := svc.Retrieve(context.Background(), "How do I get my security deposit back when I move out?")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(passages) != 3 {
		t.Fatalf("expected 3 passages, got %d", len(passages))
	}
	if !strings.Contains(strings.ToLower(passages[0]), "deposit") {
		t.Errorf("expected the deposit passage first, got %q", passages[0])
	}
}

func TestRetrieve_SeedsOnce(t *testing.T) {
	svc := newTestQAService(t, "test-key")

	for i := 0; i < 2; i++ {
		passages, err := svc.Retrieve(context.Background(), "spotting a rental scam")
		if err != nil {
			t.Fatalf("Retrieve call %d: %v", i+1, err)
		}
		if len(passages) != 3 {
			t.Fatalf("call %d: expected 3 passages, got %d", i+1, len(passages))
		}
	}
}

func TestAsk_NotConfigured(t *testing.T) {
	svc := newTestQAService(t, "")

	_, err := svc.Ask(context.Background(), "Is renter's insurance worth it?")
	if !errors.Is(err, providers.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSplitSources(t *testing.T) {
	a := splitSources("Keep rent under 30% of gross income.\n\nSources:\n1\n3")
	if a.Answer != "Keep rent under 30% of gross income." {
		t.Errorf("unexpected answer %q", a.Answer)
	}
	if len(a.Sources) != 2 || a.Sources[0] != "1" || a.Sources[1] != "3" {
		t.Errorf("unexpected sources %v", a.Sources)
	}
}

func TestSplitSources_NoBlock(t *testing.T) {
	a := splitSources("Document the unit's condition on move-in day.")
	if a.Answer != "Document the unit's condition on move-in day." {
		t.Errorf("unexpected answer %q", a.Answer)
	}
	if a.Sources != nil {
		t.Errorf("expected no sources, got %v", a.Sources)
	}
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := newTestQAService(t, "test-key")

	if _, err := svc.Ask(context.Background(), "   "); err == nil {
		t.Fatal("expected an error for an empty question")
	}
}
