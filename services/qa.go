package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	openai "github.com/sashabaranov/go-openai"

	"house_crush/config"
	"house_crush/providers"
)

const (
	qaCollectionName = "rental-advice"
	qaTopK           = 3
)

// The advice corpus the Q&A sidebar answers from. Small enough to
// embed on first use and keep entirely in memory.
var adviceDocuments = []string{
	"Budgeting for rent: a common guideline is to spend no more than 30% of your gross monthly income on rent. Factor in utilities, internet, parking, and renter's insurance when comparing units, since an apartment with utilities included can be cheaper overall than one with a lower base rent.",
	"Viewing a rental: always see the unit in person or over live video before paying anything. Check water pressure, cell reception, window seals, and signs of pests or mold. Visit the neighbourhood at night as well as during the day to judge noise and safety.",
	"Lease agreements: read the full lease before signing and keep a copy. Pay attention to the lease term, renewal and termination clauses, rules about subletting, guests, and pets, and who is responsible for maintenance and minor repairs. Verbal promises should be written into the lease.",
	"Avoiding rental scams: never wire money or pay a deposit before verifying the landlord and seeing the unit. Be suspicious of rents far below market rate, landlords who claim to be out of the country, and pressure to pay immediately. Reverse-image-search listing photos to spot stolen ads.",
	"Security deposits: know your local rules on how much a landlord can collect and when it must be returned. Document the unit's condition with photos or video on move-in day and get a signed condition report, so normal wear and tear is not charged against your deposit at move-out.",
	"Tenant rights and insurance: most jurisdictions limit how often and by how much rent can increase, and require proper notice before a landlord enters the unit. Renter's insurance is inexpensive and covers your belongings against fire, theft, and water damage, which the landlord's policy does not.",
	"Rental applications: landlords typically ask for proof of income, references from previous landlords, and a credit check. Prepare these documents in advance to move quickly in a competitive market, and never share more personal information than the application actually requires.",
}

const qaSystemPrompt = `You are a rental housing advisor. Answer the user's question using only the context passages provided. If the context does not cover the question, say so briefly rather than inventing an answer. Keep answers short and practical. End with "Sources:" followed by the numbers of the context passages you used, one per line.`

// Answer is a Q&A response: the answer text plus the sources the
// model cited, split out of the completion.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// QAService answers rental questions by retrieving the most relevant
// advice passages and asking a chat model to answer from them.
type QAService struct {
	db         *chromem.DB
	collection *chromem.Collection
	chat       *openai.Client
	model      string
	configured bool

	seedOnce sync.Once
	seedErr  error
}

// NewQAService builds the Q&A service. embed may be nil, in which
// case OpenAI embeddings are used; tests pass a deterministic func.
func NewQAService(cfg *config.Config, embed chromem.EmbeddingFunc) (*QAService, error) {
	if embed == nil {
		embed = chromem.NewEmbeddingFuncOpenAI(cfg.OpenAI.APIKey, chromem.EmbeddingModelOpenAI3Small)
	}

	db := chromem.NewDB()
	collection, err := db.CreateCollection(qaCollectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("create advice collection: %w", err)
	}

	return &QAService{
		db:         db,
		collection: collection,
		chat:       openai.NewClient(cfg.OpenAI.APIKey),
		model:      cfg.OpenAI.Model,
		configured: cfg.OpenAI.APIKey != "",
	}, nil
}

// seed embeds the advice corpus on first use so construction never
// makes network calls.
func (s *QAService) seed(ctx context.Context) error {
	s.seedOnce.Do(func() {
		docs := make([]chromem.Document, len(adviceDocuments))
		for i, content := range adviceDocuments {
			docs[i] = chromem.Document{
				ID:      fmt.Sprintf("advice-%d", i+1),
				Content: content,
			}
		}
		s.seedErr = s.collection.AddDocuments(ctx, docs, 1)
	})
	return s.seedErr
}

// Retrieve returns the qaTopK advice passages most similar to the
// question, most similar first.
func (s *QAService) Retrieve(ctx context.Context, question string) ([]string, error) {
	if err := s.seed(ctx); err != nil {
		return nil, fmt.Errorf("seed advice corpus: %w", err)
	}

	results, err := s.collection.Query(ctx, question, qaTopK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query advice corpus: %w", err)
	}

	passages := make([]string, 0, len(results))
	for _, r := range results {
		passages = append(passages, r.Content)
	}
	return passages, nil
}

// Ask answers a rental question from the advice corpus. The error
// path mirrors the search providers: missing credentials surface as
// ErrNotConfigured, everything else is a wrapped transient error.
func (s *QAService) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question")
	}
	if !s.configured {
		return nil, fmt.Errorf("qa: %w", providers.ErrNotConfigured)
	}

	passages, err := s.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	var prompt strings.Builder
	prompt.WriteString("Context:\n")
	for i, p := range passages {
		fmt.Fprintf(&prompt, "%d. %s\n", i+1, p)
	}
	prompt.WriteString("\nQuestion: ")
	prompt.WriteString(question)

	resp, err := s.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: qaSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt.String()},
		},
		MaxTokens:   500,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("qa chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("qa: empty completion")
	}

	return splitSources(resp.Choices[0].Message.Content), nil
}

// splitSources separates a trailing "Sources:" block from the answer
// text. Completions without one come back with no sources.
func splitSources(content string) *Answer {
	content = strings.TrimSpace(content)

	idx := strings.LastIndex(content, "Sources:")
	if idx < 0 {
		return &Answer{Answer: content}
	}

	answer := strings.TrimSpace(content[:idx])
	var sources []string
	for _, line := range strings.Split(content[idx+len("Sources:"):], "\n") {
		if line = strings.TrimSpace(line); line != "" {
			sources = append(sources, line)
		}
	}
	if answer == "" {
		answer = content
		sources = nil
	}
	return &Answer{Answer: answer, Sources: sources}
}
