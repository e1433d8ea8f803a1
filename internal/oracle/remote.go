package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/ppiankov/gnosia/internal/model"
	"github.com/ppiankov/gnosia/internal/worker"
)

// RemoteOracle asks an OpenAI-compatible endpoint for corroborating
// concepts. It exists to prove the oracle contract is substitutable with
// a real lookup service; the pipeline core never knows the difference.
// Lookups are rate-limited and best-effort: any failure yields an empty
// record set rather than an error, preserving the pure-query contract.
type RemoteOracle struct {
	client  *openai.Client
	model   string
	limiter *worker.Limiter
	timeout time.Duration
}

// NewRemoteOracle creates a remote oracle from configuration.
func NewRemoteOracle(cfg model.OracleConfig) (*RemoteOracle, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("remote oracle: API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	return &RemoteOracle{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		limiter: worker.NewLimiter(rate.Limit(rps), cfg.Burst),
		timeout: 30 * time.Second,
	}, nil
}

const remotePrompt = `You are a terminology reference service.
For the technical category %q, list 2 to 4 well-established concepts that
corroborate the category, one JSON object per line, each of the form
{"concept": "...", "relevance": 0.0-1.0}. Output nothing else.`

// Lookup queries the remote endpoint for corroborating concepts.
func (o *RemoteOracle) Lookup(categoryID string) []model.ValidationRecord {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	if err := o.limiter.Wait(ctx, o.model); err != nil {
		return nil
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(remotePrompt, categoryID)},
		},
		MaxTokens:   256,
		Temperature: 0,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: oracle lookup for %q failed: %v\n", categoryID, err)
		return nil
	}
	if len(resp.Choices) == 0 {
		return nil
	}

	return parseRecords(categoryID, resp.Choices[0].Message.Content)
}

// parseRecords decodes one JSON object per line, ignoring anything that
// does not parse. Relevance values are clamped to [0, 1].
func parseRecords(categoryID, content string) []model.ValidationRecord {
	var records []model.ValidationRecord
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "{") {
			continue
		}
		var rec struct {
			Concept   string  `json:"concept"`
			Relevance float64 `json:"relevance"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if rec.Concept == "" {
			continue
		}
		if rec.Relevance < 0 {
			rec.Relevance = 0
		}
		if rec.Relevance > 1 {
			rec.Relevance = 1
		}
		records = append(records, model.ValidationRecord{
			CategoryID: categoryID,
			Concept:    strings.ToLower(rec.Concept),
			Relevance:  rec.Relevance,
		})
	}
	return records
}

// FromConfig builds the configured oracle: the static table by default,
// the remote provider when requested, always behind the caching
// decorator when caching is enabled.
func FromConfig(cfg model.OracleConfig, cacheTTL time.Duration, cacheEnabled bool) (Oracle, error) {
	var inner Oracle
	switch cfg.Provider {
	case "", "static":
		inner = NewStaticOracle(nil)
	case "openai":
		remote, err := NewRemoteOracle(cfg)
		if err != nil {
			return nil, err
		}
		inner = remote
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Provider)
	}
	if cacheEnabled {
		return NewCachedOracle(inner, cacheTTL), nil
	}
	return inner, nil
}
