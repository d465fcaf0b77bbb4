// Package narrator asks Gemini for extra minor cards written against the
// current state of the town.
package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/sunnytown/internal/cards"
	"github.com/tatianab/sunnytown/internal/metrics"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/generate_minor_cards.txt
var generateMinorCardsPrompt string

var generateMinorCardsTmpl = template.Must(template.New("generate_minor_cards").Parse(generateMinorCardsPrompt))

// maxDelta bounds a generated option's effect on any one metric.
const maxDelta = 10

// idPrefix keeps generated ids apart from the built-in deck.
const idPrefix = "gen-"

var ErrNoContent = errors.New("no content returned from Gemini")

// Request describes the cards to generate.
type Request struct {
	Count    int
	Town     metrics.Snapshot
	Existing []string
}

type Narrator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *zap.Logger
}

func New(ctx context.Context, apiKey string, logger *zap.Logger) (*Narrator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Narrator{
		client: client,
		model:  client.GenerativeModel("gemini-2.5-flash"),
		logger: logger,
	}, nil
}

func (n *Narrator) Close() {
	n.client.Close()
}

// GenerateMinorCards returns up to req.Count new minor cards. Cards that
// fail validation are dropped with a warning.
func (n *Narrator) GenerateMinorCards(ctx context.Context, req Request) ([]cards.CardDoc, error) {
	var buf bytes.Buffer
	if err := generateMinorCardsTmpl.Execute(&buf, req); err != nil {
		return nil, err
	}

	resp, err := n.model.GenerateContent(ctx, genai.Text(buf.String()))
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrNoContent
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response type from Gemini")
	}

	docs, rejected, err := ParseMinorCards(string(text), req.Existing)
	if err != nil {
		return nil, err
	}
	for _, r := range rejected {
		n.logger.Warn("dropping generated card", zap.Error(r))
	}
	if len(docs) > req.Count && req.Count > 0 {
		docs = docs[:req.Count]
	}
	n.logger.Info("generated minor cards", zap.Int("count", len(docs)))
	return docs, nil
}

// ParseMinorCards decodes a YAML reply into minor card documents. It
// returns the valid cards and one error per rejected card.
func ParseMinorCards(text string, existing []string) ([]cards.CardDoc, []error, error) {
	clean := cleanYAML(text)
	var reply struct {
		Cards []cards.CardDoc `yaml:"cards"`
	}
	if err := yaml.Unmarshal([]byte(clean), &reply); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML: %w\nOutput was: %s", err, clean)
	}

	seen := slices.Clone(existing)
	var docs []cards.CardDoc
	var rejected []error
	for _, doc := range reply.Cards {
		if !strings.HasPrefix(doc.ID, idPrefix) {
			doc.ID = idPrefix + doc.ID
		}
		if err := validate(doc, seen); err != nil {
			rejected = append(rejected, err)
			continue
		}
		for i := range doc.Options {
			// Generated cards never steer the story.
			doc.Options[i].Next = ""
			doc.Options[i].Branches = nil
			doc.Options[i].Token = nil
			doc.Options[i].AdditionalState = ""
		}
		seen = append(seen, doc.ID)
		docs = append(docs, doc)
	}
	return docs, rejected, nil
}

func cleanYAML(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```yaml")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func validate(doc cards.CardDoc, seen []string) error {
	switch {
	case doc.ID == idPrefix:
		return fmt.Errorf("card without id")
	case slices.Contains(seen, doc.ID):
		return fmt.Errorf("card %s: duplicate id", doc.ID)
	case strings.TrimSpace(doc.Question) == "":
		return fmt.Errorf("card %s: empty question", doc.ID)
	case len(doc.Options) != 2:
		return fmt.Errorf("card %s: want 2 options, got %d", doc.ID, len(doc.Options))
	}
	for i, o := range doc.Options {
		if strings.TrimSpace(o.Text) == "" {
			return fmt.Errorf("card %s: option %d has no text", doc.ID, i)
		}
		for _, d := range []int{o.Deltas.PopHappiness, o.Deltas.Gold, o.Deltas.EnvHealth} {
			if d < -maxDelta || d > maxDelta {
				return fmt.Errorf("card %s: option %d delta %d out of bounds", doc.ID, i, d)
			}
		}
	}
	return nil
}
