// Package enhance optionally rewrites a scenario's clue prose through an
// external language model. Enhancement is strictly additive and fallible:
// any failure (transport error, timeout, malformed response, wrong clue
// count) falls back to the core-rendered text, which is always
// self-sufficient. The result is returned to the caller and never cached in
// package state.
package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/myrjola/whodunit/internal/errors"
	"github.com/myrjola/whodunit/internal/models"
	"github.com/myrjola/whodunit/internal/registry"
	"github.com/sashabaranov/go-openai"
)

const maxTokens = 4096

// chatCompleter is the slice of the OpenAI client the enhancer needs;
// narrowed for testability.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client rewrites clue prose.
type Client struct {
	api    chatCompleter
	logger *slog.Logger
}

// NewClient creates a Client using the OPENAI_API_KEY environment variable.
func NewClient(logger *slog.Logger) Client {
	return Client{
		api:    openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		logger: logger.With("source", "enhance.Client"),
	}
}

// NewClientWithAPI creates a Client with an explicit completion backend.
func NewClientWithAPI(api chatCompleter, logger *slog.Logger) Client {
	return Client{
		api:    api,
		logger: logger.With("source", "enhance.Client"),
	}
}

// EnhanceClues returns replacement clue texts at the same positions as the
// scenario's clues. The solution and theme travel as read-only context; the
// model may only rephrase, never change which elements a clue eliminates.
// On any failure the original texts are returned unmodified.
func (c Client) EnhanceClues(ctx context.Context, scenario *models.GeneratedScenario) []string {
	originals := make([]string, len(scenario.Clues))
	for i, clue := range scenario.Clues {
		originals[i] = clue.Text
	}

	rewritten, err := c.requestRewrite(ctx, scenario, originals)
	if err != nil {
		c.logger.WarnContext(ctx, "clue enhancement failed, using core-rendered text",
			errors.SlogError(err), slog.String("scenarioId", scenario.ID))
		return originals
	}
	return rewritten
}

func (c Client) requestRewrite(ctx context.Context, scenario *models.GeneratedScenario,
	originals []string) ([]string, error) {
	theme, _ := registry.ThemeByID(scenario.ThemeID)

	payload, err := json.Marshal(originals)
	if err != nil {
		return nil, errors.Wrap(err, "marshal clue texts")
	}

	prompt := fmt.Sprintf(`You are polishing clues for a parlour mystery titled %q set in %s.
The hidden answer (never reveal or contradict it): suspect %s, item %s, location %s, time %s.
Rewrite each clue below with more period flavour. Keep every name, place, and hour mentioned in a clue exactly as given.
Reply with a JSON array of exactly %d strings, same order, and nothing else.

%s`,
		scenario.Title, theme.Setting,
		registry.ElementName(models.CategorySuspect, scenario.Solution.SuspectID),
		registry.ElementName(models.CategoryItem, scenario.Solution.ItemID),
		registry.ElementName(models.CategoryLocation, scenario.Solution.LocationID),
		registry.ElementName(models.CategoryTime, scenario.Solution.TimeID),
		len(originals), payload)

	completion, err := c.api.CreateChatCompletion(ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     openai.GPT3Dot5Turbo1106,
			MaxTokens: maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
	if err != nil {
		return nil, errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("completion returned no choices")
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	var rewritten []string
	if err = json.Unmarshal([]byte(content), &rewritten); err != nil {
		return nil, errors.Wrap(err, "parse rewritten clues")
	}
	if len(rewritten) != len(originals) {
		return nil, errors.New("rewritten clue count mismatch",
			slog.Int("want", len(originals)), slog.Int("got", len(rewritten)))
	}
	for i, text := range rewritten {
		if strings.TrimSpace(text) == "" {
			return nil, errors.New("rewritten clue is empty", slog.Int("position", i+1))
		}
	}
	return rewritten, nil
}
