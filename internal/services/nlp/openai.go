package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/listoapp/listo/internal/models"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 30 * time.Second
)

// OpenAIExtractor implements Extractor using OpenAI's chat completions API
// with a JSON response format.
type OpenAIExtractor struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIExtractor creates an extractor with default base URL and no logger.
func NewOpenAIExtractor(apiKey string, model string) *OpenAIExtractor {
	return NewOpenAIExtractorWithLogger(apiKey, DefaultOpenAIBaseURL, model, nil, false)
}

// NewOpenAIExtractorWithLogger creates an extractor with logger support.
func NewOpenAIExtractorWithLogger(apiKey string, baseURL string, model string, logger *zap.Logger, debugMode bool) *OpenAIExtractor {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIExtractor{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}
}

// rawExtraction mirrors the wire shape of the extraction response. The model
// is asked for arrays for the fields that can be multi-valued; only the
// first element of each is used.
type rawExtraction struct {
	TaskName       []string `json:"taskName"`
	PeopleInvolved []string `json:"peopleInvolved"`
	TaskCategory   []string `json:"taskCategory"`
	DateToPerform  string   `json:"dateToPerform"`
	ItemType       []string `json:"itemType"`
	AssignedTo     string   `json:"assignedTo"`
	ModelResponse  string   `json:"modelResponse,omitempty"`
}

// ExtractTaskFields extracts one task candidate from an utterance.
func (p *OpenAIExtractor) ExtractTaskFields(ctx context.Context, utterance string) (models.TaskFields, error) {
	prompt := buildExtractionPrompt(utterance)
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage("You are an assistant that extracts structured reminder data from household chat messages, in the language they are written in. Respond with valid JSON only."),
		openai.UserMessage(prompt),
	}
	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("operation", "extract_task_fields"),
			zap.String("model", p.model),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt_preview", SanitizePreview(prompt, true)),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("llm_api_error",
				zap.String("operation", "extract_task_fields"),
				zap.String("model", p.model),
				zap.Error(err),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return models.TaskFields{}, fmt.Errorf("%w: %w", ErrExtractionFailed, apiErr)
		}
		return models.TaskFields{}, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	if len(resp.Choices) == 0 {
		return models.TaskFields{}, fmt.Errorf("%w: no choices in response", ErrExtractionFailed)
	}

	content := resp.Choices[0].Message.Content
	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("operation", "extract_task_fields"),
			zap.String("model", p.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizePreview(content, true)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	fields, err := ParseExtraction(content)
	if err != nil {
		return models.TaskFields{}, err
	}
	return fields, nil
}

// ParseExtraction parses the model's JSON content into task fields. Models
// occasionally wrap the object in prose or code fences; the parser retries
// on the outermost brace pair before giving up.
func ParseExtraction(content string) (models.TaskFields, error) {
	var raw rawExtraction
	data := content
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		if len(data) > 0 && data[0] != '{' {
			start := bytes.Index([]byte(data), []byte("{"))
			end := bytes.LastIndex([]byte(data), []byte("}"))
			if start != -1 && end != -1 && end > start {
				data = data[start : end+1]
			}
		}
		if err := json.Unmarshal([]byte(data), &raw); err != nil {
			return models.TaskFields{}, fmt.Errorf("%w: malformed extraction response: %w", ErrExtractionFailed, err)
		}
	}

	name := first(raw.TaskName)
	if strings.TrimSpace(name) == "" {
		return models.TaskFields{}, fmt.Errorf("%w: response carries no task name", ErrExtractionFailed)
	}

	return models.TaskFields{
		TaskName:       strings.TrimSpace(name),
		PeopleInvolved: trimAll(raw.PeopleInvolved),
		TaskCategory:   strings.TrimSpace(first(raw.TaskCategory)),
		DueDate:        strings.TrimSpace(raw.DateToPerform),
		ItemType:       normalizeItemType(first(raw.ItemType)),
		AssignedTo:     strings.TrimSpace(raw.AssignedTo),
	}, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeItemType(value string) models.ItemType {
	switch it := models.ItemType(strings.ToLower(strings.TrimSpace(value))); it {
	case models.ItemTypeTask, models.ItemTypeProject, models.ItemTypeHabit:
		return it
	default:
		return models.ItemTypeNone
	}
}

// buildExtractionPrompt builds the prompt for task extraction.
func buildExtractionPrompt(utterance string) string {
	now := time.Now()

	prompt := fmt.Sprintf(`Extract exactly one reminder from the following message.

Message: %q

Time context:
- Current date and time: %s

Respond with a JSON object in this format:
{
  "taskName": ["short name of the task"],
  "peopleInvolved": ["person names mentioned as participants"],
  "taskCategory": ["a single category word, e.g. shopping, health, school"],
  "dateToPerform": "the date/time mentioned, verbatim or resolved, or empty",
  "itemType": ["task" | "project" | "habit"],
  "assignedTo": "the single responsible person, or empty"
}

Guidelines:
- "task" is a one-off action, "project" is multi-step work, "habit" repeats.
- Keep names in the message's original language; do not translate.
- Leave dateToPerform empty rather than guessing a date that is not there.
- peopleInvolved excludes the speaker unless they name themselves.

Return only valid JSON.`, utterance, now.Format(time.RFC3339))

	return prompt
}

// RegisterOpenAI registers the OpenAI extractor with the registry.
func RegisterOpenAI(registry *Registry) {
	registry.Register("openai", func(config map[string]string) (Extractor, error) {
		apiKey, ok := config["api_key"]
		if !ok || apiKey == "" {
			return nil, fmt.Errorf("openai api_key is required")
		}
		return NewOpenAIExtractorWithLogger(apiKey, config["base_url"], config["model"], nil, false), nil
	})
}
