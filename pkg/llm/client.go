package llm

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// ClaudeModel is the default generation model.
	ClaudeModel = "claude-sonnet-4-20250514"
	// ScoringModel is the default model for scoring and critique.
	ScoringModel = "claude-sonnet-4-5-20250929"
	// DefaultMaxTokens bounds every response.
	DefaultMaxTokens = 8192
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 120 * time.Second
)

// Client talks to Claude for generation, scoring and critique.
type Client struct {
	api          anthropic.Client
	model        string
	scoringModel string
	maxTokens    int64
	logger       *logrus.Entry
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	baseURL      string
	scoringModel string
	maxTokens    int64
	maxRetries   int
	timeout      time.Duration
	logger       *logrus.Logger
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) ClientOption {
	return func(o *clientOptions) {
		o.baseURL = url
	}
}

// WithScoringModel sets the model used by Score, Roast and Roadmap.
func WithScoringModel(model string) ClientOption {
	return func(o *clientOptions) {
		o.scoringModel = model
	}
}

// WithMaxTokens caps response length.
func WithMaxTokens(n int64) ClientOption {
	return func(o *clientOptions) {
		o.maxTokens = n
	}
}

// WithMaxRetries sets how often the SDK retries failed requests.
func WithMaxRetries(n int) ClientOption {
	return func(o *clientOptions) {
		o.maxRetries = n
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// NewClient creates a Claude client. An empty model selects ClaudeModel.
func NewClient(apiKey, model string, opts ...ClientOption) (client *Client) {
	o := clientOptions{
		scoringModel: ScoringModel,
		maxTokens:    DefaultMaxTokens,
		maxRetries:   2,
		timeout:      DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if model == "" {
		model = ClaudeModel
	}
	if o.scoringModel == "" {
		o.scoringModel = ScoringModel
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(o.maxRetries),
		option.WithRequestTimeout(o.timeout),
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimSuffix(o.baseURL, "/")+"/"))
	}

	client = &Client{
		api:          anthropic.NewClient(reqOpts...),
		model:        model,
		scoringModel: o.scoringModel,
		maxTokens:    o.maxTokens,
		logger:       o.logger.WithField("component", "llm"),
	}
	return client
}

// Model returns the generation model.
func (c *Client) Model() (model string) {
	model = c.model
	return model
}

// GenerateResume asks Claude for a complete document built from the
// request. The result is validated and ready to hand to an editing session.
func (c *Client) GenerateResume(ctx context.Context, req GenerateRequest) (doc *resume.Data, err error) {
	if strings.TrimSpace(req.RawText) == "" {
		err = errors.New("raw text is required")
		return doc, err
	}

	prompt := buildGeneratePrompt(req)

	var responseText string
	responseText, err = c.sendRequest(ctx, c.model, prompt)
	if err != nil {
		err = errors.Wrap(err, "generation request failed")
		return doc, err
	}

	cleanedText := stripMarkdownCodeFences(responseText)

	doc, err = resume.Decode([]byte(cleanedText))
	if err != nil {
		err = errors.Wrapf(err, "failed to parse generated resume: %s", responseText)
		return doc, err
	}

	if req.Layout != "" {
		doc.Theme.Layout = req.Layout
	}

	return doc, err
}

// Roast returns a blunt critique of the resume text in the voice of persona.
func (c *Client) Roast(ctx context.Context, text string, persona Persona) (roast string, err error) {
	if persona == "" {
		persona = PersonaRecruiter
	}

	roast, err = c.sendRequest(ctx, c.scoringModel, buildRoastPrompt(text, persona))
	if err != nil {
		err = errors.Wrap(err, "roast request failed")
		return roast, err
	}

	roast = strings.TrimSpace(roast)
	return roast, err
}

// Roadmap returns a step-by-step plan from the current resume towards goal.
func (c *Client) Roadmap(ctx context.Context, text, goal string) (roadmap string, err error) {
	if strings.TrimSpace(goal) == "" {
		err = errors.New("goal is required")
		return roadmap, err
	}

	roadmap, err = c.sendRequest(ctx, c.scoringModel, buildRoadmapPrompt(text, goal))
	if err != nil {
		err = errors.Wrap(err, "roadmap request failed")
		return roadmap, err
	}

	roadmap = strings.TrimSpace(roadmap)
	return roadmap, err
}

// CoverLetter writes a markdown cover letter for the job description.
func (c *Client) CoverLetter(ctx context.Context, text, jd string) (letter string, err error) {
	if strings.TrimSpace(jd) == "" {
		err = errors.New("job description is required")
		return letter, err
	}

	letter, err = c.sendRequest(ctx, c.model, buildCoverLetterPrompt(text, jd))
	if err != nil {
		err = errors.Wrap(err, "cover letter request failed")
		return letter, err
	}

	letter = strings.TrimSpace(stripMarkdownCodeFences(letter))
	return letter, err
}

// sendRequest sends a single-turn prompt and returns the text of the reply.
func (c *Client) sendRequest(ctx context.Context, model, prompt string) (responseText string, err error) {
	start := time.Now()

	var msg *anthropic.Message
	msg, err = c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		err = errors.Wrap(err, "Claude API request failed")
		return responseText, err
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		err = errors.New("no content in Claude response")
		return responseText, err
	}
	responseText = strings.Join(parts, "")

	c.logger.WithFields(logrus.Fields{
		"model":         model,
		"input_tokens":  msg.Usage.InputTokens,
		"output_tokens": msg.Usage.OutputTokens,
		"elapsed":       time.Since(start).String(),
	}).Debug("claude request complete")

	return responseText, err
}

// stripMarkdownCodeFences removes a surrounding ``` or ```json fence.
func stripMarkdownCodeFences(text string) (cleaned string) {
	cleaned = strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	// Drop the opening fence line, including any language tag.
	newline := strings.IndexByte(cleaned, '\n')
	if newline < 0 {
		cleaned = strings.Trim(cleaned, "`")
		return cleaned
	}
	cleaned = cleaned[newline+1:]

	cleaned = strings.TrimRight(cleaned, " \r\n")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimRight(cleaned, " \r\n")

	return cleaned
}
