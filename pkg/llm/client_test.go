package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// capturedRequest records what the client sent to the fake API.
type capturedRequest struct {
	Path    string
	APIKey  string
	Model   string
	Prompt  string
	Version string
}

// claudeServer answers every request with text wrapped in a Messages API reply.
func claudeServer(t *testing.T, status int, text string, captured *capturedRequest) (server *httptest.Server) {
	t.Helper()

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			body, _ := io.ReadAll(r.Body)
			var req struct {
				Model    string `json:"model"`
				Messages []struct {
					Content []struct {
						Text string `json:"text"`
					} `json:"content"`
				} `json:"messages"`
			}
			_ = json.Unmarshal(body, &req)

			captured.Path = r.URL.Path
			captured.APIKey = r.Header.Get("X-Api-Key")
			captured.Version = r.Header.Get("Anthropic-Version")
			captured.Model = req.Model
			if len(req.Messages) > 0 && len(req.Messages[0].Content) > 0 {
				captured.Prompt = req.Messages[0].Content[0].Text
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"Invalid request"}}`))
			return
		}

		content := []map[string]string{}
		if text != "" {
			content = append(content, map[string]string{"type": "text", "text": text})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "msg_test",
			"type":          "message",
			"role":          "assistant",
			"model":         ClaudeModel,
			"content":       content,
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"usage":         map[string]int{"input_tokens": 10, "output_tokens": 20},
		})
	}))
	t.Cleanup(server.Close)

	return server
}

func testClient(url string, opts ...ClientOption) (client *Client) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	opts = append([]ClientOption{WithBaseURL(url), WithMaxRetries(0), WithLogger(logger)}, opts...)
	client = NewClient("test-key", "", opts...)
	return client
}

const generatedDoc = `{
  "personal": {"name": "Jane Doe", "title": "Platform Engineer", "email": "jane@example.com"},
  "experience": [{"company": "Acme", "role": "SRE", "start_date": "2020-01", "current": true,
    "highlights": ["Cut deploy time by 80%"]}],
  "skills": ["Go", "Kubernetes"],
  "theme": {"layout": "classic"}
}`

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key", "")

	if client == nil {
		t.Fatal("Expected non-nil client")
	}

	if client.Model() != ClaudeModel {
		t.Errorf("Expected default model '%s', got '%s'", ClaudeModel, client.Model())
	}

	if client.scoringModel != ScoringModel {
		t.Errorf("Expected scoring model '%s', got '%s'", ScoringModel, client.scoringModel)
	}

	custom := NewClient("k", "claude-custom", WithScoringModel("claude-judge"), WithMaxTokens(100))
	if custom.Model() != "claude-custom" || custom.scoringModel != "claude-judge" || custom.maxTokens != 100 {
		t.Errorf("Options not applied: %+v", custom)
	}
}

func TestGenerateResume(t *testing.T) {
	var captured capturedRequest
	server := claudeServer(t, http.StatusOK, "```json\n"+generatedDoc+"\n```", &captured)
	client := testClient(server.URL)

	doc, err := client.GenerateResume(context.Background(), GenerateRequest{
		RawText:        "Jane, SRE at Acme since 2020. Cut deploy time 80%.",
		JobDescription: "Senior Platform Engineer, Kubernetes",
		Target:         "staff engineer",
		Layout:         "modern",
	})
	if err != nil {
		t.Fatalf("GenerateResume failed: %v", err)
	}

	if doc.Personal.Name != "Jane Doe" {
		t.Errorf("Expected name 'Jane Doe', got '%s'", doc.Personal.Name)
	}
	if len(doc.Experience) != 1 || doc.Experience[0].Company != "Acme" {
		t.Errorf("Unexpected experience: %+v", doc.Experience)
	}
	if doc.Theme.Layout != "modern" {
		t.Errorf("Expected layout override 'modern', got '%s'", doc.Theme.Layout)
	}
	if doc.Education == nil {
		t.Error("Expected missing sections to be normalized to empty lists")
	}

	if captured.Path != "/v1/messages" {
		t.Errorf("Expected path /v1/messages, got %s", captured.Path)
	}
	if captured.APIKey != "test-key" {
		t.Error("Missing or incorrect API key header")
	}
	if captured.Version == "" {
		t.Error("Missing API version header")
	}
	if captured.Model != ClaudeModel {
		t.Errorf("Expected generation model, got %s", captured.Model)
	}
	for _, want := range []string{"Cut deploy time 80%", "Senior Platform Engineer", "staff engineer", `"highlights"`} {
		if !strings.Contains(captured.Prompt, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}
}

func TestGenerateResumeRequiresText(t *testing.T) {
	client := NewClient("k", "")

	_, err := client.GenerateResume(context.Background(), GenerateRequest{RawText: "  "})
	if err == nil {
		t.Error("Expected error for empty raw text")
	}
}

func TestGenerateResumeInvalidJSON(t *testing.T) {
	server := claudeServer(t, http.StatusOK, "not valid json", nil)
	client := testClient(server.URL)

	_, err := client.GenerateResume(context.Background(), GenerateRequest{RawText: "x"})
	if err == nil {
		t.Fatal("Expected error for invalid JSON, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse generated resume") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestGenerateResumeWithoutName(t *testing.T) {
	server := claudeServer(t, http.StatusOK, `{"personal":{"title":"x"}}`, nil)
	client := testClient(server.URL)

	_, err := client.GenerateResume(context.Background(), GenerateRequest{RawText: "x"})
	if err == nil {
		t.Error("Expected validation error for a document without a name")
	}
}

func TestScore(t *testing.T) {
	reply := `{"score": 72, "summary": "Solid", "strengths": ["metrics", " "], "improvements": ["add summary"], "missing_keywords": ["Terraform"]}`
	var captured capturedRequest
	server := claudeServer(t, http.StatusOK, reply, &captured)
	client := testClient(server.URL, WithScoringModel("claude-judge"))

	resp, err := client.Score(context.Background(), "JANE DOE\nSRE", "Needs Terraform")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if resp.Score != 72 {
		t.Errorf("Expected score 72, got %d", resp.Score)
	}
	if len(resp.Strengths) != 1 {
		t.Errorf("Expected blank strengths to be dropped, got %v", resp.Strengths)
	}
	if len(resp.MissingKeywords) != 1 || resp.MissingKeywords[0] != "Terraform" {
		t.Errorf("Unexpected missing keywords: %v", resp.MissingKeywords)
	}
	if captured.Model != "claude-judge" {
		t.Errorf("Expected scoring model, got %s", captured.Model)
	}
	if !strings.Contains(captured.Prompt, "Needs Terraform") {
		t.Error("Prompt missing job description")
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "in range", input: `{"score": 55}`, want: 55},
		{name: "clamped high", input: `{"score": 140}`, want: 100},
		{name: "clamped low", input: `{"score": -3}`, want: 0},
		{name: "string score", input: `{"score": "81"}`, want: 81},
		{name: "missing score", input: `{"summary": "x"}`, wantErr: true},
		{name: "not json", input: `score: 5`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := parseScore(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if resp.Score != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, resp.Score)
			}
			if resp.Strengths == nil || resp.Improvements == nil {
				t.Error("Expected empty slices, not nil")
			}
		})
	}
}

func TestRoastRoadmapCoverLetter(t *testing.T) {
	var captured capturedRequest
	server := claudeServer(t, http.StatusOK, "  Some markdown answer\n", &captured)
	client := testClient(server.URL)
	ctx := context.Background()

	roast, err := client.Roast(ctx, "resume text", PersonaComedian)
	if err != nil {
		t.Fatalf("Roast failed: %v", err)
	}
	if roast != "Some markdown answer" {
		t.Errorf("Expected trimmed answer, got %q", roast)
	}
	if !strings.Contains(captured.Prompt, "comedian") {
		t.Error("Roast prompt missing persona voice")
	}

	_, err = client.Roadmap(ctx, "resume text", "Become a staff engineer")
	if err != nil {
		t.Fatalf("Roadmap failed: %v", err)
	}
	if !strings.Contains(captured.Prompt, "Become a staff engineer") {
		t.Error("Roadmap prompt missing goal")
	}

	letter, err := client.CoverLetter(ctx, "resume text", "Acme is hiring")
	if err != nil {
		t.Fatalf("CoverLetter failed: %v", err)
	}
	if letter != "Some markdown answer" {
		t.Errorf("Unexpected letter %q", letter)
	}

	if _, err = client.Roadmap(ctx, "resume text", ""); err == nil {
		t.Error("Expected error for empty goal")
	}
	if _, err = client.CoverLetter(ctx, "resume text", ""); err == nil {
		t.Error("Expected error for empty job description")
	}
}

func TestAPIError(t *testing.T) {
	server := claudeServer(t, http.StatusBadRequest, "", nil)
	client := testClient(server.URL)

	_, err := client.Score(context.Background(), "text", "")
	if err == nil {
		t.Fatal("Expected error for bad request, got nil")
	}

	if !strings.Contains(err.Error(), "400") {
		t.Errorf("Error should mention status code 400: %v", err)
	}
}

func TestEmptyContent(t *testing.T) {
	server := claudeServer(t, http.StatusOK, "", nil)
	client := testClient(server.URL)

	_, err := client.Roast(context.Background(), "text", "")
	if err == nil {
		t.Fatal("Expected error for empty content, got nil")
	}

	if !strings.Contains(err.Error(), "no content") {
		t.Errorf("Error should mention 'no content': %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := testClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.Roast(ctx, "text", "")
	if err == nil {
		t.Error("Expected error for cancelled context, got nil")
	}
}

func TestStripMarkdownCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "with json code fence",
			input:    "```json\n{\"test\": \"value\"}\n```",
			expected: "{\"test\": \"value\"}",
		},
		{
			name:     "with bare code fence",
			input:    "```\n{\"test\": \"value\"}\n```",
			expected: "{\"test\": \"value\"}",
		},
		{
			name:     "without code fence",
			input:    "{\"test\": \"value\"}",
			expected: "{\"test\": \"value\"}",
		},
		{
			name:     "with extra whitespace",
			input:    "\n```json\n{\"test\": \"value\"}\n\n```\n",
			expected: "{\"test\": \"value\"}",
		},
		{
			name:     "multiline json",
			input:    "```json\n{\n  \"test\": \"value\"\n}\n```",
			expected: "{\n  \"test\": \"value\"\n}",
		},
		{
			name:     "fence on one line",
			input:    "```hello```",
			expected: "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stripMarkdownCodeFences(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}
