package llm

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Score rates resume text against an optional job description. It reads
// only the text projection and never sees the editable document.
func (c *Client) Score(ctx context.Context, text, jd string) (resp ScoreResponse, err error) {
	if strings.TrimSpace(text) == "" {
		err = errors.New("resume text is required")
		return resp, err
	}

	var responseText string
	responseText, err = c.sendRequest(ctx, c.scoringModel, buildScorePrompt(text, jd))
	if err != nil {
		err = errors.Wrap(err, "score request failed")
		return resp, err
	}

	resp, err = parseScore(stripMarkdownCodeFences(responseText))
	if err != nil {
		err = errors.Wrapf(err, "failed to parse score response: %s", responseText)
		return resp, err
	}

	return resp, err
}

// parseScore reads a score reply. Scores outside 0-100 are clamped.
func parseScore(raw string) (resp ScoreResponse, err error) {
	if !gjson.Valid(raw) {
		err = errors.New("response is not valid JSON")
		return resp, err
	}

	result := gjson.Parse(raw)
	score := result.Get("score")
	if !score.Exists() {
		err = errors.New("response has no score")
		return resp, err
	}

	resp.Score = clampScore(int(score.Int()))
	resp.Summary = result.Get("summary").String()
	resp.Strengths = stringArray(result.Get("strengths"))
	resp.Improvements = stringArray(result.Get("improvements"))
	resp.MissingKeywords = stringArray(result.Get("missing_keywords"))

	return resp, err
}

func stringArray(result gjson.Result) (out []string) {
	out = []string{}
	for _, item := range result.Array() {
		s := strings.TrimSpace(item.String())
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}
