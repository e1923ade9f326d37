package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ayushmansingh2512/AI-intervewer/internal/models"
)

type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{} // Token bucket
}

func NewGeminiService(apiKey string, concurrentReqs int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.5-flash")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// GenerateQuestions produces interview questions for a role.
func (s *GeminiService) GenerateQuestions(ctx context.Context, role string, count int) ([]string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	prompt := fmt.Sprintf(`Generate %d interview questions for a candidate applying for the role of %s.
The questions should assess both technical depth and communication skill.
Return ONLY a valid JSON array of strings, one question per element. No markdown, no commentary.`, count, role)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	raw := stripJSONFences(extractText(resp))

	var questions []string
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse generated questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("Gemini returned no questions")
	}

	return questions, nil
}

// EvaluateAnswer scores one answer against its question on a 1-10 scale.
func (s *GeminiService) EvaluateAnswer(ctx context.Context, question, answer string) (models.Evaluation, error) {
	if err := s.acquireRate(ctx); err != nil {
		return models.Evaluation{}, err
	}
	defer s.releaseRate()

	prompt := fmt.Sprintf(`Score the following answer on a scale of 1 to 10 based on how well it answers the question.
Also provide feedback on the answer.
Return the result as a JSON object with "score" and "feedback" properties.

Question:
%s

Answer:
%s`, question, answer)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return models.Evaluation{}, fmt.Errorf("Gemini API error: %w", err)
	}

	raw := stripJSONFences(extractText(resp))

	var eval models.Evaluation
	if err := json.Unmarshal([]byte(raw), &eval); err != nil {
		return models.Evaluation{}, fmt.Errorf("failed to parse evaluation: %w", err)
	}

	return eval, nil
}

// AnalyzeCV extracts a structured profile from raw CV text.
func (s *GeminiService) AnalyzeCV(ctx context.Context, cvText string) (json.RawMessage, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	prompt := fmt.Sprintf(`Analyze the following CV and return ONLY a valid JSON object with these fields:
{"name": "", "email": "", "skills": [], "experience_years": 0, "summary": "", "suggested_roles": []}

CV:
%s`, cvText)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	raw := stripJSONFences(extractText(resp))
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("Gemini returned invalid JSON for CV analysis")
	}

	return json.RawMessage(raw), nil
}

// GenerateRoadmap produces a structured interview preparation roadmap for a
// free-form goal.
func (s *GeminiService) GenerateRoadmap(ctx context.Context, query string) (json.RawMessage, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	prompt := fmt.Sprintf(`Create a detailed interview preparation roadmap for: %q

Return ONLY valid JSON (no markdown, no extra text) with this structure:
{
  "title": "Interview Preparation Roadmap: [Goal]",
  "steps": [
    {
      "title": "Step 1: Foundation",
      "description": "Description here",
      "topics_to_study": ["Topic 1", "Topic 2"],
      "practice_questions": ["Question 1", "Question 2"],
      "resources": [{"name": "Resource Name", "url": "https://example.com"}]
    }
  ]
}

Include 5 to 7 comprehensive steps. All resource URLs must start with https://.`, query)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	return parseRoadmap(extractText(resp))
}

// parseRoadmap validates that the model returned a JSON object with at
// least one step before the payload is passed through to the client.
func parseRoadmap(raw string) (json.RawMessage, error) {
	raw = stripJSONFences(raw)

	var roadmap struct {
		Steps []json.RawMessage `json:"steps"`
	}
	if err := json.Unmarshal([]byte(raw), &roadmap); err != nil {
		return nil, fmt.Errorf("failed to parse roadmap: %w", err)
	}
	if len(roadmap.Steps) == 0 {
		return nil, fmt.Errorf("roadmap has no steps")
	}

	return json.RawMessage(raw), nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// stripJSONFences removes markdown code fences Gemini sometimes wraps
// around JSON payloads.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
