// Package gemini wraps the Gemini API behind a structured-extraction
// client: given resume text, it returns a schema-conforming Portfolio.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/resumeforge/portfolio-agent/internal/models"
)

// SystemPrompt instructs the model how to turn resume text into a
// portfolio record.
const SystemPrompt = `You are an expert resume parser and portfolio generator. Your task is to extract structured information from resume text and convert it into a comprehensive portfolio format.

IMPORTANT INSTRUCTIONS:
1. Extract ALL relevant information from the resume text
2. Create professional, well-formatted descriptions
3. Infer reasonable project details and categorize skills appropriately
4. Generate SEO-friendly keywords based on the person's skills and experience
5. For missing information, use reasonable defaults or "none" for optional fields
6. Ensure all required fields are populated
7. Generate a professional "aboutme" section summarizing the person's background
8. Create placeholder image paths for projects (e.g., "/images/project1.png")
9. Extract or infer social media links and contact information
10. Generate a comprehensive list of SEO keywords for better portfolio visibility

FIELD REQUIREMENTS:
- name: Extract full name
- mail: Extract email address
- resumeLink: Use a placeholder or extracted link
- aboutme: Write a 2-3 sentence professional summary written in first person
- workExperience: Extract all work experiences with detailed descriptions
- projects: Extract or infer projects with descriptions and adjust the length of the descriptions to about 30 words
- skillsData: Categorize skills (Languages, Frameworks, Databases, Tools, etc.)
- socials: Extract social links or create placeholders
- seoKeywords: Generate 20-30 relevant SEO keywords

Format the output as valid JSON matching the exact schema provided.`

const (
	defaultModel   = "gemini-1.5-flash"
	requestTimeout = 60 * time.Second
)

// ModelError reports a failed or schema-nonconforming model invocation.
type ModelError struct {
	Reason string
	Err    error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ModelError) Unwrap() error { return e.Err }

// Config holds the settings required to reach the Gemini API.
type Config struct {
	APIKey string
	Model  string
}

// Client holds a generative model pre-configured for portfolio extraction.
type Client struct {
	baseClient *genai.Client
	model      *genai.GenerativeModel
}

// NewClient creates a Gemini client constrained to Portfolio-shaped JSON
// output.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: an API key must be provided")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	baseClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := baseClient.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemPrompt)},
	}
	// Force JSON output conforming to the portfolio schema.
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = responseSchema()
	model.SetTemperature(0.1)

	return &Client{baseClient: baseClient, model: model}, nil
}

// Extract sends the resume text and detected links to the model and parses
// the structured response. It is a single attempt with a bounded timeout;
// all failures come back as *ModelError.
func (c *Client) Extract(ctx context.Context, resumeText string, links []string) (*models.Portfolio, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	userContent := fmt.Sprintf("Resume content:\n\n%s\n\nDetected links:\n%s",
		resumeText, strings.Join(links, "\n"))

	resp, err := c.model.GenerateContent(ctx, genai.Text(userContent))
	if err != nil {
		slog.Error("gemini.generate_failed", "error", err)
		return nil, &ModelError{Reason: "model invocation failed", Err: err}
	}

	raw := textContent(resp)
	if raw == "" {
		return nil, &ModelError{Reason: "model returned an empty response"}
	}

	portfolio, err := decodePortfolio([]byte(raw))
	if err != nil {
		slog.Error("gemini.decode_failed", "error", err, "responseBody", raw)
		return nil, err
	}
	return portfolio, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// decodePortfolio validates the raw model output against the portfolio
// JSON Schema before unmarshalling it.
func decodePortfolio(raw []byte) (*models.Portfolio, error) {
	if err := validatePortfolioJSON(raw); err != nil {
		return nil, &ModelError{Reason: "model output does not conform to the portfolio schema", Err: err}
	}
	var p models.Portfolio
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ModelError{Reason: "failed to parse model output", Err: err}
	}
	return &p, nil
}

// textContent concatenates all text parts of the first candidate.
func textContent(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
