package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// portfolioJSONSchema mirrors the response schema sent to the model. The
// model API enforces shape at generation time; this is the independent
// check on what actually came back.
const portfolioJSONSchema = `{
  "type": "object",
  "required": ["name", "mail", "resumeLink", "aboutme", "workExperience", "projects", "skillsData", "socials", "seoKeywords"],
  "properties": {
    "name": {"type": "string"},
    "mail": {"type": "string"},
    "resumeLink": {"type": "string"},
    "aboutme": {"type": "string"},
    "workExperience": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "company", "duration", "description"],
        "properties": {
          "title": {"type": "string"},
          "company": {"type": "string"},
          "duration": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    },
    "projects": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "desc", "image"],
        "properties": {
          "title": {"type": "string"},
          "desc": {"type": "string"},
          "image": {"type": "string"},
          "livelink": {"type": ["string", "null"]},
          "repolink": {"type": ["string", "null"]}
        }
      }
    },
    "skillsData": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["category", "skills"],
        "properties": {
          "category": {"type": "string"},
          "skills": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "socials": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["url", "name"],
        "properties": {
          "url": {"type": "string"},
          "name": {"type": "string"}
        }
      }
    },
    "seoKeywords": {"type": "array", "items": {"type": "string"}},
    "pdfLinks": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

var portfolioSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("portfolio.json", strings.NewReader(portfolioJSONSchema)); err != nil {
		panic(fmt.Sprintf("add portfolio schema: %v", err))
	}
	return compiler.MustCompile("portfolio.json")
}

// validatePortfolioJSON checks raw model output against the portfolio
// schema before it is trusted.
func validatePortfolioJSON(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal model output: %w", err)
	}
	if err := portfolioSchema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
