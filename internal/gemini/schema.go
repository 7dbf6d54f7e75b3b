package gemini

import "github.com/google/generative-ai-go/genai"

// responseSchema is the schema handed to the model so generation is
// constrained to Portfolio-shaped JSON.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name": {
				Type:        genai.TypeString,
				Description: "Full name of the user",
			},
			"mail": {
				Type:        genai.TypeString,
				Description: "Email address",
			},
			"resumeLink": {
				Type:        genai.TypeString,
				Description: "Link to the resume PDF or document",
			},
			"aboutme": {
				Type:        genai.TypeString,
				Description: "Personal introduction or bio",
			},
			"workExperience": {
				Type:        genai.TypeArray,
				Description: "List of professional experiences",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":       {Type: genai.TypeString, Description: "Job title or role"},
						"company":     {Type: genai.TypeString, Description: "Company name"},
						"duration":    {Type: genai.TypeString, Description: "Duration of employment (e.g., 'June 2024 - July 2024')"},
						"description": {Type: genai.TypeString, Description: "Details of responsibilities and achievements"},
					},
					Required: []string{"title", "company", "duration", "description"},
				},
			},
			"projects": {
				Type:        genai.TypeArray,
				Description: "List of projects with metadata",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":    {Type: genai.TypeString, Description: "Project title"},
						"desc":     {Type: genai.TypeString, Description: "Brief description of the project"},
						"image":    {Type: genai.TypeString, Description: "Path or URL to project image"},
						"livelink": {Type: genai.TypeString, Description: "Live demo or deployment link (can be 'none')"},
						"repolink": {Type: genai.TypeString, Description: "GitHub or repository link (can be 'none')"},
					},
					Required: []string{"title", "desc", "image"},
				},
			},
			"skillsData": {
				Type:        genai.TypeArray,
				Description: "List of categorized skills",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"category": {Type: genai.TypeString, Description: "Skill category name (e.g., 'Languages', 'Frameworks')"},
						"skills": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
					},
					Required: []string{"category", "skills"},
				},
			},
			"socials": {
				Type:        genai.TypeArray,
				Description: "List of social or resume links",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"url":  {Type: genai.TypeString, Description: "Full URL to social profile or resume"},
						"name": {Type: genai.TypeString, Description: "Name of the platform (e.g., 'github', 'linkedin', 'resume')"},
					},
					Required: []string{"url", "name"},
				},
			},
			"seoKeywords": {
				Type:        genai.TypeArray,
				Description: "List of 20-30 SEO-relevant keywords for better visibility",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{
			"name", "mail", "resumeLink", "aboutme",
			"workExperience", "projects", "skillsData", "socials", "seoKeywords",
		},
	}
}
