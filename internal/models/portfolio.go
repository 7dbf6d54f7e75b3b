package models

// Portfolio is the canonical structured record extracted from a resume.
// Field names mirror the data.json contract consumed by the site template.
type Portfolio struct {
	Name           string           `json:"name"`
	Mail           string           `json:"mail"`
	ResumeLink     string           `json:"resumeLink"`
	AboutMe        string           `json:"aboutme"`
	WorkExperience []WorkExperience `json:"workExperience"`
	Projects       []Project        `json:"projects"`
	SkillsData     []SkillCategory  `json:"skillsData"`
	Socials        []SocialLink     `json:"socials"`
	SEOKeywords    []string         `json:"seoKeywords"`

	// PdfLinks is populated by the pipeline from the link extractor,
	// never by the model. A non-empty extracted list always wins over
	// whatever the model put here.
	PdfLinks []string `json:"pdfLinks,omitempty"`
}

// WorkExperience is a single professional engagement.
type WorkExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Project describes a portfolio project entry. LiveLink and RepoLink are
// optional and may carry the sentinel value "none".
type Project struct {
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	Image    string `json:"image"`
	LiveLink string `json:"livelink,omitempty"`
	RepoLink string `json:"repolink,omitempty"`
}

// SkillCategory groups skills under a named category such as "Languages".
type SkillCategory struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// SocialLink points at a social profile or hosted resume.
type SocialLink struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}
