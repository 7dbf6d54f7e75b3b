package models

import "time"

// ResumeJob is the Firestore record tracking a batch-ingested resume.
// It exists only for the GCS watcher; the HTTP API is stateless.
type ResumeJob struct {
	FileHash         string    `firestore:"fileHash,omitempty"`
	OriginalFilename string    `firestore:"originalFilename,omitempty"`
	Status           string    `firestore:"status,omitempty"`
	ErrorDetails     string    `firestore:"errorDetails,omitempty"`
	PortfolioObject  string    `firestore:"portfolioObject,omitempty"`
	CreatedAt        time.Time `firestore:"createdAt,omitempty"`
}
