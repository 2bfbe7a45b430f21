package models

import (
	"time"
)

// TestCase is the shape the prompt asks the model for and the shape of a
// downloaded suite entry. Replies are rendered generically; nothing enforces it.
type TestCase struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Precondition   string `json:"precondition"`
	Steps          string `json:"steps"`
	ExpectedResult string `json:"expected_result"`
}

// GenerationRun is one submission of a requirements document.
type GenerationRun struct {
	ID           string    `json:"id" db:"id"`
	Filename     string    `json:"filename" db:"filename"`
	Model        string    `json:"model" db:"model"`
	Requirements string    `json:"requirements,omitempty" db:"requirements"`
	RawResponse  string    `json:"raw_response" db:"raw_response"`
	CleanedJSON  string    `json:"cleaned_json,omitempty" db:"cleaned_json"`
	Parsed       bool      `json:"parsed" db:"parsed"`
	CaseCount    int       `json:"case_count" db:"case_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type GenerateRequest struct {
	APIKey       string
	Model        string
	Filename     string
	Requirements string
}

type GenerateResponse struct {
	ID        string     `json:"id"`
	Filename  string     `json:"filename"`
	Model     string     `json:"model"`
	Parsed    bool       `json:"parsed"`
	Count     int        `json:"count"`
	Columns   []string   `json:"columns,omitempty"`
	Rows      [][]string `json:"rows,omitempty"`
	Data      any        `json:"data,omitempty"`
	Raw       string     `json:"raw"`
	SchemaErr string     `json:"schema_error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
