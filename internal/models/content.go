package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentKind distinguishes generated content from summarized content
type ContentKind string

const (
	KindGenerated  ContentKind = "generated"
	KindSummarized ContentKind = "summarized"
)

// Valid reports whether the kind is one of the known wire values
func (k ContentKind) Valid() bool {
	return k == KindGenerated || k == KindSummarized
}

// Tone options for generated content
const (
	ToneFormal       = "formal"
	ToneCasual       = "casual"
	ToneProfessional = "professional"
)

// Length options for generated content (govern the completion token budget)
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// Format options for summarized content
const (
	FormatParagraph = "paragraph"
	FormatBullets   = "bullets"
)

// Content represents a single generated or summarized piece of text plus
// its provenance metadata. Only OutputText (and UpdatedAt) are mutable
// after creation; everything else is set once by the content service.
type Content struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID    string             `bson:"ownerId" json:"ownerId"`
	Kind       ContentKind        `bson:"kind" json:"kind"`
	Prompt     string             `bson:"prompt,omitempty" json:"prompt,omitempty"`
	SourceURL  string             `bson:"sourceUrl,omitempty" json:"sourceUrl,omitempty"`
	InputText  string             `bson:"inputText,omitempty" json:"inputText,omitempty"`
	OutputText string             `bson:"outputText" json:"outputText"`
	Tone       string             `bson:"tone,omitempty" json:"tone,omitempty"`
	Length     string             `bson:"length,omitempty" json:"length,omitempty"`
	Format     string             `bson:"format,omitempty" json:"format,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// GenerateRequest is the request body for POST /api/content/generate
type GenerateRequest struct {
	Prompt string `json:"prompt"`
	Tone   string `json:"tone"`
	Length string `json:"length"`
}

// SummarizeRequest is the request body for POST /api/content/summarize.
// Exactly one of InputText or SourceURL supplies the text to summarize;
// when SourceURL is set the fetched text wins.
type SummarizeRequest struct {
	InputText string `json:"inputText"`
	SourceURL string `json:"sourceUrl"`
	Format    string `json:"format"`
}

// UpdateContentRequest is the request body for PUT /api/content/:id
type UpdateContentRequest struct {
	OutputText string `json:"outputText"`
}

// ContentFilter narrows a history query. All fields are optional and
// combine with logical AND when present.
type ContentFilter struct {
	Kind        ContentKind // exact match
	Search      string      // case-insensitive substring match on outputText
	CreatedFrom *time.Time  // inclusive lower bound on createdAt
	CreatedTo   *time.Time  // inclusive upper bound on createdAt
}
