package session

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ContentType enumerates the supported deliverable formats.
type ContentType string

const (
	ContentTypePillar     ContentType = "pillar"
	ContentTypeBlog       ContentType = "blog"
	ContentTypeWhitepaper ContentType = "whitepaper"
	ContentTypeCaseStudy  ContentType = "case-study"
	ContentTypeGuide      ContentType = "guide"
	ContentTypeComparison ContentType = "comparison"
)

var contentTypes = map[ContentType]struct{}{
	ContentTypePillar:     {},
	ContentTypeBlog:       {},
	ContentTypeWhitepaper: {},
	ContentTypeCaseStudy:  {},
	ContentTypeGuide:      {},
	ContentTypeComparison: {},
}

// ParseContentType converts a string into a known ContentType.
func ParseContentType(value string) (ContentType, bool) {
	normalized := ContentType(strings.ToLower(strings.TrimSpace(value)))
	_, ok := contentTypes[normalized]
	return normalized, ok
}

// GenerationRequest captures everything the caller wants generated. The
// request is immutable once a pipeline run starts.
type GenerationRequest struct {
	Topics             []string        `json:"topics" validate:"required,min=1,dive,required"`
	Industry           string          `json:"industry"`
	Audience           string          `json:"audience"`
	ContentType        ContentType     `json:"content_type" validate:"required"`
	LengthClass        string          `json:"length_class"`
	WritingStyle       string          `json:"writing_style"`
	EnabledStages      map[string]bool `json:"enabled_stages"`
	CustomInstructions string          `json:"custom_instructions"`
	MinSearchVolume    int             `json:"min_search_volume" validate:"gte=0"`
	MaxDifficulty      int             `json:"max_difficulty" validate:"gte=0,lte=100"`
	CompetitorDomains  []string        `json:"competitor_domains"`
}

var requestValidator = validator.New()

// Validate checks the request before any session is created.
func (r *GenerationRequest) Validate() error {
	if err := requestValidator.Struct(r); err != nil {
		return err
	}
	for _, topic := range r.Topics {
		if strings.TrimSpace(topic) == "" {
			return fmt.Errorf("topics must not contain blank entries")
		}
	}
	if _, ok := contentTypes[r.ContentType]; !ok {
		return fmt.Errorf("content_type %q is not recognized", r.ContentType)
	}
	return nil
}

// StageEnabled reports whether the request enables the given stage.
// Stages without an explicit flag default to enabled.
func (r *GenerationRequest) StageEnabled(stageID string) bool {
	if r.EnabledStages == nil {
		return true
	}
	enabled, ok := r.EnabledStages[stageID]
	if !ok {
		return true
	}
	return enabled
}

// PrimaryTopic returns the first seed topic.
func (r *GenerationRequest) PrimaryTopic() string {
	if len(r.Topics) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Topics[0])
}
