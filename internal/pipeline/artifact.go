package pipeline

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"inkwell/internal/session"
	"inkwell/internal/stage"
	"inkwell/internal/textutil"
)

var titleCaser = cases.Title(language.AmericanEnglish)

// assembleArtifact builds the final deliverable from the execution
// state. The article is required; metrics and images attach only when
// their stages completed.
func assembleArtifact(exec *stage.Execution) *session.GeneratedArtifact {
	if exec.Article == nil || strings.TrimSpace(exec.Article.Body) == "" {
		return nil
	}

	title := strings.TrimSpace(exec.Article.Title)
	if title == "" && exec.Strategy != nil {
		title = titleCaser.String(strings.TrimSpace(exec.Strategy.WorkingTitle))
	}
	if title == "" {
		title = titleCaser.String(exec.Request.PrimaryTopic())
	}

	artifact := &session.GeneratedArtifact{
		Title:           title,
		Slug:            textutil.Slug(title),
		Body:            exec.Article.Body,
		Tags:            append([]string(nil), exec.Article.Tags...),
		MetaDescription: exec.Article.MetaDescription,
	}

	if exec.Score != nil {
		artifact.Metrics = &session.SEOMetrics{
			WordCount:      exec.Score.WordCount,
			KeywordDensity: exec.Score.KeywordDensity,
			SEOScore:       exec.Score.SEOScore,
		}
	}

	if exec.Images != nil {
		for _, image := range exec.Images.Images {
			artifact.Images = append(artifact.Images, session.ImageDescriptor{
				URL:      image.URL,
				AltText:  image.AltText,
				Position: image.Position,
			})
		}
	}

	return artifact
}
