package session

import "testing"

func TestStageTransitions(t *testing.T) {
	result := StageResult{StageID: "serp-analysis", Status: StagePending}

	result.MarkProcessing()
	if result.Status != StageProcessing || result.StartedAt == nil {
		t.Fatalf("unexpected processing state: %+v", result)
	}

	result.MarkCompleted(`{"competitors":3}`)
	if result.Status != StageCompleted || result.Progress != 100 {
		t.Fatalf("unexpected completed state: %+v", result)
	}
	if !result.Status.IsTerminal() {
		t.Fatal("completed should be terminal")
	}

	failed := StageResult{StageID: "image-generation"}
	failed.MarkFailed("provider unavailable")
	if failed.Status != StageFailed || failed.Progress != 0 {
		t.Fatalf("unexpected failed state: %+v", failed)
	}
	if failed.ErrorMessage != "provider unavailable" {
		t.Fatalf("missing error message: %+v", failed)
	}

	skipped := StageResult{StageID: "quality-assurance"}
	skipped.MarkSkipped()
	if skipped.Status != StageSkipped || skipped.Progress != 100 {
		t.Fatalf("unexpected skipped state: %+v", skipped)
	}
}

func TestRequestValidate(t *testing.T) {
	valid := GenerationRequest{
		Topics:      []string{"observability"},
		ContentType: ContentTypeGuide,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	cases := []struct {
		name    string
		request GenerationRequest
	}{
		{"empty topics", GenerationRequest{ContentType: ContentTypeBlog}},
		{"blank topic", GenerationRequest{Topics: []string{"  "}, ContentType: ContentTypeBlog}},
		{"bad content type", GenerationRequest{Topics: []string{"observability"}, ContentType: "press-release"}},
		{"difficulty out of range", GenerationRequest{Topics: []string{"observability"}, ContentType: ContentTypeBlog, MaxDifficulty: 250}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.request.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestStageEnabledDefaultsToTrue(t *testing.T) {
	request := GenerationRequest{Topics: []string{"a"}, ContentType: ContentTypeBlog}
	if !request.StageEnabled("serp-analysis") {
		t.Fatal("stages without flags should default to enabled")
	}

	request.EnabledStages = map[string]bool{"serp-analysis": false}
	if request.StageEnabled("serp-analysis") {
		t.Fatal("explicitly disabled stage reported enabled")
	}
	if !request.StageEnabled("keyword-research") {
		t.Fatal("unlisted stage should remain enabled")
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := ParseStatus(" Running "); !ok || status != StatusRunning {
		t.Fatalf("unexpected parse result: %v %v", status, ok)
	}
	if _, ok := ParseStatus("paused"); ok {
		t.Fatal("unknown status should not parse")
	}
}
