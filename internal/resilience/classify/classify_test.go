package classify

import (
	"strings"
	"testing"

	"github.com/zircote/nsip-plugin/internal/core/domain"
)

func TestClassify_Success(t *testing.T) {
	v := Classify(domain.Outcome{Content: []domain.ContentItem{{Text: "LPN 621879202000024: Dorset ewe"}}})

	if v.Failure {
		t.Errorf("expected success, got failure with reason %q", v.Reason)
	}
}

func TestClassify_ExplicitFlag(t *testing.T) {
	v := Classify(domain.Outcome{IsError: true, ErrorText: "connection refused"})

	if !v.Failure || v.Kind != domain.FailureExplicit {
		t.Fatalf("expected explicit failure, got %+v", v)
	}
	if v.Reason != "connection refused" {
		t.Errorf("expected attached error text, got %q", v.Reason)
	}
}

func TestClassify_ExplicitFlagWithoutText(t *testing.T) {
	v := Classify(domain.Outcome{IsError: true})

	if v.Reason != "Unknown error" {
		t.Errorf("expected Unknown error, got %q", v.Reason)
	}
}

func TestClassify_FlagOutranksContent(t *testing.T) {
	// Explicit flag wins even when content looks healthy, proving rule
	// ordering over the empty-content and keyword rules.
	v := Classify(domain.Outcome{
		IsError:   true,
		ErrorText: "rate limited",
		Content:   []domain.ContentItem{{Text: "perfectly fine data"}},
	})

	if v.Kind != domain.FailureExplicit || v.Reason != "rate limited" {
		t.Errorf("expected explicit failure to win, got %+v", v)
	}
}

func TestClassify_EmptyContent(t *testing.T) {
	v := Classify(domain.Outcome{})

	if !v.Failure || v.Kind != domain.FailureEmpty {
		t.Fatalf("expected empty-content failure, got %+v", v)
	}
	if v.Reason != "Empty content returned" {
		t.Errorf("unexpected reason %q", v.Reason)
	}
}

func TestClassify_EmbeddedErrorText(t *testing.T) {
	v := Classify(domain.Outcome{Content: []domain.ContentItem{
		{Text: "some results"},
		{Text: "Request FAILED: upstream unavailable"},
	}})

	if !v.Failure || v.Kind != domain.FailureEmbedded {
		t.Fatalf("expected embedded failure, got %+v", v)
	}
	if v.Reason != "Error in response: Request FAILED: upstream unavailable" {
		t.Errorf("unexpected reason %q", v.Reason)
	}
}

func TestClassify_EmbeddedErrorTruncated(t *testing.T) {
	long := "error: " + strings.Repeat("x", 200)
	v := Classify(domain.Outcome{Content: []domain.ContentItem{{Text: long}}})

	want := "Error in response: " + long[:100]
	if v.Reason != want {
		t.Errorf("expected reason truncated to 100 chars of text, got %q", v.Reason)
	}
}

func TestClassify_Timeout(t *testing.T) {
	v := Classify(domain.Outcome{Content: []domain.ContentItem{{Text: "request timeout after 30s"}}})

	// "timeout" has no "error"/"failed" substring, so the timeout rule
	// is the one that fires.
	if !v.Failure || v.Kind != domain.FailureTimeout {
		t.Fatalf("expected timeout failure, got %+v", v)
	}
	if v.Reason != "Timeout detected" {
		t.Errorf("unexpected reason %q", v.Reason)
	}
}

func TestClassify_EmbeddedOutranksTimeout(t *testing.T) {
	v := Classify(domain.Outcome{Content: []domain.ContentItem{{Text: "error: timeout"}}})

	if v.Kind != domain.FailureEmbedded {
		t.Errorf("keyword rule should fire before timeout scan, got %+v", v)
	}
}
