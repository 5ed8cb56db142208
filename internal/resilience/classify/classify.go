// Package classify inspects call outcomes and produces failure verdicts.
package classify

import (
	"encoding/json"
	"strings"

	"github.com/zircote/nsip-plugin/internal/core/domain"
)

const embeddedReasonLimit = 100

// Classify applies the failure rules to an outcome, first match wins:
//
//  1. explicit error flag
//  2. empty or absent content
//  3. "error"/"failed" substring in any content item
//  4. "timeout" anywhere in the outcome's textual rendering
//
// An empty payload takes precedence over keyword scanning, and the explicit
// flag always wins regardless of content. Pure function, no side effects.
func Classify(o domain.Outcome) domain.Verdict {
	if o.IsError {
		reason := o.ErrorText
		if reason == "" {
			reason = "Unknown error"
		}
		return domain.Verdict{Failure: true, Kind: domain.FailureExplicit, Reason: reason}
	}

	if len(o.Content) == 0 {
		return domain.Verdict{Failure: true, Kind: domain.FailureEmpty, Reason: "Empty content returned"}
	}

	for _, item := range o.Content {
		lower := strings.ToLower(item.Text)
		if strings.Contains(lower, "error") || strings.Contains(lower, "failed") {
			text := item.Text
			if runes := []rune(text); len(runes) > embeddedReasonLimit {
				text = string(runes[:embeddedReasonLimit])
			}
			return domain.Verdict{
				Failure: true,
				Kind:    domain.FailureEmbedded,
				Reason:  "Error in response: " + text,
			}
		}
	}

	if strings.Contains(strings.ToLower(render(o)), "timeout") {
		return domain.Verdict{Failure: true, Kind: domain.FailureTimeout, Reason: "Timeout detected"}
	}

	return domain.Verdict{}
}

// render produces the textual representation scanned by the timeout rule.
func render(o domain.Outcome) string {
	data, err := json.Marshal(o)
	if err != nil {
		return ""
	}
	return string(data)
}
