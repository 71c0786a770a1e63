package vitals

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nao1215/vitalscan/internal/model"
)

// Lighthouse audit identifiers consumed from the response.
const (
	auditLCP  = "largest-contentful-paint"
	auditCLS  = "cumulative-layout-shift"
	auditINP  = "interaction-to-next-paint"
	auditFCP  = "first-contentful-paint"
	auditTTFB = "server-response-time"

	categoryPerformance = "performance"
)

// Response is the subset of the runPagespeed response this package reads.
type Response struct {
	LighthouseResult *LighthouseResult `json:"lighthouseResult"`
}

// LighthouseResult keeps audits and categories undecoded so each field can be
// validated individually by Extract.
type LighthouseResult struct {
	Audits     map[string]json.RawMessage `json:"audits"`
	Categories map[string]json.RawMessage `json:"categories"`
}

// DecodeResponse parses a response body. It fails with ErrMalformedResponse
// when the body is not a JSON object or lacks lighthouseResult.
func DecodeResponse(body []byte) (*LighthouseResult, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.LighthouseResult == nil {
		return nil, fmt.Errorf("%w: missing lighthouseResult", ErrMalformedResponse)
	}
	return resp.LighthouseResult, nil
}

// Extract reads the metric set from a decoded lighthouse result.
//
// LCP and FCP are converted from milliseconds to seconds; CLS, INP and TTFB
// keep their native units; the performance score is scaled from 0-1 to 0-100.
// INP is optional: when its audit is absent, or carries no numericValue as
// notApplicable audits do, the value is 0 and INPMeasured is false. Every
// other field is required and yields a *ParseError when absent, non-numeric
// or negative. A score above 1 is out of range.
func Extract(lr *LighthouseResult) (model.MetricSet, error) {
	var ms model.MetricSet
	if lr == nil {
		return ms, &ParseError{Reason: ReasonMissingField, Field: "lighthouseResult"}
	}

	lcp, err := auditValue(lr.Audits, auditLCP)
	if err != nil {
		return ms, err
	}
	cls, err := auditValue(lr.Audits, auditCLS)
	if err != nil {
		return ms, err
	}
	fcp, err := auditValue(lr.Audits, auditFCP)
	if err != nil {
		return ms, err
	}
	ttfb, err := auditValue(lr.Audits, auditTTFB)
	if err != nil {
		return ms, err
	}
	score, err := performanceScore(lr.Categories)
	if err != nil {
		return ms, err
	}

	ms.LCPSeconds = lcp / 1000
	ms.CLS = cls
	ms.FCPSeconds = fcp / 1000
	ms.TTFBMilliseconds = ttfb
	ms.PerformanceScore = score * 100

	inp, measured, err := optionalAuditValue(lr.Audits, auditINP)
	if err != nil {
		return ms, err
	}
	ms.INPMilliseconds = inp
	ms.INPMeasured = measured

	return ms, nil
}

// auditValue reads audits[name].numericValue.
func auditValue(audits map[string]json.RawMessage, name string) (float64, error) {
	path := "audits." + name
	raw, ok := audits[name]
	if !ok {
		return 0, &ParseError{Reason: ReasonMissingField, Field: path}
	}
	return numberField(raw, path, "numericValue")
}

// optionalAuditValue reads audits[name].numericValue, reporting false when the
// audit or its value is absent or null.
func optionalAuditValue(audits map[string]json.RawMessage, name string) (float64, bool, error) {
	raw, ok := audits[name]
	if !ok {
		return 0, false, nil
	}
	path := "audits." + name
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return 0, false, &ParseError{Reason: ReasonTypeMismatch, Field: path}
	}
	if v, ok := obj["numericValue"]; !ok || isNull(v) {
		return 0, false, nil
	}
	f, err := numberField(raw, path, "numericValue")
	if err != nil {
		return 0, false, err
	}
	return f, true, nil
}

// performanceScore reads categories.performance.score, which must lie in 0-1.
func performanceScore(categories map[string]json.RawMessage) (float64, error) {
	path := "categories." + categoryPerformance
	raw, ok := categories[categoryPerformance]
	if !ok {
		return 0, &ParseError{Reason: ReasonMissingField, Field: path}
	}
	score, err := numberField(raw, path, "score")
	if err != nil {
		return 0, err
	}
	if score > 1 {
		return 0, &ParseError{Reason: ReasonOutOfRange, Field: path + ".score"}
	}
	return score, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// numberField reads a non-negative number stored under key in the JSON object raw.
func numberField(raw json.RawMessage, path, key string) (float64, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return 0, &ParseError{Reason: ReasonTypeMismatch, Field: path}
	}

	path += "." + key
	v, ok := obj[key]
	if !ok {
		return 0, &ParseError{Reason: ReasonMissingField, Field: path}
	}
	if isNull(v) {
		return 0, &ParseError{Reason: ReasonTypeMismatch, Field: path}
	}

	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		return 0, &ParseError{Reason: ReasonTypeMismatch, Field: path}
	}
	if f < 0 {
		return 0, &ParseError{Reason: ReasonOutOfRange, Field: path}
	}
	return f, nil
}
