package vitals

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// fullResponse is a trimmed runPagespeed body with every consumed field.
const fullResponse = `{
  "id": "https://example.com/",
  "lighthouseResult": {
    "audits": {
      "largest-contentful-paint": {"numericValue": 1800},
      "cumulative-layout-shift": {"numericValue": 0.05},
      "interaction-to-next-paint": {"numericValue": 150},
      "first-contentful-paint": {"numericValue": 900},
      "server-response-time": {"numericValue": 210.4}
    },
    "categories": {
      "performance": {"score": 0.93}
    }
  }
}`

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestDecodeResponse tests the schema boundary.
func TestDecodeResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid body", body: fullResponse},
		{name: "not json", body: "<html>quota</html>", wantErr: true},
		{name: "json array", body: "[]", wantErr: true},
		{name: "missing lighthouseResult", body: `{"error": {"code": 500}}`, wantErr: true},
		{name: "null lighthouseResult", body: `{"lighthouseResult": null}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lr, err := DecodeResponse([]byte(tt.body))
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Errorf("expected ErrMalformedResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if lr == nil {
				t.Fatal("expected lighthouse result")
			}
		})
	}
}

// TestExtract tests metric extraction and unit conversion.
func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("converts units", func(t *testing.T) {
		t.Parallel()

		lr, err := DecodeResponse([]byte(fullResponse))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ms, err := Extract(lr)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !almostEqual(ms.LCPSeconds, 1.8) {
			t.Errorf("expected LCP 1.8s, got %v", ms.LCPSeconds)
		}
		if !almostEqual(ms.CLS, 0.05) {
			t.Errorf("expected CLS 0.05, got %v", ms.CLS)
		}
		if !ms.INPMeasured || !almostEqual(ms.INPMilliseconds, 150) {
			t.Errorf("expected measured INP 150ms, got %v (measured=%v)", ms.INPMilliseconds, ms.INPMeasured)
		}
		if !almostEqual(ms.FCPSeconds, 0.9) {
			t.Errorf("expected FCP 0.9s, got %v", ms.FCPSeconds)
		}
		if !almostEqual(ms.TTFBMilliseconds, 210.4) {
			t.Errorf("expected TTFB 210.4ms, got %v", ms.TTFBMilliseconds)
		}
		if !almostEqual(ms.PerformanceScore, 93) {
			t.Errorf("expected score 93, got %v", ms.PerformanceScore)
		}
	})

	t.Run("absent INP is not measured", func(t *testing.T) {
		t.Parallel()

		body := strings.Replace(fullResponse,
			`"interaction-to-next-paint": {"numericValue": 150},`, "", 1)
		lr, err := DecodeResponse([]byte(body))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ms, err := Extract(lr)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ms.INPMeasured {
			t.Error("expected INP not measured")
		}
		if ms.INPMilliseconds != 0 {
			t.Errorf("expected INP 0, got %v", ms.INPMilliseconds)
		}
	})

	unmeasured := []struct {
		name  string
		audit string
	}{
		{
			name:  "not applicable INP is not measured",
			audit: `"interaction-to-next-paint": {"score": null, "scoreDisplayMode": "notApplicable"},`,
		},
		{
			name:  "null INP is not measured",
			audit: `"interaction-to-next-paint": {"numericValue": null},`,
		},
	}
	for _, tt := range unmeasured {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			body := strings.Replace(fullResponse,
				`"interaction-to-next-paint": {"numericValue": 150},`, tt.audit, 1)
			if body == fullResponse {
				t.Fatal("fixture replacement did not apply")
			}
			lr, err := DecodeResponse([]byte(body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			ms, err := Extract(lr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ms.INPMeasured {
				t.Error("expected INP not measured")
			}
			if ms.INPMilliseconds != 0 {
				t.Errorf("expected INP 0, got %v", ms.INPMilliseconds)
			}
			if !almostEqual(ms.LCPSeconds, 1.8) {
				t.Errorf("expected LCP 1.8s, got %v", ms.LCPSeconds)
			}
		})
	}

	t.Run("nil result is a parse error", func(t *testing.T) {
		t.Parallel()

		_, err := Extract(nil)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("expected ParseError, got %v", err)
		}
	})
}

// TestExtractParseErrors tests each required-field failure.
func TestExtractParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		old        string
		replace    string
		wantReason string
		wantField  string
	}{
		{
			name:       "missing LCP audit",
			old:        `"largest-contentful-paint": {"numericValue": 1800},`,
			replace:    "",
			wantReason: ReasonMissingField,
			wantField:  "audits.largest-contentful-paint",
		},
		{
			name:       "missing CLS numericValue",
			old:        `"cumulative-layout-shift": {"numericValue": 0.05}`,
			replace:    `"cumulative-layout-shift": {"displayValue": "0.05"}`,
			wantReason: ReasonMissingField,
			wantField:  "audits.cumulative-layout-shift.numericValue",
		},
		{
			name:       "string FCP",
			old:        `{"numericValue": 900}`,
			replace:    `{"numericValue": "900"}`,
			wantReason: ReasonTypeMismatch,
			wantField:  "audits.first-contentful-paint.numericValue",
		},
		{
			name:       "null TTFB",
			old:        `{"numericValue": 210.4}`,
			replace:    `{"numericValue": null}`,
			wantReason: ReasonTypeMismatch,
			wantField:  "audits.server-response-time.numericValue",
		},
		{
			name:       "null performance score",
			old:        `{"score": 0.93}`,
			replace:    `{"score": null}`,
			wantReason: ReasonTypeMismatch,
			wantField:  "categories.performance.score",
		},
		{
			name:       "missing performance category",
			old:        `"performance": {"score": 0.93}`,
			replace:    `"seo": {"score": 0.93}`,
			wantReason: ReasonMissingField,
			wantField:  "categories.performance",
		},
		{
			name:       "audit is not an object",
			old:        `"largest-contentful-paint": {"numericValue": 1800}`,
			replace:    `"largest-contentful-paint": 1800`,
			wantReason: ReasonTypeMismatch,
			wantField:  "audits.largest-contentful-paint",
		},
		{
			name:       "negative CLS",
			old:        `{"numericValue": 0.05}`,
			replace:    `{"numericValue": -0.05}`,
			wantReason: ReasonOutOfRange,
			wantField:  "audits.cumulative-layout-shift.numericValue",
		},
		{
			name:       "performance score above one",
			old:        `{"score": 0.93}`,
			replace:    `{"score": 1.7}`,
			wantReason: ReasonOutOfRange,
			wantField:  "categories.performance.score",
		},
		{
			name:       "present but mistyped INP",
			old:        `{"numericValue": 150}`,
			replace:    `{"numericValue": true}`,
			wantReason: ReasonTypeMismatch,
			wantField:  "audits.interaction-to-next-paint.numericValue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			body := strings.Replace(fullResponse, tt.old, tt.replace, 1)
			if body == fullResponse {
				t.Fatalf("fixture replacement %q did not apply", tt.old)
			}

			lr, err := DecodeResponse([]byte(body))
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}

			_, err = Extract(lr)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if pe.Reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, pe.Reason)
			}
			if pe.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, pe.Field)
			}
		})
	}
}
