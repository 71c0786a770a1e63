// Package psi is a small client for the PageSpeed Insights v5 runPagespeed
// endpoint.
//
// The client performs exactly one GET per call and never retries. Non-200
// answers are reported as *StatusError so callers can tell quota exhaustion
// apart from transport failures. The API key is optional; without it the
// request goes out on the anonymous quota tier.
package psi
