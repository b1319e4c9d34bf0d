package geoip

import (
	"context"
	"net/http"
)

// Reason classifies why a request was rejected.
type Reason string

const (
	// ReasonUnknown marks rejections caused by an unresolvable source address.
	ReasonUnknown Reason = "UNKNOWN"
	// ReasonInvalid marks rejections where the record matched no whitelist rule.
	ReasonInvalid Reason = "INVALID"
)

// RejectionMessage is the fixed user-facing text attached to every rejection.
const RejectionMessage = "You're not allowed to access this resource"

// Verdict is the terminal outcome for one request: either admit, or reject
// with a reason, an HTTP status and a diagnostic parameter map.
type Verdict struct {
	Allowed    bool              `json:"allowed"`
	Reason     Reason            `json:"reason,omitempty"`
	StatusCode int               `json:"status_code,omitempty"`
	Message    string            `json:"message,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// Filter maps lookup outcomes to verdicts for a fixed policy. It holds no
// mutable state, so a single Filter is safe for concurrent use.
type Filter struct {
	policy   *Policy
	resolver Resolver
}

// NewFilter builds a filter for the given policy and lookup resolver. A nil
// policy falls back to the unrestricted default with failOnUnknown enabled.
func NewFilter(policy *Policy, resolver Resolver) *Filter {
	if policy == nil {
		policy = &Policy{FailOnUnknown: true}
	}

	return &Filter{policy: policy, resolver: resolver}
}

// Decide resolves the remote address and produces exactly one verdict:
//
//   - lookup failed, failOnUnknown on: reject with UNKNOWN
//   - lookup failed, failOnUnknown off: admit unconditionally
//   - record matches a whitelist rule (or none configured): admit
//   - record matches nothing: reject with INVALID
//
// If ctx is done before a verdict is reached the context error is returned
// and the verdict is suppressed; the filter never retries.
func (f *Filter) Decide(ctx context.Context, remoteAddress string) (*Verdict, error) {
	rec, err := f.resolver.Resolve(ctx, remoteAddress)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	if err != nil || rec == nil {
		if f.policy.FailOnUnknown {
			return reject(ReasonUnknown, map[string]string{
				"remote_address": remoteAddress,
			}), nil
		}
		return &Verdict{Allowed: true}, nil
	}

	if f.policy.Matches(rec) {
		return &Verdict{Allowed: true}, nil
	}

	return reject(ReasonInvalid, map[string]string{
		"remote_address":   remoteAddress,
		"country_iso_code": rec.CountryISOCode,
		"country_name":     rec.CountryName,
		"region_name":      rec.RegionName,
		"city_name":        rec.CityName,
		"timezone":         rec.Timezone,
	}), nil
}

func reject(reason Reason, parameters map[string]string) *Verdict {
	return &Verdict{
		Reason:     reason,
		StatusCode: http.StatusForbidden,
		Message:    RejectionMessage,
		Parameters: parameters,
	}
}
