package internaldefs

import (
	sessionkit "github.com/giftfinder/sessionkit"
)

// CounterDef defines a public type used by sessionkit APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   sessionkit.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by sessionkit APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   sessionkit.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session client.
var CounterDefs = []CounterDef{
	{ID: sessionkit.MetricSignInSuccess, Name: "sessionkit_signin_success_total", Help: "Successful sign-in operations."},
	{ID: sessionkit.MetricSignInFailure, Name: "sessionkit_signin_failure_total", Help: "Sign-in attempts rejected by the login endpoint."},
	{ID: sessionkit.MetricSignInUnavailable, Name: "sessionkit_signin_unavailable_total", Help: "Sign-in attempts that could not reach the login endpoint."},
	{ID: sessionkit.MetricSignInSuperseded, Name: "sessionkit_signin_superseded_total", Help: "Sign-in results discarded because a later slot change won."},
	{ID: sessionkit.MetricSignOut, Name: "sessionkit_signout_total", Help: "Sign-out operations."},
	{ID: sessionkit.MetricSessionRestored, Name: "sessionkit_session_restored_total", Help: "Sessions restored from durable storage at startup."},
	{ID: sessionkit.MetricSessionExpired, Name: "sessionkit_session_expired_total", Help: "Persisted sessions discarded as expired."},
	{ID: sessionkit.MetricTokenDecodeFailure, Name: "sessionkit_token_decode_failure_total", Help: "Bearer tokens rejected by the codec."},
	{ID: sessionkit.MetricStorageDegraded, Name: "sessionkit_storage_degraded_total", Help: "Durable storage operations that failed and were tolerated."},
	{ID: sessionkit.MetricSubscriberNotified, Name: "sessionkit_subscriber_notified_total", Help: "Session-change callbacks delivered."},
}

// HistogramDefs is an exported constant or variable used by the session client.
var HistogramDefs = []HistogramDef{
	{ID: sessionkit.MetricSignInLatency, Name: "sessionkit_signin_latency_seconds", Help: "Sign-in round-trip latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session client.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session client.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
