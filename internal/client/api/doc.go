// Package api is the client side of the Baby Steps REST API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering
//     authentication, the generic collection calls used by the orchestrator
//     and the queue replayer, reminder rescheduling and backup URLs.
//  2. A net/http implementation (see HTTPClient) that injects the bearer
//     token, refreshes an expired access token once and retries, bounds
//     every call with a timeout and maps HTTP statuses to sentinel errors.
//  3. A gRPC health probe (see HealthPinger) used by the network monitor.
//
// # Error Handling
//
// Failures are returned as *StatusError or as one of the sentinels below,
// matched with errors.Is. ErrUnavailable is the only transient class; every
// other error is final and must not be queued for replay.
package api
