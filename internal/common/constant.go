// Package common contains shared constants and sentinel errors used across
// Baby Steps components.
package common

// AuthorizationHeader carries the bearer access token on REST requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the token inside AuthorizationHeader.
const BearerPrefix = "Bearer "

// DefaultNamespace prefixes every repository key in the local store.
const DefaultNamespace = "babysteps"

// OfflineQueueKey is the local store key holding the offline mutation queue.
const OfflineQueueKey = "offline_data"

// Collection names shared by the REST API, the offline queue and the
// orchestrator.
const (
	CollectionUsers      = "users"
	CollectionBabies     = "babies"
	CollectionActivities = "activities"
	CollectionSettings   = "settings"
	CollectionReminders  = "reminders"
)
