// Package services contains the application services of the Baby Steps
// client. Each entity service turns a user action into an orchestrator
// mutation over the local repositories; SyncService owns the offline queue
// flush and the network monitor; BackupService and SeedDemo round out the
// local data lifecycle.
package services
