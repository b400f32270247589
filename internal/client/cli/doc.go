// Package cli provides the Baby Steps command-line client.
//
// It wires configuration, the local store, the offline queue and the
// services, then either runs one command given on the command line or an
// interactive REPL. Every change is written locally first; when the server
// is unreachable it is queued and replayed once connectivity returns.
//
// Commands cover accounts, babies, activities, reminders, settings, sync
// and snapshot backups. Type 'help' at the prompt for the list.
package cli
