// Package persistence is the account and space store behind the state
// machine. One Backend interface has two implementations, chosen when the
// client is composed:
//
//   - LocalBackend keeps accounts and spaces in the embedded SQLite store and
//     caps every library at LocalCapacity spaces.
//   - RemoteBackend talks to the account service over gRPC and has no cap.
//
// SessionCache remembers the signed-in session between runs.
package persistence
