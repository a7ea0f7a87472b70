// Package client contains the client-side plumbing for the Ordo account
// service and the local store.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     Register/GetSalt/Login, profile and settings, space CRUD, Ping.
//  2. A gRPC implementation (see GRPCClient) that injects the access token
//     via an interceptor, transparently refreshes expired tokens, persists
//     the refresh token through a TokenStore and maps gRPC status codes to
//     sentinel errors.
//  3. Local store bootstrap (InitDatabase, RunMigrations) wiring SQLite and
//     the embedded goose migrations.
//
// # Error Handling
//
// Transport conditions are exposed as sentinel errors matched with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrRateLimited, plus
// common.ErrorNotFound, common.ErrorAlreadyExists and common.ErrorValidation
// for the corresponding status codes.
package client
