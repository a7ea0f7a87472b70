// Package common contains constants, sentinel errors and small helpers shared
// by the Ordo client and the account server.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the access
// token on outbound requests.
const AccessTokenHeaderName = "access_token"

// DisplayDateLayout formats SavedSpace.CreatedDate, e.g. "Mar 4, 2025".
const DisplayDateLayout = "Jan 2, 2006"
