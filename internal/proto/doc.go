// Package proto defines the wire contract of the Ordo account service.
//
// Messages are plain Go structs carried by a JSON codec registered under the
// "json" content subtype; the service descriptor, client stub and server
// registration follow the layout of protoc-gen-go-grpc output so the
// transport code reads like any other gRPC service.
//
// Full method names have the form /ordo.v1.AccountService/<Method>.
package proto
