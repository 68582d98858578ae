// Package client is the gRPC client of the authkeeper IdentityService.
//
// The Client interface is what the CLI depends on; GRPCClient implements it
// over a gRPC connection and maps status codes to the sentinel errors in
// errors.go, which callers match with errors.Is.
package client
