// Package cli is the authkeeper command-line client.
//
// It talks to the server's gRPC IdentityService:
//
//	authkeeper register --username alice --email alice@example.com
//	authkeeper login --username alice
//	authkeeper me --token <access token>
//
// Passwords are always read from the terminal without echo. login prints the
// bare access token on stdout so it can be captured into AUTHKEEPER_TOKEN.
package cli
