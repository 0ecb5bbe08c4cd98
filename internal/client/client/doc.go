// Package client talks to the job backend over its REST API.
//
// The Client interface lists the remote operations the rest of the
// application depends on; HTTPClient implements it with net/http and JSON.
// Every failure is returned as *Error, which carries the HTTP status class
// and matches the sentinels of package common through errors.Is:
//
//	ErrUnauthorized        401 responses and missing sessions
//	ErrRemoteRejected      any other non-success response
//	ErrNetworkUnavailable  transport failures, no response at all
package client
