// Package client talks to the gophtasks backend over gRPC.
//
// GRPCClient keeps the access token returned by SignIn (or supplied up front)
// and attaches it to every call as "authorization: Bearer <token>" metadata.
// gRPC status codes are mapped to the sentinel errors of this package so
// callers can match them with errors.Is.
package client
