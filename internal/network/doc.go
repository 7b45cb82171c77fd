// Package network resolves the LAN address other devices use to reach the transfer server.
//
// Lookups enumerate interfaces on every call and are never cached, so switching networks is
// picked up by the next call.
package network
