// Package credentials provides driven.CredentialSource implementations
// that supply session cookies for the upstream service: a raw Cookie
// header from configuration, a Netscape cookies.txt export, and a chain
// that tries sources in order.
package credentials
