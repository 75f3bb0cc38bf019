// ABOUTME: Package auth is the credential and session core of storegate
// ABOUTME: Covers passphrase-backed credentials, bearer sessions and their audit trail

// Package auth gates write access to per-store configuration.
//
// CredentialService owns per-store password hashes: it generates or
// accepts a secret, normalizes it, hashes it with bcrypt and records
// every mutation in the audit log. SessionService issues opaque bearer
// tokens after a successful verification and validates or revokes them
// on later requests. The two services are independent; the HTTP and
// CLI layers call one after the other.
//
// Negative outcomes that callers branch on routinely (wrong secret,
// expired or unknown token, revoking a token that never existed) are
// ordinary return values, never errors. Errors are reserved for
// environment breakage such as an unreachable database.
package auth
