// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, session tokens, and the account flows.

# Passwords

Passwords are hashed with scrypt (N=16384, r=8, p=1, 64-byte key) using a
random UUID as the salt, and stored as "salt:hexDigest":

	hash, err := auth.HashPassword(password)
	ok := auth.VerifyPassword(password, hash)

Verification compares in constant time. A stored value that cannot be parsed
never verifies.

# Sessions

Sessions are HS256 JWTs whose subject is the username:

	sessions := auth.NewSessions(secret, 24*time.Hour)
	token, err := sessions.Issue("alice")
	username, err := sessions.Parse(token)

# Credentials and Gateway

Credentials wraps a store.CredentialStore with hashing. Gateway layers the
user-facing rules on top:

  - usernames are 3 to 32 characters of [A-Za-z0-9_-]
  - new passwords are at least 6 characters and must be confirmed
  - login failures never reveal whether the user exists
  - Authenticate rejects tokens whose user no longer exists
  - ChangeUsername delegates the move to an OwnerMigrator

# IP Hashing

Voter IPs are logged only as a salted hash:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
