// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session sealing and ID generation utilities.

# Sealed Sessions

Interview state travels with the client instead of living on the server.
SealSession signs the JSON form of a value with HMAC-SHA256:

	token, err := auth.SealSession(sess, salt)

OpenSession verifies the signature before decoding:

	var sess session.Session
	err := auth.OpenSession(token, salt, &sess)

A token is base64url(json) "." base64url(mac), both without padding. Any
change to the body or the MAC yields ErrInvalidSession. Tokens are signed,
not encrypted: the client can read the list snapshot it was given.

# ID Generation

Random hex IDs for interview sessions:

	id, err := auth.GenerateID(8)  // 16 hex characters
*/
package auth
