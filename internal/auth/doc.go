// Package auth holds the server's credential primitives: argon2id password hashing, request validation for
// login and registration credentials, and a keyed token-bucket limiter used to throttle login attempts per client.
//
// Encoded hashes use the PHC string format:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
//
// so parameters travel with the hash and can be raised later without invalidating stored passwords.
package auth
