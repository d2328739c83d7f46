// Package signer produces request signatures for the two upstream auth
// schemes. Both are pure functions; an empty secret is allowed and yields a
// deterministic signature, credential validation happens upstream.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// SignQuery signs an exchange query string: HMAC-SHA256 keyed by the API
// secret, hex-encoded.
func SignQuery(query, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignRequest signs a wallet-API request: HMAC-SHA256 over
// timestamp+method+path+body, base64-encoded.
func SignRequest(timestamp, method, path, body, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + method + path + body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
