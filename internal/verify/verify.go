// Package verify authenticates inbound Slack webhook requests: HMAC
// signature verification plus a replay window on the request timestamp.
package verify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	// SignatureHeader carries "v0=" + hex(hmac_sha256(secret, base string)).
	SignatureHeader = "X-Slack-Signature"
	// TimestampHeader carries the request origination time in Unix seconds.
	TimestampHeader = "X-Slack-Request-Timestamp"

	signatureVersion = "v0"

	// DefaultReplayWindow matches Slack's guidance of five minutes.
	DefaultReplayWindow = 5 * time.Minute
)

var (
	// ErrSignatureInvalid covers missing, malformed, and mismatched signatures.
	ErrSignatureInvalid = errors.New("invalid request signature")
	// ErrTimestampStale covers missing, malformed, and out-of-window timestamps.
	ErrTimestampStale = errors.New("request timestamp outside replay window")
)

// ComputeSignature returns the expected signature header value for a body
// and timestamp: "v0=" + hex(hmac_sha256(secret, "v0:<ts>:<body>")).
func ComputeSignature(body []byte, timestamp, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s:%s:", signatureVersion, timestamp)
	mac.Write(body)
	return signatureVersion + "=" + hex.EncodeToString(mac.Sum(nil))
}

// Signature reports whether the signature header matches the body and
// timestamp under the signing secret. The comparison is constant-time and
// the check fails closed: any missing or malformed input is a mismatch.
func Signature(body []byte, timestamp, signature, secret string) bool {
	if timestamp == "" || signature == "" || secret == "" {
		return false
	}
	expected := ComputeSignature(body, timestamp, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Fresh reports whether the timestamp header is within maxSkew of now.
// The window is inclusive: a skew of exactly maxSkew is accepted.
func Fresh(timestamp string, now time.Time, maxSkew time.Duration) bool {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	skew := now.Unix() - ts
	if skew < 0 {
		skew = -skew
	}
	// compare in integer seconds: converting the skew to a Duration can
	// overflow for absurd timestamps and wrap negative
	return skew <= int64(maxSkew/time.Second)
}

// Request runs both checks and returns which one failed. Both must pass
// before a request may be classified.
func Request(body []byte, timestamp, signature, secret string, now time.Time, maxSkew time.Duration) error {
	if !Signature(body, timestamp, signature, secret) {
		return ErrSignatureInvalid
	}
	if !Fresh(timestamp, now, maxSkew) {
		return ErrTimestampStale
	}
	return nil
}
