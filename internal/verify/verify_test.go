package verify

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

const testSecret = "8f742231b10e8888abcd99yyyzzz85a5"

func TestSignatureMatches(t *testing.T) {
	body := []byte(`{"type":"url_verification","challenge":"abc123"}`)
	timestamp := "1531420618"

	sig := ComputeSignature(body, timestamp, testSecret)
	if !Signature(body, timestamp, sig, testSecret) {
		t.Fatal("expected matching signature to verify")
	}
}

func TestSignatureRejectsTampering(t *testing.T) {
	body := []byte(`{"type":"url_verification","challenge":"abc123"}`)
	timestamp := "1531420618"
	sig := ComputeSignature(body, timestamp, testSecret)

	tampered := make([]byte, len(body))
	copy(tampered, body)
	tampered[0] ^= 0x01
	if Signature(tampered, timestamp, sig, testSecret) {
		t.Error("expected altered body to fail verification")
	}

	if Signature(body, "1531420619", sig, testSecret) {
		t.Error("expected altered timestamp to fail verification")
	}

	altered := []byte(sig)
	altered[len(altered)-1] ^= 0x01
	if Signature(body, timestamp, string(altered), testSecret) {
		t.Error("expected altered signature to fail verification")
	}

	if Signature(body, timestamp, sig, "wrong-secret") {
		t.Error("expected wrong secret to fail verification")
	}
}

func TestSignatureFailsClosed(t *testing.T) {
	body := []byte("{}")
	sig := ComputeSignature(body, "1531420618", testSecret)

	if Signature(body, "", sig, testSecret) {
		t.Error("expected missing timestamp to fail verification")
	}
	if Signature(body, "1531420618", "", testSecret) {
		t.Error("expected missing signature to fail verification")
	}
	if Signature(body, "1531420618", "not-a-signature", testSecret) {
		t.Error("expected malformed signature to fail verification")
	}
	if Signature(body, "1531420618", sig, "") {
		t.Error("expected empty secret to fail verification")
	}
}

func TestFreshWindowIsInclusive(t *testing.T) {
	now := time.Unix(1700000000, 0)
	maxSkew := 5 * time.Minute

	cases := []struct {
		name      string
		timestamp int64
		want      bool
	}{
		{"current", 1700000000, true},
		{"exactly max skew in the past", 1700000000 - 300, true},
		{"exactly max skew in the future", 1700000000 + 300, true},
		{"one second too old", 1700000000 - 301, false},
		{"one second too new", 1700000000 + 301, false},
	}

	for _, tc := range cases {
		got := Fresh(timestampString(tc.timestamp), now, maxSkew)
		if got != tc.want {
			t.Errorf("%s: Fresh = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFreshRejectsExtremeTimestamps(t *testing.T) {
	now := time.Unix(1700000000, 0)
	maxSkew := 5 * time.Minute

	// skews this large overflow int64 nanoseconds if converted to a
	// Duration; they must still read as stale
	if Fresh("11700000000", now, maxSkew) {
		t.Error("expected far-future timestamp to be stale")
	}
	if Fresh("-11700000000", now, maxSkew) {
		t.Error("expected far-past timestamp to be stale")
	}
	if Fresh("9223372036854775807", now, maxSkew) {
		t.Error("expected max int64 timestamp to be stale")
	}
}

func TestFreshRejectsMalformedTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	if Fresh("", now, time.Minute) {
		t.Error("expected empty timestamp to be stale")
	}
	if Fresh("not-a-number", now, time.Minute) {
		t.Error("expected malformed timestamp to be stale")
	}
}

func TestRequestReportsWhichCheckFailed(t *testing.T) {
	now := time.Unix(1700000000, 0)
	body := []byte("payload")
	timestamp := timestampString(now.Unix())
	sig := ComputeSignature(body, timestamp, testSecret)

	if err := Request(body, timestamp, sig, testSecret, now, time.Minute); err != nil {
		t.Fatalf("expected valid request to pass, got %v", err)
	}

	err := Request(body, timestamp, "v0=bogus", testSecret, now, time.Minute)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("expected ErrSignatureInvalid, got %v", err)
	}

	stale := timestampString(now.Unix() - 3600)
	staleSig := ComputeSignature(body, stale, testSecret)
	err = Request(body, stale, staleSig, testSecret, now, time.Minute)
	if !errors.Is(err, ErrTimestampStale) {
		t.Errorf("expected ErrTimestampStale, got %v", err)
	}
}

func timestampString(ts int64) string {
	return strconv.FormatInt(ts, 10)
}
