package models

import (
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
)

// Event kinds exchanged with the relay network. Payment kinds are custom
// regular kinds; calendar status uses the NIP-52 time-based calendar kind so
// that observers can treat the offer id ("d" tag) as a replaceable identifier.
const (
	KindPaymentRequest = 9901
	KindPaymentReceipt = 9902
	KindCalendarStatus = 31923
)

// SystemSender is the sentinel used in the "P" tag for server-issued mints.
const SystemSender = "system"

// NormalizePubkey returns the raw hex form of a pubkey. Inputs may arrive as
// npub bech32 or hex; tag comparisons always happen on the normalized form.
// The "system" sentinel passes through untouched.
func NormalizePubkey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || key == SystemSender {
		return key, nil
	}
	if strings.HasPrefix(key, "npub") {
		prefix, value, err := nip19.Decode(key)
		if err != nil {
			return "", fmt.Errorf("invalid npub %q: %w", key, err)
		}
		if prefix != "npub" {
			return "", fmt.Errorf("unexpected bech32 prefix %q", prefix)
		}
		return value.(string), nil
	}
	return strings.ToLower(key), nil
}

// NormalizeSecretKey accepts an nsec bech32 or hex secret key and returns hex.
func NormalizeSecretKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "nsec") {
		prefix, value, err := nip19.Decode(key)
		if err != nil {
			return "", fmt.Errorf("invalid nsec: %w", err)
		}
		if prefix != "nsec" {
			return "", fmt.Errorf("unexpected bech32 prefix %q", prefix)
		}
		return value.(string), nil
	}
	if len(key) != 64 {
		return "", fmt.Errorf("secret key must be 64 hex characters or nsec")
	}
	return strings.ToLower(key), nil
}

// tagValue returns the second element of the first tag with the given key.
func tagValue(ev *nostr.Event, key string) string {
	for _, tag := range ev.Tags {
		if len(tag) >= 2 && tag[0] == key {
			return tag[1]
		}
	}
	return ""
}

// markedEventRef returns the id of the first "e" tag whose marker (4th
// element) matches. Payment events use markers to distinguish the referenced
// offer ("related") from the originating request ("request").
func markedEventRef(ev *nostr.Event, marker string) string {
	for _, tag := range ev.Tags {
		if len(tag) >= 4 && tag[0] == "e" && tag[3] == marker {
			return tag[1]
		}
	}
	return ""
}
