package config_test

import (
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ostromhub/venue-token-service/config"
)

func TestNew_DerivesServerPubkey(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	pubkey, err := nostr.GetPublicKey(sk)
	require.NoError(t, err)

	t.Setenv("NOSTR_PRIVATE_KEY", sk)
	t.Setenv("RELAY_URLS", "wss://relay.one, wss://relay.two")

	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, pubkey, cfg.ServerPubkey())
	assert.Equal(t, []string{"wss://relay.one", "wss://relay.two"}, cfg.Relay.RelayURLs())
}

func TestNew_AcceptsNsecKey(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	nsec, err := nip19.EncodePrivateKey(sk)
	require.NoError(t, err)
	pubkey, err := nostr.GetPublicKey(sk)
	require.NoError(t, err)

	t.Setenv("NOSTR_PRIVATE_KEY", nsec)

	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, pubkey, cfg.ServerPubkey())
}

func TestNew_RequiresPrivateKey(t *testing.T) {
	t.Setenv("NOSTR_PRIVATE_KEY", "")

	_, err := config.New()
	assert.Error(t, err)
}

func TestNew_RejectsEmptyRelayList(t *testing.T) {
	t.Setenv("NOSTR_PRIVATE_KEY", nostr.GeneratePrivateKey())
	t.Setenv("RELAY_URLS", " , ")

	_, err := config.New()
	assert.Error(t, err)
}

func TestNew_RejectsNonPositiveDedupHorizon(t *testing.T) {
	t.Setenv("NOSTR_PRIVATE_KEY", nostr.GeneratePrivateKey())
	t.Setenv("STATE_MAX_ENTRIES", "0")

	_, err := config.New()
	assert.Error(t, err)
}
