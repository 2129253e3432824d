package token

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ostromhub/venue-token-service/internal/models"
)

// Bridge is the HTTP client for the external token-operation service. The
// contract-call machinery behind it is opaque: the bridge either returns a
// transaction hash or an error. No timeout is imposed by default; a slow
// chain is tolerated rather than abandoned mid-operation.
type Bridge struct {
	BaseURL string
	Client  *http.Client
}

func NewBridge(baseURL string, timeout time.Duration) *Bridge {
	return &Bridge{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

type bridgeResponse struct {
	TxHash string `json:"txHash"`
	Error  string `json:"error,omitempty"`
}

func (b *Bridge) Mint(ctx context.Context, op models.TokenOperation) (string, error) {
	return b.execute(ctx, op)
}

func (b *Bridge) Burn(ctx context.Context, op models.TokenOperation) (string, error) {
	return b.execute(ctx, op)
}

func (b *Bridge) Transfer(ctx context.Context, op models.TokenOperation) (string, error) {
	return b.execute(ctx, op)
}

func (b *Bridge) execute(ctx context.Context, op models.TokenOperation) (string, error) {
	body, err := json.Marshal(op)
	if err != nil {
		return "", fmt.Errorf("marshal token operation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/operations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build bridge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token bridge %s: %w", op.Method, err)
	}
	defer resp.Body.Close()

	var result bridgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode bridge response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || result.Error != "" {
		return "", fmt.Errorf("token bridge %s failed (status %d): %s", op.Method, resp.StatusCode, result.Error)
	}
	if result.TxHash == "" {
		return "", fmt.Errorf("token bridge %s returned no transaction hash", op.Method)
	}
	return result.TxHash, nil
}
