package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"notemint/internal/infra"
	"notemint/internal/sqlinline"
)

// Providers whose tokens can be stored in integration_tokens.
const (
	ProviderReplicate = "replicate"
	ProviderPinata    = "pinata"
)

// Store reads and writes third-party API tokens kept in the database, used
// when the environment does not carry them.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// IsSupportedProvider reports whether provider names a token the service consumes.
func IsSupportedProvider(provider string) bool {
	switch provider {
	case ProviderReplicate, ProviderPinata:
		return true
	default:
		return false
	}
}

// Token returns the stored token for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// SetToken upserts the token for provider.
func (s *Store) SetToken(ctx context.Context, provider, token string) error {
	if !IsSupportedProvider(provider) {
		return fmt.Errorf("unsupported provider %q", provider)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%s token is required", provider)
	}
	raw, err := json.Marshal(map[string]any{"source": "credkey"})
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}

// Resolve prefers the explicit value and falls back to the stored token.
func (s *Store) Resolve(ctx context.Context, provider, explicit string) (string, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, nil
	}
	if s == nil {
		return "", nil
	}
	return s.Token(ctx, provider)
}
