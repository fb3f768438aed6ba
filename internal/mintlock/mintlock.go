// Package mintlock serializes concurrent mints of the same token.
package mintlock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"

	"notemint/internal/infra"
)

// Guard grants short-lived exclusive ownership of a key.
type Guard interface {
	// Acquire returns ok=false when another holder owns key. release must be
	// called once the protected work is done and is safe to call when ok=false.
	Acquire(ctx context.Context, key string) (release func(context.Context), ok bool, err error)
}

// Noop grants every request. It is used when no lock backend is configured.
type Noop struct{}

func (Noop) Acquire(context.Context, string) (func(context.Context), bool, error) {
	return func(context.Context) {}, true, nil
}

// Options configures a Valkey guard.
type Options struct {
	Address  string
	Password string
	TTL      time.Duration
	Prefix   string
	Logger   *infra.Logger
}

// Valkey holds locks as `SET key token NX PX ttl` entries. The TTL bounds how
// long a crashed holder can block other mints.
type Valkey struct {
	client valkey.Client
	ttl    time.Duration
	prefix string
	logger *infra.Logger
}

var releaseScript = valkey.NewLuaScript(`if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`)

// NewValkey connects to the server at opts.Address and verifies it with PING.
func NewValkey(ctx context.Context, opts Options) (*Valkey, error) {
	addr := strings.TrimSpace(opts.Address)
	if addr == "" {
		return nil, errors.New("mintlock: valkey address is required")
	}
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:      []string{addr},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	})
	if err != nil {
		return nil, fmt.Errorf("mintlock: create valkey client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("mintlock: ping valkey: %w", err)
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "notemint:mint:"
	}
	return &Valkey{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		logger: infra.LoggerOrDiscard(opts.Logger),
	}, nil
}

func (v *Valkey) Acquire(ctx context.Context, key string) (func(context.Context), bool, error) {
	noop := func(context.Context) {}
	full := v.prefix + key
	token := uuid.NewString()

	cmd := v.client.B().Set().Key(full).Value(token).Nx().PxMilliseconds(v.ttl.Milliseconds()).Build()
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return noop, false, nil
		}
		return noop, false, fmt.Errorf("mintlock: acquire %s: %w", key, err)
	}

	release := func(ctx context.Context) {
		if err := releaseScript.Exec(ctx, v.client, []string{full}, []string{token}).Error(); err != nil {
			v.logger.Warn().Err(err).Str("key", full).Msg("mintlock: release failed")
		}
	}
	return release, true, nil
}

// Close releases the underlying connection pool.
func (v *Valkey) Close() {
	if v != nil && v.client != nil {
		v.client.Close()
	}
}

var (
	_ Guard = Noop{}
	_ Guard = (*Valkey)(nil)
)
