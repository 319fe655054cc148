package chain

import (
	"context"
	"time"

	"github.com/xssnick/tonutils-go/address"

	"github.com/yndnr/nftsnap/internal/core/domain"
)

// Observer receives the duration and outcome of every network call.
type Observer interface {
	ObserveGetMethod(method string, d time.Duration, err error)
}

// Method label used for last-block lookups.
const lastBlockMethod = "last_block"

type instrumented struct {
	next Client
	obs  Observer
}

// Instrument wraps c so every call is reported to obs.
func Instrument(c Client, obs Observer) Client {
	if obs == nil {
		return c
	}
	return &instrumented{next: c, obs: obs}
}

func (i *instrumented) LastBlock(ctx context.Context) (*domain.BlockShort, error) {
	start := time.Now()
	b, err := i.next.LastBlock(ctx)
	i.obs.ObserveGetMethod(lastBlockMethod, time.Since(start), err)
	return b, err
}

func (i *instrumented) RunGetMethod(ctx context.Context, addr *address.Address, method string, args ...any) (Stack, error) {
	start := time.Now()
	s, err := i.next.RunGetMethod(ctx, addr, method, args...)
	i.obs.ObserveGetMethod(method, time.Since(start), err)
	return s, err
}
