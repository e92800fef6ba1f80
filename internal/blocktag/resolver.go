// Package blocktag resolves the Ethereum "default block parameter" --
// null, "latest", "pending", "earliest", or a decimal/hex block number --
// into a concrete block number (spec §4.2). A 32-byte block hash is not
// resolved here; IsHash lets callers recognize one and pass it to the
// mirror as is.
package blocktag

import (
	"context"

	"github.com/relaymesh/eth-relay/internal/domain"
	"github.com/relaymesh/eth-relay/internal/hexcodec"
	"github.com/relaymesh/eth-relay/internal/ports"
	"github.com/relaymesh/eth-relay/internal/relayerrors"
)

const (
	TagLatest   = "latest"
	TagPending  = "pending"
	TagEarliest = "earliest"
)

// Resolver resolves block selectors against the mirror's notion of the
// chain head.
type Resolver struct {
	Mirror ports.MirrorPort
}

func New(mirror ports.MirrorPort) *Resolver {
	return &Resolver{Mirror: mirror}
}

// Resolve maps a selector to a concrete block number. A nil or empty
// selector and the "latest"/"pending" tags resolve to the mirror's current head;
// "pending" is aliased to "latest" since the underlying ledger has no
// visible pending pool. "earliest" resolves to 0. Any other value is
// parsed as a decimal or 0x-prefixed hex integer.
func (r *Resolver) Resolve(ctx context.Context, selector *string, requestID string) (int64, *domain.RPCError) {
	if selector == nil {
		return r.latest(ctx, requestID)
	}

	switch *selector {
	case TagLatest, TagPending, "":
		return r.latest(ctx, requestID)
	case TagEarliest:
		return 0, nil
	}

	n, err := hexcodec.DecOrHexToInt(*selector)
	if err != nil {
		return 0, relayerrors.Internal("failed to parse block selector: " + err.Error())
	}
	return n, nil
}

func (r *Resolver) latest(ctx context.Context, requestID string) (int64, *domain.RPCError) {
	block, err := r.Mirror.GetLatestBlock(ctx, requestID)
	if err != nil || block == nil {
		return 0, relayerrors.Internal("failed to resolve latest block")
	}
	return block.Number, nil
}

// IsHash reports whether a selector is a 32-byte block hash rather than a
// tag or a number: exactly 66 characters, 0x-prefixed.
func IsHash(selector string) bool {
	if len(selector) != domain.HashHexLength {
		return false
	}
	return selector[0] == '0' && (selector[1] == 'x' || selector[1] == 'X')
}
