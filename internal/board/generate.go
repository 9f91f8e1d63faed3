package board

import (
	"math/rand/v2"

	"github.com/robalobadob/netbreach/apps/go-server/internal/flavor"
)

// Generate builds a fresh board.
//
//  1. Starter: uniform in [Size/2-4, Size/2+4), the centre of the grid.
//  2. Firewalls: rejection-sampled, never on or 8-adjacent to the starter.
//  3. Valuables: rejection-sampled, never on a firewall or the starter.
//  4. Everything else gets a cosmetic category: 20% secure, 20% data,
//     20% network, 40% standard.
func Generate(rng *rand.Rand) *Board {
	b := newBoard()

	lo, hi := Size/2-4, Size/2+4
	b.starter = lo + rng.IntN(hi-lo)

	for b.firewall.Size() < FirewallCount {
		i := rng.IntN(Size)
		if i != b.starter && !Near(i, b.starter) {
			b.firewall.Put(i)
		}
	}

	for b.valuable.Size() < ValuableCount {
		i := rng.IntN(Size)
		if !b.firewall.Has(i) && i != b.starter {
			b.valuable.Put(i)
		}
	}

	for i := 0; i < Size; i++ {
		switch {
		case i == b.starter:
			b.kinds[i] = KindStarter
		case b.firewall.Has(i):
			b.kinds[i] = KindFirewall
		case b.valuable.Has(i):
			b.kinds[i] = KindValuable
		default:
			b.kinds[i] = cosmeticKind(rng.Float64())
		}
		b.hosts[i] = flavor.Host(string(b.kinds[i]), rng)
	}
	return b
}

func cosmeticKind(r float64) Kind {
	switch {
	case r < 0.2:
		return KindSecure
	case r < 0.4:
		return KindData
	case r < 0.6:
		return KindNetwork
	default:
		return KindStandard
	}
}
