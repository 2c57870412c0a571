package models

import (
	"math/rand"

	"github.com/taigrr/bspshade/pkg/bsp"
)

// DefaultSeed is the shuffle seed used when the caller has no preference.
const DefaultSeed = 1

// Shuffle permutes tris in place with a generator seeded by seed. BSP trees
// built from spatially sorted input tend to degenerate into long chains, so
// callers shuffle before bsp.Build. The same seed always gives the same
// order, and with it the same tree.
func Shuffle(tris []bsp.Triangle, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(tris), func(i, j int) {
		tris[i], tris[j] = tris[j], tris[i]
	})
}
