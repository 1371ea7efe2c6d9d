// Package perft implements the leaf-counting performance test used to
// validate move generation: perft(position, depth) counts the number of
// legal positions reachable in exactly depth plies.
package perft

import "math/big"

// Count is a 128-bit unsigned leaf count. The initial position's depth-6
// perft (119,060,324) fits comfortably in a uint64, but deeper perft runs
// on dense positions can exceed it, so the two counting halves are kept
// separate rather than risking silent wraparound.
type Count struct {
	Hi, Lo uint64
}

// Add returns c + n.
func (c Count) Add(n uint64) Count {
	lo := c.Lo + n
	hi := c.Hi
	if lo < c.Lo {
		hi++
	}
	return Count{Hi: hi, Lo: lo}
}

// Plus returns c + other.
func (c Count) Plus(other Count) Count {
	lo := c.Lo + other.Lo
	hi := c.Hi + other.Hi
	if lo < c.Lo {
		hi++
	}
	return Count{Hi: hi, Lo: lo}
}

// Uint64 returns the low 64 bits; safe whenever Hi is zero, which covers
// every perft scenario this engine is tested against.
func (c Count) Uint64() uint64 { return c.Lo }

// String renders c in decimal, for diagnostics and UCI "perft" output.
func (c Count) String() string {
	v := new(big.Int).Lsh(new(big.Int).SetUint64(c.Hi), 64)
	v.Add(v, new(big.Int).SetUint64(c.Lo))
	return v.String()
}
