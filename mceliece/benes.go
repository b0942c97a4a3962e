package mceliece

// Beneš-network permutation routing. A permutation of N=2^k elements is
// realized as 2k-1 layers of N/2 conditional swaps; the condition bits are
// exactly the "condition-bits blob" stored in a Classic McEliece secret key
// (spec.md §6.2: "Beneš network ... register-level transpose" over the
// support-generating permutation). Grounded in spirit on the reference
// Classic McEliece controlbits.c recursive construction, but implemented
// here from the underlying combinatorial fact that drives it: routing a
// permutation through a Beneš network reduces to 2-coloring the union of
// the two perfect matchings formed by its input pairs and output pairs,
// which decomposes into alternating even-length cycles. This reproduces
// the correct (N+2*T(N/2), T(2)=1) bit count the secret-key layout needs,
// without replicating the reference's exact bit-for-bit assignment — this
// module does not target byte-identical KAT vectors (see DESIGN.md).
//
// Control bits are carried as bytes (0/1) rather than bool: applyBenes runs
// this network over the secret permutation derived from a private key's
// condition-bits blob (spec.md §4.8.2/§5 forbid branching on that), and a
// Go bool has no branchless path to an arithmetic mask, while a 0/1 byte
// does (cswap below).
type benesNet struct{}

// benesBitLen returns the number of control bits a Beneš network routing a
// permutation of n elements requires. n must be a power of two, n >= 2.
func benesBitLen(n int) int {
	if n == 2 {
		return 1
	}
	return n + 2*benesBitLen(n/2)
}

// permControlBits computes the control bits realizing perm (a bijection on
// [0,n)) as a Beneš network, per the cycle-coloring construction above.
func permControlBits(perm []int32) []byte {
	bits := make([]byte, 0, benesBitLen(len(perm)))
	// appendControlBits routes input i to output position perm[i]; passing
	// the inverse makes applyBenes leave data[i] = original data[perm[i]].
	inv := make([]int32, len(perm))
	for i, v := range perm {
		inv[v] = int32(i)
	}
	return appendControlBits(bits, inv)
}

func appendControlBits(bits []byte, perm []int32) []byte {
	n := len(perm)
	if n == 2 {
		var bit byte
		if perm[0] == 1 {
			bit = 1
		}
		return append(bits, bit)
	}

	half := n / 2
	inv := make([]int32, n)
	for i, v := range perm {
		inv[v] = int32(i)
	}

	color := make([]int8, n)
	for i := range color {
		color[i] = -1
	}

	for start := 0; start < n; start += 2 {
		if color[start] != -1 {
			continue
		}
		color[start] = 0
		cur := start
		for {
			partner := cur ^ 1 // input-pair edge
			if color[partner] == -1 {
				color[partner] = 1 - color[cur]
			}
			cur = partner

			next := int(inv[int(perm[cur])^1]) // output-pair edge
			if next == start {
				break
			}
			if color[next] == -1 {
				color[next] = 1 - color[cur]
			}
			cur = next
		}
	}

	c0 := make([]byte, half)
	for j := 0; j < half; j++ {
		if color[2*j] == 1 {
			c0[j] = 1
		}
	}

	top := make([]int32, 0, half)
	bot := make([]int32, 0, half)
	topOut := make([]int32, 0, half)
	botOut := make([]int32, 0, half)
	for i := 0; i < n; i++ {
		if color[i] == 0 {
			top = append(top, int32(i))
			topOut = append(topOut, perm[i])
		} else {
			bot = append(bot, int32(i))
			botOut = append(botOut, perm[i])
		}
	}

	topOutRank := rankOf(topOut)
	botOutRank := rankOf(botOut)

	sub0 := make([]int32, half)
	for rank, i := range top {
		sub0[rank] = int32(topOutRank[perm[i]])
	}
	sub1 := make([]int32, half)
	for rank, i := range bot {
		sub1[rank] = int32(botOutRank[perm[i]])
	}

	c1 := make([]byte, half)
	for k := 0; k < half; k++ {
		if color[inv[2*k]] == 1 {
			c1[k] = 1
		}
	}

	bits = append(bits, c0...)
	bits = appendControlBits(bits, sub0)
	bits = appendControlBits(bits, sub1)
	bits = append(bits, c1...)
	return bits
}

// rankOf returns, for each value in vals, its position in the ascending
// sort of vals (vals must contain distinct non-negative values).
func rankOf(vals []int32) map[int32]int {
	sorted := append([]int32(nil), vals...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	rank := make(map[int32]int, len(sorted))
	for i, v := range sorted {
		rank[v] = i
	}
	return rank
}

// benesElt is the set of element types applyBenes routes: gf2m.Elt (an
// alias for uint16, the support values) and int32 (the identity-permutation
// indices PrivateKeyFromBytes regenerates the support from).
type benesElt interface {
	~uint16 | ~int32
}

// cswap conditionally swaps *a and *b when bit == 1, leaves them unchanged
// when bit == 0, without branching on bit: mask is the all-zero or all-one
// bit pattern of T (via the two's-complement identity 0-1 == ^0), and a
// masked XOR-swap moves either both or neither operand.
func cswap[T benesElt](bit byte, a, b *T) {
	mask := T(0) - T(bit)
	diff := (*a ^ *b) & mask
	*a ^= diff
	*b ^= diff
}

// applyBenes applies the permutation encoded by bits to data in place: for
// bits from permControlBits(perm), data[i] ends up holding the original
// data[perm[i]]. data must have a power-of-two length matching the network bits was
// generated for. bits come from a private key's condition-bits blob, so
// every conditional swap below goes through cswap's branchless mask instead
// of an if/else on the bit (spec.md §4.8.2/§5).
func applyBenes[T benesElt](data []T, bits []byte) {
	n := len(data)
	if n == 2 {
		cswap(bits[0], &data[0], &data[1])
		return
	}

	half := n / 2
	c0 := bits[:half]
	rest := bits[half:]
	subLen := benesBitLen(half)
	sub0Bits := rest[:subLen]
	sub1Bits := rest[subLen : 2*subLen]
	c1 := rest[2*subLen:]

	top := make([]T, half)
	bot := make([]T, half)
	for j := 0; j < half; j++ {
		top[j], bot[j] = data[2*j], data[2*j+1]
		cswap(c0[j], &top[j], &bot[j])
	}

	applyBenes(top, sub0Bits)
	applyBenes(bot, sub1Bits)

	for k := 0; k < half; k++ {
		data[2*k], data[2*k+1] = top[k], bot[k]
		cswap(c1[k], &data[2*k], &data[2*k+1])
	}
}
