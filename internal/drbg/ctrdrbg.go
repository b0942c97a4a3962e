package drbg

import (
	"crypto/aes"
	"crypto/cipher"
)

// CTRDRBG is the NIST SP 800-90A AES-256 CTR_DRBG without a derivation
// function, seeded from a 48-byte seed (32-byte key || 16-byte V), matching
// the construction the NIST known-answer-test generators for Kyber,
// McEliece, and Dilithium use to produce their request files. It exists
// purely to let the test suite reproduce that byte stream deterministically;
// production key generation goes through OSEntropy/CSG/HCG instead.
//
// Built on crypto/aes and crypto/cipher (standard library): no third-party
// package available implements CTR_DRBG, and hand-rolling a vendored stub
// behind a replace directive would be worse than using the stdlib directly.
type CTRDRBG struct {
	block cipher.Block
	v     [aes.BlockSize]byte
}

const ctrDRBGSeedLen = 48 // 32-byte key + 16-byte V, per SP 800-90A AES-256.

// NewCTRDRBG seeds a CTR_DRBG instance from a 48-byte seed material.
func NewCTRDRBG(seed []byte) (*CTRDRBG, error) {
	d := &CTRDRBG{}
	key := make([]byte, 32)
	if err := d.init(seed, key); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *CTRDRBG) init(seed, key []byte) error {
	var padded [ctrDRBGSeedLen]byte
	copy(padded[:], seed)

	block, err := aes.NewCipher(key) // all-zero key for the initial update, per CTR_DRBG
	if err != nil {
		return err
	}
	d.block = block
	d.update(padded[:])
	return nil
}

// update runs the CTR_DRBG update function over providedData (which must be
// exactly ctrDRBGSeedLen bytes), refreshing (key, V).
func (d *CTRDRBG) update(providedData []byte) {
	var temp [ctrDRBGSeedLen]byte
	for off := 0; off < ctrDRBGSeedLen; off += aes.BlockSize {
		incrementCounter(&d.v)
		d.block.Encrypt(temp[off:off+aes.BlockSize], d.v[:])
	}
	for i := range temp {
		temp[i] ^= providedData[i]
	}

	newBlock, err := aes.NewCipher(temp[:32])
	if err != nil {
		panic("drbg: CTR_DRBG AES-256 key setup failed: " + err.Error())
	}
	d.block = newBlock
	copy(d.v[:], temp[32:48])
}

// Generate produces len(out) bytes of CTR_DRBG output and reseeds (key, V)
// via an all-zero update, matching the "no additional input" NIST KAT path.
func (d *CTRDRBG) Generate(out []byte) {
	var block [aes.BlockSize]byte
	for off := 0; off < len(out); off += aes.BlockSize {
		incrementCounter(&d.v)
		d.block.Encrypt(block[:], d.v[:])
		copy(out[off:], block[:])
	}

	var zero [ctrDRBGSeedLen]byte
	d.update(zero[:])
}

func incrementCounter(v *[aes.BlockSize]byte) {
	for i := len(v) - 1; i >= 0; i-- {
		v[i]++
		if v[i] != 0 {
			return
		}
	}
}
