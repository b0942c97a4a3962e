package drbg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCTRDRBGDeterministic(t *testing.T) {
	require := require.New(t)

	seed := make([]byte, ctrDRBGSeedLen)
	for i := range seed {
		seed[i] = byte(i)
	}

	d1, err := NewCTRDRBG(seed)
	require.NoError(err)
	d2, err := NewCTRDRBG(seed)
	require.NoError(err)

	out1 := make([]byte, 256)
	out2 := make([]byte, 256)
	d1.Generate(out1)
	d2.Generate(out2)
	require.Equal(out1, out2, "CTR_DRBG must reproduce the same output stream for the same seed")

	out1b := make([]byte, 256)
	d1.Generate(out1b)
	require.NotEqual(out1, out1b, "successive Generate calls on one instance must not repeat")
}

func TestCTRDRBGDistinctSeeds(t *testing.T) {
	require := require.New(t)

	seedA := make([]byte, ctrDRBGSeedLen)
	seedB := make([]byte, ctrDRBGSeedLen)
	seedB[0] = 1

	dA, err := NewCTRDRBG(seedA)
	require.NoError(err)
	dB, err := NewCTRDRBG(seedB)
	require.NoError(err)

	outA := make([]byte, 64)
	outB := make([]byte, 64)
	dA.Generate(outA)
	dB.Generate(outB)
	require.NotEqual(outA, outB)
}

func TestCSGGenerateDeterministic(t *testing.T) {
	require := require.New(t)

	g1 := NewCSG(bytes.NewReader(make([]byte, 64)))
	g1.Init([]byte("seed-a"), []byte("test"), false)
	out1 := make([]byte, 64)
	require.NoError(g1.Generate(out1))

	g2 := NewCSG(bytes.NewReader(make([]byte, 64)))
	g2.Init([]byte("seed-a"), []byte("test"), false)
	out2 := make([]byte, 64)
	require.NoError(g2.Generate(out2))
	require.Equal(out1, out2, "CSG must be deterministic given the same seed and info")

	g3 := NewCSG(bytes.NewReader(make([]byte, 64)))
	g3.Init([]byte("seed-b"), []byte("test"), false)
	out3 := make([]byte, 64)
	require.NoError(g3.Generate(out3))
	require.NotEqual(out1, out3)
}

func TestHCGGenerateDeterministic(t *testing.T) {
	require := require.New(t)

	g1 := NewHCG(bytes.NewReader(make([]byte, 64)))
	g1.Init([]byte("seed-a"), []byte("test"), false)
	out1 := make([]byte, 64)
	require.NoError(g1.Generate(out1))

	g2 := NewHCG(bytes.NewReader(make([]byte, 64)))
	g2.Init([]byte("seed-a"), []byte("test"), false)
	out2 := make([]byte, 64)
	require.NoError(g2.Generate(out2))
	require.Equal(out1, out2, "HCG must be deterministic given the same seed and info")
}

func TestOSEntropyRead(t *testing.T) {
	require := require.New(t)

	e := NewOSEntropy()
	buf := make([]byte, 32)
	n, err := e.Read(buf)
	require.NoError(err)
	require.Equal(32, n)

	// Both must be callable without panicking regardless of the host CPU;
	// this process never emits the RDRAND opcode itself.
	_ = e.RDRANDAvailable()
	_ = HasRDRAND()
}

func TestSeededReader(t *testing.T) {
	require := require.New(t)

	r, err := Seeded(bytes.NewReader(bytes.Repeat([]byte{0x42}, 64)), []byte("test"))
	require.NoError(err)
	out := make([]byte, 16)
	n, err := r.Read(out)
	require.NoError(err)
	require.Equal(16, n)

	hr, err := SeededHCG(bytes.NewReader(bytes.Repeat([]byte{0x24}, 64)), []byte("test"))
	require.NoError(err)
	out2 := make([]byte, 16)
	n, err = hr.Read(out2)
	require.NoError(err)
	require.Equal(16, n)
}
