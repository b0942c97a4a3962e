package mceliece

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

const nTests = 2

var allParams = []*ParameterSet{
	Mceliece348864,
	Mceliece460896,
	Mceliece6688128,
	Mceliece6960119,
	Mceliece8192128,
}

func TestKEM(t *testing.T) {
	for _, p := range allParams {
		t.Run(p.Name()+"_RoundTrip", func(t *testing.T) { doTestRoundTrip(t, p) })
		t.Run(p.Name()+"_TamperedCiphertext", func(t *testing.T) { doTestTamperedCiphertext(t, p) })
		t.Run(p.Name()+"_KeySerialization", func(t *testing.T) { doTestKeySerialization(t, p) })
	}
}

func doTestRoundTrip(t *testing.T, p *ParameterSet) {
	require := require.New(t)

	t.Logf("PublicKeySize(): %v", p.PublicKeySize())
	t.Logf("PrivateKeySize(): %v", p.PrivateKeySize())
	t.Logf("CiphertextSize(): %v", p.CiphertextSize())

	for i := 0; i < nTests; i++ {
		pk, sk, err := p.GenerateKeyPair(rand.Reader)
		require.NoError(err, "GenerateKeyPair()")

		ct, ss, err := pk.Encapsulate(rand.Reader)
		require.NoError(err, "Encapsulate()")
		require.Len(ct, p.CiphertextSize(), "Encapsulate(): ct length")
		require.Len(ss, p.SharedSecretSize(), "Encapsulate(): ss length")

		ss2, err := sk.Decapsulate(ct)
		require.NoError(err, "Decapsulate()")
		require.Equal(ss, ss2, "Decapsulate(): ss")
	}
}

func doTestTamperedCiphertext(t *testing.T, p *ParameterSet) {
	require := require.New(t)

	pk, sk, err := p.GenerateKeyPair(rand.Reader)
	require.NoError(err, "GenerateKeyPair()")

	ct, ss, err := pk.Encapsulate(rand.Reader)
	require.NoError(err, "Encapsulate()")

	ct[len(ct)-1] ^= 1

	ss2, err := sk.Decapsulate(ct)
	require.Error(err, "Decapsulate() must reject a tampered ciphertext")
	require.True(IsAuthFailure(err))
	require.NotEqual(ss, ss2, "Decapsulate(): implicit-rejection secret")
	require.Len(ss2, p.SharedSecretSize(), "Decapsulate(): implicit-rejection secret length")
}

func doTestKeySerialization(t *testing.T, p *ParameterSet) {
	require := require.New(t)

	pk, sk, err := p.GenerateKeyPair(rand.Reader)
	require.NoError(err, "GenerateKeyPair()")

	skb := sk.Bytes()
	require.Len(skb, p.PrivateKeySize())
	sk2, err := p.PrivateKeyFromBytes(skb)
	require.NoError(err, "PrivateKeyFromBytes()")
	require.Equal(sk.PublicKey.Bytes(), sk2.PublicKey.Bytes(), "regenerated public key")

	pkb := pk.Bytes()
	require.Len(pkb, p.PublicKeySize())
	pk2, err := p.PublicKeyFromBytes(pkb)
	require.NoError(err, "PublicKeyFromBytes()")
	require.Equal(pkb, pk2.Bytes())

	ct, ss, err := pk.Encapsulate(rand.Reader)
	require.NoError(err, "Encapsulate()")
	ss2, err := sk2.Decapsulate(ct)
	require.NoError(err, "Decapsulate() with round-tripped private key")
	require.Equal(ss, ss2)

	_, err = p.PrivateKeyFromBytes(skb[:len(skb)-1])
	require.Error(err, "PrivateKeyFromBytes() must reject a short buffer")
}
