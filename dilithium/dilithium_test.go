package dilithium

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

const nTests = 10

var allParams = []*ParameterSet{
	MLDSA44,
	MLDSA65,
	MLDSA87,
}

func TestSignVerify(t *testing.T) {
	for _, p := range allParams {
		t.Run(p.Name()+"_RoundTrip", func(t *testing.T) { doTestRoundTrip(t, p) })
		t.Run(p.Name()+"_Deterministic", func(t *testing.T) { doTestDeterministic(t, p) })
		t.Run(p.Name()+"_TamperedSignature", func(t *testing.T) { doTestTamperedSignature(t, p) })
		t.Run(p.Name()+"_TamperedKey", func(t *testing.T) { doTestTamperedKey(t, p) })
		t.Run(p.Name()+"_KeySerialization", func(t *testing.T) { doTestKeySerialization(t, p) })
		t.Run(p.Name()+"_ContextTooLong", func(t *testing.T) { doTestContextTooLong(t, p) })
	}
}

func doTestRoundTrip(t *testing.T, p *ParameterSet) {
	require := require.New(t)

	t.Logf("PublicKeySize(): %v", p.PublicKeySize())
	t.Logf("PrivateKeySize(): %v", p.PrivateKeySize())
	t.Logf("SignatureSize(): %v", p.SignatureSize())

	for i := 0; i < nTests; i++ {
		pk, sk, err := p.GenerateKeyPair(rand.Reader)
		require.NoError(err, "GenerateKeyPair()")

		msg := []byte("the quick brown fox jumps over the lazy dog")
		ctx := []byte("test-context")

		sig, err := sk.Sign(rand.Reader, msg, ctx)
		require.NoError(err, "Sign()")
		require.Len(sig, p.SignatureSize(), "Sign(): sig length")

		require.True(pk.Verify(msg, sig, ctx), "Verify() on honest signature")
	}
}

func doTestDeterministic(t *testing.T, p *ParameterSet) {
	require := require.New(t)

	pk, sk, err := p.GenerateKeyPair(rand.Reader)
	require.NoError(err, "GenerateKeyPair()")

	msg := []byte("deterministic signing message")
	sig1, err := sk.SignDeterministic(msg, nil)
	require.NoError(err, "SignDeterministic()")
	sig2, err := sk.SignDeterministic(msg, nil)
	require.NoError(err, "SignDeterministic()")

	require.Equal(sig1, sig2, "SignDeterministic() must be repeatable")
	require.True(pk.Verify(msg, sig1, nil), "Verify() on deterministic signature")
}

func doTestTamperedSignature(t *testing.T, p *ParameterSet) {
	require := require.New(t)

	for i := 0; i < nTests; i++ {
		pk, sk, err := p.GenerateKeyPair(rand.Reader)
		require.NoError(err, "GenerateKeyPair()")

		msg := []byte("message to sign")
		sig, err := sk.Sign(rand.Reader, msg, nil)
		require.NoError(err, "Sign()")

		sig[32] ^= 1
		require.False(pk.Verify(msg, sig, nil), "Verify() must reject a flipped signature bit")
	}
}

func doTestTamperedKey(t *testing.T, p *ParameterSet) {
	require := require.New(t)

	pk, sk, err := p.GenerateKeyPair(rand.Reader)
	require.NoError(err, "GenerateKeyPair()")

	msg := []byte("message to sign")
	sig, err := sk.Sign(rand.Reader, msg, nil)
	require.NoError(err, "Sign()")
	require.True(pk.Verify(msg, sig, nil))

	b := pk.Bytes()
	b[0] ^= 1
	pk2, err := p.PublicKeyFromBytes(b)
	require.NoError(err, "PublicKeyFromBytes()")

	require.False(pk2.Verify(msg, sig, nil), "Verify() must reject under a tampered public key")
}

func doTestKeySerialization(t *testing.T, p *ParameterSet) {
	require := require.New(t)

	_, sk, err := p.GenerateKeyPair(rand.Reader)
	require.NoError(err, "GenerateKeyPair()")

	skb := sk.Bytes()
	require.Len(skb, p.PrivateKeySize())
	sk2, err := p.PrivateKeyFromBytes(skb)
	require.NoError(err, "PrivateKeyFromBytes()")
	require.Equal(skb, sk2.Bytes())

	pkb := sk.PublicKey.Bytes()
	require.Len(pkb, p.PublicKeySize())
	pk2, err := p.PublicKeyFromBytes(pkb)
	require.NoError(err, "PublicKeyFromBytes()")
	require.Equal(pkb, pk2.Bytes())

	_, err = p.PrivateKeyFromBytes(skb[:len(skb)-1])
	require.Error(err, "PrivateKeyFromBytes() must reject a short buffer")
}

func doTestContextTooLong(t *testing.T, p *ParameterSet) {
	require := require.New(t)

	_, sk, err := p.GenerateKeyPair(rand.Reader)
	require.NoError(err, "GenerateKeyPair()")

	ctx := make([]byte, 256)
	_, err = sk.Sign(rand.Reader, []byte("msg"), ctx)
	require.Error(err, "Sign() must reject an oversized context string")
}
