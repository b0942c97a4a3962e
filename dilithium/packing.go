package dilithium

// packPublicKey serializes rho || Encode(t1), FIPS 204's pkEncode.
func (p *ParameterSet) packPublicKey(rho []byte, t1 polyVec) []byte {
	b := make([]byte, p.publicKeySize)
	copy(b[:seedBytes], rho)
	off := seedBytes
	for i := 0; i < p.k; i++ {
		t1[i].packT1(b[off : off+polyT1PackedBytes])
		off += polyT1PackedBytes
	}
	return b
}

func (p *ParameterSet) unpackPublicKey(b []byte) (rho []byte, t1 polyVec) {
	rho = make([]byte, seedBytes)
	copy(rho, b[:seedBytes])
	t1 = newPolyVec(p.k)
	off := seedBytes
	for i := 0; i < p.k; i++ {
		t1[i].unpackT1(b[off : off+polyT1PackedBytes])
		off += polyT1PackedBytes
	}
	return rho, t1
}

// packPrivateKey serializes rho || key || tr || Encode(s1) || Encode(s2) ||
// Encode(t0), FIPS 204's skEncode.
func (p *ParameterSet) packPrivateKey(rho, key, tr []byte, s1, s2, t0 polyVec) []byte {
	b := make([]byte, p.secretKeySize)
	off := 0
	copy(b[off:off+seedBytes], rho)
	off += seedBytes
	copy(b[off:off+seedBytes], key)
	off += seedBytes
	copy(b[off:off+crhBytes], tr)
	off += crhBytes

	for i := 0; i < p.l; i++ {
		s1[i].packEta(b[off:off+p.polyEtaPackedBytes], p.eta)
		off += p.polyEtaPackedBytes
	}
	for i := 0; i < p.k; i++ {
		s2[i].packEta(b[off:off+p.polyEtaPackedBytes], p.eta)
		off += p.polyEtaPackedBytes
	}
	for i := 0; i < p.k; i++ {
		t0[i].packT0(b[off : off+polyT0PackedBytes])
		off += polyT0PackedBytes
	}
	return b
}

func (p *ParameterSet) unpackPrivateKey(b []byte) (rho, key, tr []byte, s1, s2, t0 polyVec) {
	off := 0
	rho = append([]byte(nil), b[off:off+seedBytes]...)
	off += seedBytes
	key = append([]byte(nil), b[off:off+seedBytes]...)
	off += seedBytes
	tr = append([]byte(nil), b[off:off+crhBytes]...)
	off += crhBytes

	s1 = newPolyVec(p.l)
	for i := 0; i < p.l; i++ {
		s1[i].unpackEta(b[off:off+p.polyEtaPackedBytes], p.eta)
		off += p.polyEtaPackedBytes
	}
	s2 = newPolyVec(p.k)
	for i := 0; i < p.k; i++ {
		s2[i].unpackEta(b[off:off+p.polyEtaPackedBytes], p.eta)
		off += p.polyEtaPackedBytes
	}
	t0 = newPolyVec(p.k)
	for i := 0; i < p.k; i++ {
		t0[i].unpackT0(b[off : off+polyT0PackedBytes])
		off += polyT0PackedBytes
	}
	return rho, key, tr, s1, s2, t0
}

// packSignature serializes c~ || Encode(z) || Encode(h), FIPS 204's sigEncode.
func (p *ParameterSet) packSignature(cTilde []byte, z polyVec, h polyVec) []byte {
	b := make([]byte, p.signatureSize)
	off := 0
	copy(b[off:off+p.cTildeBytes], cTilde)
	off += p.cTildeBytes

	for i := 0; i < p.l; i++ {
		z[i].packZ(b[off:off+p.polyZPackedBytes], p.gamma1)
		off += p.polyZPackedBytes
	}

	// Hint packing, FIPS 204 Algorithm 20: list nonzero coefficient
	// indices per row, strictly increasing, with cumulative counts in the
	// last K bytes.
	hintOff := off
	k := 0
	for i := 0; i < p.k; i++ {
		for j := 0; j < n; j++ {
			if h[i].coeffs[j] != 0 {
				b[hintOff+k] = byte(j)
				k++
			}
		}
		b[hintOff+p.omega+i] = byte(k)
	}
	for ; k < p.omega; k++ {
		b[hintOff+k] = 0
	}

	return b
}

// unpackSignature deserializes a signature; ok is false if the hint
// encoding is malformed (non-increasing indices, out-of-range counters).
func (p *ParameterSet) unpackSignature(b []byte) (cTilde []byte, z polyVec, h polyVec, ok bool) {
	if len(b) != p.signatureSize {
		return nil, nil, nil, false
	}

	off := 0
	cTilde = append([]byte(nil), b[off:off+p.cTildeBytes]...)
	off += p.cTildeBytes

	z = newPolyVec(p.l)
	for i := 0; i < p.l; i++ {
		z[i].unpackZ(b[off:off+p.polyZPackedBytes], p.gamma1)
		off += p.polyZPackedBytes
	}

	h = newPolyVec(p.k)
	hintBytes := b[off:]
	kPos := 0
	for i := 0; i < p.k; i++ {
		count := int(hintBytes[p.omega+i])
		if count < kPos || count > p.omega {
			return nil, nil, nil, false
		}
		for j := kPos; j < count; j++ {
			if j > kPos && hintBytes[j] <= hintBytes[j-1] {
				return nil, nil, nil, false
			}
			h[i].coeffs[hintBytes[j]] = 1
		}
		kPos = count
	}
	for j := kPos; j < p.omega; j++ {
		if hintBytes[j] != 0 {
			return nil, nil, nil, false
		}
	}

	return cTilde, z, h, true
}
