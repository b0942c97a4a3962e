package kyber

import "github.com/QRCS-CORP/QSC-sub003/internal/ct"

// Centered binomial distribution sampler, FIPS 203 Algorithm 8
// (SamplePolyCBD). Every ML-KEM parameter set only ever needs eta in {2,3}
// (the round-2 source this package grew from also handled eta 4 and 5, for
// the Q=7681 variant's wider noise — those parameter sets no longer exist
// under FIPS 203, so the eta=4/5 branches are gone along with Q=7681).
func (p *poly) cbd(buf []byte, eta int) {
	switch eta {
	case 2:
		cbd2(p, buf)
	case 3:
		cbd3(p, buf)
	default:
		panic("kyber: eta must be 2 or 3")
	}
}

func cbd2(p *poly, buf []byte) {
	for i := 0; i < n/8; i++ {
		t := uint32(ct.LoadLittleEndian(buf[4*i:], 4))
		d := t & 0x55555555
		d += (t >> 1) & 0x55555555

		for j := 0; j < 8; j++ {
			a := (d >> uint(4*j+0)) & 0x3
			b := (d >> uint(4*j+2)) & 0x3
			p.coeffs[8*i+j] = uint16(a + q - b)
		}
	}
}

func cbd3(p *poly, buf []byte) {
	for i := 0; i < n/4; i++ {
		t := uint32(ct.LoadLittleEndian(buf[3*i:], 3))
		d := t & 0x00249249
		d += (t >> 1) & 0x00249249
		d += (t >> 2) & 0x00249249

		for j := 0; j < 4; j++ {
			a := (d >> uint(6*j+0)) & 0x7
			b := (d >> uint(6*j+3)) & 0x7
			p.coeffs[4*i+j] = uint16(a + q - b)
		}
	}
}
