package assembly

import (
	"encoding/binary"
	"unsafe"

	"github.com/klauspost/cpuid/v2"
)

// patternByte is one position in a FindPattern mask: either a literal
// byte to match or a wildcard.
type patternByte struct {
	value     byte
	wildcard  bool
}

// ParsePattern parses an IDA-style "48 8B ?? ?? 05" pattern string into
// a matchable form. "?" and "??" are both accepted as a one-byte wildcard.
func ParsePattern(pattern string) ([]patternByte, error) {
	var out []patternByte
	tok := make([]byte, 0, 2)
	flush := func() error {
		if len(tok) == 0 {
			return nil
		}
		if tok[0] == '?' {
			out = append(out, patternByte{wildcard: true})
			tok = tok[:0]
			return nil
		}
		var b byte
		if _, err := fmtSscanHex(tok, &b); err != nil {
			return err
		}
		out = append(out, patternByte{value: b})
		tok = tok[:0]
		return nil
	}
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == ' ' || c == '\t' {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		tok = append(tok, c)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

func fmtSscanHex(tok []byte, out *byte) (int, error) {
	var v int
	for _, c := range tok {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= int(c - '0')
		case c >= 'a' && c <= 'f':
			v |= int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= int(c-'A') + 10
		default:
			return 0, errInvalidPatternByte(string(tok))
		}
	}
	*out = byte(v)
	return 1, nil
}

type errInvalidPatternByte string

func (e errInvalidPatternByte) Error() string { return "assembly: invalid pattern byte " + string(e) }

// FindPattern scans data for the first occurrence of an AOB pattern such
// as "48 8B ?? ?? 05", returning the absolute address (base+offset) it
// starts at. The literal (non-wildcard) runs of the match are compared
// eight bytes at a time via encoding/binary when the host CPU advertises
// SSE2, falling back to a byte-by-byte scan otherwise; this is a
// classification-gated word comparison, not a hand-written SIMD kernel
// (Go cannot express intrinsics without assembly files).
func FindPattern(base uintptr, data []byte, pattern string) (uintptr, error) {
	toks, err := ParsePattern(pattern)
	if err != nil {
		return 0, err
	}
	if len(toks) == 0 || len(toks) > len(data) {
		return 0, ErrNotFound
	}

	fastWord := cpuid.CPU.Supports(cpuid.SSE2)

	for i := 0; i+len(toks) <= len(data); i++ {
		if matchAt(data, i, toks, fastWord) {
			return base + uintptr(i), nil
		}
	}
	return 0, ErrNotFound
}

func matchAt(data []byte, offset int, toks []patternByte, fastWord bool) bool {
	j := 0
	for j < len(toks) {
		if toks[j].wildcard {
			j++
			continue
		}
		// literal run [j, k)
		k := j
		for k < len(toks) && !toks[k].wildcard {
			k++
		}
		if !matchLiteralRun(data, offset+j, toks[j:k], fastWord) {
			return false
		}
		j = k
	}
	return true
}

func matchLiteralRun(data []byte, offset int, run []patternByte, fastWord bool) bool {
	n := len(run)
	i := 0
	if fastWord {
		for ; i+8 <= n; i += 8 {
			var want uint64
			for b := 0; b < 8; b++ {
				want |= uint64(run[i+b].value) << (8 * b)
			}
			got := binary.LittleEndian.Uint64(data[offset+i : offset+i+8])
			if got != want {
				return false
			}
		}
	}
	for ; i < n; i++ {
		if data[offset+i] != run[i].value {
			return false
		}
	}
	return true
}

// bytesFromAddr views count bytes starting at addr as a byte slice,
// for scanning a loaded assembly's in-memory sections. The caller is
// responsible for addr/count describing memory that is actually mapped
// and readable for the lifetime of the returned slice's use.
func bytesFromAddr(addr uintptr, count int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), count)
}
