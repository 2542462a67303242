package generator

import (
	"math/big"
	"unicode/utf8"

	"github.com/regginator/omniwordlist/charset"
	"github.com/regginator/omniwordlist/config"
)

// Estimate sizes a run before it starts. Total and Bytes ignore bounds,
// duplicate suppression, dedupe and filters, so they are upper bounds.
// Bytes is the uncompressed plain-text size and is nil when unknown.
type Estimate struct {
	Source    string
	Charset   charset.Charset
	Mode      Mode
	MinLength int
	MaxLength int
	Total     *big.Int
	Bytes     *big.Int
}

// EstimateConfig builds the source cfg selects and sizes it.
func EstimateConfig(cfg config.Config) (Estimate, error) {
	source, err := NewSource(cfg)
	if err != nil {
		return Estimate{}, err
	}
	est := Estimate{Source: source.Name(), MinLength: cfg.MinLength, MaxLength: cfg.MaxLength}
	affix := big.NewInt(int64(len(cfg.Prefix) + len(cfg.Suffix) + 1))

	switch s := source.(type) {
	case *charsetSource:
		est.Charset = s.cs
		est.Mode = s.mode
		est.Total = s.CountBig()
		est.Bytes = charsetBytes(s)
	case *fieldsSource:
		est.Total, est.Bytes = fieldsEstimate(s)
	default:
		n, err := source.Count()
		if err != nil {
			return Estimate{}, err
		}
		est.Total = new(big.Int).SetUint64(n)
		return est, nil
	}
	est.Bytes.Add(est.Bytes, new(big.Int).Mul(est.Total, affix))
	return est, nil
}

// charsetBytes sums the encoded size of every token. Over all tokens of
// one length each character fills each position equally often, so the
// total is L * (count / k) * (bytes of the charset).
func charsetBytes(s *charsetSource) *big.Int {
	k := int64(len(s.cs))
	var width int64
	for _, r := range s.cs {
		width += int64(utf8.RuneLen(r))
	}

	total := new(big.Int)
	for length := s.minLen; length <= s.maxLen; length++ {
		n := CountBig(len(s.cs), length, s.mode)
		n.Mul(n, big.NewInt(int64(length)*width))
		n.Quo(n, big.NewInt(k))
		total.Add(total, n)
	}
	return total
}

// fieldsEstimate returns the exact product size and, per field, the
// bytes of its examples times the number of combinations of the others.
func fieldsEstimate(s *fieldsSource) (count, bytes *big.Int) {
	count, bytes = new(big.Int), new(big.Int)
	if len(s.fs) == 0 {
		return count, bytes
	}
	product := big.NewInt(1)
	for _, f := range s.fs {
		product.Mul(product, big.NewInt(int64(len(f.Examples))))
	}
	if product.Sign() == 0 {
		return count, bytes
	}
	for _, f := range s.fs {
		var width int64
		for _, ex := range f.Examples {
			width += int64(len(ex))
		}
		n := new(big.Int).Quo(product, big.NewInt(int64(len(f.Examples))))
		n.Mul(n, big.NewInt(width))
		bytes.Add(bytes, n)
	}
	return product, bytes
}
