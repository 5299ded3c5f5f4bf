package tack

import (
	"fmt"
	"math"
)

// Kind enumerates the closed set of per-field tack transforms. The original
// boat-log documentation carried these as free-text annotations; modelling
// them as a variant set lets table validation check them exhaustively.
type Kind int

const (
	// KindIdentity leaves the value unchanged on either tack.
	KindIdentity Kind = iota
	// KindNegate replaces the value with its additive inverse on port tack.
	KindNegate
	// KindOffsetWrap replaces the value with (v+offset) mod modulus on port
	// tack. Used for heading-like channels spanning 0-360.
	KindOffsetWrap
	// KindSwapPair exchanges the value with a named partner field on port
	// tack. Used for symmetric port/starboard hull and board channels.
	KindSwapPair
)

func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindNegate:
		return "negate"
	case KindOffsetWrap:
		return "offset_wrap"
	case KindSwapPair:
		return "swap_pair"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Transform is one field's normalization rule. Offset and Modulus apply only
// to KindOffsetWrap, Partner only to KindSwapPair.
type Transform struct {
	Kind    Kind
	Offset  float64
	Modulus float64
	Partner string
}

// Identity returns the no-op transform.
func Identity() Transform {
	return Transform{Kind: KindIdentity}
}

// Negate returns the sign-flip transform.
func Negate() Transform {
	return Transform{Kind: KindNegate}
}

// OffsetWrap returns the modular rotation transform.
func OffsetWrap(offset, modulus float64) Transform {
	return Transform{Kind: KindOffsetWrap, Offset: offset, Modulus: modulus}
}

// Rotate180 is the transform applied to 0-360 heading channels on port tack.
func Rotate180() Transform {
	return OffsetWrap(180, 360)
}

// SwapPair returns the port/starboard exchange transform.
func SwapPair(partner string) Transform {
	return Transform{Kind: KindSwapPair, Partner: partner}
}

// wrap normalizes (v+offset) mod modulus into [0, modulus).
func wrap(v, offset, modulus float64) float64 {
	r := math.Mod(v+offset, modulus)
	if r < 0 {
		r += modulus
	}
	return r
}
