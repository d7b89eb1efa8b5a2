package world

import (
	"errors"
	"fmt"
	"math"
)

// TypeID references a registered block type. The zero value means the slot
// has no type (air).
type TypeID uint32

// NoType is the air type.
const NoType TypeID = 0

func (id TypeID) Valid() bool { return id != NoType }

// Block is one voxel. SubID and Data carry per-instance variation, for
// example a packed 0xRRGGBB tint.
type Block struct {
	Type  TypeID
	SubID uint32
	Data  Payload
}

// Air is the empty block.
var Air = Block{}

// IsAir reports whether the block has no type.
func (b Block) IsAir() bool { return !b.Type.Valid() }

// SameKind reports whether two blocks share type and subid.
func (b Block) SameKind(o Block) bool {
	return b.Type == o.Type && b.SubID == o.SubID
}

// PayloadKind discriminates the value held by a Payload.
type PayloadKind uint8

const (
	PayloadNone PayloadKind = iota
	PayloadInt
	PayloadFloat
	PayloadHandle
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadNone:
		return "none"
	case PayloadInt:
		return "int"
	case PayloadFloat:
		return "float"
	case PayloadHandle:
		return "handle"
	}
	return fmt.Sprintf("PayloadKind(%d)", uint8(k))
}

var ErrPayloadKind = errors.New("payload holds a different kind")

// Payload is a 64-bit block value tagged with its kind. A handle is an
// index into a table owned elsewhere; the block never owns what it points at.
type Payload struct {
	kind PayloadKind
	bits uint64
}

func IntPayload(v int64) Payload       { return Payload{kind: PayloadInt, bits: uint64(v)} }
func FloatPayload(v float64) Payload   { return Payload{kind: PayloadFloat, bits: math.Float64bits(v)} }
func HandlePayload(idx uint64) Payload { return Payload{kind: PayloadHandle, bits: idx} }

func (p Payload) Kind() PayloadKind { return p.kind }

func (p Payload) Int() (int64, error) {
	if p.kind != PayloadInt {
		return 0, fmt.Errorf("%w: want int, have %s", ErrPayloadKind, p.kind)
	}
	return int64(p.bits), nil
}

func (p Payload) Float() (float64, error) {
	if p.kind != PayloadFloat {
		return 0, fmt.Errorf("%w: want float, have %s", ErrPayloadKind, p.kind)
	}
	return math.Float64frombits(p.bits), nil
}

func (p Payload) Handle() (uint64, error) {
	if p.kind != PayloadHandle {
		return 0, fmt.Errorf("%w: want handle, have %s", ErrPayloadKind, p.kind)
	}
	return p.bits, nil
}
