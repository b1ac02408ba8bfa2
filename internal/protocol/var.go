package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind is the wire type tag carried by every var. These six kinds cover
// everything the universe protocol ever puts on the wire; a tag outside
// this set fails decoding with ErrUnknownType rather than being preserved
// -- unlike an unrecognized var *id*, which round-trips fine, the codec
// has no way to know how many payload bytes an unrecognized *type* tag
// occupies beyond guessing at a length prefix it may not have.
type Kind uint8

const (
	KindByte Kind = iota + 1
	KindInt
	KindUint
	KindFloat
	KindString
	KindData
)

// Var is one tagged field inside a Packet: a var id, a type tag, and a
// payload whose shape depends on the tag. String and Data payloads are
// length-prefixed with a big-endian uint16; Byte/Int/Uint/Float are fixed
// width. A var whose id this build doesn't recognize still decodes
// normally -- only the id is opaque to the typed accessors, not the tag.
type Var struct {
	ID     VarID
	Kind   Kind
	Byte   uint8
	Int    int32
	Uint   uint32
	Float  float32
	String string
	Data   []byte
}

func ByteVar(id VarID, v uint8) Var     { return Var{ID: id, Kind: KindByte, Byte: v} }
func IntVar(id VarID, v int32) Var      { return Var{ID: id, Kind: KindInt, Int: v} }
func UintVar(id VarID, v uint32) Var    { return Var{ID: id, Kind: KindUint, Uint: v} }
func FloatVar(id VarID, v float32) Var  { return Var{ID: id, Kind: KindFloat, Float: v} }
func StringVar(id VarID, v string) Var  { return Var{ID: id, Kind: KindString, String: v} }
func DataVar(id VarID, v []byte) Var    { return Var{ID: id, Kind: KindData, Data: v} }

// tagFor maps a Kind to its one-byte wire tag. These values are this
// implementation's own stable assignment; see DESIGN.md.
func tagFor(k Kind) uint8 {
	switch k {
	case KindByte:
		return 1
	case KindInt:
		return 2
	case KindUint:
		return 3
	case KindFloat:
		return 4
	case KindString:
		return 5
	case KindData:
		return 6
	default:
		return 0
	}
}

func kindForTag(tag uint8) (Kind, bool) {
	switch tag {
	case 1:
		return KindByte, true
	case 2:
		return KindInt, true
	case 3:
		return KindUint, true
	case 4:
		return KindFloat, true
	case 5:
		return KindString, true
	case 6:
		return KindData, true
	default:
		return 0, false
	}
}

// SerializeLen returns the exact number of bytes Encode will produce for v,
// without allocating.
func SerializeLen(v Var) int {
	const head = 2 + 1 // var_id + type tag
	switch v.Kind {
	case KindByte:
		return head + 1
	case KindInt, KindUint, KindFloat:
		return head + 4
	case KindString:
		return head + 2 + len(v.String)
	case KindData:
		return head + 2 + len(v.Data)
	default:
		return head
	}
}

// Encode appends the wire representation of v to dst and returns the
// extended slice.
func Encode(dst []byte, v Var) ([]byte, error) {
	if v.Kind == KindString {
		for i := 0; i < len(v.String); i++ {
			if v.String[i] == 0 {
				return nil, ErrStringHasNUL
			}
		}
	}

	var idTag [3]byte
	binary.BigEndian.PutUint16(idTag[0:2], uint16(v.ID))
	idTag[2] = tagFor(v.Kind)
	dst = append(dst, idTag[:]...)

	switch v.Kind {
	case KindByte:
		dst = append(dst, v.Byte)
	case KindInt:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(v.Int))
		dst = append(dst, b[:]...)
	case KindUint:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], v.Uint)
		dst = append(dst, b[:]...)
	case KindFloat:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], math.Float32bits(v.Float))
		dst = append(dst, b[:]...)
	case KindString:
		var lb [2]byte
		binary.BigEndian.PutUint16(lb[:], uint16(len(v.String)))
		dst = append(dst, lb[:]...)
		dst = append(dst, v.String...)
	case KindData:
		var lb [2]byte
		binary.BigEndian.PutUint16(lb[:], uint16(len(v.Data)))
		dst = append(dst, lb[:]...)
		dst = append(dst, v.Data...)
	default:
		return nil, fmt.Errorf("protocol: encode var %d: %w", v.ID, ErrUnknownType)
	}
	return dst, nil
}

// Decode reads one var from the front of src, returning the decoded value
// and the number of bytes consumed. A truncated header or payload yields
// ErrShortRead. A type tag this build doesn't recognize yields
// ErrUnknownType: unlike an unrecognized var id, an unrecognized tag gives
// no way to know the payload's length, so the packet can't be trusted to
// still be framed correctly past this point.
func Decode(src []byte) (Var, int, error) {
	if len(src) < 3 {
		return Var{}, 0, ErrShortRead
	}
	id := VarID(binary.BigEndian.Uint16(src[0:2]))
	tag := src[2]
	kind, ok := kindForTag(tag)
	if !ok {
		return Var{}, 0, fmt.Errorf("protocol: decode var %d tag %d: %w", id, tag, ErrUnknownType)
	}
	rest := src[3:]

	switch kind {
	case KindByte:
		if len(rest) < 1 {
			return Var{}, 0, ErrShortRead
		}
		return Var{ID: id, Kind: kind, Byte: rest[0]}, 4, nil
	case KindInt:
		if len(rest) < 4 {
			return Var{}, 0, ErrShortRead
		}
		return Var{ID: id, Kind: kind, Int: int32(binary.BigEndian.Uint32(rest[:4]))}, 7, nil
	case KindUint:
		if len(rest) < 4 {
			return Var{}, 0, ErrShortRead
		}
		return Var{ID: id, Kind: kind, Uint: binary.BigEndian.Uint32(rest[:4])}, 7, nil
	case KindFloat:
		if len(rest) < 4 {
			return Var{}, 0, ErrShortRead
		}
		return Var{ID: id, Kind: kind, Float: math.Float32frombits(binary.BigEndian.Uint32(rest[:4]))}, 7, nil
	case KindString:
		if len(rest) < 2 {
			return Var{}, 0, ErrShortRead
		}
		n := int(binary.BigEndian.Uint16(rest[:2]))
		if len(rest) < 2+n {
			return Var{}, 0, ErrShortRead
		}
		return Var{ID: id, Kind: kind, String: string(rest[2 : 2+n])}, 5 + n, nil
	case KindData:
		if len(rest) < 2 {
			return Var{}, 0, ErrShortRead
		}
		n := int(binary.BigEndian.Uint16(rest[:2]))
		if len(rest) < 2+n {
			return Var{}, 0, ErrShortRead
		}
		data := make([]byte, n)
		copy(data, rest[2:2+n])
		return Var{ID: id, Kind: kind, Data: data}, 5 + n, nil
	default:
		return Var{}, 0, fmt.Errorf("protocol: decode var %d: %w", id, ErrUnknownType)
	}
}
