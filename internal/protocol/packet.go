package protocol

import (
	"encoding/binary"
	"fmt"
)

// headerLen is the fixed 10-byte tag header: serialized_length, header_0,
// opcode, header_1, var_count -- each a big-endian uint16 except opcode,
// which is a signed int16.
const headerLen = 10

// Packet is one protocol message: an opcode, two opaque header words the
// transport passes through unchanged, and an ordered list of vars.
type Packet struct {
	Opcode  PacketType
	Header0 uint16
	Header1 uint16
	Vars    []Var
}

// New returns an empty packet for the given opcode.
func New(opcode PacketType) *Packet {
	return &Packet{Opcode: opcode}
}

// AddVar appends v to the packet's var list, preserving call order.
func (p *Packet) AddVar(v Var) {
	p.Vars = append(p.Vars, v)
}

// GetByte returns the first Byte var with the given id.
func (p *Packet) GetByte(id VarID) (uint8, bool) {
	for _, v := range p.Vars {
		if v.ID == id && v.Kind == KindByte {
			return v.Byte, true
		}
	}
	return 0, false
}

// GetInt returns the first Int var with the given id.
func (p *Packet) GetInt(id VarID) (int32, bool) {
	for _, v := range p.Vars {
		if v.ID == id && v.Kind == KindInt {
			return v.Int, true
		}
	}
	return 0, false
}

// GetUint returns the first Uint var with the given id.
func (p *Packet) GetUint(id VarID) (uint32, bool) {
	for _, v := range p.Vars {
		if v.ID == id && v.Kind == KindUint {
			return v.Uint, true
		}
	}
	return 0, false
}

// GetFloat returns the first Float var with the given id.
func (p *Packet) GetFloat(id VarID) (float32, bool) {
	for _, v := range p.Vars {
		if v.ID == id && v.Kind == KindFloat {
			return v.Float, true
		}
	}
	return 0, false
}

// GetString returns the first String var with the given id.
func (p *Packet) GetString(id VarID) (string, bool) {
	for _, v := range p.Vars {
		if v.ID == id && v.Kind == KindString {
			return v.String, true
		}
	}
	return "", false
}

// GetData returns the first Data var with the given id.
func (p *Packet) GetData(id VarID) ([]byte, bool) {
	for _, v := range p.Vars {
		if v.ID == id && v.Kind == KindData {
			return v.Data, true
		}
	}
	return nil, false
}

// Serialize encodes the packet into its wire form: the 10-byte header
// followed by each var in order. It fails with ErrTooLarge if the result
// would not fit a uint16 length field.
func (p *Packet) Serialize() ([]byte, error) {
	body := make([]byte, 0, 64)
	for _, v := range p.Vars {
		var err error
		body, err = Encode(body, v)
		if err != nil {
			return nil, fmt.Errorf("protocol: serialize packet %s: %w", p.Opcode, err)
		}
	}

	total := headerLen + len(body)
	if total > 0xFFFF {
		return nil, fmt.Errorf("protocol: serialize packet %s: %w", p.Opcode, ErrTooLarge)
	}

	out := make([]byte, headerLen, total)
	binary.BigEndian.PutUint16(out[0:2], uint16(total))
	binary.BigEndian.PutUint16(out[2:4], p.Header0)
	binary.BigEndian.PutUint16(out[4:6], uint16(p.Opcode))
	binary.BigEndian.PutUint16(out[6:8], p.Header1)
	binary.BigEndian.PutUint16(out[8:10], uint16(len(p.Vars)))
	out = append(out, body...)
	return out, nil
}

// Deserialize decodes one packet from the front of src. It returns the
// packet and the number of bytes consumed. The declared serialized_length
// must exactly match the header plus the bytes consumed decoding every var;
// any discrepancy is reported as ErrLengthMismatch rather than silently
// accepted, since a mismatch means framing has drifted for the rest of the
// stream.
func Deserialize(src []byte) (*Packet, int, error) {
	if len(src) < headerLen {
		return nil, 0, ErrShortRead
	}

	serializedLen := int(binary.BigEndian.Uint16(src[0:2]))
	header0 := binary.BigEndian.Uint16(src[2:4])
	opcode := packetTypeFromWire(int16(binary.BigEndian.Uint16(src[4:6])))
	header1 := binary.BigEndian.Uint16(src[6:8])
	varCount := int(binary.BigEndian.Uint16(src[8:10]))

	if serializedLen < headerLen {
		return nil, 0, fmt.Errorf("protocol: deserialize: %w", ErrLengthMismatch)
	}
	if len(src) < serializedLen {
		return nil, 0, ErrShortRead
	}

	p := &Packet{Opcode: opcode, Header0: header0, Header1: header1, Vars: make([]Var, 0, varCount)}

	cursor := headerLen
	for i := 0; i < varCount; i++ {
		v, n, err := Decode(src[cursor:serializedLen])
		if err != nil {
			return nil, 0, fmt.Errorf("protocol: deserialize var %d of packet %s: %w", i, opcode, err)
		}
		p.Vars = append(p.Vars, v)
		cursor += n
	}

	if cursor != serializedLen {
		return nil, 0, fmt.Errorf("protocol: deserialize packet %s: %w", opcode, ErrLengthMismatch)
	}

	return p, cursor, nil
}
