package protocol

// PacketGroup accumulates serialized packets into one outbound buffer up to
// a fixed byte budget, so the transport can issue fewer, larger writes.
// Vars that span a natural unit (e.g. one UserList entry) should be pushed
// as a single packet so Push's overflow behavior keeps entries intact.
type PacketGroup struct {
	budget int
	buf    []byte
}

// NewGroup returns an empty group bounded to budget bytes.
func NewGroup(budget int) *PacketGroup {
	return &PacketGroup{budget: budget}
}

// Len returns the number of bytes currently buffered.
func (g *PacketGroup) Len() int {
	return len(g.buf)
}

// Bytes returns the buffered bytes for a single write.
func (g *PacketGroup) Bytes() []byte {
	return g.buf
}

// Reset empties the group so it can be reused.
func (g *PacketGroup) Reset() {
	g.buf = g.buf[:0]
}

// Push serializes p and appends it to the group. If appending would exceed
// the byte budget and the group is not empty, Push leaves the group
// untouched and returns p back to the caller so it can flush the group and
// start a new one with p. A single packet larger than the budget is still
// appended to an empty group rather than rejected, since a budget violation
// by one oversized packet should not deadlock the caller.
func (g *PacketGroup) Push(p *Packet) (overflow *Packet, err error) {
	encoded, err := p.Serialize()
	if err != nil {
		return nil, err
	}
	if len(g.buf) > 0 && len(g.buf)+len(encoded) > g.budget {
		return p, nil
	}
	g.buf = append(g.buf, encoded...)
	return nil, nil
}
