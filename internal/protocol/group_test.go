package protocol

import "testing"

func packetOfSize(t *testing.T, payload int) *Packet {
	t.Helper()
	p := New(Message)
	if payload > 0 {
		p.AddVar(DataVar(VarMessage, make([]byte, payload)))
	}
	return p
}

func TestPacketGroupPushWithinBudget(t *testing.T) {
	g := NewGroup(1024)
	p1 := packetOfSize(t, 10)
	p2 := packetOfSize(t, 10)

	if overflow, err := g.Push(p1); err != nil || overflow != nil {
		t.Fatalf("Push p1: overflow=%v err=%v", overflow, err)
	}
	if overflow, err := g.Push(p2); err != nil || overflow != nil {
		t.Fatalf("Push p2: overflow=%v err=%v", overflow, err)
	}

	want := len(mustSerialize(t, p1)) + len(mustSerialize(t, p2))
	if g.Len() != want {
		t.Errorf("Len() = %d, want %d", g.Len(), want)
	}
}

// TestPacketGroupOverflow exercises the scenario where a packet group
// reaches its byte budget mid-stream: the pusher must get the overflowing
// packet back so it can flush the full group and start a fresh one with it.
func TestPacketGroupOverflow(t *testing.T) {
	p1 := packetOfSize(t, 0)
	budget := len(mustSerialize(t, p1)) + 5 // room for p1 plus 5 spare bytes, too few for p2

	g := NewGroup(budget)
	if overflow, err := g.Push(p1); err != nil || overflow != nil {
		t.Fatalf("Push p1: overflow=%v err=%v", overflow, err)
	}

	p2 := packetOfSize(t, 10)
	overflow, err := g.Push(p2)
	if err != nil {
		t.Fatalf("Push p2: %v", err)
	}
	if overflow != p2 {
		t.Fatalf("expected p2 back as overflow, got %v", overflow)
	}
	// The group must be untouched by the rejected push.
	if g.Len() != len(mustSerialize(t, p1)) {
		t.Errorf("Len() = %d after overflow, want unchanged at %d", g.Len(), len(mustSerialize(t, p1)))
	}

	g.Reset()
	if overflow, err := g.Push(p2); err != nil || overflow != nil {
		t.Fatalf("Push p2 into fresh group: overflow=%v err=%v", overflow, err)
	}
}

func TestPacketGroupSingleOversizedPacketStillAccepted(t *testing.T) {
	g := NewGroup(4)
	p := packetOfSize(t, 100)

	overflow, err := g.Push(p)
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if overflow != nil {
		t.Fatalf("expected oversized packet accepted into an empty group, got overflow")
	}
	if g.Len() == 0 {
		t.Error("expected group to contain the oversized packet")
	}
}

func mustSerialize(t *testing.T, p *Packet) []byte {
	t.Helper()
	b, err := p.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	return b
}
