package mqtt

import "testing"

func msg(n int) bufferedMsg {
	return bufferedMsg{topic: Topic, payload: []byte{byte(n)}}
}

func TestRingBufferDrainEmpty(t *testing.T) {
	rb := newRingBuffer(8)
	if got := rb.drainAll(); got != nil {
		t.Errorf("drain of empty buffer: got %d items, want nil", len(got))
	}
}

func TestRingBufferFIFOOrder(t *testing.T) {
	rb := newRingBuffer(8)
	for i := 0; i < 5; i++ {
		rb.push(msg(i))
	}

	got := rb.drainAll()
	if len(got) != 5 {
		t.Fatalf("got %d items, want 5", len(got))
	}
	for i := range got {
		if got[i].payload[0] != byte(i) {
			t.Errorf("item %d: payload %d, want %d", i, got[i].payload[0], i)
		}
	}

	if again := rb.drainAll(); again != nil {
		t.Errorf("second drain: got %d items, want nil", len(again))
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	rb := newRingBuffer(4)

	// Push 7 into a buffer of 4: items 0-2 are dropped, 3-6 survive.
	for i := 0; i < 7; i++ {
		rb.push(msg(i))
	}

	got := rb.drainAll()
	if len(got) != 4 {
		t.Fatalf("got %d items, want 4", len(got))
	}
	for i := range got {
		want := byte(i + 3)
		if got[i].payload[0] != want {
			t.Errorf("item %d: payload %d, want %d", i, got[i].payload[0], want)
		}
	}
}

func TestRingBufferReusableAfterDrain(t *testing.T) {
	rb := newRingBuffer(4)

	rb.push(msg(0))
	rb.push(msg(1))
	if got := rb.drainAll(); len(got) != 2 {
		t.Fatalf("first cycle: got %d items, want 2", len(got))
	}

	for i := 10; i < 13; i++ {
		rb.push(msg(i))
	}
	got := rb.drainAll()
	if len(got) != 3 {
		t.Fatalf("second cycle: got %d items, want 3", len(got))
	}
	for i := range got {
		if got[i].payload[0] != byte(10+i) {
			t.Errorf("second cycle item %d: payload %d", i, got[i].payload[0])
		}
	}
}

func TestRingBufferLen(t *testing.T) {
	rb := newRingBuffer(8)
	if rb.len() != 0 {
		t.Errorf("new buffer len: %d", rb.len())
	}
	rb.push(msg(0))
	rb.push(msg(1))
	if rb.len() != 2 {
		t.Errorf("len after two pushes: %d", rb.len())
	}
	rb.drainAll()
	if rb.len() != 0 {
		t.Errorf("len after drain: %d", rb.len())
	}
}

func TestRingBufferPreservesMessageFields(t *testing.T) {
	rb := newRingBuffer(8)
	rb.push(bufferedMsg{
		topic:    TopicSystem,
		payload:  []byte(`{"system":{"event":"HEARTBEAT"}}`),
		qos:      1,
		retained: true,
	})

	got := rb.drainAll()
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
	m := got[0]
	if m.topic != TopicSystem {
		t.Errorf("topic: got %q", m.topic)
	}
	if string(m.payload) != `{"system":{"event":"HEARTBEAT"}}` {
		t.Errorf("payload: got %s", m.payload)
	}
	if m.qos != 1 {
		t.Errorf("qos: got %d, want 1", m.qos)
	}
	if !m.retained {
		t.Error("retained flag lost")
	}
}
