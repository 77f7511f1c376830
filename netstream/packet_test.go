package netstream

import "testing"

func TestParseBunchDropsUnopenedUnreliableBunch(t *testing.T) {
	p := NewPacketParser()
	bunch := DataBunch{ChIndex: 5, BIsReliable: false, BOpen: false}
	if err := p.parseBunch(bunch); err != nil {
		t.Fatalf("parseBunch: %v", err)
	}
	if p.channels[5] != nil {
		t.Error("channel should not have been created for an unopened, unreliable bunch on an unknown channel")
	}
}

func TestReceivedSequencedBunchClosesChannel(t *testing.T) {
	p := NewPacketParser()
	p.channels[5] = &UChannel{Name: ChannelActor, Index: 5, Actor: &Actor{ActorNetGUID: 1}}

	bunch := DataBunch{ChIndex: 5, BClose: true}
	if err := p.receivedSequencedBunch(bunch); err != nil {
		t.Fatalf("receivedSequencedBunch: %v", err)
	}
	if p.channels[5] != nil {
		t.Error("a closing bunch should tear down its channel")
	}
}

func TestParseBunchDropsAlreadyProcessedReliableBunch(t *testing.T) {
	p := NewPacketParser()
	p.inReliable = 5
	bunch := DataBunch{ChIndex: 1, ChSeq: 3, BIsReliable: true}
	if err := p.parseBunch(bunch); err != nil {
		t.Fatalf("parseBunch: %v", err)
	}
	if p.channels[1] != nil {
		t.Error("an already-processed reliable bunch must not create channel state")
	}
}

// TestPartialBunchReassembly exercises the two-fragment happy path: an
// initial fragment followed by a matching final fragment completes the
// bunch and dispatches it through OnActorBunch.
func TestPartialBunchReassembly(t *testing.T) {
	p := NewPacketParser()
	p.channels[5] = &UChannel{Name: ChannelActor, Index: 5, Actor: &Actor{ActorNetGUID: 1}}

	var dispatched bool
	var dispatchedChannel uint32
	p.OnActorBunch = func(channel uint32, blocks []ContentBlock) {
		dispatched = true
		dispatchedChannel = channel
	}

	initial := DataBunch{ChIndex: 5, ChSeq: 10, BPartial: true, BPartialInitial: true}
	if err := p.receivedNextBunch(initial); err != nil {
		t.Fatalf("initial fragment: %v", err)
	}
	if dispatched {
		t.Fatal("an initial fragment alone must not dispatch a bunch")
	}
	if p.partialBunch == nil || p.partialBunch.ChSeq != 10 {
		t.Fatalf("partialBunch = %+v, want stored initial fragment", p.partialBunch)
	}

	final := DataBunch{ChIndex: 5, ChSeq: 11, BPartial: true, BPartialFinal: true}
	if err := p.receivedNextBunch(final); err != nil {
		t.Fatalf("final fragment: %v", err)
	}
	if !dispatched {
		t.Fatal("the final fragment should have completed and dispatched the bunch")
	}
	if dispatchedChannel != 5 {
		t.Errorf("dispatched channel = %d, want 5", dispatchedChannel)
	}
}

// TestPartialBunchDropsInitialWhileUnfinishedReliablePartialOpen covers the
// original's two identically-coded drop branches: a new initial fragment
// arriving while a prior reliable partial is still unfinished is dropped,
// and the in-flight accumulator is left untouched either way.
func TestPartialBunchDropsInitialWhileUnfinishedReliablePartialOpen(t *testing.T) {
	p := NewPacketParser()

	first := DataBunch{ChIndex: 7, ChSeq: 1, BPartial: true, BPartialInitial: true, BIsReliable: true}
	if err := p.receivedNextBunch(first); err != nil {
		t.Fatalf("first fragment: %v", err)
	}
	stored := p.partialBunch
	if stored == nil {
		t.Fatal("expected a stored partial bunch after the first fragment")
	}

	for _, reliable := range []bool{true, false} {
		second := DataBunch{ChIndex: 7, ChSeq: 2, BPartial: true, BPartialInitial: true, BIsReliable: reliable}
		if err := p.receivedNextBunch(second); err != nil {
			t.Fatalf("second fragment (reliable=%v): %v", reliable, err)
		}
		if p.partialBunch != stored {
			t.Errorf("reliable=%v: the unfinished reliable partial should not have been replaced or cleared", reliable)
		}
	}
}
