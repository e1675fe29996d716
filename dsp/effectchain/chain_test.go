package effectchain

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/cwbudde/algo-fxrack/dsp/core"
	"github.com/cwbudde/algo-fxrack/internal/testutil"
)

func newPreparedChain(t *testing.T, opts ...Option) (*Chain, [NumEffects]*testutil.Stage, *testutil.Recorder) {
	t.Helper()

	in, stages, rec := recordingInstances(t)

	c, err := New(in, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = c.Prepare(core.NewProcessSpec())
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	return c, stages, rec
}

func TestNewRequiresEveryInstance(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); !errors.Is(err, ErrNoInstances) {
		t.Fatalf("New(nil) error = %v, want ErrNoInstances", err)
	}

	var in Instances
	in.MustRegister(Phase, &testutil.Stage{})

	if _, err := New(&in); !errors.Is(err, ErrUnresolvable) {
		t.Fatalf("New(incomplete) error = %v, want ErrUnresolvable", err)
	}
}

func TestChainStartsWithDefaultOrder(t *testing.T) {
	t.Parallel()

	c, _, rec := newPreparedChain(t)

	if got := c.CurrentOrder(); !got.Equal(DefaultOrder()) {
		t.Fatalf("CurrentOrder() = %v, want %v", got, DefaultOrder())
	}

	c.Process(core.NewBlock(2, 16))

	want := []string{"phase", "chorus", "overdrive", "ladder"}
	if got := rec.Calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ran %v, want %v", got, want)
	}
}

func TestChainWithInitialOrder(t *testing.T) {
	t.Parallel()

	o := Order{GeneralFilter, EndOfList, EndOfList, EndOfList, EndOfList}

	c, _, _ := newPreparedChain(t, WithInitialOrder(o))
	if !c.CurrentOrder().Equal(o) {
		t.Fatalf("CurrentOrder() = %v, want %v", c.CurrentOrder(), o)
	}

	ignored, _, _ := newPreparedChain(t, WithInitialOrder(EmptyOrder()))
	if !ignored.CurrentOrder().Equal(DefaultOrder()) {
		t.Fatalf("empty initial order replaced default: %v", ignored.CurrentOrder())
	}
}

func TestChainProcessBeforePrepareLeavesBlock(t *testing.T) {
	t.Parallel()

	in, stages, _ := recordingInstances(t)
	stages[Phase].Gain = 0.5

	c, err := New(in)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	block := testutil.Block(2, testutil.Ones(8))
	c.Process(block)

	testutil.RequireBlockNearlyEqual(t, block, testutil.Block(2, testutil.Ones(8)), 0)

	if got := c.Stats().UnpreparedBlocks; got != 1 {
		t.Fatalf("UnpreparedBlocks = %d, want 1", got)
	}

	if stages[Phase].Blocks != 0 {
		t.Fatal("effect ran before Prepare")
	}
}

func TestChainPrepareReachesAuxiliary(t *testing.T) {
	t.Parallel()

	aux := &testutil.Stage{Name: "delay"}

	c, stages, rec := newPreparedChain(t, WithAuxiliary(aux))

	for id, s := range stages {
		if s.Prepares != 1 || s.Resets != 1 {
			t.Fatalf("%s: prepares=%d resets=%d, want 1/1", EffectID(id), s.Prepares, s.Resets)
		}
	}

	if aux.Prepares != 1 || aux.Resets != 1 {
		t.Fatalf("auxiliary: prepares=%d resets=%d, want 1/1", aux.Prepares, aux.Resets)
	}

	if aux.Spec.SampleRate != 48000 {
		t.Fatalf("auxiliary spec = %+v", aux.Spec)
	}

	c.Process(core.NewBlock(1, 4))

	for _, name := range rec.Calls() {
		if name == "delay" {
			t.Fatal("auxiliary instance ran in the chain")
		}
	}

	if aux.Blocks != 0 {
		t.Fatalf("auxiliary processed %d blocks", aux.Blocks)
	}

	c.Reset()

	if aux.Resets != 2 || stages[Chorus].Resets != 2 {
		t.Fatal("Reset did not reach every instance")
	}
}

func TestChainPrepareErrors(t *testing.T) {
	t.Parallel()

	in, stages, _ := recordingInstances(t)
	boom := errors.New("boom")
	stages[OverDrive].Fail = boom

	c, err := New(in)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := c.Prepare(core.NewProcessSpec()); !errors.Is(err, boom) {
		t.Fatalf("Prepare() error = %v, want %v", err, boom)
	}

	if err := c.Prepare(core.ProcessSpec{}); !errors.Is(err, core.ErrInvalidSpec) {
		t.Fatalf("Prepare(zero) error = %v, want ErrInvalidSpec", err)
	}

	c.Process(core.NewBlock(1, 4))

	if c.Stats().UnpreparedBlocks != 1 {
		t.Fatal("failed Prepare left the chain runnable")
	}
}

func TestChainPushedOrderRunsNextBlock(t *testing.T) {
	t.Parallel()

	c, _, rec := newPreparedChain(t)

	if !c.PushOrder(Order{Chorus, Phase, OverDrive, LadderFilter, EndOfList}) {
		t.Fatal("PushOrder failed")
	}

	c.Process(core.NewBlock(2, 32))

	calls := rec.Calls()
	if len(calls) < 2 || calls[0] != "chorus" || calls[1] != "phase" {
		t.Fatalf("ran %v, want chorus before phase", calls)
	}
}

func TestChainLastPushWins(t *testing.T) {
	t.Parallel()

	c, _, rec := newPreparedChain(t)

	o1 := Order{LadderFilter, Phase, EndOfList, EndOfList, EndOfList}
	o2 := Order{GeneralFilter, OverDrive, Chorus, EndOfList, EndOfList}

	c.PushOrder(o1)
	c.PushOrder(o2)
	c.Process(core.NewBlock(1, 8))

	if got := c.CurrentOrder(); !got.Equal(o2) {
		t.Fatalf("CurrentOrder() = %v, want %v", got, o2)
	}

	if got, want := rec.Calls(), namesOf(o2); !reflect.DeepEqual(got, want) {
		t.Fatalf("ran %v, want %v", got, want)
	}

	if got := c.Stats().OrderCommits; got != 1 {
		t.Fatalf("OrderCommits = %d, want 1", got)
	}
}

func TestChainEmptyOrderNeverCommits(t *testing.T) {
	t.Parallel()

	c, _, _ := newPreparedChain(t)

	c.PushOrder(EmptyOrder())
	c.Process(core.NewBlock(1, 8))

	if got := c.CurrentOrder(); !got.Equal(DefaultOrder()) {
		t.Fatalf("CurrentOrder() = %v after empty push, want default", got)
	}

	// A trailing empty push discards an earlier valid one in the same block.
	c.PushOrder(Order{GeneralFilter, EndOfList, EndOfList, EndOfList, EndOfList})
	c.PushOrder(EmptyOrder())
	c.Process(core.NewBlock(1, 8))

	if got := c.CurrentOrder(); !got.Equal(DefaultOrder()) {
		t.Fatalf("CurrentOrder() = %v after trailing empty push, want default", got)
	}

	if c.Pending() != 0 {
		t.Fatalf("Pending() = %d after a block, want 0", c.Pending())
	}
}

func TestChainQueueFull(t *testing.T) {
	t.Parallel()

	c, _, _ := newPreparedChain(t, WithQueueCapacity(2))

	perms := permutations()
	if !c.PushOrder(perms[0]) || !c.PushOrder(perms[1]) {
		t.Fatal("PushOrder failed before capacity")
	}

	if c.PushOrder(perms[2]) {
		t.Fatal("PushOrder succeeded on a full queue")
	}

	if got := c.Stats().DroppedPushes; got != 1 {
		t.Fatalf("DroppedPushes = %d, want 1", got)
	}

	c.Process(core.NewBlock(1, 8))

	if got := c.CurrentOrder(); !got.Equal(perms[1]) {
		t.Fatalf("CurrentOrder() = %v, want last queued %v", got, perms[1])
	}
}

func TestChainRejectsInvalidOrder(t *testing.T) {
	t.Parallel()

	c, _, _ := newPreparedChain(t)

	if c.PushOrder(Order{Phase, Phase, EndOfList, EndOfList, EndOfList}) {
		t.Fatal("PushOrder accepted a duplicate order")
	}

	if c.PushOrder(Order{EffectID(7), EndOfList, EndOfList, EndOfList, EndOfList}) {
		t.Fatal("PushOrder accepted an unknown effect")
	}

	if got := c.Stats().RejectedPushes; got != 2 {
		t.Fatalf("RejectedPushes = %d, want 2", got)
	}

	if c.Pending() != 0 {
		t.Fatal("rejected orders reached the queue")
	}
}

func TestChainAppliesParametersEveryBlock(t *testing.T) {
	t.Parallel()

	var (
		applied int
		rec     *testutil.Recorder
	)

	in, _, r := recordingInstances(t)
	rec = r

	c, err := New(in, WithApplier(ApplierFunc(func() {
		applied++
		rec.Record("apply")
	})))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := c.Prepare(core.NewProcessSpec()); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	c.Process(core.NewBlock(1, 4))
	c.Process(core.NewBlock(1, 4))

	if applied != 2 {
		t.Fatalf("applied %d times, want 2", applied)
	}

	if calls := rec.Calls(); calls[0] != "apply" {
		t.Fatalf("first call = %q, want parameters applied before effects", calls[0])
	}
}

func TestChainProcessesInPlaceInOrder(t *testing.T) {
	t.Parallel()

	in, stages, _ := recordingInstances(t)
	stages[Phase].Gain = 2
	stages[Chorus].Gain = 0.25

	c, err := New(in, WithInitialOrder(Order{Phase, Chorus, EndOfList, EndOfList, EndOfList}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := c.Prepare(core.NewProcessSpec()); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	block := testutil.Block(2, testutil.DC(4, 8))
	c.Process(block)

	testutil.RequireBlockNearlyEqual(t, block, testutil.Block(2, testutil.DC(2, 8)), 0)
}

func TestChainConcurrentPushAndProcess(t *testing.T) {
	t.Parallel()

	c, _, _ := newPreparedChain(t)
	perms := permutations()
	block := core.NewBlock(2, 16)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for i := range 2000 {
			c.PushOrder(perms[i%len(perms)])
		}
	}()

	for range 2000 {
		c.Process(block)

		if got := c.CurrentOrder(); !got.IsPermutation() && !got.Equal(DefaultOrder()) {
			t.Errorf("CurrentOrder() = %v is neither default nor a pushed permutation", got)
			break
		}
	}

	wg.Wait()
}

func TestChainProcessDoesNotAllocate(t *testing.T) {
	in, _, _ := recordingInstances(t)

	// Stages without a recorder do not allocate.
	for id := range EffectID(NumEffects) {
		in.slots[id].(*testutil.Stage).Recorder = nil
	}

	c, err := New(in)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := c.Prepare(core.NewProcessSpec()); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	block := core.NewBlock(2, 64)
	perms := permutations()
	i := 0

	allocs := testing.AllocsPerRun(50, func() {
		c.PushOrder(perms[i%len(perms)])
		i++
		c.Process(block)
	})
	if allocs != 0 {
		t.Fatalf("Process allocated %.1f times per block", allocs)
	}
}

func BenchmarkChainProcess(b *testing.B) {
	var in Instances
	for id := range EffectID(NumEffects) {
		in.MustRegister(id, &testutil.Stage{Gain: 1})
	}

	c, _ := New(&in)
	_ = c.Prepare(core.NewProcessSpec())
	block := core.NewBlock(2, 512)
	perms := permutations()

	b.ReportAllocs()

	i := 0
	for b.Loop() {
		c.PushOrder(perms[i%len(perms)])
		c.Process(block)
		i++
	}
}
