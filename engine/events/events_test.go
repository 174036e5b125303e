package events

import (
	"testing"

	"github.com/nathoo/deadzone/types"
)

func TestDispatch_MatchesEventType(t *testing.T) {
	var b Bus
	var got []string
	b.Subscribe(types.EventKilled, func(e types.Event) { got = append(got, "killed:"+e.Data["zombie"].(string)) })
	b.Subscribe(types.EventMoved, func(e types.Event) { got = append(got, "moved") })

	n := b.Dispatch([]types.Event{
		{Type: types.EventKilled, Data: map[string]any{"zombie": "z1"}},
		{Type: types.EventNoise},
	})
	if n != 1 {
		t.Errorf("deliveries = %d, want 1", n)
	}
	if len(got) != 1 || got[0] != "killed:z1" {
		t.Errorf("got %v", got)
	}
}

func TestDispatch_WildcardSeesEverything(t *testing.T) {
	var b Bus
	count := 0
	b.Subscribe("", func(types.Event) { count++ })

	b.Dispatch([]types.Event{{Type: types.EventRound}, {Type: types.EventSpawned}, {Type: types.EventGameOver}})
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestDispatch_SubscriptionOrder(t *testing.T) {
	var b Bus
	var order []int
	b.Subscribe(types.EventDoor, func(types.Event) { order = append(order, 1) })
	b.Subscribe("", func(types.Event) { order = append(order, 2) })
	b.Subscribe(types.EventDoor, func(types.Event) { order = append(order, 3) })

	b.Dispatch([]types.Event{{Type: types.EventDoor}})
	want := []int{1, 2, 3}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	var b Bus
	count := 0
	cancel := b.Subscribe("", func(types.Event) { count++ })
	b.Dispatch([]types.Event{{Type: types.EventRound}})
	cancel()
	b.Dispatch([]types.Event{{Type: types.EventRound}})
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestDispatch_NoSubscribers(t *testing.T) {
	var b Bus
	if n := b.Dispatch([]types.Event{{Type: types.EventRound}}); n != 0 {
		t.Errorf("deliveries = %d, want 0", n)
	}
}
