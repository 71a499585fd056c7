package teams

import (
	"context"
	"sync"
)

// listState is the render state of one list section.
type listState[T any] struct {
	Loading bool
	Items   []T
	// Err carries the failure of the last fetch, mapped for display.
	Err error
}

// generations hands out fetch generations per list key. Only the latest
// generation of a key may publish its result; older or cancelled fetches are
// discarded.
type generations struct {
	mu      sync.Mutex
	counter uint64
	latest  map[string]uint64
}

func newGenerations() *generations {
	return &generations{latest: map[string]uint64{}}
}

// begin starts a fetch for key and returns its generation.
func (g *generations) begin(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	g.latest[key] = g.counter
	return g.counter
}

// finish reports whether gen is still the latest generation for key and
// retires it. A key has no entry once its latest fetch finished, so a
// straggler from before that point is also reported stale.
func (g *generations) finish(key string, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.latest[key] != gen {
		return false
	}
	delete(g.latest, key)
	return true
}

// pending returns the number of keys with a fetch in flight.
func (g *generations) pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.latest)
}

// fetchList runs fetch under a new generation of key. The second result is
// false when the response was superseded or its context cancelled, in which
// case the state must not be rendered.
func fetchList[T any](ctx context.Context, gens *generations, key string, fallbackKey string, fetch func(context.Context) ([]T, error)) (listState[T], bool) {
	gen := gens.begin(key)
	items, err := fetch(ctx)
	fresh := gens.finish(key, gen)
	if !fresh || ctx.Err() != nil {
		return listState[T]{Loading: true}, false
	}
	if err != nil {
		return listState[T]{Items: []T{}, Err: mapAPIError(err, fallbackKey)}, true
	}
	if items == nil {
		items = []T{}
	}
	return listState[T]{Items: items}, true
}
