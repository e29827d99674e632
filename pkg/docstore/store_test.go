package docstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sveltedoc/pkg/model"
)

func docs(names ...string) []model.ComponentDoc {
	out := make([]model.ComponentDoc, len(names))
	for i, n := range names {
		out[i] = model.ComponentDoc{Name: n}
	}
	return out
}

func TestStore_Empty(t *testing.T) {
	s := New()
	st := s.Get()
	assert.NotNil(t, st.Components)
	assert.Empty(t, st.Components)
	_, ok := st.Active()
	assert.False(t, ok)
}

func TestStore_SetDocsAndActive(t *testing.T) {
	s := New()
	s.SetDocs(docs("Button", "Modal"))
	s.SetActiveComponent("Modal")

	st := s.Get()
	require.Len(t, st.Components, 2)
	active, ok := st.Active()
	require.True(t, ok)
	assert.Equal(t, "Modal", active.Name)

	s.SetDocs(docs("Button"))
	st = s.Get()
	assert.Equal(t, "Modal", st.ActiveComponent, "active name survives SetDocs")
	_, ok = st.Active()
	assert.False(t, ok)
}

func TestStore_Clear(t *testing.T) {
	s := New()
	s.SetDocs(docs("A"))
	s.SetActiveComponent("A")
	s.Clear()

	st := s.Get()
	assert.Empty(t, st.Components)
	assert.Empty(t, st.ActiveComponent)
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := New()
	input := docs("A")
	s.SetDocs(input)
	input[0].Name = "mutated"

	st := s.Get()
	st.Components[0].Name = "changed"
	assert.Equal(t, "A", s.Get().Components[0].Name)
}

func TestStore_Subscribe(t *testing.T) {
	s := New()
	var seen []State
	unsubscribe := s.Subscribe(func(st State) { seen = append(seen, st) })

	s.SetDocs(docs("A"))
	s.SetActiveComponent("A")
	unsubscribe()
	s.Clear()

	require.Len(t, seen, 3)
	assert.Empty(t, seen[0].Components)
	assert.Len(t, seen[1].Components, 1)
	assert.Equal(t, "A", seen[2].ActiveComponent)
}

func TestStore_Concurrent(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SetDocs(docs("A", "B"))
			s.SetActiveComponent("B")
			_ = s.Get()
		}()
	}
	wg.Wait()
	assert.Len(t, s.Get().Components, 2)
}
