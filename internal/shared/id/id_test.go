package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	assert.NotEqual(t, id1.String(), id2.String())
	assert.Len(t, id1.String(), 26)
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	tests := []struct {
		prefix string
	}{
		{IsolatePrefix},
		{ContextPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			id := gen.GenerateWithPrefix(tt.prefix)

			require.True(t, strings.HasPrefix(id, tt.prefix+"_"), id)
			parts := strings.Split(id, "_")
			require.Len(t, parts, 2)
			assert.True(t, IsValid(parts[1]))
			assert.True(t, IsValid(id))
		})
	}
}

func TestTypedIDs(t *testing.T) {
	iso := NewIsolateID()
	ctx := NewContextID()

	assert.True(t, strings.HasPrefix(iso.String(), "iso_"))
	assert.True(t, strings.HasPrefix(ctx.String(), "ctx_"))
	assert.NotEqual(t, iso.String(), ctx.String())
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := NewIsolateID()

	ts, err := Timestamp(id.String())
	require.NoError(t, err)
	assert.True(t, ts.After(before))

	_, err = Timestamp("iso_not-a-ulid")
	assert.Error(t, err)
}

func TestConcurrentGeneration(t *testing.T) {
	const workers = 8
	const perWorker = 100

	var mu sync.Mutex
	seen := make(map[ContextID]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := NewContextID()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
