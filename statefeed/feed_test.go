// File: statefeed/feed_test.go
// License: Apache-2.0

package statefeed

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewire/deltaws/protocol"
)

func TestFlushPreservesOrder(t *testing.T) {
	f := New()
	f.Set([]byte("k1"), []byte("v1"))
	f.Delete([]byte("k3"))
	f.Set([]byte("k2"), []byte("v2"))

	d := f.Flush()
	require.NotNil(t, d)
	assert.Equal(t, []protocol.Pair{
		{Key: []byte("k1"), Value: []byte("v1")},
		{Key: []byte("k2"), Value: []byte("v2")},
	}, d.Updates)
	assert.Equal(t, [][]byte{[]byte("k3")}, d.Deletes)
}

func TestFlushEmptiesFeed(t *testing.T) {
	f := New()
	f.Set([]byte("k"), []byte("v"))
	require.NotNil(t, f.Flush())
	assert.Equal(t, 0, f.Pending())
	assert.Nil(t, f.Flush())
}

func TestConcurrentProducers(t *testing.T) {
	const n = 64
	f := New()
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			f.Set([]byte(fmt.Sprintf("k%d", i)), []byte("v"))
		}(i)
	}
	wg.Wait()

	d := f.Flush()
	require.NotNil(t, d)
	assert.Len(t, d.Updates, n)
	assert.Empty(t, d.Deletes)
}
