package token

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Run("same name returns same type", func(t *testing.T) {
		id1 := Register("TEST_IDEMPOTENT")
		id2 := Register("TEST_IDEMPOTENT")
		assert.Equal(t, id1, id2)
	})

	t.Run("names are case-insensitive", func(t *testing.T) {
		upper := Register("TEST_CASE")
		lower := Register("test_case")
		assert.Equal(t, upper, lower)
		assert.Equal(t, "TEST_CASE", lower.String())
	})

	t.Run("different names get different types", func(t *testing.T) {
		assert.NotEqual(t, Register("TEST_NAME_A"), Register("TEST_NAME_B"))
	})
}

func TestRegisterConcurrent(t *testing.T) {
	const numGoroutines = 100
	var wg sync.WaitGroup
	ids := make([]TokenType, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ids[idx] = Register("TEST_CONCURRENT")
		}(i)
	}
	wg.Wait()

	for i := 1; i < numGoroutines; i++ {
		require.Equal(t, ids[0], ids[i], "concurrent registration should return same ID")
	}
}

func TestLookupDynamicKeyword(t *testing.T) {
	expectedID := Register("TEST_LOOKUP")

	gotID, ok := LookupDynamicKeyword("test_lookup")
	require.True(t, ok, "registered keyword should be found regardless of case")
	assert.Equal(t, expectedID, gotID)

	gotID, ok = LookupDynamicKeyword("NONEXISTENT_KEYWORD_12345")
	assert.False(t, ok)
	assert.Equal(t, IDENT, gotID)
}

func TestIsDynamic(t *testing.T) {
	assert.False(t, IsDynamic(SELECT))
	assert.False(t, IsDynamic(KEYWORD))
	assert.False(t, IsDynamic(EOF))

	dynamicToken := Register("TEST_DYNAMIC_CHECK")
	assert.True(t, IsDynamic(dynamicToken))
	assert.True(t, IsKeyword(dynamicToken))
}
