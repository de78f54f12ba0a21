package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s, err := New(" 6F9619FF-8B86-D011-B42D-00CF4FC964FF ")
	require.NoError(t, err)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00cf4fc964ff", s.ID())
	assert.False(t, s.IsZero())

	for _, bad := range []string{"", "tenant-1", "1234", "00000000-0000-0000-0000-000000000000"} {
		_, err := New(bad)
		assert.ErrorIs(t, err, ErrInvalidTenant, bad)
	}
}

func TestZeroScope(t *testing.T) {
	var s Scope
	assert.True(t, s.IsZero())
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", s.ID())

	_, err := New(s.ID())
	assert.ErrorIs(t, err, ErrInvalidTenant)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := MustNew("11111111-1111-1111-1111-111111111111")
	got, ok := FromContext(WithScope(context.Background(), s))
	require.True(t, ok)
	assert.Equal(t, s, got)

	_, ok = FromContext(WithScope(context.Background(), Scope{}))
	assert.False(t, ok)
}
