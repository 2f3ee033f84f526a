package store

import (
	"context"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockContext carries the mock through the transaction slot so conn()
// returns it instead of a real pool.
func mockContext(mock pgxmock.PgxPoolIface) context.Context {
	return context.WithValue(context.Background(), txKey{}, mock)
}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, context.Context) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, mockContext(mock)
}

func TestIDPrefixes(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewUserID(), "usr_"))
	assert.True(t, strings.HasPrefix(NewConversationID(), "conv_"))
	assert.True(t, strings.HasPrefix(NewBranchID(), "br_"))
	assert.True(t, strings.HasPrefix(NewMessageID(), "msg_"))
	assert.True(t, strings.HasPrefix(NewBugID(), "bug_"))
	assert.NotEqual(t, NewMessageID(), NewMessageID())
}
