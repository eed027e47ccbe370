package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeletePrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	defer c.Close()

	require.NoError(t, mr.Set("cache:a", "1"))
	require.NoError(t, mr.Set("cache:b", "2"))
	require.NoError(t, mr.Set("other", "3"))

	n, err := c.DeletePrefix(context.Background(), "cache:")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.False(t, mr.Exists("cache:a"))
	assert.True(t, mr.Exists("other"))
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect("not a url")
	assert.Error(t, err)
}
