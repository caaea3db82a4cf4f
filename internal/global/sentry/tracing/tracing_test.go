package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestSanitizeURL(t *testing.T) {
	require.Equal(t, "https://mail.example.com/v1/send", sanitizeURL("https://user:pw@mail.example.com/v1/send?token=secret"))
	require.Equal(t, "unknown", sanitizeURL("not a url"))
}

func TestPipelineDescription(t *testing.T) {
	ctx := context.Background()
	cmds := []redis.Cmder{
		redis.NewStringCmd(ctx, "get", "a"),
		redis.NewStatusCmd(ctx, "set", "b", "1"),
	}
	require.Equal(t, "PIPELINE: GET, SET", pipelineDescription(cmds))

	cmds = append(cmds,
		redis.NewIntCmd(ctx, "del", "c"),
		redis.NewIntCmd(ctx, "incr", "d"),
	)
	require.Equal(t, "PIPELINE: GET, SET, DEL, ...", pipelineDescription(cmds))
}

func TestStartChildWithoutParent(t *testing.T) {
	require.Nil(t, startChild(context.Background(), "db.sql.query", "SELECT 1"))
	finish(nil, time.Now(), 0, nil)
}
