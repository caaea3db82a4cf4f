package tools

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newQueryContext(query string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/test?"+query, nil)
	return c
}

func TestGetPage(t *testing.T) {
	offset, limit := GetPage(newQueryContext(""))
	require.Equal(t, 0, offset)
	require.Equal(t, defaultPageSize, limit)

	offset, limit = GetPage(newQueryContext("page=3&page_size=10"))
	require.Equal(t, 20, offset)
	require.Equal(t, 10, limit)

	_, limit = GetPage(newQueryContext("page_size=100000"))
	require.Equal(t, maxPageSize, limit)

	offset, _ = GetPage(newQueryContext("page=-1"))
	require.Equal(t, 0, offset)

	offset, limit = GetPage(newQueryContext("page=9223372036854775807&page_size=2"))
	require.Equal(t, 2, limit)
	require.Equal(t, (maxPage-1)*2, offset)

	offset, _ = GetPage(newQueryContext("page=9223372036854775807&page_size=300"))
	require.Positive(t, offset)
}

func TestQueryUint(t *testing.T) {
	require.Nil(t, QueryUint(newQueryContext(""), "competition_id"))
	require.Nil(t, QueryUint(newQueryContext("competition_id=abc"), "competition_id"))

	v := QueryUint(newQueryContext("competition_id=7"), "competition_id")
	require.NotNil(t, v)
	require.Equal(t, uint(7), *v)
}
