package common

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func queryContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestGetLimitParam(t *testing.T) {
	cases := map[string]int{
		"":          50,
		"limit=abc": 50,
		"limit=-3":  50,
		"limit=20":  20,
		"limit=500": 100,
	}
	for query, want := range cases {
		assert.Equal(t, want, GetLimitParam(queryContext(query), 50, 100), query)
	}
	assert.Equal(t, 500, GetLimitParam(queryContext("limit=500"), 50, 0))
}

func TestGetPaginationParams(t *testing.T) {
	page, size := GetPaginationParams(queryContext(""))
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultPageSize, size)

	page, size = GetPaginationParams(queryContext("page=3&page_size=1000"))
	assert.Equal(t, 3, page)
	assert.Equal(t, MaxPageSize, size)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(0, 10))
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 20, Offset(3, 10))
}
