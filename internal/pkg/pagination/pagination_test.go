package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]Query{
		"/":                    {Page: 1, Size: DefaultSize},
		"/?page=3&size=20":     {Page: 3, Size: 20},
		"/?page=-1&size=0":     {Page: 1, Size: DefaultSize},
		"/?page=abc&size=9999": {Page: 1, Size: MaxSize},
	}
	for target, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", target, nil)
		assert.Equal(t, want, FromContext(c), target)
	}
}

func TestMeta(t *testing.T) {
	m := Meta(Query{Page: 1, Size: 50}, 120)
	assert.Equal(t, 3, m.TotalPage)
	assert.True(t, m.HasNextPage)

	m = Meta(Query{Page: 3, Size: 50}, 120)
	assert.False(t, m.HasNextPage)

	m = Meta(Query{Page: 1, Size: 50}, 0)
	assert.Equal(t, 0, m.TotalPage)
	assert.False(t, m.HasNextPage)
}
