package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func pageQueryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/tests?"+rawQuery, nil)
	return c
}

func TestPageQuery(t *testing.T) {
	cases := []struct {
		name        string
		rawQuery    string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "page=3&per_page=50", 3, 50},
		{"page only", "page=7", 7, 20},
		{"per_page only", "per_page=5", 1, 5},
		{"garbage falls back to zero", "page=abc&per_page=xyz", 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := pageQueryContext(t, tc.rawQuery)

			page, perPage := pageQuery(c)
			if page != tc.wantPage || perPage != tc.wantPerPage {
				t.Errorf("pageQuery() = (%d, %d), want (%d, %d)",
					page, perPage, tc.wantPage, tc.wantPerPage)
			}
		})
	}
}
