package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pageQuery reads page/per_page query params with the defaults services
// expect. Out-of-range values are clamped at the service layer.
func pageQuery(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	return page, perPage
}
