package httpresp

import "github.com/gin-gonic/gin"

// Envelope is the success shape both frontends parse: {"message":"success"}
// plus a data payload.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func OK(c *gin.Context, data any) {
	c.JSON(200, Envelope{
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data any) {
	c.JSON(201, Envelope{
		Message: "success",
		Data:    data,
	})
}
