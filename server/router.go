package server

import (
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	CodecHandler *CodecHandler
}

func Register(r *gin.Engine, d Dependencies) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/encode", d.CodecHandler.Encode)
		v1.POST("/decode", d.CodecHandler.Decode)
	}
}

func New(d Dependencies) *gin.Engine {
	r := gin.Default()
	Register(r, d)
	return r
}
