package server

import (
	"errors"
	"net/http"

	"github.com/KitchenMishap/huffpack/archive"
	"github.com/KitchenMishap/huffpack/logger"
	"github.com/gin-gonic/gin"
)

// DefaultMaxBody bounds request bodies; whole inputs are held in memory.
const DefaultMaxBody = 64 << 20

type CodecHandler struct {
	logger  logger.Logger
	maxBody int64
}

func NewCodecHandler(l logger.Logger, maxBody int64) *CodecHandler {
	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}
	return &CodecHandler{logger: l, maxBody: maxBody}
}

func (h *CodecHandler) body(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	data, err := c.GetRawData()
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.logger.Errorf("read body: %v", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, false
	}
	return data, true
}

func (h *CodecHandler) Encode(c *gin.Context) {
	data, ok := h.body(c)
	if !ok {
		return
	}
	b, res, err := archive.Encode(data)
	if err != nil {
		h.logger.Errorf("encode: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Infof("encoded %d bytes into %d (%d symbols)", len(data), len(b), res.Table.Len())
	c.Data(http.StatusOK, "application/octet-stream", b)
}

func (h *CodecHandler) Decode(c *gin.Context) {
	b, ok := h.body(c)
	if !ok {
		return
	}
	data, err := archive.Decode(b)
	if err != nil {
		h.logger.Errorf("decode: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", data)
}
