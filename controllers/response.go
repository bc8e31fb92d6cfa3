package controllers

import (
	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/gin-gonic/gin"
)

// respond writes the success envelope. Empty message and nil data are omitted.
func respond(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondPage(c *gin.Context, status int, data any, meta services.Page) {
	c.JSON(status, gin.H{"success": true, "data": data, "meta": meta})
}
