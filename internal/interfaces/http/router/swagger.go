package router

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//go:embed openapi.yaml
var openAPISpec []byte

const openAPIPath = "/openapi.yaml"

// registerSwagger serves the API document and the Swagger UI that renders it
func registerSwagger(engine *gin.Engine) {
	engine.GET(openAPIPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", openAPISpec)
	})
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL(openAPIPath),
		ginSwagger.DocExpansion("none"),
	))
}
