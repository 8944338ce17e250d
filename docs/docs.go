// Package docs registra el documento OpenAPI de la API en swag.
// Regenerar swagger.json con: swag init -g cmd/api/main.go --outputTypes json
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo metadatos expuestos a swag.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Title:            "CRM Sync API",
	Description:      "API del CRM: Primary Store relacional con réplica en Google Sheets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
