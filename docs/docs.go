// Package docs registra la especificación swagger del API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/pets": {
            "get": {
                "summary": "Lista mascotas adoptables (search + category, más nuevas primero)",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "summary": "Publica una mascota para adopción",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/adoptions": {
            "post": {
                "summary": "Envía una solicitud de adopción",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Pet Not Found"}, "409": {"description": "Already Adopted"}}
            }
        },
        "/adoptions/accept/{id}": {
            "patch": {
                "summary": "Acepta una solicitud (solo dueño de la mascota)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        },
        "/adoptions/reject/{id}": {
            "patch": {
                "summary": "Rechaza una solicitud (solo dueño de la mascota)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/adoptions/my-pets-requests": {
            "get": {
                "summary": "Solicitudes recibidas sobre las mascotas del caller",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/donationCampaigns/create": {
            "post": {
                "summary": "Crea una campaña de donación",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/donationCampaigns/pause/{id}": {
            "patch": {
                "summary": "Pausa/reanuda una campaña (solo dueño)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/create-payment-intent": {
            "post": {
                "summary": "Pide un payment intent al proveedor",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "502": {"description": "Provider Unavailable"}}
            }
        },
        "/save-donation": {
            "post": {
                "summary": "Reconcilia un pago exitoso en el ledger (idempotente por payment_id)",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Campaign Not Found"}, "409": {"description": "Duplicate Payment"}}
            }
        },
        "/donations/refund/{campaignId}": {
            "delete": {
                "summary": "Quita todas las donaciones del caller en la campaña",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "No Prior Donation"}, "404": {"description": "Campaign Not Found"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pawlume API",
	Description:      "Backend de adopción de mascotas y campañas de donación.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
