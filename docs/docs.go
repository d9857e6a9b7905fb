// Package docs holds the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/htlc/swaps": {
            "post": {
                "description": "Escrows the attached funds from the caller and locks them under a hashlock and timelock",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Swap"],
                "summary": "Initiate a swap",
                "operationId": "initiateSwap",
                "parameters": [
                    {"type": "string", "description": "Caller account", "name": "X-Account-Address", "in": "header", "required": true},
                    {"description": "Swap parameters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/swap.InitiateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Response-htlc_Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/view.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/view.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/view.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/view.ErrorResponse"}}
                }
            }
        },
        "/htlc/swaps/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Swap"],
                "summary": "Get a swap",
                "parameters": [{"type": "string", "description": "Swap id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Response-swap_SwapResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/view.ErrorResponse"}}
                }
            }
        },
        "/htlc/swaps/{id}/withdraw": {
            "post": {
                "description": "Releases a pending swap to its receiver when the preimage matches the hashlock",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Swap"],
                "summary": "Withdraw a swap",
                "operationId": "withdrawSwap",
                "parameters": [
                    {"type": "string", "description": "Caller account, must be the receiver", "name": "X-Account-Address", "in": "header", "required": true},
                    {"type": "string", "description": "Swap id", "name": "id", "in": "path", "required": true},
                    {"description": "Preimage", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/swap.WithdrawRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Response-htlc_Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/view.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/view.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/view.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/view.ErrorResponse"}}
                }
            }
        },
        "/htlc/swaps/{id}/refund": {
            "post": {
                "description": "Returns an expired swap to its sender",
                "produces": ["application/json"],
                "tags": ["Swap"],
                "summary": "Refund a swap",
                "operationId": "refundSwap",
                "parameters": [
                    {"type": "string", "description": "Caller account, must be the sender", "name": "X-Account-Address", "in": "header", "required": true},
                    {"type": "string", "description": "Swap id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Response-htlc_Result"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/view.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/view.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/view.ErrorResponse"}}
                }
            }
        },
        "/htlc/swaps/{id}/withdrawable": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Swap"],
                "summary": "Check whether a swap can be withdrawn now",
                "parameters": [{"type": "string", "description": "Swap id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Response-swap_EligibilityResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/view.ErrorResponse"}}
                }
            }
        },
        "/htlc/swaps/{id}/refundable": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Swap"],
                "summary": "Check whether a swap can be refunded now",
                "parameters": [{"type": "string", "description": "Swap id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Response-swap_EligibilityResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/view.ErrorResponse"}}
                }
            }
        },
        "/htlc/users/{address}/swaps": {
            "get": {
                "description": "Returns the ids of every swap the address takes part in, oldest first",
                "produces": ["application/json"],
                "tags": ["Swap"],
                "summary": "List the swaps of an address",
                "parameters": [{"type": "string", "description": "Account address", "name": "address", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Response-swap_UserSwapsResponse"}}
                }
            }
        },
        "/htlc/secrets": {
            "post": {
                "description": "Returns a random 32-byte hex preimage and the hashlock committing to it",
                "produces": ["application/json"],
                "tags": ["Secret"],
                "summary": "Generate a secret",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Response-htlc_Secret"}}
                }
            }
        },
        "/htlc/hashlocks": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Secret"],
                "summary": "Compute the hashlock of a secret",
                "parameters": [{"description": "Secret", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/swap.HashlockRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Response-swap_HashlockResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/view.ErrorResponse"}}
                }
            }
        },
        "/accounts/{address}/balances": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Get account balances",
                "parameters": [{"type": "string", "description": "Account address", "name": "address", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Response-account_BalancesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/view.ErrorResponse"}}
                }
            }
        },
        "/accounts/{address}/deposit": {
            "post": {
                "description": "Only available outside production and when FAUCET_ENABLED is set",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Credit an account from the faucet",
                "parameters": [
                    {"type": "string", "description": "Account address", "name": "address", "in": "path", "required": true},
                    {"description": "Coins to credit", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/account.DepositRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Response-account_BalancesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/view.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/view.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.Coin": {
            "type": "object",
            "properties": {"denom": {"type": "string"}, "amount": {"type": "string", "example": "1000"}}
        },
        "htlc.Attribute": {
            "type": "object",
            "properties": {"key": {"type": "string"}, "value": {"type": "string"}}
        },
        "model.Release": {
            "type": "object",
            "properties": {"to_address": {"type": "string"}, "denom": {"type": "string"}, "amount": {"type": "string"}}
        },
        "htlc.Result": {
            "type": "object",
            "properties": {
                "swap_id": {"type": "string"},
                "attributes": {"type": "array", "items": {"$ref": "#/definitions/htlc.Attribute"}},
                "releases": {"type": "array", "items": {"$ref": "#/definitions/model.Release"}}
            }
        },
        "htlc.Secret": {
            "type": "object",
            "properties": {"secret": {"type": "string"}, "hashlock": {"type": "string"}}
        },
        "swap.InitiateRequest": {
            "type": "object",
            "required": ["hashlock", "timelock", "receiver", "denom"],
            "properties": {
                "hashlock": {"type": "string"},
                "timelock": {"type": "integer"},
                "receiver": {"type": "string"},
                "denom": {"type": "string"},
                "amount": {"type": "string", "example": "1000"},
                "funds": {"type": "array", "items": {"$ref": "#/definitions/model.Coin"}}
            }
        },
        "swap.WithdrawRequest": {
            "type": "object",
            "required": ["preimage"],
            "properties": {"preimage": {"type": "string"}}
        },
        "swap.HashlockRequest": {
            "type": "object",
            "required": ["secret"],
            "properties": {"secret": {"type": "string"}}
        },
        "swap.HashlockResponse": {
            "type": "object",
            "properties": {"hashlock": {"type": "string"}}
        },
        "swap.SwapResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "hashlock": {"type": "string"},
                "timelock": {"type": "integer"},
                "sender": {"type": "string"},
                "receiver": {"type": "string"},
                "denom": {"type": "string"},
                "amount": {"type": "string"},
                "withdrawn": {"type": "boolean"},
                "refunded": {"type": "boolean"},
                "preimage": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "withdrawn", "refunded"]}
            }
        },
        "swap.UserSwapsResponse": {
            "type": "object",
            "properties": {"address": {"type": "string"}, "swap_ids": {"type": "array", "items": {"type": "string"}}}
        },
        "swap.EligibilityResponse": {
            "type": "object",
            "properties": {"swap_id": {"type": "string"}, "withdrawable": {"type": "boolean"}, "refundable": {"type": "boolean"}}
        },
        "account.DepositRequest": {
            "type": "object",
            "required": ["coins"],
            "properties": {"coins": {"type": "array", "items": {"$ref": "#/definitions/model.Coin"}}}
        },
        "account.BalancesResponse": {
            "type": "object",
            "properties": {"address": {"type": "string"}, "balances": {"type": "array", "items": {"$ref": "#/definitions/model.Coin"}}}
        },
        "view.ErrorInfo": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "kind": {"type": "string"}, "message": {"type": "string"}}
        },
        "view.ErrorResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "error": {"$ref": "#/definitions/view.ErrorInfo"}}
        },
        "view.Response-htlc_Result": {
            "type": "object",
            "properties": {"data": {"$ref": "#/definitions/htlc.Result"}, "message": {"type": "string"}}
        },
        "view.Response-htlc_Secret": {
            "type": "object",
            "properties": {"data": {"$ref": "#/definitions/htlc.Secret"}, "message": {"type": "string"}}
        },
        "view.Response-swap_SwapResponse": {
            "type": "object",
            "properties": {"data": {"$ref": "#/definitions/swap.SwapResponse"}, "message": {"type": "string"}}
        },
        "view.Response-swap_UserSwapsResponse": {
            "type": "object",
            "properties": {"data": {"$ref": "#/definitions/swap.UserSwapsResponse"}, "message": {"type": "string"}}
        },
        "view.Response-swap_EligibilityResponse": {
            "type": "object",
            "properties": {"data": {"$ref": "#/definitions/swap.EligibilityResponse"}, "message": {"type": "string"}}
        },
        "view.Response-swap_HashlockResponse": {
            "type": "object",
            "properties": {"data": {"$ref": "#/definitions/swap.HashlockResponse"}, "message": {"type": "string"}}
        },
        "view.Response-account_BalancesResponse": {
            "type": "object",
            "properties": {"data": {"$ref": "#/definitions/account.BalancesResponse"}, "message": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "HTLC Backend API",
	Description:      "Hash time-locked swaps between two parties, with custody of escrowed funds.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
