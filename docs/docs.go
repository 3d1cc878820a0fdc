// Package docs holds the OpenAPI description served by gin-swagger.
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
        "/wallets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Per-wallet pool data",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/restapi.WalletsResponse"}}
                }
            }
        },
        "/wallets/{walletId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "One wallet's pool data",
                "parameters": [
                    {"type": "string", "description": "Wallet id", "name": "walletId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.WalletData"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/restapi.ErrorResponse"}}
                }
            }
        },
        "/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["wallets"],
                "summary": "Start a refresh cycle",
                "responses": {
                    "200": {"description": "Already running", "schema": {"$ref": "#/definitions/restapi.RefreshResponse"}},
                    "202": {"description": "Started", "schema": {"$ref": "#/definitions/restapi.RefreshResponse"}}
                }
            }
        },
        "/coins": {
            "get": {
                "produces": ["application/json"],
                "tags": ["registry"],
                "summary": "Supported coins",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entity.CoinConfig"}}}
                }
            }
        },
        "/pools": {
            "get": {
                "produces": ["application/json"],
                "tags": ["registry"],
                "summary": "Supported pools",
                "parameters": [
                    {"type": "string", "description": "Only pools mining this coin", "name": "coin", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entity.PoolInfo"}}}
                }
            }
        },
        "/pools/{poolId}/{coin}/{address}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pools"],
                "summary": "Look up one address on one pool",
                "parameters": [
                    {"type": "string", "description": "Pool id", "name": "poolId", "in": "path", "required": true},
                    {"type": "string", "description": "Coin id", "name": "coin", "in": "path", "required": true},
                    {"type": "string", "description": "Wallet address", "name": "address", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/restapi.PoolFetchResponse"}},
                    "400": {"description": "Unsupported pool or coin", "schema": {"$ref": "#/definitions/restapi.ErrorResponse"}},
                    "404": {"description": "No data for address", "schema": {"$ref": "#/definitions/restapi.ErrorResponse"}},
                    "502": {"description": "Pool unreachable or response not understood", "schema": {"$ref": "#/definitions/restapi.ErrorResponse"}}
                }
            }
        },
        "/ws": {
            "get": {
                "tags": ["wallets"],
                "summary": "Live refresh events (WebSocket)",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        }
    },
    "definitions": {
        "entity.CoinConfig": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "displayName": {"type": "string"},
                "symbol": {"type": "string"},
                "priceFeedId": {"type": "string"},
                "decimals": {"type": "integer"},
                "addressFormat": {"type": "string"}
            }
        },
        "entity.PoolInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "displayName": {"type": "string"},
                "coins": {"type": "array", "items": {"type": "string"}}
            }
        },
        "entity.Worker": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "hashrate": {"type": "number"},
                "hashrate24h": {"type": "number"},
                "lastSeen": {"type": "string", "format": "date-time"},
                "offline": {"type": "boolean"},
                "shares": {"type": "number"},
                "bestShare": {"type": "number"},
                "sharesPerSecond": {"type": "number"}
            }
        },
        "entity.PoolStats": {
            "type": "object",
            "properties": {
                "hashrate": {"type": "number"},
                "hashrate5m": {"type": "number"},
                "hashrate24h": {"type": "number"},
                "workers": {"type": "array", "items": {"$ref": "#/definitions/entity.Worker"}},
                "workersOnline": {"type": "integer"},
                "workersTotal": {"type": "integer"},
                "balance": {"type": "number"},
                "paid": {"type": "number"},
                "earnings24h": {"type": "number"},
                "shares": {"type": "number"},
                "bestShare": {"type": "number"},
                "bestEver": {"type": "number"},
                "lastShare": {"type": "string", "format": "date-time"}
            }
        },
        "entity.ProfitBreakdown": {
            "type": "object",
            "properties": {
                "priceUsd": {"type": "number"},
                "balanceUsd": {"type": "number"},
                "earnings24hUsd": {"type": "number"},
                "electricityCost": {"type": "number"},
                "netProfit": {"type": "number"}
            }
        },
        "entity.WalletData": {
            "type": "object",
            "properties": {
                "walletId": {"type": "string"},
                "name": {"type": "string"},
                "poolId": {"type": "string"},
                "coin": {"type": "string"},
                "hashrate": {"type": "number"},
                "hashrateDisplay": {"type": "string"},
                "hashrate24h": {"type": "number"},
                "balance": {"type": "number"},
                "earnings24h": {"type": "number"},
                "workers": {"type": "array", "items": {"$ref": "#/definitions/entity.Worker"}},
                "workersOnline": {"type": "integer"},
                "workersTotal": {"type": "integer"},
                "lastUpdated": {"type": "string", "format": "date-time"},
                "dashboardUrl": {"type": "string"},
                "profit": {"$ref": "#/definitions/entity.ProfitBreakdown"},
                "error": {"type": "string"},
                "errorKind": {"type": "string", "enum": ["unsupported", "fetch_failed", "parse_failed", "no_data", "restricted", "internal"]},
                "restricted": {"type": "boolean"}
            }
        },
        "restapi.WalletsResponse": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "enum": ["idle", "fetching"]},
                "cycleId": {"type": "string"},
                "lastRefreshedAt": {"type": "string", "format": "date-time"},
                "lastRefreshed": {"type": "string"},
                "wallets": {"type": "array", "items": {"$ref": "#/definitions/entity.WalletData"}}
            }
        },
        "restapi.RefreshResponse": {
            "type": "object",
            "properties": {
                "started": {"type": "boolean"},
                "state": {"type": "string", "enum": ["idle", "fetching"]}
            }
        },
        "restapi.PoolFetchResponse": {
            "type": "object",
            "properties": {
                "poolId": {"type": "string"},
                "coin": {"type": "string"},
                "address": {"type": "string"},
                "dashboardUrl": {"type": "string"},
                "fetchedAt": {"type": "string", "format": "date-time"},
                "stats": {"$ref": "#/definitions/entity.PoolStats"}
            }
        },
        "restapi.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "details": {"type": "string"}
                    }
                },
                "requestId": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Pool Monitor API",
	Description:      "Aggregated mining pool statistics for a user's wallets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
