// Package docs contiene el documento OpenAPI 2.0 servido en /swagger/*.
// Se mantiene a mano junto con las anotaciones de los handlers.
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
        "/api/users/users/current": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "profiles"
                ],
                "summary": "Perfil del usuario actual",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/profiles.profileResponse"
                        }
                    },
                    "401": {
                        "description": "unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "description": "Devuelve el perfil del usuario autenticado; si es su primer acceso se crea vacío."
            }
        },
        "/api/users/users/current/picture": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "profiles"
                ],
                "summary": "Subir foto de perfil",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Archivo",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/profiles.pictureResponse"
                        }
                    },
                    "400": {
                        "description": "unsupported file format",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "413": {
                        "description": "file too large",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "429": {
                        "description": "too many requests",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "storage error",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "consumes": [
                    "multipart/form-data"
                ],
                "description": "multipart/form-data con campo ` + "`file`" + `. Solo .jpg, .jpeg, .png."
            }
        },
        "/api/users/users/{userID}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "profiles"
                ],
                "summary": "Perfil por ID",
                "parameters": [
                    {
                        "type": "string",
                        "description": "userID",
                        "name": "userID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/profiles.profileResponse"
                        }
                    },
                    "401": {
                        "description": "unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "user not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "put": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "profiles"
                ],
                "summary": "Actualizar perfil (PUT reemplaza, PATCH parcial)",
                "parameters": [
                    {
                        "type": "string",
                        "description": "userID",
                        "name": "userID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Campos del perfil",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/profiles.updateProfileRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/profiles.updateProfileResponse"
                        }
                    },
                    "400": {
                        "description": "invalid json",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "401": {
                        "description": "unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "user not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "422": {
                        "description": "validation failed",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            },
            "patch": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "profiles"
                ],
                "summary": "Actualizar perfil (PUT reemplaza, PATCH parcial)",
                "parameters": [
                    {
                        "type": "string",
                        "description": "userID",
                        "name": "userID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Campos del perfil",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/profiles.updateProfileRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/profiles.updateProfileResponse"
                        }
                    },
                    "400": {
                        "description": "invalid json",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "401": {
                        "description": "unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "user not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "422": {
                        "description": "validation failed",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/api/users/search": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "profiles"
                ],
                "summary": "Buscar usuarios",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Texto a buscar",
                        "name": "query",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/profiles.searchHitResponse"
                            }
                        }
                    },
                    "401": {
                        "description": "unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "503": {
                        "description": "search unavailable",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/api/users/specializations": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "specializations"
                ],
                "summary": "Listar especializaciones",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/specializations.specializationResponse"
                            }
                        }
                    }
                },
                "security": []
            },
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "specializations"
                ],
                "summary": "Crear especialización",
                "parameters": [
                    {
                        "description": "Especialización",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/specializations.createRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/specializations.specializationResponse"
                        }
                    },
                    "401": {
                        "description": "unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "422": {
                        "description": "validation failed",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/api/users/specializations/{specID}": {
            "put": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "specializations"
                ],
                "summary": "Editar especialización",
                "parameters": [
                    {
                        "type": "string",
                        "description": "specID",
                        "name": "specID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Campos a cambiar",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/specializations.updateRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/specializations.specializationResponse"
                        }
                    },
                    "404": {
                        "description": "specialization not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            },
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "specializations"
                ],
                "summary": "Borrar especialización",
                "parameters": [
                    {
                        "type": "string",
                        "description": "specID",
                        "name": "specID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "specialization not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/api/users/users/{userID}/social-links": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "social-links"
                ],
                "summary": "Social links de un usuario",
                "parameters": [
                    {
                        "type": "string",
                        "description": "userID",
                        "name": "userID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/sociallinks.linkResponse"
                            }
                        }
                    },
                    "401": {
                        "description": "unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/api/users/users/current/social-links": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "social-links"
                ],
                "summary": "Social links del usuario actual",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/sociallinks.linkResponse"
                            }
                        }
                    },
                    "401": {
                        "description": "unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "social-links"
                ],
                "summary": "Agregar social link",
                "parameters": [
                    {
                        "description": "Link",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/sociallinks.linkRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/sociallinks.linkResponse"
                        }
                    },
                    "401": {
                        "description": "unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "422": {
                        "description": "validation failed",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/api/users/users/current/social-links/{linkID}": {
            "put": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "social-links"
                ],
                "summary": "Editar social link propio",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "linkID",
                        "name": "linkID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Link",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/sociallinks.linkRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/sociallinks.linkResponse"
                        }
                    },
                    "404": {
                        "description": "social link not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            },
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "social-links"
                ],
                "summary": "Borrar social link propio",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "linkID",
                        "name": "linkID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "social link not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/api/users/pets": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "pets"
                ],
                "summary": "Listar mascotas",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Dueño (default: usuario actual)",
                        "name": "user_id",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/pets.petResponse"
                            }
                        }
                    },
                    "401": {
                        "description": "unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "pets"
                ],
                "summary": "Registrar mascota",
                "parameters": [
                    {
                        "description": "Mascota",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/pets.createPetRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/pets.petResponse"
                        }
                    },
                    "401": {
                        "description": "unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "422": {
                        "description": "validation failed",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/api/users/pets/{petID}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "pets"
                ],
                "summary": "Detalle de mascota propia",
                "parameters": [
                    {
                        "type": "string",
                        "description": "petID",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/pets.petResponse"
                        }
                    },
                    "404": {
                        "description": "pet not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "patch": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "pets"
                ],
                "summary": "Actualizar mascota (parcial)",
                "parameters": [
                    {
                        "type": "string",
                        "description": "petID",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Campos a cambiar",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/pets.updatePetRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/pets.petResponse"
                        }
                    },
                    "404": {
                        "description": "pet not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            },
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "pets"
                ],
                "summary": "Borrar mascota propia",
                "parameters": [
                    {
                        "type": "string",
                        "description": "petID",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "pet not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/api/services": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "services"
                ],
                "summary": "Listar servicios",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/services.serviceResponse"
                            }
                        }
                    },
                    "401": {
                        "description": "unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/api/services/current": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "services"
                ],
                "summary": "Publicar servicio",
                "parameters": [
                    {
                        "description": "Servicio",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/services.createServiceRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/services.serviceResponse"
                        }
                    },
                    "400": {
                        "description": "invalid json",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "401": {
                        "description": "unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "422": {
                        "description": "validation failed",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/api/services/{serviceID}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "services"
                ],
                "summary": "Detalle de servicio",
                "parameters": [
                    {
                        "type": "string",
                        "description": "serviceID",
                        "name": "serviceID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.serviceDetailResponse"
                        }
                    },
                    "404": {
                        "description": "service not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "put": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "services"
                ],
                "summary": "Editar servicio propio",
                "parameters": [
                    {
                        "type": "string",
                        "description": "serviceID",
                        "name": "serviceID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Campos a cambiar",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/services.updateServiceRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.serviceResponse"
                        }
                    },
                    "404": {
                        "description": "service not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "422": {
                        "description": "validation failed",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "description": "Campos ausentes no se tocan."
            },
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "services"
                ],
                "summary": "Borrar servicio propio",
                "parameters": [
                    {
                        "type": "string",
                        "description": "serviceID",
                        "name": "serviceID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "service not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "description": "Borra también su media."
            }
        },
        "/api/services/{serviceID}/media": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "services"
                ],
                "summary": "Subir media a un servicio propio",
                "parameters": [
                    {
                        "type": "string",
                        "description": "serviceID",
                        "name": "serviceID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "file",
                        "description": "Archivo",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/services.mediaResponse"
                        }
                    },
                    "400": {
                        "description": "unsupported file format",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "service not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "413": {
                        "description": "file too large",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "storage error",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "consumes": [
                    "multipart/form-data"
                ],
                "description": "multipart/form-data con campo ` + "`file`" + `. Imágenes (.jpg, .jpeg, .png) o videos (.mp4, .avi, .mov)."
            }
        },
        "/admin/api/users/users/{userID}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "admin"
                ],
                "summary": "Perfil por ID (admin)",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Token de servicio",
                        "name": "X-Admin-Token",
                        "in": "header",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "userID",
                        "name": "userID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/profiles.adminProfileResponse"
                        }
                    },
                    "401": {
                        "description": "unauthorized",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "user not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                },
                "security": []
            }
        }
    },
    "definitions": {
        "pets.createPetRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "species": {
                    "type": "string"
                },
                "breed": {
                    "type": "string"
                },
                "gender": {
                    "type": "string"
                },
                "date_of_birth": {
                    "type": "string"
                },
                "weight": {
                    "type": "number"
                },
                "description": {
                    "type": "string"
                }
            },
            "required": [
                "name",
                "species"
            ]
        },
        "pets.petResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "owner_id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "species": {
                    "type": "string"
                },
                "breed": {
                    "type": "string"
                },
                "gender": {
                    "type": "string"
                },
                "date_of_birth": {
                    "type": "string"
                },
                "weight": {
                    "type": "number"
                },
                "description": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "pets.updatePetRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "species": {
                    "type": "string"
                },
                "breed": {
                    "type": "string"
                },
                "gender": {
                    "type": "string"
                },
                "date_of_birth": {
                    "type": "string"
                },
                "weight": {
                    "type": "number"
                },
                "description": {
                    "type": "string"
                }
            }
        },
        "profiles.SyncReport": {
            "type": "object",
            "properties": {
                "directory": {
                    "type": "string",
                    "enum": [
                        "ok",
                        "failed",
                        "skipped"
                    ]
                },
                "search": {
                    "type": "string",
                    "enum": [
                        "ok",
                        "failed",
                        "skipped"
                    ]
                }
            }
        },
        "profiles.adminProfileResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "firstName": {
                    "type": "string"
                },
                "lastName": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                },
                "picture": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                }
            }
        },
        "profiles.pictureResponse": {
            "type": "object",
            "properties": {
                "url": {
                    "type": "string"
                }
            }
        },
        "profiles.profileResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "firstName": {
                    "type": "string"
                },
                "lastName": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                },
                "picture": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "about_me": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "specializations": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "social_links": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/profiles.socialLinkResponse"
                    }
                }
            }
        },
        "profiles.searchHitResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                }
            }
        },
        "profiles.socialLinkResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "platform": {
                    "type": "string"
                },
                "url": {
                    "type": "string"
                }
            }
        },
        "profiles.updateProfileRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "firstName": {
                    "type": "string"
                },
                "lastName": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                },
                "about_me": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "specializations": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "profiles.updateProfileResponse": {
            "allOf": [
                {
                    "$ref": "#/definitions/profiles.profileResponse"
                },
                {
                    "type": "object",
                    "properties": {
                        "sync": {
                            "$ref": "#/definitions/profiles.SyncReport"
                        }
                    }
                }
            ]
        },
        "services.createServiceRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "price": {
                    "type": "string",
                    "example": "49.99"
                },
                "times": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                }
            },
            "required": [
                "name"
            ]
        },
        "services.mediaResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "url": {
                    "type": "string"
                },
                "media_type": {
                    "type": "string",
                    "enum": [
                        "image",
                        "video"
                    ]
                }
            }
        },
        "services.serviceDetailResponse": {
            "allOf": [
                {
                    "$ref": "#/definitions/services.serviceResponse"
                },
                {
                    "type": "object",
                    "properties": {
                        "media": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/services.mediaResponse"
                            }
                        }
                    }
                }
            ]
        },
        "services.serviceResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "profile_id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "price": {
                    "type": "number"
                },
                "times": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "services.updateServiceRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "price": {
                    "type": "string",
                    "example": "49.99"
                },
                "times": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                }
            }
        },
        "sociallinks.linkRequest": {
            "type": "object",
            "properties": {
                "platform": {
                    "type": "string"
                },
                "url": {
                    "type": "string"
                }
            },
            "required": [
                "platform",
                "url"
            ]
        },
        "sociallinks.linkResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "platform": {
                    "type": "string"
                },
                "url": {
                    "type": "string"
                }
            }
        },
        "specializations.createRequest": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "short_description": {
                    "type": "string"
                }
            },
            "required": [
                "title"
            ]
        },
        "specializations.specializationResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "short_description": {
                    "type": "string"
                }
            }
        },
        "specializations.updateRequest": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "short_description": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [
        {
            "BearerAuth": []
        }
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Paw Connect Users API",
	Description:      "Perfiles, mascotas, servicios y búsqueda de usuarios.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
