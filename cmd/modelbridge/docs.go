package main

// General API documentation for swaggo. Run `swag init -g cmd/modelbridge/docs.go -o docs` to regenerate.
//
// @title           modelbridge API
// @version         1.0
// @description     HTTP API for the native model session: handshake, load, unload and embeddings.
//
// @contact.name   modelbridge maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
