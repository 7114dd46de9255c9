package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           locationd API
// @version         1.0
// @description     HTTP API for local geolocation sessions: location, heading and region-monitoring requests.
//
// @contact.name   locationd maintainers
// @contact.url    https://github.com/your-org/locationd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
