// Package api serves the muhasabah JSON API over gin.
//
// Handlers translate requests into Engine and todo.Service calls; every
// domain error is mapped to a status code in one place, writeError.
package api
