// Package httpapi serves the chat relay and the directory over HTTP with gin.
package httpapi
