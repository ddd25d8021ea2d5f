// Package middleware contains the HTTP middleware shared by the API routes.
package middleware
