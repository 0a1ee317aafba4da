package xhttp

import (
	"github.com/fasthttp/router"
)

type Router = router.Router
type Group = router.Group

func NewRouter() *Router {
	return router.New()
}

// CreateDefaultRouter returns a router that answers unknown paths and
// methods with a JSON 404 and fixes trailing slashes.
func CreateDefaultRouter() *Router {
	r := NewRouter()
	r.RedirectFixedPath = true
	r.RedirectTrailingSlash = true
	r.SaveMatchedRoutePath = true
	r.NotFound = NotFoundHandler
	r.MethodNotAllowed = MethodNotAllowedHandler
	r.HandleOPTIONS = false
	r.HandleMethodNotAllowed = true
	return r
}

func NotFoundHandler(ctx *RequestCtx) {
	writeStatus(ctx, StatusNotFound, "route not found")
}

func MethodNotAllowedHandler(ctx *RequestCtx) {
	writeStatus(ctx, StatusMethodNotAllowed, "method not allowed")
}

func writeStatus(ctx *RequestCtx, status int, msg string) {
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyString(`{"error":"` + msg + `"}`)
}
