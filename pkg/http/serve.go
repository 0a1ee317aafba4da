package xhttp

import (
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
	"github.com/valyala/fasthttp"
)

type ServerOption struct {
	Name               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	MaxRequestBodySize int
	Concurrency        int
}

var DefaultServerOption = ServerOption{
	Name:               "tiendex",
	ReadTimeout:        2500 * time.Millisecond,
	WriteTimeout:       2500 * time.Millisecond,
	IdleTimeout:        10 * time.Second,
	MaxRequestBodySize: 1 * 1024 * 1024,
	Concurrency:        30_000,
}

type Server = fasthttp.Server

// Engine couples the router with a fasthttp server and a middleware chain.
type Engine struct {
	*Router
	*Server
	middle []MiddlewareFunc
}

func NewServer(options ServerOption) *Engine {
	return &Engine{
		Router: CreateDefaultRouter(),
		Server: &fasthttp.Server{
			Name:                  options.Name,
			ReadTimeout:           options.ReadTimeout,
			WriteTimeout:          options.WriteTimeout,
			IdleTimeout:           options.IdleTimeout,
			MaxRequestBodySize:    options.MaxRequestBodySize,
			Concurrency:           options.Concurrency,
			NoDefaultServerHeader: true,
			CloseOnShutdown:       true,
			Logger:                logger.GetLogger(),
			ErrorHandler: func(ctx *RequestCtx, err error) {
				logger.Warn("[xhttp] request error", "error", err)
				writeStatus(ctx, StatusBadRequest, "malformed request")
			},
		},
	}
}

func CreateServer() *Engine {
	return NewServer(DefaultServerOption)
}

// Use appends middleware. The first registered one runs first.
func (e *Engine) Use(middleware MiddlewareFunc) {
	e.middle = append(e.middle, middleware)
}

// Handler builds the final handler: router wrapped by the middleware chain.
func (e *Engine) Handler() RequestHandler {
	h := e.Router.Handler
	for _, m := range slices.Backward(e.middle) {
		h = m(h)
	}
	return h
}

func (e *Engine) ListenAndServe(addr string) error {
	for method, routes := range e.Router.List() {
		for _, r := range routes {
			logger.Debug("[xhttp] route", "method", method, "path", r)
		}
	}
	e.Server.Handler = e.Handler()
	logger.Info("[xhttp] server is listening", "addr", addr)
	return e.Server.ListenAndServe(addr)
}

// CloseOnSignal shuts the server down gracefully on SIGINT or SIGTERM.
func (e *Engine) CloseOnSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		e.Shutdown()
	}()
}

func (e *Engine) Shutdown() {
	logger.Info("[xhttp] server is shutting down", "pid", os.Getpid())
	if err := e.Server.Shutdown(); err != nil {
		logger.Error("[xhttp] error while shutting down", "error", err)
	}
}
