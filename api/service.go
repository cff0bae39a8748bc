package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Drolfothesgnir/bbtext/bbcode"
	"github.com/Drolfothesgnir/bbtext/resource"
	"github.com/Drolfothesgnir/bbtext/tmpstore"
	"github.com/Drolfothesgnir/bbtext/util"
)

const (
	// api routes
	PingURL  = "/ping"
	TagsURL  = "/tags"
	ParseURL = "/parse"
	PlainURL = "/plain"

	// CacheHeader tells whether the response came from the cache.
	CacheHeader = "X-Cache"
)

var (
	// api errors
	ErrInvalidParams    = errors.New("invalid parameters")
	ErrDocumentTooLarge = errors.New("document is too large")
	ErrParseFailed      = errors.New("failed to parse document")
)

type Service struct {
	config   util.Config
	registry *bbcode.Registry
	loader   resource.Loader
	defaults bbcode.Defaults
	cache    tmpstore.Store
	variant  string
	server   *http.Server
	router   *gin.Engine
}

// Returns new service instance. The registry is shared by all the requests and must not
// be modified afterwards. loader and cache are optional.
func NewService(
	config util.Config,
	registry *bbcode.Registry,
	loader resource.Loader,
	cache tmpstore.Store,
) (*Service, error) {
	if registry == nil {
		return nil, errors.New("registry is required")
	}

	addr, err := config.ListenAddress()
	if err != nil {
		return nil, err
	}

	defaults, err := config.Defaults(loader)
	if err != nil {
		return nil, err
	}

	service := &Service{
		config:   config,
		registry: registry,
		loader:   loader,
		defaults: defaults,
		cache:    cache,
		variant:  fmt.Sprintf("%d.%d.%d", config.MaxTagLen, config.MaxLookahead, config.MaxWarnings),
	}

	server := &http.Server{
		Addr: addr,
	}

	// caps how long a client can take to send just the headers (blocks slowloris).
	server.ReadHeaderTimeout = 5 * time.Second
	// caps time to read the full request (incl. body).
	server.ReadTimeout = 10 * time.Second
	// caps time you’ll spend writing the response (no “forever hanging” clients)
	server.WriteTimeout = 15 * time.Second
	// how long to keep idle keep-alive connections open.
	server.IdleTimeout = 60 * time.Second

	service.setupRouter(server)

	service.server = server

	return service, nil
}

// newParser returns a parser configured for a single request.
func (service *Service) newParser(listeners ...bbcode.Listener) (*bbcode.Parser, error) {
	opts := []bbcode.ParserOption{
		bbcode.WithDefaults(service.defaults),
		bbcode.WithLimits(service.config.Limits()),
		bbcode.WithWarnings(bbcode.WarnOverflowTrunc, service.config.MaxWarnings),
	}

	if service.loader != nil {
		opts = append(opts, bbcode.WithLoader(service.loader))
	}

	for _, l := range listeners {
		opts = append(opts, bbcode.WithListener(l))
	}

	return bbcode.New(service.registry, opts...)
}

// Start runs the HTTP server
func (service *Service) Start() error {
	return service.server.ListenAndServe()
}

func (service *Service) Shutdown(ctx context.Context) error {
	return service.server.Shutdown(ctx)
}
