package app

import (
	"github.com/gemora/store-manager/internal/apisrv/auth"
	"github.com/gemora/store-manager/internal/dependency"
	"github.com/gemora/store-manager/internal/entity"
	"github.com/gemora/store-manager/internal/projection"
)

// Config is the HTTP server configuration.
type Config struct {
	Port   string `mapstructure:"port"`
	Origin string `mapstructure:"origin"`
	Debug  bool   `mapstructure:"debug"`
}

// Server carries the collaborators the HTTP handlers work with. List
// endpoints read from projections; mutations go through the repository and
// notify the change feed.
type Server struct {
	c     *Config
	db    dependency.Repository
	files dependency.FileStore
	feed  dependency.ChangeFeed
	auth  *auth.Server

	catalogView  *projection.Projection[entity.Product]
	receiptsView *projection.Projection[entity.OrderReceipt]
	bannersView  *projection.Projection[entity.Banner]
}

func InitServer(
	c *Config,
	db dependency.Repository,
	files dependency.FileStore,
	feed dependency.ChangeFeed,
	authS *auth.Server,
	catalogView *projection.Projection[entity.Product],
	receiptsView *projection.Projection[entity.OrderReceipt],
	bannersView *projection.Projection[entity.Banner],
) *Server {
	return &Server{
		c:            c,
		db:           db,
		files:        files,
		feed:         feed,
		auth:         authS,
		catalogView:  catalogView,
		receiptsView: receiptsView,
		bannersView:  bannersView,
	}
}
