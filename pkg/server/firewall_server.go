package server

import (
	"fmt"

	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/config"
	handlers "github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/handlers/http"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/infra/prometheus"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/middleware"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	FirewallServerDI struct {
		Config              *config.Config
		Logger              *logrus.Logger
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
	}
	FirewallServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
	}
)

func NewFirewallServer(di FirewallServerDI) *FirewallServer {
	if di.Config.Metrics.Enabled {
		prometheus.Initialize()
	}

	s := &FirewallServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
	}

	s.BaseServer.setupMetricsEndpoint()
	return s
}

func (s *FirewallServer) Run() error {
	s.BaseServer.WithRouters(
		router.NewFirewallRouter(&s.middlewareTransport, s.handlerTransport),
	)

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("Starting firewall server")
	return s.Router.Listen(addr)
}

func (s *FirewallServer) Shutdown() error {
	return s.Router.Shutdown()
}
