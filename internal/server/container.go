package server

import (
	"time"

	"donation-core/internal/handler"
	"donation-core/internal/service/attribution"
	"donation-core/internal/service/catalog"
	"donation-core/internal/service/custody"
	"donation-core/internal/service/donation"
	"donation-core/internal/service/ledger"
	"donation-core/internal/service/voting"
	"donation-core/internal/store"
	"donation-core/pkg/cache"
	"donation-core/pkg/config"
)

// Deps 进程级依赖; 全部在 main 中创建
type Deps struct {
	Store    store.Store
	Registry custody.PendingRegistry
	Cache    cache.Cache
	TokenTTL time.Duration
	Custody  config.CustodyConfig
}

// Container 业务服务集合; Reconciler 的 Dispatcher 由调用方按部署方式注入
type Container struct {
	Ledger     *ledger.Service
	Voting     *voting.Service
	Donations  *donation.Service
	Targets    *catalog.TargetService
	Partners   *catalog.PartnerService
	Tokens     *catalog.TokenService
	Reconciler *custody.Reconciler
	Gateway    *custody.Gateway
	Handler    *handler.Handler
}

func NewContainer(d Deps) *Container {
	led := ledger.NewService(d.Store)
	vote := voting.NewService(d.Store)
	rec := donation.NewRecorder(led, attribution.NewEngine(vote))
	tokens := catalog.NewTokenService(d.Store, d.Cache, d.TokenTTL, d.Custody)
	reconciler := custody.NewReconciler(d.Store, d.Registry, rec, d.Custody.SystemAccount)

	c := &Container{
		Ledger:     led,
		Voting:     vote,
		Donations:  donation.NewService(d.Store, rec),
		Targets:    catalog.NewTargetService(d.Store),
		Partners:   catalog.NewPartnerService(d.Store),
		Tokens:     tokens,
		Reconciler: reconciler,
		Gateway:    custody.NewGateway(d.Store, tokens, reconciler, d.Custody),
	}
	c.Handler = handler.New(handler.Services{
		Gateway:   c.Gateway,
		Donations: c.Donations,
		Ledger:    c.Ledger,
		Voting:    c.Voting,
		Targets:   c.Targets,
		Partners:  c.Partners,
		Tokens:    c.Tokens,
		Custody:   d.Custody,
	})
	return c
}
