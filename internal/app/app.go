package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jabirmahmud0/techhive-client/internal/admin"
	"github.com/jabirmahmud0/techhive-client/internal/assist"
	"github.com/jabirmahmud0/techhive-client/internal/cart"
	"github.com/jabirmahmud0/techhive-client/internal/catalog"
	"github.com/jabirmahmud0/techhive-client/internal/comparison"
	"github.com/jabirmahmud0/techhive-client/internal/notify"
	"github.com/jabirmahmud0/techhive-client/internal/orders"
	"github.com/jabirmahmud0/techhive-client/internal/session"
	"github.com/jabirmahmud0/techhive-client/internal/wishlist"
	"github.com/jabirmahmud0/techhive-client/pkg/apiclient"
	"github.com/jabirmahmud0/techhive-client/pkg/config"
	"github.com/jabirmahmud0/techhive-client/pkg/logger"
	"github.com/jabirmahmud0/techhive-client/pkg/metrics"
)

// App is the composition root: every state container and service the
// storefront needs, wired together explicitly. Views receive the pieces
// they use by reference; nothing is looked up from ambient scope.
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	Client   *apiclient.Client
	Notices  *notify.Hub
	Session  *session.Service
	Cart     *cart.Cart
	Wishlist *wishlist.Service
	Compare  *comparison.Set
	Catalog  *catalog.Service
	Orders   *orders.Service
	Tracker  *orders.Tracker
	Admin    *admin.Service
	Assist   *assist.Service
}

// Options carries optional wiring.
type Options struct {
	// Federated enables Google login; nil leaves it unconfigured.
	Federated session.FederatedAuthenticator
	// Registry receives API client metrics; nil disables them.
	Registry prometheus.Registerer
	// ClientOptions are applied to the API client, after metrics.
	ClientOptions []apiclient.Option
}

// New wires the full client. Session hydration happens inside; the
// returned App is ready to serve views immediately.
func New(cfg *config.Config, logg *logger.Logger, opts Options) (*App, error) {
	clientOpts := []apiclient.Option{apiclient.WithMetrics(metrics.NewRequestMetrics(opts.Registry))}
	clientOpts = append(clientOpts, opts.ClientOptions...)

	client, err := apiclient.NewClient(cfg.API, logg, clientOpts...)
	if err != nil {
		return nil, err
	}

	notices := notify.NewHub(64)

	sessionService, err := session.NewService(session.ServiceParams{
		Client:    client,
		Store:     session.NewCredStore(cfg.Storage),
		Logger:    logg,
		Federated: opts.Federated,
		Notifier:  notices,
	})
	if err != nil {
		return nil, err
	}
	client.SetTokenProvider(sessionService)

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{Client: client, Logger: logg})
	if err != nil {
		return nil, err
	}
	// the wishlist observes the session instead of reaching into it
	sessionService.OnChange(wishlistService.OnSessionChange)

	basket := cart.New()

	catalogService, err := catalog.NewService(catalog.ServiceParams{Client: client, Logger: logg})
	if err != nil {
		return nil, err
	}

	ordersService, err := orders.NewService(orders.ServiceParams{Client: client, Cart: basket, Logger: logg})
	if err != nil {
		return nil, err
	}

	adminService, err := admin.NewService(admin.ServiceParams{Client: client, Logger: logg})
	if err != nil {
		return nil, err
	}

	assistService, err := assist.NewService(assist.ServiceParams{Client: client, Cart: basket, Logger: logg})
	if err != nil {
		return nil, err
	}

	return &App{
		Config:   cfg,
		Logger:   logg,
		Client:   client,
		Notices:  notices,
		Session:  sessionService,
		Cart:     basket,
		Wishlist: wishlistService,
		Compare:  comparison.New(),
		Catalog:  catalogService,
		Orders:   ordersService,
		Tracker:  orders.NewTracker(ordersService),
		Admin:    adminService,
		Assist:   assistService,
	}, nil
}
