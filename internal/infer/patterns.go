package infer

import "github.com/archigram/archigram/internal/model"

// Pattern maps an entity cluster to a component. The cluster doubles as
// the component's stable identity signature: matching any subset of the
// cluster always resolves to the same component id, so re-inference and
// evolution never duplicate a component because a later statement
// mentioned one more trigger entity.
type Pattern struct {
	Name             string
	Kind             model.ComponentKind
	Entities         []string
	Responsibilities []string
}

// Declaration order is the documented second-level tie-break for
// competing matches (first level is number of entities matched).
var defaultPatterns = []Pattern{
	{
		Name:             "AuthenticationService",
		Kind:             model.KindService,
		Entities:         []string{"authentication", "authorization", "login", "oauth", "token", "jwt", "session"},
		Responsibilities: []string{"Authenticate users", "Issue and validate tokens", "Manage sessions"},
	},
	{
		Name:             "UserService",
		Kind:             model.KindService,
		Entities:         []string{"user", "account", "profile", "register"},
		Responsibilities: []string{"Manage user accounts and profiles"},
	},
	{
		Name:             "PaymentService",
		Kind:             model.KindService,
		Entities:         []string{"payment", "billing", "invoice", "checkout", "refund"},
		Responsibilities: []string{"Process payments", "Issue invoices and refunds"},
	},
	{
		Name:             "OrderService",
		Kind:             model.KindService,
		Entities:         []string{"order", "cart", "inventory", "catalog", "shipping"},
		Responsibilities: []string{"Manage orders and inventory"},
	},
	{
		Name:             "NotificationQueue",
		Kind:             model.KindQueue,
		Entities:         []string{"notification", "queue", "message", "messaging", "email", "sms"},
		Responsibilities: []string{"Buffer and deliver notifications"},
	},
	{
		Name:             "CollaborationService",
		Kind:             model.KindService,
		Entities:         []string{"collaboration", "realtime", "real-time", "presence"},
		Responsibilities: []string{"Coordinate real-time collaboration"},
	},
	{
		Name:             "StreamGateway",
		Kind:             model.KindGateway,
		Entities:         []string{"websocket", "streaming"},
		Responsibilities: []string{"Maintain bidirectional client streams"},
	},
	{
		Name:             "SearchService",
		Kind:             model.KindService,
		Entities:         []string{"search", "filter", "pagination"},
		Responsibilities: []string{"Index and query domain data"},
	},
	{
		Name:             "PrimaryDatastore",
		Kind:             model.KindDatastore,
		Entities:         []string{"database", "storage", "backup"},
		Responsibilities: []string{"Persist domain records"},
	},
	{
		Name:             "FileStore",
		Kind:             model.KindDatastore,
		Entities:         []string{"file", "upload", "download", "document"},
		Responsibilities: []string{"Store and serve files"},
	},
	{
		Name:             "CacheLayer",
		Kind:             model.KindCache,
		Entities:         []string{"cache"},
		Responsibilities: []string{"Cache hot reads"},
	},
	{
		Name:             "ApiGateway",
		Kind:             model.KindGateway,
		Entities:         []string{"api", "rest", "graphql", "gateway", "endpoint"},
		Responsibilities: []string{"Route and authenticate external API traffic"},
	},
	{
		Name:             "AnalyticsService",
		Kind:             model.KindService,
		Entities:         []string{"analytics", "report", "dashboard", "metrics"},
		Responsibilities: []string{"Aggregate metrics and build reports"},
	},
	{
		Name:             "IntegrationAdapter",
		Kind:             model.KindExternal,
		Entities:         []string{"integration", "webhook", "sync"},
		Responsibilities: []string{"Bridge to third-party systems"},
	},
	{
		Name:             "WebFrontend",
		Kind:             model.KindUI,
		Entities:         []string{"ui", "frontend", "interface", "mobile"},
		Responsibilities: []string{"Render the user-facing interface"},
	},
}

// DefaultPatterns returns a copy of the built-in pattern table
func DefaultPatterns() []Pattern {
	return append([]Pattern(nil), defaultPatterns...)
}
