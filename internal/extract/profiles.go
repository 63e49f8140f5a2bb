package extract

// Vocabulary profiles group domain terms by conversation domain, so a
// commerce transcript and an infrastructure transcript can use different
// entity dictionaries without touching the extractor itself.

var genericVocabulary = []string{
	"api", "rest", "graphql", "gateway", "endpoint", "webhook",
	"database", "storage", "cache", "session", "backup",
	"user", "account", "profile", "login", "authentication", "authorization",
	"token", "oauth", "jwt",
	"payment", "billing", "invoice",
	"notification", "email", "sms", "queue", "message", "messaging",
	"file", "upload", "download", "document",
	"search", "filter", "pagination",
	"analytics", "report", "dashboard", "metrics",
	"websocket", "real-time", "realtime", "streaming", "collaboration",
	"microservice", "container", "docker", "kubernetes",
	"aws", "gcp", "azure",
	"ui", "frontend", "interface", "mobile",
	"integration", "sync",
}

var webVocabulary = append(append([]string{}, genericVocabulary...),
	"browser", "cdn", "cookie", "dom", "seo", "spa", "ssr", "form",
)

var commerceVocabulary = append(append([]string{}, genericVocabulary...),
	"cart", "checkout", "inventory", "catalog", "order", "shipping",
	"refund", "pricing", "discount", "coupon",
)

// ProfileVocabulary returns a copy of the vocabulary for the named
// profile; unknown names fall back to the generic profile.
func ProfileVocabulary(profile string) []string {
	var src []string
	switch profile {
	case "web":
		src = webVocabulary
	case "commerce":
		src = commerceVocabulary
	default:
		src = genericVocabulary
	}
	return append([]string(nil), src...)
}
