package distribution

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/gconf"
	"github.com/harvestnet/harvest/x"
)

// RegisterRoutes registers the configuration handler. Distributions are
// executed by the automation agents.
func RegisterRoutes(r harvest.Registry, auth x.Authenticator) {
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler("distribution", &Configuration{}, auth))
}

// RegisterQuery registers executed distributions as "/distributions".
func RegisterQuery(qr harvest.QueryRouter) {
	NewRecordBucket().Register("distributions", qr)
}
