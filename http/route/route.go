// Package route pulls in all versioned route packages so their init()
// registrations run before the server builds the router.
package route

import (
	_ "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/http/v1/route"
)
