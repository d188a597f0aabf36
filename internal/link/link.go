// Package link maintains the two network bearers, WiFi station and
// cellular modem, as independent state machines, and decides which
// bearer a notification channel should use. All Manager methods are
// called from the tick loop (or from boot, before the loop starts), so
// the state machines need no locking.
package link

import (
	"github.com/sweeney/pinwatch/internal/config"
)

// State is the lifecycle state of one link.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
	StateFailed     State = "failed"
)

// Kind identifies a link.
type Kind int

const (
	WiFi Kind = iota
	Cellular
)

// Route is the outcome of per-channel link selection.
type Route int

const (
	RouteNone Route = iota
	RouteWiFi
	RouteCellular
)

// String returns the route name for logs.
func (r Route) String() string {
	switch r {
	case RouteWiFi:
		return "wifi"
	case RouteCellular:
		return "cellular"
	default:
		return "none"
	}
}

// ChooseLink resolves a channel's connection mode against the current
// link availability. Pure function:
//
//	WiFiOnly               -> WiFi if up, else None
//	CellularOnly           -> Cellular if up, else None
//	WiFiWithCellularBackup -> WiFi if up, else Cellular if up, else None
func ChooseLink(mode config.ConnectionMode, wifiUp, cellularUp bool) Route {
	switch mode {
	case config.WiFiOnly:
		if wifiUp {
			return RouteWiFi
		}
	case config.CellularOnly:
		if cellularUp {
			return RouteCellular
		}
	case config.WiFiWithCellularBackup:
		if wifiUp {
			return RouteWiFi
		}
		if cellularUp {
			return RouteCellular
		}
	}
	return RouteNone
}
