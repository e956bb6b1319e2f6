package gateway

import (
	"errors"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Kind sorts platform errors by how the gateway treats them.
type Kind int

const (
	// KindTerminal errors (auth, not found, bad request) are never retried.
	KindTerminal Kind = iota
	// KindTransient errors (rate limits, upstream outages, timeouts) are
	// retried with backoff.
	KindTransient
	// KindPermission is the 403 Discord returns when the bot may not
	// mention @everyone. It is retried once.
	KindPermission
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindPermission:
		return "permission"
	default:
		return "terminal"
	}
}

// Cloudflare answers with error 1015 when the edge blocks a burst.
var edgeBlocked = regexp.MustCompile(`\b1015\b`)

// Classify maps an error returned by the platform onto a Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindTerminal
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return KindTransient
		case http.StatusForbidden:
			if strings.Contains(err.Error(), "@everyone") {
				return KindPermission
			}
		}
	}

	if edgeBlocked.MatchString(err.Error()) {
		return KindTransient
	}
	if isTimeout(err) {
		return KindTransient
	}
	return KindTerminal
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
