package utils

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

var ErrInvalidID = errors.New("invalid id")

// GetPathID parses a positive integer path parameter.
func GetPathID(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)
	if raw == "" {
		return 0, ErrInvalidID
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}

	return uint(id), nil
}

// RequestURL rebuilds the absolute URL of the current request. The
// X-Forwarded-Proto and X-Forwarded-Host headers are only honoured when a
// trusted proxy forwarded the request.
func RequestURL(ctx *gin.Context) *url.URL {
	scheme := "http"
	if ctx.Request.TLS != nil {
		scheme = "https"
	}
	host := ctx.Request.Host

	if forwardedByTrustedProxy(ctx) {
		if proto := ctx.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}
		if fwd := ctx.GetHeader("X-Forwarded-Host"); fwd != "" {
			host = fwd
		}
	}

	return &url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     ctx.Request.URL.Path,
		RawQuery: ctx.Request.URL.RawQuery,
	}
}

// forwardedByTrustedProxy reports whether gin resolved the client address
// from forwarding headers, which it only does for trusted peers.
func forwardedByTrustedProxy(ctx *gin.Context) bool {
	return ctx.ClientIP() != ctx.RemoteIP()
}
