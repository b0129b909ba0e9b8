// Package locator resolves the broker's hostname. Answers that are already
// known (IP literals, cached lookups) come back synchronously; anything else
// is looked up in the background and delivered through the netstack poll.
package locator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/minitrue/tempnode/internal/netstack"
)

// DefaultTimeout bounds one background lookup.
const DefaultTimeout = 10 * time.Second

var (
	// ErrInProgress means the answer will be delivered to the callback.
	ErrInProgress  = errors.New("resolution in progress")
	ErrInvalidHost = errors.New("invalid hostname")
)

// Resolver is the subset of *net.Resolver the locator needs.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// ResolvedFunc receives the outcome of a pending resolution. ok is false
// when the name could not be resolved; addr is then the zero Addr.
type ResolvedFunc func(host string, addr netip.Addr, ok bool)

type Locator struct {
	stack    *netstack.Stack
	resolver Resolver
	timeout  time.Duration
	cache    map[string]netip.Addr
}

// New returns a Locator delivering callbacks through stack. A nil resolver
// selects net.DefaultResolver.
func New(stack *netstack.Stack, resolver Resolver, timeout time.Duration) *Locator {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Locator{
		stack:    stack,
		resolver: resolver,
		timeout:  timeout,
		cache:    make(map[string]netip.Addr),
	}
}

// Resolve looks host up. When the answer is already known it is returned
// with a nil error and fn is not called. Otherwise Resolve returns
// ErrInProgress and fn is called from a later Poll of the stack. Any other
// error means the request could not be issued.
func (l *Locator) Resolve(ctx context.Context, host string, fn ResolvedFunc) (netip.Addr, error) {
	host = strings.TrimSuffix(strings.TrimSpace(host), ".")
	if host == "" || len(host) > 253 || strings.ContainsAny(host, " /\\") {
		return netip.Addr{}, fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr, nil
	}
	key := strings.ToLower(host)
	if addr, ok := l.cache[key]; ok {
		return addr, nil
	}
	if fn == nil {
		return netip.Addr{}, errors.New("resolve: nil callback")
	}

	go func() {
		ctx, cancel := context.WithTimeout(ctx, l.timeout)
		defer cancel()
		addrs, err := l.resolver.LookupNetIP(ctx, "ip", host)
		addr, ok := pick(addrs)
		if err != nil {
			ok = false
		}
		l.stack.Post(func() {
			if ok {
				l.cache[key] = addr
				fn(host, addr, true)
				return
			}
			fn(host, netip.Addr{}, false)
		})
	}()
	return netip.Addr{}, ErrInProgress
}

// Cached reports the cached answer for host, if any.
func (l *Locator) Cached(host string) (netip.Addr, bool) {
	addr, ok := l.cache[strings.ToLower(strings.TrimSuffix(host, "."))]
	return addr, ok
}

// pick prefers the first IPv4 answer.
func pick(addrs []netip.Addr) (netip.Addr, bool) {
	var first netip.Addr
	for _, a := range addrs {
		a = a.Unmap()
		if a.Is4() {
			return a, true
		}
		if !first.IsValid() {
			first = a
		}
	}
	return first, first.IsValid()
}
