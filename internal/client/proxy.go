// ABOUTME: SSH+SOCKS5 jumpbox tunnel for reaching a backend on a private network
// ABOUTME: Accepts ssh+socks5://user@host:port?private-key=/path/to/key

package client

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cloudfoundry/socks5-proxy"
)

// DialContextFunc matches http.Transport.DialContext.
type DialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// SOCKS5DialContext builds a dialer that tunnels through the jumpbox described
// by allProxy. The SSH connection is opened lazily on first dial and reused.
func SOCKS5DialContext(allProxy string) (DialContextFunc, error) {
	allProxy = strings.TrimPrefix(allProxy, "ssh+")

	proxyURL, err := url.Parse(allProxy)
	if err != nil {
		return nil, fmt.Errorf("parse proxy URL: %w", err)
	}
	if proxyURL.Scheme != "socks5" {
		return nil, fmt.Errorf("unsupported proxy scheme %q", proxyURL.Scheme)
	}

	username := ""
	if proxyURL.User != nil {
		username = proxyURL.User.Username()
	}

	keyPath := proxyURL.Query().Get("private-key")
	if keyPath == "" {
		return nil, fmt.Errorf("proxy URL missing required 'private-key' query param")
	}
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read SSH private key %s: %w", keyPath, err)
	}

	socks5Proxy := proxy.NewSocks5Proxy(proxy.NewHostKey(), log.Default(), 1*time.Minute)

	var (
		dialer proxy.DialFunc
		mut    sync.Mutex
	)

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		mut.Lock()
		if dialer == nil {
			d, err := socks5Proxy.Dialer(username, string(key), proxyURL.Host)
			if err != nil {
				mut.Unlock()
				return nil, fmt.Errorf("error creating SOCKS5 dialer: %w", err)
			}
			dialer = d
		}
		d := dialer
		mut.Unlock()

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return d(network, address)
	}, nil
}
