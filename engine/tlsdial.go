package engine

import (
	"context"
	"fmt"
	"net"
	"time"

	tls "github.com/refraction-networking/utls"
)

const dialTimeout = 10 * time.Second

// chromeHello builds a Chrome ClientHello whose ALPN offers only
// http/1.1, since net/http cannot drive h2 over a utls conn. ApplyPreset
// mutates its argument, so every connection gets a fresh spec.
func chromeHello() (*tls.ClientHelloSpec, error) {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return nil, fmt.Errorf("engine: chrome hello: %w", err)
	}
	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
		}
	}
	return &spec, nil
}

// dialChromeTLS opens a TCP connection to addr and completes a TLS
// handshake that looks like Chrome's.
func dialChromeTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	spec, err := chromeHello()
	if err != nil {
		return nil, err
	}
	raw, err := (&net.Dialer{Timeout: dialTimeout}).DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	conn := tls.UClient(raw, &tls.Config{ServerName: host}, tls.HelloCustom)
	if err := conn.ApplyPreset(spec); err != nil {
		raw.Close()
		return nil, fmt.Errorf("engine: apply hello to %s: %w", host, err)
	}
	if err := conn.HandshakeContext(ctx); err != nil {
		raw.Close()
		return nil, fmt.Errorf("engine: tls handshake with %s: %w", host, err)
	}
	return conn, nil
}
