package httputil

import (
	"net/http"
	"net/url"
	"time"

	"vesta_nest/config"
)

// NewAPIClient builds the client used for backend calls. No cookie jar is
// attached and redirects to other hosts are refused, so every request is
// authenticated only by its own headers.
func NewAPIClient(apiCfg config.APIConfig, proxyCfg config.ProxyConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyCfg.URL != "" {
		if proxyURL, err := url.Parse(proxyCfg.URL); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	timeout := apiCfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > 0 && req.URL.Host != via[0].URL.Host {
				return http.ErrUseLastResponse
			}
			if len(via) >= 5 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}
