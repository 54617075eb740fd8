package server

import (
	nethttp "net/http"

	"go-shortlink/internal/conf"
	"go-shortlink/internal/metrics"
	"go-shortlink/internal/service"

	"github.com/go-kratos/kratos/v2/encoding"
	"github.com/go-kratos/kratos/v2/encoding/json"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Server, shortener *service.ShortenerService, m *metrics.Metrics, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		http.ErrorEncoder(errorEncoder),
	}
	if c != nil && c.Http != nil {
		if c.Http.Network != "" {
			opts = append(opts, http.Network(c.Http.Network))
		}
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != nil {
			opts = append(opts, http.Timeout(c.Http.Timeout.AsDuration()))
		}
	}
	srv := http.NewServer(opts...)
	service.RegisterShortenerHTTPServer(srv, shortener)
	srv.Handle("/metrics", m.Handler())

	return srv
}

type errorBody struct {
	Error string `json:"error"`
}

// errorEncoder writes {"error": message} with the status of the kratos error.
// Server-side failures never expose their message.
func errorEncoder(w nethttp.ResponseWriter, _ *nethttp.Request, err error) {
	se := errors.FromError(err)
	status := int(se.Code)
	if status < 400 || status > 599 {
		status = nethttp.StatusInternalServerError
	}
	msg := se.Message
	if status >= nethttp.StatusInternalServerError {
		msg = nethttp.StatusText(status)
	}

	body, err := encoding.GetCodec(json.Name).Marshal(&errorBody{Error: msg})
	if err != nil {
		w.WriteHeader(nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
