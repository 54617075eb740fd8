package service

import (
	"context"
	"io"
	nethttp "net/http"
	"time"

	"go-shortlink/internal/biz"

	"github.com/go-kratos/kratos/v2/encoding"
	"github.com/go-kratos/kratos/v2/encoding/json"
	"github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationShortenerShorten   = "/shortlink.Shortener/Shorten"
	OperationShortenerRedirect  = "/shortlink.Shortener/Redirect"
	OperationShortenerAnalytics = "/shortlink.Shortener/Analytics"
	OperationShortenerHealth    = "/shortlink.Shortener/Health"
)

const maxShortenBody = 16 << 10

// RegisterShortenerHTTPServer mounts the shortener routes on s.
func RegisterShortenerHTTPServer(s *http.Server, srv *ShortenerService) {
	r := s.Route("/")
	r.POST("/shorten", _Shortener_Shorten_HTTP_Handler(srv))
	r.GET("/s/{alias}", _Shortener_Redirect_HTTP_Handler(srv))
	r.GET("/analytics/{alias}", _Shortener_Analytics_HTTP_Handler(srv))
	r.GET("/healthz", _Shortener_Health_HTTP_Handler())
}

// The body is decoded as JSON whatever the Content-Type.
func _Shortener_Shorten_HTTP_Handler(srv *ShortenerService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ShortenRequest
		body, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxShortenBody))
		if err != nil || len(body) == 0 {
			return biz.ErrInvalidRequest
		}
		if err := encoding.GetCodec(json.Name).Unmarshal(body, &in); err != nil {
			return biz.ErrInvalidRequest
		}
		http.SetOperation(ctx, OperationShortenerShorten)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Shorten(ctx, req.(*ShortenRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*ShortenReply))
	}
}

// The 302 is written before the click is queued.
func _Shortener_Redirect_HTTP_Handler(srv *ShortenerService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		in := RedirectRequest{Alias: ctx.Vars().Get("alias")}
		http.SetOperation(ctx, OperationShortenerRedirect)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Redirect(ctx, req.(*RedirectRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*RedirectReply)
		req := ctx.Request()
		nethttp.Redirect(ctx.Response(), req, reply.TargetURL, nethttp.StatusFound)

		srv.RecordClick(ctx, in.Alias, time.Now().UTC(), ClickMetadata{
			Referrer:  req.Referer(),
			UserAgent: req.UserAgent(),
		})
		return nil
	}
}

func _Shortener_Analytics_HTTP_Handler(srv *ShortenerService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		in := AnalyticsRequest{Alias: ctx.Vars().Get("alias")}
		http.SetOperation(ctx, OperationShortenerAnalytics)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Analytics(ctx, req.(*AnalyticsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*AnalyticsReply))
	}
}

func _Shortener_Health_HTTP_Handler() func(ctx http.Context) error {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationShortenerHealth)
		return ctx.Result(200, map[string]string{"status": "ok"})
	}
}
