// Package rpc is the wire contract between chapterly and display-surface plugins.
// Messages travel as JSON over gRPC, so plugins need no generated code.
package rpc

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-plugin"
	jsoniter "github.com/json-iterator/go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "surface"
	serviceName       = "chapterly.surface.v1.DisplaySurface"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodPublish     = "/" + serviceName + "/Publish"
	methodClear       = "/" + serviceName + "/Clear"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "CHAPTERLY_SURFACE",
	MagicCookieValue: "chapterly",
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

type Snapshot struct {
	BookID           string    `json:"book_id"`
	BookTitle        string    `json:"book_title"`
	BookAuthor       string    `json:"book_author"`
	TotalReadingTime float64   `json:"total_reading_time"`
	CoverImage       []byte    `json:"cover_image,omitempty"`
	IsTimerRunning   bool      `json:"is_timer_running"`
	TimerStartTime   time.Time `json:"timer_start_time"`
	StreakDays       int       `json:"streak_days"`
	PublishedAt      time.Time `json:"published_at"`
}

type Ack struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message,omitempty"`
}

type DisplaySurfaceServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Publish(ctx context.Context, in *Snapshot) (*Ack, error)
	Clear(ctx context.Context, in *Empty) (*Ack, error)
}

type DisplaySurfaceClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Publish(ctx context.Context, in *Snapshot) (*Ack, error)
	Clear(ctx context.Context) (*Ack, error)
}

type displaySurfaceClient struct {
	conn *grpc.ClientConn
}

func NewDisplaySurfaceClient(conn *grpc.ClientConn) DisplaySurfaceClient {
	return &displaySurfaceClient{conn: conn}
}

func (c *displaySurfaceClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *displaySurfaceClient) Publish(ctx context.Context, in *Snapshot) (*Ack, error) {
	out := &Ack{}
	if err := c.conn.Invoke(ctx, methodPublish, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *displaySurfaceClient) Clear(ctx context.Context) (*Ack, error) {
	out := &Ack{}
	if err := c.conn.Invoke(ctx, methodClear, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// unary adapts a typed method to a grpc.MethodDesc handler.
func unary[Req any, Resp any](method string, call func(ctx context.Context, in *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type %T", req)
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterDisplaySurfaceServer(server grpc.ServiceRegistrar, impl DisplaySurfaceServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*DisplaySurfaceServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "GetMetadata", Handler: unary(methodGetMetadata, impl.GetMetadata)},
			{MethodName: "Publish", Handler: unary(methodPublish, impl.Publish)},
			{MethodName: "Clear", Handler: unary(methodClear, impl.Clear)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "chapterly/surface/v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl DisplaySurfaceServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterDisplaySurfaceServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewDisplaySurfaceClient(conn), nil
}

func PluginMap(impl DisplaySurfaceServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
