// Package rpc exposes the transcoding engine as a gRPC service. Requests and
// responses are google.protobuf.Struct messages shaped like the JSON API, so
// the service needs no generated code.
package rpc

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RowanDark/transcode/internal/cipher"
	"github.com/RowanDark/transcode/internal/metrics"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "transcode.v1.Transcoder"

// TranscoderServer is the server API for the Transcoder service.
type TranscoderServer interface {
	Convert(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Transform(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCodecs(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TranscoderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Convert", Handler: unaryHandler("Convert", TranscoderServer.Convert)},
		{MethodName: "Transform", Handler: unaryHandler("Transform", TranscoderServer.Transform)},
		{MethodName: "ListCodecs", Handler: unaryHandler("ListCodecs", TranscoderServer.ListCodecs)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "transcode/v1/transcoder.proto",
}

// RegisterTranscoderServer registers srv on s.
func RegisterTranscoderServer(s grpc.ServiceRegistrar, srv TranscoderServer) {
	s.RegisterService(&serviceDesc, srv)
}

type unaryMethod func(TranscoderServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TranscoderServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TranscoderServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ConvertRequest is the Convert request payload.
type ConvertRequest struct {
	Input    string `json:"input"`
	LineMode *bool  `json:"line_mode,omitempty"`
}

// TransformRequest is the Transform request payload.
type TransformRequest struct {
	Codec    string `json:"codec"`
	Input    string `json:"input"`
	LineMode *bool  `json:"line_mode,omitempty"`
}

// TransformResponse is the Transform response payload.
type TransformResponse struct {
	Codec  string        `json:"codec"`
	Result cipher.Result `json:"result"`
}

// CodecList is the ListCodecs response payload.
type CodecList struct {
	Encoders []cipher.Codec `json:"encoders"`
	Decoders []cipher.Codec `json:"decoders"`
}

// Service implements TranscoderServer on top of the cipher package.
type Service struct {
	lineMode bool
	logger   *zap.Logger
}

// NewService returns a service whose requests default to lineMode when they
// do not set line_mode.
func NewService(lineMode bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{lineMode: lineMode, logger: logger.Named("rpc")}
}

func (s *Service) resolveLineMode(requested *bool) bool {
	if requested == nil {
		return s.lineMode
	}
	return *requested
}

// Convert runs the input through every codec.
func (s *Service) Convert(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ConvertRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	report := cipher.Convert(req.Input, s.resolveLineMode(req.LineMode))
	s.logger.Debug("convert", zap.Int("input_bytes", len(req.Input)), zap.Int("failures", report.Failures()))
	return toStruct(report)
}

// Transform runs a single codec. Codec failures are returned in the result,
// not as gRPC errors.
func (s *Service) Transform(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req TransformRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Codec) == "" {
		return nil, status.Error(codes.InvalidArgument, "codec field is required")
	}
	codec, ok := cipher.Lookup(req.Codec)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "unknown codec: %s", req.Codec)
	}
	res := codec.Apply(req.Input, s.resolveLineMode(req.LineMode))
	kind := ""
	if e := res.Err(); e != nil {
		kind = string(e.Kind)
	}
	metrics.RecordCodecResult(codec.ID, res.OK(), kind)
	return toStruct(TransformResponse{Codec: codec.ID, Result: res})
}

// ListCodecs returns the registry in display order.
func (s *Service) ListCodecs(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return toStruct(CodecList{Encoders: cipher.Encoders(), Decoders: cipher.Decoders()})
}

// toStruct converts a JSON-tagged value into a Struct message.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// fromStruct decodes a Struct message into a JSON-tagged value.
func fromStruct(in *structpb.Struct, v any) error {
	if in == nil {
		in = new(structpb.Struct)
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return nil
}
