package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RowanDark/transcode/internal/cipher"
)

// Client calls a remote Transcoder service.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(conn grpc.ClientConnInterface) (*Client, error) {
	if conn == nil {
		return nil, errors.New("grpc connection must be provided")
	}
	return &Client{conn: conn}, nil
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return err
	}
	return fromStruct(out, resp)
}

// Convert runs input through every codec on the server. A nil lineMode uses
// the server default.
func (c *Client) Convert(ctx context.Context, input string, lineMode *bool) (cipher.Report, error) {
	var report cipher.Report
	err := c.invoke(ctx, "Convert", ConvertRequest{Input: input, LineMode: lineMode}, &report)
	return report, err
}

// Transform runs a single codec on the server.
func (c *Client) Transform(ctx context.Context, codec, input string, lineMode *bool) (cipher.Result, error) {
	var resp TransformResponse
	if err := c.invoke(ctx, "Transform", TransformRequest{Codec: codec, Input: input, LineMode: lineMode}, &resp); err != nil {
		return cipher.Result{}, err
	}
	return resp.Result, nil
}

// ListCodecs returns the server's registry.
func (c *Client) ListCodecs(ctx context.Context) (CodecList, error) {
	var list CodecList
	err := c.invoke(ctx, "ListCodecs", struct{}{}, &list)
	return list, err
}
