package grpc

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/clintrovert/prsummary/internal/summarizer"
	"github.com/clintrovert/prsummary/pkg/types"
)

const (
	// ServiceName is the fully qualified gRPC service name
	ServiceName = "prsummary.v1.Summarizer"
	// SummarizeMethod is the full method path of Summarize
	SummarizeMethod = "/" + ServiceName + "/Summarize"
)

// SummarizerServer is the server API for the Summarizer service.
// Messages are google.protobuf.Struct shaped like the REST JSON bodies.
type SummarizerServer interface {
	Summarize(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var summarizerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SummarizerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Summarize",
			Handler:    summarizeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "prsummary/v1/summarizer.proto",
}

func summarizeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SummarizerServer).Summarize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SummarizeMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SummarizerServer).Summarize(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Server implements the Summarizer gRPC service
type Server struct {
	health *health.Server
	logger *zap.Logger
}

// NewServer creates a new gRPC server
func NewServer(logger *zap.Logger) *Server {
	return &Server{
		health: health.NewServer(),
		logger: logger,
	}
}

// Register registers the summarizer and health services with a gRPC server
func (s *Server) Register(grpcServer *grpc.Server) {
	grpcServer.RegisterService(&summarizerServiceDesc, s)
	healthpb.RegisterHealthServer(grpcServer, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
}

// Shutdown marks every service as not serving
func (s *Server) Shutdown() {
	s.health.Shutdown()
}

// Summarize summarizes the pull request carried in the request struct
func (s *Server) Summarize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	pr, err := decodePullRequest(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid pull request: %v", err)
	}

	summary := summarizer.GenerateSummary(pr)
	s.logger.Debug("summarized pull request",
		zap.String("title", pr.Title),
		zap.Int("changed_files", len(pr.ChangedFiles)),
	)

	resp, err := structpb.NewStruct(map[string]interface{}{
		"description":    summary.Description,
		"affected_files": summary.AffectedFiles,
		"comment":        summarizer.RenderComment(summary),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode summary: %v", err)
	}
	return resp, nil
}

func decodePullRequest(req *structpb.Struct) (*types.PullRequestInfo, error) {
	raw, err := protojson.Marshal(req)
	if err != nil {
		return nil, err
	}
	var pr types.PullRequestInfo
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}
