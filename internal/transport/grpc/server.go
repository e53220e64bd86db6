// Package grpc provides a gRPC server for the catalog service.
package grpc

import (
	"context"
	"errors"
	"log/slog"

	perrors "github.com/abgdnv/shoecatalog/internal/errors"
	"github.com/abgdnv/shoecatalog/internal/service"
	pb "github.com/abgdnv/shoecatalog/pkg/api/catalog/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CatalogReader defines the read operations exposed over gRPC.
type CatalogReader interface {
	Get(ctx context.Context, id string) (*service.ItemDto, error)
	Suggest(ctx context.Context, q string) ([]service.SuggestionDto, error)
}

type Server struct {
	// Embed the unimplemented server for forward compatibility
	pb.UnimplementedCatalogServiceServer
	service CatalogReader
}

func NewServer(service CatalogReader) *Server {
	return &Server{service: service}
}

func (s *Server) GetItem(ctx context.Context, req *pb.GetItemRequest) (*pb.GetItemResponse, error) {
	logger := slog.With(slog.String("item_id", req.Id))
	logger.InfoContext(ctx, "received grpc request GetItem")

	found, err := s.service.Get(ctx, req.Id)
	if err != nil {
		return nil, toStatus(ctx, logger, "service.Get failed", err)
	}
	return &pb.GetItemResponse{Item: &pb.Item{
		Id:          found.ID,
		Name:        found.Name,
		Brand:       found.Brand,
		Description: found.Description,
		Price:       found.Price,
		Sizes:       found.Sizes,
		Category:    found.Category,
		Colors:      found.Colors,
		InStock:     found.InStock,
		Images:      found.Images,
		IsDeleted:   found.IsDeleted,
	}}, nil
}

func (s *Server) Suggest(ctx context.Context, req *pb.SuggestRequest) (*pb.SuggestResponse, error) {
	logger := slog.With(slog.String("query", req.Query))
	logger.InfoContext(ctx, "received grpc request Suggest")

	found, err := s.service.Suggest(ctx, req.Query)
	if err != nil {
		return nil, toStatus(ctx, logger, "service.Suggest failed", err)
	}
	suggestions := make([]*pb.Suggestion, 0, len(found))
	for _, sg := range found {
		suggestions = append(suggestions, &pb.Suggestion{Id: sg.ID, Name: sg.Name, Brand: sg.Brand})
	}
	return &pb.SuggestResponse{Suggestions: suggestions}, nil
}

func toStatus(ctx context.Context, logger *slog.Logger, msg string, err error) error {
	switch {
	case errors.Is(err, perrors.ErrInvalidID):
		return status.Error(codes.InvalidArgument, "invalid shoe ID")
	case errors.Is(err, perrors.ErrItemNotFound):
		return status.Error(codes.NotFound, "shoe not found")
	default:
		logger.ErrorContext(ctx, msg, slog.Any("error", err))
		return status.Error(codes.Internal, "internal server error")
	}
}
