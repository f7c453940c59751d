package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/umar-b/BSMS-2/internal/domain"
	"github.com/umar-b/BSMS-2/pkg/pb"
)

// ReadingRecorder fetches a reading from the device and stores it.
// *ports.Recorder implements it.
type ReadingRecorder interface {
	RecordOnce(ctx context.Context) (*domain.Reading, error)
}

// IrisServiceHandler implements the gRPC IrisService
type IrisServiceHandler struct {
	pb.UnimplementedIrisServiceServer
	repo     domain.ReadingRepository
	recorder ReadingRecorder
}

// NewIrisServiceHandler creates a new gRPC handler
func NewIrisServiceHandler(repo domain.ReadingRepository, recorder ReadingRecorder) *IrisServiceHandler {
	return &IrisServiceHandler{
		repo:     repo,
		recorder: recorder,
	}
}

// GetCurrentReading returns the most recent reading
func (h *IrisServiceHandler) GetCurrentReading(ctx context.Context, _ *emptypb.Empty) (*pb.GetCurrentReadingResponse, error) {
	log.Info().Msg("GetCurrentReading called")

	reading, err := h.repo.GetLatestReading(ctx)
	if errors.Is(err, domain.ErrReadingNotFound) {
		// No readings yet - ask the device now
		log.Info().Msg("no readings stored, fetching from device")

		reading, err = h.recorder.RecordOnce(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to fetch reading")
			return nil, fetchStatus(err)
		}
	} else if err != nil {
		log.Error().Err(err).Msg("failed to get latest reading")
		return nil, status.Error(codes.Internal, "failed to get reading")
	}

	return &pb.GetCurrentReadingResponse{
		Reading: convertReadingToProto(reading),
	}, nil
}

// GetHistory returns readings within time range with statistics.
// An unset end time means now.
func (h *IrisServiceHandler) GetHistory(ctx context.Context, req *pb.GetHistoryRequest) (*pb.GetHistoryResponse, error) {
	log.Info().
		Int64("start", req.StartTime).
		Int64("end", req.EndTime).
		Msg("GetHistory called")

	start := time.Unix(req.StartTime, 0)
	end := time.Now()
	if req.EndTime != 0 {
		end = time.Unix(req.EndTime, 0)
	}
	if end.Before(start) {
		return nil, status.Error(codes.InvalidArgument, "end time before start time")
	}

	readings, err := h.repo.GetReadingsInRange(ctx, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to get readings")
		return nil, status.Error(codes.Internal, "failed to get readings")
	}

	pbReadings := make([]*pb.Reading, len(readings))
	for i, r := range readings {
		pbReadings[i] = convertReadingToProto(r)
	}

	stats := calculateStatistics(readings)

	return &pb.GetHistoryResponse{
		Readings:   pbReadings,
		AverageLux: stats.average,
		MinLux:     stats.min,
		MaxLux:     stats.max,
	}, nil
}

// FetchReading polls the device immediately and stores the result
func (h *IrisServiceHandler) FetchReading(ctx context.Context, _ *emptypb.Empty) (*pb.FetchReadingResponse, error) {
	log.Info().Msg("FetchReading called")

	reading, err := h.recorder.RecordOnce(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch reading")
		return nil, fetchStatus(err)
	}

	return &pb.FetchReadingResponse{
		Reading: convertReadingToProto(reading),
	}, nil
}

// RecordReading manually records a reading (useful for testing)
func (h *IrisServiceHandler) RecordReading(ctx context.Context, req *pb.RecordReadingRequest) (*pb.RecordReadingResponse, error) {
	if req.Reading == nil {
		return nil, status.Error(codes.InvalidArgument, "reading is required")
	}
	log.Info().Float64("lux", req.Reading.Lux).Msg("RecordReading called")

	reading := domain.NewReading(convertProtoToReading(req.Reading))
	if err := reading.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid reading")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := h.repo.SaveReading(ctx, reading); err != nil {
		log.Error().Err(err).Msg("failed to save reading")
		return nil, status.Error(codes.Internal, "failed to save reading")
	}

	return &pb.RecordReadingResponse{
		Reading: convertReadingToProto(reading),
	}, nil
}

// fetchStatus maps a device fetch failure onto a gRPC status
func fetchStatus(err error) error {
	var netErr *domain.NetworkError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.As(err, &netErr):
		return status.Error(codes.Unavailable, netErr.Error())
	default:
		return status.Error(codes.Internal, "failed to fetch reading")
	}
}

// convertReadingToProto converts domain model to its wire form
func convertReadingToProto(r *domain.Reading) *pb.Reading {
	return &pb.Reading{
		Id:                   r.ID,
		Timestamp:            r.Timestamp.Unix(),
		Lux:                  r.Lux,
		SmoothedLux:          r.SmoothedLux,
		LuxChange:            r.LuxChange,
		AdjustedSpeed:        r.AdjustedSpeed,
		AdjustedAcceleration: r.AdjustedAcceleration,
		TargetPosition:       int32(r.TargetPosition),
		CurrentPosition:      int32(r.CurrentPosition),
		Category:             r.LightCategory(),
	}
}

func convertProtoToReading(r *pb.Reading) domain.Reading {
	return domain.Reading{
		Lux:                  r.Lux,
		SmoothedLux:          r.SmoothedLux,
		LuxChange:            r.LuxChange,
		AdjustedSpeed:        r.AdjustedSpeed,
		AdjustedAcceleration: r.AdjustedAcceleration,
		TargetPosition:       int(r.TargetPosition),
		CurrentPosition:      int(r.CurrentPosition),
	}
}

// statistics holds calculated statistics
type statistics struct {
	average float64
	min     float64
	max     float64
}

// calculateStatistics computes lux stats for a set of readings
func calculateStatistics(readings []*domain.Reading) statistics {
	if len(readings) == 0 {
		return statistics{}
	}

	var sum float64
	min := readings[0].Lux
	max := readings[0].Lux

	for _, r := range readings {
		sum += r.Lux
		if r.Lux < min {
			min = r.Lux
		}
		if r.Lux > max {
			max = r.Lux
		}
	}

	return statistics{
		average: sum / float64(len(readings)),
		min:     min,
		max:     max,
	}
}
