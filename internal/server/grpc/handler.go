package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/dmitrijs2005/severity/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	s.logger.Info(ctx, "Registration request")

	user, err := s.users.Register(ctx, stringField(req, "username"), stringField(req, "password"))
	if err != nil {
		return nil, statusFor(err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return newStruct(map[string]any{"user_id": user.ID, "username": user.UserName})
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	sess, err := s.users.Login(ctx, stringField(req, "username"), stringField(req, "password"))
	if err != nil {
		return nil, statusFor(err)
	}

	out := map[string]any{"access_token": sess.Token}
	if sess.Claims != nil && sess.Claims.ExpiresAt != nil {
		out["expires_at"] = sess.Claims.ExpiresAt.Time.Format(time.RFC3339)
	}
	return newStruct(out)
}

func (s *GRPCServer) Predict(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	features, err := featuresField(req)
	if err != nil {
		return nil, statusFor(err)
	}

	p, err := s.predictions.Predict(ctx, claims.UserID, features)
	if err != nil {
		return nil, statusFor(err)
	}

	return newStruct(predictionToMap(p))
}

func (s *GRPCServer) History(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {

	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ps, err := s.predictions.List(ctx, claims.UserID)
	if err != nil {
		return nil, statusFor(err)
	}

	records := make([]any, 0, len(ps))
	for _, p := range ps {
		records = append(records, predictionToMap(p))
	}
	return newStruct(map[string]any{"records": records})
}

func (s *GRPCServer) DeleteHistory(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {

	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.predictions.DeleteAll(ctx, claims.UserID)
	if err != nil {
		return nil, statusFor(err)
	}

	return newStruct(map[string]any{"deleted": n})
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// featuresField reads exactly ten numbers from the "features" list.
func featuresField(req *structpb.Struct) ([common.FeatureCount]float64, error) {
	var features [common.FeatureCount]float64

	v, ok := req.GetFields()["features"]
	if !ok {
		return features, fmt.Errorf("%w: features are required", common.ErrInvalidInput)
	}
	list := v.GetListValue()
	if list == nil || len(list.GetValues()) != common.FeatureCount {
		return features, fmt.Errorf("%w: features must be a list of %d numbers", common.ErrInvalidInput, common.FeatureCount)
	}
	for i, item := range list.GetValues() {
		n, ok := item.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return features, fmt.Errorf("%w: A%d must be a number", common.ErrInvalidInput, i+1)
		}
		features[i] = n.NumberValue
	}
	return features, nil
}

func predictionToMap(p *models.Prediction) map[string]any {
	features := make([]any, len(p.Features))
	for i, f := range p.Features {
		features[i] = f
	}
	return map[string]any{
		"local_id":   p.LocalID,
		"result":     p.Result,
		"advice":     p.Advice(),
		"features":   features,
		"created_at": p.CreatedAt.Format(time.RFC3339),
	}
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}
