package member

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:generate mockgen -source=member_service.go -destination=mock/member_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, groupID string) ([]MemberResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
	caser  cases.Caser
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("member.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("member.service")
	}
	return &service{
		repo:   repo,
		logger: l,
		caser:  cases.Title(language.English),
	}
}

func (s *service) GetAll(ctx context.Context, groupID string) ([]MemberResponse, error) {
	rows, err := s.repo.FindAllByGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("list members failed", zap.String("group_id", groupID), zap.Error(err))
		return nil, err
	}

	res := make([]MemberResponse, len(rows))
	for i, m := range rows {
		res[i] = MemberResponse{
			ID:          m.ID.String(),
			DisplayName: s.caser.String(m.DisplayName),
			Role:        m.Role,
			JoinedAt:    m.JoinedAt.Format("2006-01-02"),
		}
	}
	return res, nil
}
