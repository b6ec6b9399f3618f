package membership

import (
	"context"
	"time"

	"github.com/pdh8788/club/domain"
	"github.com/pdh8788/club/member"
)

// DTO is the wire shape of a membership record.
type DTO struct {
	UserID           string    `json:"user_id"`
	MembershipID     string    `json:"membership_id"`
	MembershipName   string    `json:"membership_name"`
	MembershipStatus bool      `json:"membership_status"`
	Point            int       `json:"point"`
	StartDate        time.Time `json:"start_date"`
}

// Service is the membership CRUD shim over storage.
type Service struct {
	store domain.MembershipStorage
}

func NewService(store domain.MembershipStorage) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, userID, membershipID string) (*DTO, error) {
	m, err := s.store.GetMembership(ctx, userID, membershipID)
	if err != nil {
		return nil, err
	}
	dto := entityToDTO(m)
	return &dto, nil
}

func (s *Service) GetAll(ctx context.Context, userID string) ([]DTO, error) {
	list, err := s.store.ListMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]DTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, entityToDTO(&list[i]))
	}
	return dtos, nil
}

func (s *Service) Register(ctx context.Context, dto DTO) error {
	return s.store.SaveMembership(ctx, dtoToEntity(dto))
}

func (s *Service) Remove(ctx context.Context, userID, membershipID string) error {
	return s.store.DeleteMembership(ctx, userID, membershipID)
}

// AddPoint accrues loyalty points at 1% of the spent amount.
func (s *Service) AddPoint(ctx context.Context, userID, membershipID string, money int) error {
	m, err := s.store.GetMembership(ctx, userID, membershipID)
	if err != nil {
		return err
	}
	m.Point += int(float64(money) * 0.01)
	return s.store.SaveMembership(ctx, m)
}

func dtoToEntity(dto DTO) *member.Membership {
	return &member.Membership{
		UserID:           dto.UserID,
		MembershipID:     dto.MembershipID,
		MembershipName:   dto.MembershipName,
		MembershipStatus: dto.MembershipStatus,
		Point:            dto.Point,
	}
}

func entityToDTO(m *member.Membership) DTO {
	return DTO{
		UserID:           m.UserID,
		MembershipID:     m.MembershipID,
		MembershipName:   m.MembershipName,
		MembershipStatus: m.MembershipStatus,
		Point:            m.Point,
		StartDate:        m.CreatedAt,
	}
}
