package note

import (
	"context"
	"time"

	"github.com/pdh8788/club/domain"
	"github.com/pdh8788/club/member"
)

// DTO is the wire shape of a note.
type DTO struct {
	Num         int64     `json:"num"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	WriterEmail string    `json:"writer_email"`
	WriterName  string    `json:"writer_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Service is the note CRUD shim over storage.
type Service struct {
	store domain.NoteStorage
}

func NewService(store domain.NoteStorage) *Service {
	return &Service{store: store}
}

func (s *Service) Register(ctx context.Context, dto DTO) (int64, error) {
	n := dtoToEntity(dto)
	if err := s.store.CreateNote(ctx, n); err != nil {
		return 0, err
	}
	return n.Num, nil
}

func (s *Service) Get(ctx context.Context, num int64) (*DTO, error) {
	n, err := s.store.GetNoteWithWriter(ctx, num)
	if err != nil {
		return nil, err
	}
	dto := entityToDTO(n)
	return &dto, nil
}

func (s *Service) GetAllWithWriter(ctx context.Context, email string) ([]DTO, error) {
	notes, err := s.store.ListNotesByWriter(ctx, email)
	if err != nil {
		return nil, err
	}
	dtos := make([]DTO, 0, len(notes))
	for i := range notes {
		dtos = append(dtos, entityToDTO(&notes[i]))
	}
	return dtos, nil
}

func (s *Service) Modify(ctx context.Context, dto DTO) error {
	return s.store.UpdateNote(ctx, dtoToEntity(dto))
}

func (s *Service) Remove(ctx context.Context, num int64) error {
	return s.store.DeleteNote(ctx, num)
}

func dtoToEntity(dto DTO) *member.Note {
	return &member.Note{
		Num:         dto.Num,
		Title:       dto.Title,
		Content:     dto.Content,
		WriterEmail: dto.WriterEmail,
	}
}

func entityToDTO(n *member.Note) DTO {
	dto := DTO{
		Num:         n.Num,
		Title:       n.Title,
		Content:     n.Content,
		WriterEmail: n.WriterEmail,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
	if n.Writer != nil {
		dto.WriterName = n.Writer.Name
	}
	return dto
}
