package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/repo"
	"github.com/kalakriti/backend/internal/storage"
	"github.com/kalakriti/backend/internal/transport"
	"github.com/kalakriti/backend/pkg/logging"
)

const contactUploadDir = "contact"

type ReplySender interface {
	Reply(ctx context.Context, to, text string) error
}

// Upload is one file taken from a multipart form.
type Upload struct {
	Filename string
	Body     io.Reader
}

type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Message string
	Images  []Upload
}

type ContactService struct {
	Repo    *repo.GormRepo
	Store   storage.Store
	Replies ReplySender
}

// Submit stores the attachments first and then the message with their URLs.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
		Message: strings.TrimSpace(in.Message),
		Status:  models.ContactStatusPending,
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return nil, fmt.Errorf("%w: name, email and message are required", ErrValidation)
	}

	keys := make([]string, len(in.Images))
	types := make([]string, len(in.Images))
	for i, img := range in.Images {
		key, contentType, err := storage.NewKey(contactUploadDir, img.Filename)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		keys[i], types[i] = key, contentType
	}

	for i, img := range in.Images {
		url, err := s.Store.Put(ctx, keys[i], img.Body, types[i])
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", img.Filename, err)
		}
		msg.Images = append(msg.Images, models.ContactImage{ImagePath: url})
	}

	if err := s.Repo.CreateContact(ctx, msg); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("contact_received", "contact_id", msg.ID, "images", len(msg.Images))
	return msg, nil
}

func (s *ContactService) List(ctx context.Context) ([]models.ContactMessage, error) {
	return s.Repo.ListContacts(ctx)
}

func (s *ContactService) AdminList(ctx context.Context) ([]transport.ContactAdminDTO, error) {
	msgs, err := s.Repo.ListContacts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ContactAdminDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, transport.NewContactAdminDTO(m))
	}
	return out, nil
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteContact(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: contact %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *ContactService) UpdateStatus(ctx context.Context, id uint, status string) (*models.ContactMessage, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" {
		return nil, fmt.Errorf("%w: status required", ErrValidation)
	}
	msg, err := s.Repo.UpdateContactStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: contact %d", ErrNotFound, id)
		}
		return nil, err
	}
	return msg, nil
}

func (s *ContactService) Reply(ctx context.Context, to, text string) error {
	to = strings.TrimSpace(to)
	if to == "" || strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: email and message are required", ErrValidation)
	}
	return s.Replies.Reply(ctx, to, text)
}

// MyCommissions lists the messages sent from email. Callers other than an
// admin may only look up their own address; an empty email means the caller's.
func (s *ContactService) MyCommissions(ctx context.Context, caller *models.User, email string) ([]models.ContactMessage, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		email = caller.Email
	}
	if !strings.EqualFold(email, caller.Email) && caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: cannot read another user's commissions", ErrForbidden)
	}
	return s.Repo.ContactsByEmail(ctx, email)
}
