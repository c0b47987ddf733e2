package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/homefix/internal/audit"
	domain "github.com/BruksfildServices01/homefix/internal/domain/contact"
	"github.com/BruksfildServices01/homefix/internal/gateway"
	"github.com/BruksfildServices01/homefix/internal/models"
	"github.com/BruksfildServices01/homefix/internal/validators"
)

type Input struct {
	Name    string `json:"name" form:"name" validate:"notblank,max=100"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Phone   string `json:"phone" form:"phone" validate:"max=20"`
	Subject string `json:"subject" form:"subject" validate:"notblank,max=150"`
	Message string `json:"message" form:"message" validate:"required,min=10,max=5000"`
}

func (in Input) trimmed() Input {
	return Input{
		Name:    strings.TrimSpace(in.Name),
		Email:   validators.NormalizeEmail(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
}

type Submit struct {
	repo     domain.Repository
	gateway  gateway.Caller
	validate *validators.Validator
	audit    *audit.Dispatcher
}

func NewSubmit(
	repo domain.Repository,
	gw gateway.Caller,
	validate *validators.Validator,
	audit *audit.Dispatcher,
) *Submit {
	return &Submit{
		repo:     repo,
		gateway:  gw,
		validate: validate,
		audit:    audit,
	}
}

// Execute validates the form first; invalid input never reaches the
// network.
func (uc *Submit) Execute(ctx context.Context, in Input) (*models.ContactMessage, error) {
	in = in.trimmed()

	if fe := uc.validate.Struct(in); fe != nil {
		return nil, fe
	}

	if err := uc.gateway.Call(ctx, "contact_submit"); err != nil {
		return nil, err
	}

	msg := &models.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	}
	if err := uc.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorEmail: msg.Email,
		Action:     "contact_submitted",
		Entity:     "contact_message",
		EntityID:   fmt.Sprint(msg.ID),
	})

	return msg, nil
}
