package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/homefix/internal/audit"
	"github.com/BruksfildServices01/homefix/internal/domain/account"
	"github.com/BruksfildServices01/homefix/internal/models"
	"github.com/BruksfildServices01/homefix/internal/validators"
)

type RegisterInput struct {
	Name     string `json:"name" form:"name" validate:"notblank,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	Phone    string `json:"phone" form:"phone" validate:"max=20"`
	Role     string `json:"role" form:"role" validate:"required,oneof=customer technician"`
}

// Register creates an account and signs the new user in.
type Register struct {
	accounts account.Repository
	login    *Login
	validate *validators.Validator
	audit    *audit.Dispatcher

	domainCheck func(email string) bool
}

func NewRegister(
	accounts account.Repository,
	login *Login,
	validate *validators.Validator,
	audit *audit.Dispatcher,
) *Register {
	return &Register{
		accounts: accounts,
		login:    login,
		validate: validate,
		audit:    audit,
	}
}

// WithDomainCheck enables a lookup of the email domain before the
// account is created.
func (uc *Register) WithDomainCheck(check func(email string) bool) *Register {
	uc.domainCheck = check
	return uc
}

func (uc *Register) Execute(ctx context.Context, in RegisterInput, previousSID string) (*LoginResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = validators.NormalizeEmail(in.Email)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))

	if fe := uc.validate.Struct(in); fe != nil {
		return nil, fe
	}
	if uc.domainCheck != nil && !uc.domainCheck(in.Email) {
		return nil, validators.FieldErrors{"email": "The email domain does not seem to exist"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acct := &models.Account{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashed),
		Phone:        in.Phone,
		Role:         in.Role,
	}
	if err := uc.accounts.Create(ctx, acct); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorEmail: acct.Email,
		ActorRole:  acct.Role,
		Action:     "account_registered",
		Entity:     "account",
		EntityID:   fmt.Sprint(acct.ID),
	})

	return uc.login.Execute(ctx, LoginInput{
		Email:       in.Email,
		Password:    in.Password,
		Role:        in.Role,
		PreviousSID: previousSID,
	})
}
