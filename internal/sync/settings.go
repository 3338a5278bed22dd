package sync

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/xelth-com/recoverydesk/internal/models"
	"github.com/xelth-com/recoverydesk/internal/storage"
	"github.com/xelth-com/recoverydesk/internal/utils"
	"go.uber.org/zap"
)

// ErrWrongPassword is returned when the current password does not match
var ErrWrongPassword = errors.New("current password is incorrect")

// DefaultCompanyDetails is the letterhead used until the shop saves its own
func DefaultCompanyDetails() models.CompanyDetails {
	return models.CompanyDetails{
		CompanyName: "Swaz Data Recovery Lab",
		Address:     "123 Recovery Street, Tech Park",
		GSTIN:       "29ABCDE1234F1Z5",
		State:       "Karnataka",
		PostalCode:  "560001",
		Phone:       "+91 1234567890",
		Email:       "info@datarecoverylab.com",
		HSNCode:     "998314",
	}
}

// DefaultTermsTemplates returns the stock invoice and estimate terms
func DefaultTermsTemplates(createdAt string) []models.TermsTemplate {
	return []models.TermsTemplate{
		{
			ID:   1,
			Name: "Default Invoice Terms",
			Content: "1. Payment due upon receipt of invoice\n" +
				"2. Accepted payment methods: Cash, Bank Transfer, UPI\n" +
				"3. Late payments subject to 2% monthly interest\n" +
				"4. All disputes subject to local jurisdiction",
			IsDefault: true,
			CreatedAt: createdAt,
		},
		{
			ID:   2,
			Name: "Default Estimate Terms",
			Content: "1. This is an estimate only. Final charges may vary based on actual recovery complexity\n" +
				"2. 50% advance payment required to begin recovery process\n" +
				"3. No data recovery, no charges policy applies\n" +
				"4. Estimate valid for 30 days from date of issue\n" +
				"5. All disputes subject to local jurisdiction",
			IsDefault: true,
			CreatedAt: createdAt,
		},
	}
}

func (u *unit) companyDetails() (models.CompanyDetails, error) {
	raw, ok, err := u.get(storage.KeyCompanyDetails)
	if err != nil {
		return models.CompanyDetails{}, err
	}
	if !ok {
		return DefaultCompanyDetails(), nil
	}
	var c models.CompanyDetails
	if err := json.Unmarshal(raw, &c); err != nil {
		u.e.log.Warn("using default company details", zap.Error(err))
		return DefaultCompanyDetails(), nil
	}
	return c, nil
}

func (u *unit) termsTemplates() ([]models.TermsTemplate, error) {
	_, ok, err := u.get(storage.KeyTermsTemplates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return DefaultTermsTemplates(u.e.timestamp()), nil
	}
	return loadList[models.TermsTemplate](u, storage.KeyTermsTemplates)
}

// GetCompanyDetails returns the saved letterhead or the defaults
func (e *Engine) GetCompanyDetails(ctx context.Context) (models.CompanyDetails, error) {
	var c models.CompanyDetails
	err := e.read(ctx, func(u *unit) error {
		var err error
		c, err = u.companyDetails()
		return err
	})
	return c, err
}

// SaveCompanyDetails validates and stores the letterhead
func (e *Engine) SaveCompanyDetails(ctx context.Context, c models.CompanyDetails) error {
	if err := validateStruct(c); err != nil {
		return err
	}
	err := e.run(ctx, func(u *unit) error {
		return u.put(storage.KeyCompanyDetails, c)
	})
	if err == nil {
		e.log.Info("company details saved", zap.String("company", c.CompanyName))
		e.notify("settings.company")
	}
	return err
}

// GetTermsTemplates returns the saved templates or the two defaults
func (e *Engine) GetTermsTemplates(ctx context.Context) ([]models.TermsTemplate, error) {
	var out []models.TermsTemplate
	err := e.read(ctx, func(u *unit) error {
		var err error
		out, err = u.termsTemplates()
		return err
	})
	return out, err
}

// SaveTermsTemplates replaces the template list. Templates without an id
// get one.
func (e *Engine) SaveTermsTemplates(ctx context.Context, templates []models.TermsTemplate) ([]models.TermsTemplate, error) {
	for _, t := range templates {
		if err := validateStruct(t); err != nil {
			return nil, err
		}
	}
	err := e.run(ctx, func(u *unit) error {
		for i := range templates {
			if templates[i].ID == 0 {
				templates[i].ID = e.ids.Next()
			}
			if templates[i].CreatedAt == "" {
				templates[i].CreatedAt = e.timestamp()
			}
		}
		return u.put(storage.KeyTermsTemplates, templates)
	})
	if err != nil {
		return nil, err
	}
	e.notify("settings.terms")
	return templates, nil
}

// defaultTerms picks the content of the default template whose name
// mentions kind ("Invoice" or "Estimate")
func defaultTerms(templates []models.TermsTemplate, kind string) string {
	for _, t := range templates {
		if t.IsDefault && containsFold(t.Name, kind) {
			return t.Content
		}
	}
	return ""
}

// passwordHash reads the stored hash. Rows written before the value was
// JSON-encoded hold the bare hash and are still accepted.
func (u *unit) passwordHash() (string, bool, error) {
	raw, ok, err := u.get(storage.KeyAuthPassword)
	if err != nil || !ok {
		return "", false, err
	}
	var hash string
	if err := json.Unmarshal(raw, &hash); err != nil {
		return string(raw), true, nil
	}
	return hash, true, nil
}

func (u *unit) putPassword(password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return u.put(storage.KeyAuthPassword, hash)
}

// EnsurePassword stores a hash of def when no password has been set yet.
// def also becomes the password restored by ClearAllData.
func (e *Engine) EnsurePassword(ctx context.Context, def string) error {
	return e.run(ctx, func(u *unit) error {
		if def != "" {
			e.defaultPassword = def
		}
		_, ok, err := u.passwordHash()
		if err != nil || ok {
			return err
		}
		if err := u.putPassword(e.defaultPassword); err != nil {
			return err
		}
		e.log.Info("default password installed")
		return nil
	})
}

// VerifyPassword reports whether password matches the stored hash
func (e *Engine) VerifyPassword(ctx context.Context, password string) (bool, error) {
	var ok bool
	err := e.read(ctx, func(u *unit) error {
		hash, found, err := u.passwordHash()
		if err != nil || !found {
			return err
		}
		ok = utils.CheckPasswordHash(password, hash)
		return nil
	})
	return ok, err
}

// ChangePassword replaces the password after checking the current one
func (e *Engine) ChangePassword(ctx context.Context, current, next string) error {
	if len(next) < 6 {
		return &ValidationError{Fields: []FieldError{{
			Field:   "newPassword",
			Message: "Password must be at least 6 characters",
		}}}
	}
	err := e.run(ctx, func(u *unit) error {
		hash, found, err := u.passwordHash()
		if err != nil {
			return err
		}
		if !found || !utils.CheckPasswordHash(current, hash) {
			return ErrWrongPassword
		}
		return u.putPassword(next)
	})
	if err == nil {
		e.log.Info("password changed")
	}
	return err
}
