package card

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

var (
	ErrCompanyNameRequired = errors.New("company name is required")
	ErrNameTooLong         = errors.New("name must be at most 200 characters")
)

const (
	maxFieldLength = 200
	fallbackSlug   = "card"
)

// Card is the business-card record tokens are bound to.
// Display fields are opaque to issuance and redemption.
type Card struct {
	id          uuid.UUID
	name        string
	companyName string
	phone       *string
	viewCount   int64
	createdAt   time.Time
}

func NewCard(name, companyName string, phone *string, now time.Time) (*Card, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return nil, ErrCompanyNameRequired
	}
	if len(name) > maxFieldLength || len(companyName) > maxFieldLength {
		return nil, ErrNameTooLong
	}
	return &Card{
		id:          uuid.New(),
		name:        strings.TrimSpace(name),
		companyName: companyName,
		phone:       phone,
		createdAt:   now,
	}, nil
}

func Reconstruct(id uuid.UUID, name, companyName string, phone *string, viewCount int64, createdAt time.Time) *Card {
	return &Card{
		id:          id,
		name:        name,
		companyName: companyName,
		phone:       phone,
		viewCount:   viewCount,
		createdAt:   createdAt,
	}
}

func (c *Card) ID() uuid.UUID        { return c.id }
func (c *Card) Name() string         { return c.name }
func (c *Card) CompanyName() string  { return c.companyName }
func (c *Card) Phone() *string       { return c.phone }
func (c *Card) ViewCount() int64     { return c.viewCount }
func (c *Card) CreatedAt() time.Time { return c.createdAt }

// ExportSlug is the file-system safe company name used for export paths.
func (c *Card) ExportSlug() string {
	return Slug(c.companyName)
}

// Slug keeps letters, digits, spaces, '-' and '_', trims the result and
// replaces spaces with underscores. An empty result falls back to "card".
func Slug(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	slug := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	if slug == "" {
		return fallbackSlug
	}
	return slug
}
