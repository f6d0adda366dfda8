package request

import (
	"strings"

	"qrcard/internal/usecase/commands"
)

type CreateCardRequest struct {
	Name        string  `json:"name" binding:"max=200"`
	CompanyName string  `json:"company_name" binding:"required,max=200"`
	Phone       *string `json:"phone,omitempty" binding:"omitempty,max=50"`
}

func (r *CreateCardRequest) ToCommand() commands.CreateCardRequest {
	var phone *string
	if r.Phone != nil {
		if trimmed := strings.TrimSpace(*r.Phone); trimmed != "" {
			phone = &trimmed
		}
	}
	return commands.CreateCardRequest{
		Name:        strings.TrimSpace(r.Name),
		CompanyName: strings.TrimSpace(r.CompanyName),
		Phone:       phone,
	}
}
