// Package dto provides data transfer objects for the pad HTTP surface.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/thorsten-l/l9g-accountinfo/internal/validation"
)

// CreatePadRequest contains the parameters for registering a new pad.
type CreatePadRequest struct {
	Name string `json:"name" binding:"required"`
}

// Validate checks if the create pad request is valid.
func (r *CreatePadRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 255),
		),
	)
}

// UploadFileRequest contains the multipart form fields accompanying an
// identity document upload. The file itself is read from the "file" part.
type UploadFileRequest struct {
	Side string `form:"side"`
	Name string `form:"name"`
	Mail string `form:"mail"`
}

// Validate checks if the upload file request is valid.
func (r *UploadFileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Side,
			validation.Required,
			validation.In("front", "back"),
		),
		validation.Field(&r.Name,
			customValidation.NotBlank,
		),
		validation.Field(&r.Mail,
			customValidation.Email,
		),
	)
}
