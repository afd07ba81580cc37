package drive

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"stash/internal/config"
	"stash/internal/domain/services"
)

var noSlashes = regexp.MustCompile(`^[^/]+$`)

func validateCreateFolderRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.Match(noSlashes).Error("folder name cannot contain slashes"),
		),
	)
}

func validateCreateFileRequest(req *services.CreateFileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFileNameLength),
			validation.Match(noSlashes).Error("file name cannot contain slashes"),
		),
		validation.Field(&req.ContentRef,
			validation.Length(1, config.MaxContentRefLength),
		),
	)
}

func validateUpdateFolderRequest(req *services.UpdateFolderRequest) error {
	if req.Name == nil && !req.ParentID.Present {
		return fmt.Errorf("at least one field must be provided")
	}

	if req.Name != nil {
		return validation.ValidateStruct(req,
			validation.Field(&req.Name,
				validation.Required,
				validation.Length(1, config.MaxFolderNameLength),
				validation.Match(noSlashes).Error("folder name cannot contain slashes"),
			),
		)
	}

	return nil
}
